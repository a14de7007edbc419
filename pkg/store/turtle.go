package store

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrefixMapping associates a short prefix label with its full namespace URI.
type PrefixMapping struct {
	Prefix    string
	Namespace string
}

// TurtleSerializer writes a TripleStore as Turtle. Subjects appear in the
// order they were first added, with rdf:type first in each block.
type TurtleSerializer struct {
	prefixMappings []PrefixMapping
	namespaceIndex map[string]string // namespace -> prefix
}

// TurtleOption is a functional option for configuring the TurtleSerializer.
type TurtleOption func(*TurtleSerializer)

// NewTurtleSerializer creates a TurtleSerializer. The document namespace is
// bound to the empty prefix.
func NewTurtleSerializer(options ...TurtleOption) *TurtleSerializer {
	serializer := &TurtleSerializer{
		prefixMappings: []PrefixMapping{
			{Prefix: "", Namespace: NamespaceDocument},
			{Prefix: "rdf", Namespace: NamespaceRDF},
			{Prefix: "rdfs", Namespace: NamespaceRDFS},
			{Prefix: "xsd", Namespace: NamespaceXSD},
		},
	}

	for _, option := range options {
		option(serializer)
	}

	serializer.namespaceIndex = make(map[string]string, len(serializer.prefixMappings))
	for _, mapping := range serializer.prefixMappings {
		serializer.namespaceIndex[mapping.Namespace] = mapping.Prefix
	}
	return serializer
}

// WithPrefix adds a prefix mapping.
func WithPrefix(prefix, namespace string) TurtleOption {
	return func(serializer *TurtleSerializer) {
		serializer.prefixMappings = append(serializer.prefixMappings, PrefixMapping{
			Prefix:    prefix,
			Namespace: namespace,
		})
	}
}

// Write streams the Turtle form of the store to w.
func (serializer *TurtleSerializer) Write(w io.Writer, store *TripleStore) error {
	var builder strings.Builder

	prefixes := make([]PrefixMapping, len(serializer.prefixMappings))
	copy(prefixes, serializer.prefixMappings)
	sort.SliceStable(prefixes, func(i, j int) bool {
		return prefixes[i].Prefix < prefixes[j].Prefix
	})
	for _, mapping := range prefixes {
		fmt.Fprintf(&builder, "@prefix %s: <%s> .\n", mapping.Prefix, mapping.Namespace)
	}

	for _, subject := range store.Subjects() {
		builder.WriteString("\n")
		serializer.writeSubject(&builder, subject, store.Find(subject, "", ""))
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

func (serializer *TurtleSerializer) writeSubject(builder *strings.Builder, subject string, triples []Triple) {
	var predicates []string
	objects := make(map[string][]string)
	for _, triple := range triples {
		if _, ok := objects[triple.Predicate]; !ok {
			predicates = append(predicates, triple.Predicate)
		}
		objects[triple.Predicate] = append(objects[triple.Predicate], triple.Object)
	}
	sort.SliceStable(predicates, func(i, j int) bool {
		return predicates[i] == RDFType && predicates[j] != RDFType
	})

	builder.WriteString(serializer.formatResource(subject))
	for i, predicate := range predicates {
		if i == 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(" ;\n    ")
		}
		builder.WriteString(serializer.formatPredicate(predicate))

		for j, object := range objects[predicate] {
			if j > 0 {
				builder.WriteString(" ,\n        ")
			} else {
				builder.WriteString(" ")
			}
			builder.WriteString(serializer.formatObject(predicate, object))
		}
	}
	builder.WriteString(" .\n")
}

func (serializer *TurtleSerializer) formatResource(value string) string {
	if isFullURI(value) {
		if compacted, ok := serializer.compactURI(value); ok {
			return compacted
		}
		return "<" + escapeIRI(value) + ">"
	}
	return value
}

// formatPredicate uses the "a" shorthand for rdf:type.
func (serializer *TurtleSerializer) formatPredicate(predicate string) string {
	if predicate == RDFType {
		return "a"
	}
	return serializer.formatResource(predicate)
}

// formatObject writes labels and comments as literals and everything else
// as a resource.
func (serializer *TurtleSerializer) formatObject(predicate, value string) string {
	if predicate == RDFSLabel || predicate == RDFSComment {
		return formatLiteral(value)
	}
	if isFullURI(value) || isPrefixedName(value) {
		return serializer.formatResource(value)
	}
	return formatLiteral(value)
}

// compactURI replaces the longest matching namespace with its prefix.
func (serializer *TurtleSerializer) compactURI(fullURI string) (string, bool) {
	bestNamespace := ""
	for namespace := range serializer.namespaceIndex {
		if strings.HasPrefix(fullURI, namespace) && len(namespace) > len(bestNamespace) &&
			isValidLocalName(fullURI[len(namespace):]) {
			bestNamespace = namespace
		}
	}
	if bestNamespace == "" {
		return "", false
	}
	return serializer.namespaceIndex[bestNamespace] + ":" + fullURI[len(bestNamespace):], true
}

func isFullURI(value string) bool {
	return strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://") ||
		strings.HasPrefix(value, "file://") ||
		strings.HasPrefix(value, "urn:")
}

// isPrefixedName checks for the rdf:/rdfs:/xsd: forms the store uses.
func isPrefixedName(value string) bool {
	for _, prefix := range []string{"rdf:", "rdfs:", "xsd:"} {
		if strings.HasPrefix(value, prefix) && isValidLocalName(value[len(prefix):]) {
			return true
		}
	}
	return false
}

func isValidLocalName(localName string) bool {
	if localName == "" {
		return false
	}
	return !strings.ContainsAny(localName, " \t\n\r<>\"{}|^`\\/#")
}

// formatLiteral wraps a string in Turtle double quotes.
func formatLiteral(value string) string {
	var builder strings.Builder
	builder.Grow(len(value) + 2)
	builder.WriteByte('"')
	for _, char := range value {
		switch char {
		case '\\':
			builder.WriteString(`\\`)
		case '"':
			builder.WriteString(`\"`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			builder.WriteRune(char)
		}
	}
	builder.WriteByte('"')
	return builder.String()
}

// escapeIRI escapes characters not allowed in IRIs within angle brackets.
func escapeIRI(iri string) string {
	replacer := strings.NewReplacer(
		"<", `\u003C`,
		">", `\u003E`,
		`"`, `\u0022`,
		" ", `\u0020`,
		"{", `\u007B`,
		"}", `\u007D`,
	)
	return replacer.Replace(iri)
}
