package ontology

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coolbeans/norma/pkg/query"
	"github.com/coolbeans/norma/pkg/store"
)

// Property is a requirement property with its kind resolved.
type Property struct {
	ID     string
	Labels []string
	Types  []string
	Kind   Kind
}

// Value is a candidate value of a property.
type Value struct {
	ID     string
	Labels []string
}

// KnowledgeBase answers class, instance and label lookups over the ontology
// graph. IDs are local names in the document namespace.
type KnowledgeBase struct {
	store    *store.TripleStore
	executor *query.Executor
	kinds    map[string]Kind
}

func newKnowledgeBase(ts *store.TripleStore) *KnowledgeBase {
	kb := &KnowledgeBase{
		store:    ts,
		executor: query.NewExecutor(ts),
		kinds:    make(map[string]Kind),
	}
	// Kinds are resolved once so dispatch never queries the graph for them.
	for _, subject := range ts.Subjects() {
		if kind := resolveKind(ts.Objects(subject, store.RDFType)); kind != KindNone {
			kb.kinds[store.LocalName(subject)] = kind
		}
	}
	return kb
}

// Store exposes the underlying triple store.
func (kb *KnowledgeBase) Store() *store.TripleStore {
	return kb.store
}

// ChildrenOf returns the direct subclasses of a class.
func (kb *KnowledgeBase) ChildrenOf(class string) []string {
	return localNames(kb.store.SubjectsOf(store.RDFSSubClassOf, store.DocumentIRI(class)))
}

// InstancesOf returns the properties typed directly with class.
func (kb *KnowledgeBase) InstancesOf(class string) []string {
	return localNames(kb.store.SubjectsOf(store.RDFType, store.DocumentIRI(class)))
}

// ParentsOf returns the direct types of an instance.
func (kb *KnowledgeBase) ParentsOf(instance string) []string {
	return localNames(kb.store.Objects(store.DocumentIRI(instance), store.RDFType))
}

// Labels returns the labels of a class, property or value.
func (kb *KnowledgeBase) Labels(id string) []string {
	return kb.store.Objects(store.DocumentIRI(id), store.RDFSLabel)
}

// Kind returns the resolved kind of a property.
func (kb *KnowledgeBase) Kind(id string) Kind {
	return kb.kinds[id]
}

// Property returns a property by ID.
func (kb *KnowledgeBase) Property(id string) (Property, bool) {
	types := kb.ParentsOf(id)
	if len(types) == 0 {
		return Property{}, false
	}
	return Property{
		ID:     id,
		Labels: kb.Labels(id),
		Types:  types,
		Kind:   kb.kinds[id],
	}, true
}

// PropertiesOf collects the instances of category and of every descendant
// class, breadth first. Each property appears once.
func (kb *KnowledgeBase) PropertiesOf(category string) []Property {
	var properties []Property
	seen := make(map[string]bool)
	visited := map[string]bool{category: true}

	generation := []string{category}
	for len(generation) > 0 {
		var next []string
		for _, class := range generation {
			for _, id := range kb.InstancesOf(class) {
				if seen[id] {
					continue
				}
				seen[id] = true
				if prop, ok := kb.Property(id); ok {
					properties = append(properties, prop)
				}
			}
			for _, child := range kb.ChildrenOf(class) {
				if !visited[child] {
					visited[child] = true
					next = append(next, child)
				}
			}
		}
		generation = next
	}
	return properties
}

// ApplicableValues returns the candidate values linked to a property, in
// declaration order. Every call runs the query against the graph.
func (kb *KnowledgeBase) ApplicableValues(ctx context.Context, property string) ([]Value, error) {
	if !identifierPattern.MatchString(property) {
		return nil, fmt.Errorf("invalid property id %q", property)
	}

	request := fmt.Sprintf("PREFIX : <%s> SELECT ?x WHERE { ?x :applicableTo :%s }",
		store.NamespaceDocument, property)
	result, err := kb.executor.ExecuteStringWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("applicable values of %s: %w", property, err)
	}

	values := make([]Value, 0, result.Count)
	for _, iri := range result.Column("x") {
		id := store.LocalName(iri)
		values = append(values, Value{ID: id, Labels: kb.Labels(id)})
	}
	return values, nil
}

// Query runs a SPARQL SELECT query against the graph.
func (kb *KnowledgeBase) Query(ctx context.Context, sparql string) (*query.QueryResult, error) {
	return kb.executor.ExecuteStringWithContext(ctx, sparql)
}

// ExportFormat selects the serialization written by Export.
type ExportFormat string

// Export formats.
const (
	FormatTurtle   ExportFormat = "turtle"
	FormatNTriples ExportFormat = "ntriples"
)

// Export writes the graph in the given format. Extra prefixes are declared
// in Turtle output and ignored by N-Triples.
func (kb *KnowledgeBase) Export(w io.Writer, format ExportFormat, prefixes ...store.PrefixMapping) error {
	switch format {
	case FormatTurtle, "":
		options := make([]store.TurtleOption, 0, len(prefixes))
		for _, p := range prefixes {
			options = append(options, store.WithPrefix(p.Prefix, p.Namespace))
		}
		return store.NewTurtleSerializer(options...).Write(w, kb.store)
	case FormatNTriples:
		var builder strings.Builder
		for _, triple := range kb.store.All() {
			builder.WriteString(triple.NTriples())
			builder.WriteByte('\n')
		}
		_, err := io.WriteString(w, builder.String())
		return err
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func localNames(iris []string) []string {
	names := make([]string, len(iris))
	for i, iri := range iris {
		names[i] = store.LocalName(iri)
	}
	return names
}
