package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Triple represents an RDF Subject-Predicate-Object triple.
// In the requirement ontology:
//   - Subject: a class, property or value IRI (e.g., "file://document#FontName")
//   - Predicate: "rdf:type", "rdfs:subClassOf", "rdfs:label" or applicableTo
//   - Object: another IRI or a label literal
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// NewTriple creates a new triple with the given components.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// String returns a human-readable representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, t.Object)
}

// NTriples returns the triple in N-Triples format. Prefixed predicates are
// expanded; objects that are not IRIs are written as literals.
func (t Triple) NTriples() string {
	return fmt.Sprintf("<%s> <%s> %s .", expandTerm(t.Subject), expandTerm(t.Predicate), ntriplesObject(t.Object))
}

// IsValid returns true if all components are non-empty.
func (t Triple) IsValid() bool {
	return t.Subject != "" && t.Predicate != "" && t.Object != ""
}

// TriplePattern represents a pattern for matching triples.
// Empty strings act as wildcards that match any value.
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string
}

// NewTriplePattern creates a new pattern for querying.
// Use empty string "" for wildcards.
func NewTriplePattern(subject, predicate, object string) TriplePattern {
	return TriplePattern{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// expandTerm turns the stored rdf:/rdfs:/xsd: prefixed names into full IRIs.
func expandTerm(term string) string {
	for prefix, namespace := range map[string]string{
		"rdf:":  NamespaceRDF,
		"rdfs:": NamespaceRDFS,
		"xsd:":  NamespaceXSD,
	} {
		if strings.HasPrefix(term, prefix) {
			return namespace + term[len(prefix):]
		}
	}
	return term
}

func ntriplesObject(object string) string {
	expanded := expandTerm(object)
	if isFullURI(expanded) {
		return "<" + expanded + ">"
	}
	return strconv.Quote(object)
}
