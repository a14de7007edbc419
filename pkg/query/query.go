// Package query implements the SPARQL SELECT subset used to read the
// requirement ontology: basic graph patterns, PREFIX declarations (including
// the empty prefix), FILTER, DISTINCT, ORDER BY, LIMIT and OFFSET.
package query

// Query represents a parsed SPARQL query.
type Query struct {
	Type   QueryType
	Select *SelectQuery
}

// QueryType represents the type of SPARQL query.
type QueryType string

// SelectQueryType is the only supported query type.
const SelectQueryType QueryType = "SELECT"

// SelectQuery represents a parsed SELECT query.
type SelectQuery struct {
	Variables []string          // Variables to select (e.g., ["?x"]) or ["*"]
	Distinct  bool              // DISTINCT modifier
	Where     []TriplePattern   // WHERE clause triple patterns, prefixes expanded
	Filters   []Filter          // FILTER clauses
	OrderBy   []OrderBy         // ORDER BY clauses
	Limit     int               // LIMIT (0 = no limit)
	Offset    int               // OFFSET (0 = no offset)
	Prefixes  map[string]string // Prefix declarations; "" is the empty prefix
}

// TriplePattern represents a triple pattern in a WHERE clause.
type TriplePattern struct {
	Subject   string // variable (?x), IRI (<iri>), prefixed name (rdf:type) or literal
	Predicate string
	Object    string
}

// Filter represents a FILTER clause.
type Filter struct {
	Expression string // e.g. CONTAINS(?label, "шрифт")
}

// OrderBy represents an ORDER BY clause.
type OrderBy struct {
	Variable   string
	Descending bool
}

// IsVariable checks if a string is a SPARQL variable.
func IsVariable(s string) bool {
	return len(s) > 1 && s[0] == '?'
}

// IsURI checks if a string is an IRI reference in angle brackets.
// Empty IRIs (<>) are not considered valid.
func IsURI(s string) bool {
	return len(s) > 2 && s[0] == '<' && s[len(s)-1] == '>'
}

// IsLiteral checks if a string is a quoted literal.
func IsLiteral(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// StripVariable removes the ? prefix from a variable.
func StripVariable(s string) string {
	if IsVariable(s) {
		return s[1:]
	}
	return s
}

// StripURI removes the < > brackets from an IRI.
func StripURI(s string) string {
	if IsURI(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// StripLiteral removes the quotes from a literal.
func StripLiteral(s string) string {
	if IsLiteral(s) {
		return s[1 : len(s)-1]
	}
	return s
}
