package query

import (
	"strings"
	"testing"
)

func TestParseQuery_SimpleSelect(t *testing.T) {
	query, err := ParseQuery(`SELECT ?prop WHERE { ?prop rdf:type <file://document#EnumProperty> }`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	if query.Type != SelectQueryType {
		t.Errorf("Type = %v, want SELECT", query.Type)
	}
	sel := query.Select
	if len(sel.Variables) != 1 || sel.Variables[0] != "?prop" {
		t.Errorf("Variables = %v, want [?prop]", sel.Variables)
	}
	if len(sel.Where) != 1 {
		t.Fatalf("Where has %d patterns, want 1", len(sel.Where))
	}

	want := TriplePattern{
		Subject:   "?prop",
		Predicate: "rdf:type",
		Object:    "<file://document#EnumProperty>",
	}
	if sel.Where[0] != want {
		t.Errorf("pattern = %+v, want %+v", sel.Where[0], want)
	}
}

func TestParseQuery_EmptyPrefix(t *testing.T) {
	query, err := ParseQuery(`PREFIX : <file://document#>
SELECT ?x WHERE { ?x :applicableTo :Alignment }`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	sel := query.Select
	if sel.Prefixes[""] != "file://document#" {
		t.Errorf("empty prefix = %q", sel.Prefixes[""])
	}
	want := TriplePattern{
		Subject:   "?x",
		Predicate: "<file://document#applicableTo>",
		Object:    "<file://document#Alignment>",
	}
	if len(sel.Where) != 1 || sel.Where[0] != want {
		t.Errorf("Where = %+v, want [%+v]", sel.Where, want)
	}
}

func TestParseQuery_Modifiers(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		distinct bool
		limit    int
		offset   int
		orderBy  []OrderBy
	}{
		{
			name:     "distinct",
			query:    `SELECT DISTINCT ?x WHERE { ?x rdfs:subClassOf ?y }`,
			distinct: true,
		},
		{
			name:  "limit",
			query: `SELECT ?x WHERE { ?x rdfs:subClassOf ?y } LIMIT 10`,
			limit: 10,
		},
		{
			name:   "limit and offset",
			query:  `SELECT ?x WHERE { ?x rdfs:subClassOf ?y } LIMIT 5 OFFSET 2`,
			limit:  5,
			offset: 2,
		},
		{
			name:    "order by variable",
			query:   `SELECT ?x WHERE { ?x rdfs:label ?l } ORDER BY ?l`,
			orderBy: []OrderBy{{Variable: "?l"}},
		},
		{
			name:    "order by desc",
			query:   `SELECT ?x WHERE { ?x rdfs:label ?l } ORDER BY DESC(?l) ASC(?x)`,
			orderBy: []OrderBy{{Variable: "?l", Descending: true}, {Variable: "?x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery() error = %v", err)
			}
			sel := query.Select
			if sel.Distinct != tt.distinct {
				t.Errorf("Distinct = %v, want %v", sel.Distinct, tt.distinct)
			}
			if sel.Limit != tt.limit {
				t.Errorf("Limit = %d, want %d", sel.Limit, tt.limit)
			}
			if sel.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", sel.Offset, tt.offset)
			}
			if len(sel.OrderBy) != len(tt.orderBy) {
				t.Fatalf("OrderBy = %+v, want %+v", sel.OrderBy, tt.orderBy)
			}
			for i := range tt.orderBy {
				if sel.OrderBy[i] != tt.orderBy[i] {
					t.Errorf("OrderBy[%d] = %+v, want %+v", i, sel.OrderBy[i], tt.orderBy[i])
				}
			}
		})
	}
}

func TestParseQuery_Filters(t *testing.T) {
	query, err := ParseQuery(`SELECT ?x ?l WHERE {
		?x rdfs:label ?l .
		FILTER(CONTAINS(STR(?l), "шрифт"))
		FILTER(?x != "a")
	}`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	sel := query.Select
	if len(sel.Filters) != 2 {
		t.Fatalf("Filters = %+v, want 2", sel.Filters)
	}
	if sel.Filters[0].Expression != `CONTAINS(STR(?l), "шрифт")` {
		t.Errorf("Filters[0] = %q", sel.Filters[0].Expression)
	}
	if len(sel.Where) != 1 {
		t.Errorf("Where = %+v, want 1 pattern", sel.Where)
	}
}

func TestParseQuery_MultiplePatterns(t *testing.T) {
	query, err := ParseQuery(`PREFIX : <file://document#>
SELECT ?x ?l WHERE {
	?x a :EnumProperty ;
	   rdfs:label ?l .
	?v :applicableTo ?x .
}`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	want := []TriplePattern{
		{"?x", "rdf:type", "<file://document#EnumProperty>"},
		{"?x", "rdfs:label", "?l"},
		{"?v", "<file://document#applicableTo>", "?x"},
	}
	got := query.Select.Where
	if len(got) != len(want) {
		t.Fatalf("Where = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Where[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseQuery_LiteralObject(t *testing.T) {
	query, err := ParseQuery(`SELECT ?x WHERE { ?x rdfs:label "межстрочный интервал" }`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	if obj := query.Select.Where[0].Object; obj != `"межстрочный интервал"` {
		t.Errorf("Object = %q", obj)
	}
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", "empty query"},
		{"not select", "ASK { ?x ?y ?z }", "unsupported query type"},
		{"no where", "SELECT ?x", "missing WHERE"},
		{"no variables", "SELECT x WHERE { ?x ?y ?z }", "no variables"},
		{"no braces", "SELECT ?x WHERE ?x ?y ?z", "missing braces"},
		{"incomplete pattern", "SELECT ?x WHERE { ?x rdf:type }", "incomplete triple pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.query)
			if err == nil {
				t.Fatalf("ParseQuery(%q) expected error", tt.query)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestTermHelpers(t *testing.T) {
	if !IsVariable("?x") || IsVariable("?") || IsVariable("x") {
		t.Error("IsVariable mismatch")
	}
	if !IsURI("<a>") || IsURI("<>") || IsURI("a") {
		t.Error("IsURI mismatch")
	}
	if !IsLiteral(`"a"`) || !IsLiteral(`""`) || IsLiteral(`"a`) {
		t.Error("IsLiteral mismatch")
	}
	if StripVariable("?x") != "x" || StripURI("<a>") != "a" || StripLiteral(`"a"`) != "a" {
		t.Error("strip helpers mismatch")
	}
}

func TestQuery_Validate(t *testing.T) {
	query, err := ParseQuery(`SELECT ?x ?missing WHERE { ?x rdfs:label ?l }`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	errs := query.Validate()
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "?missing") {
		t.Errorf("Validate() = %v, want one error about ?missing", errs)
	}

	query, _ = ParseQuery(`SELECT * WHERE { ?x rdfs:label ?l }`)
	if errs := query.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want none", errs)
	}
}

func TestSelectQuery_String(t *testing.T) {
	query, err := ParseQuery(`PREFIX : <file://document#>
SELECT DISTINCT ?x WHERE { ?x :applicableTo :Font } ORDER BY DESC(?x) LIMIT 3`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	got := query.Select.String()
	for _, want := range []string{
		"SELECT DISTINCT ?x WHERE {",
		"?x <file://document#applicableTo> <file://document#Font> .",
		"ORDER BY DESC(?x)",
		"LIMIT 3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}

	reparsed, err := ParseQuery(got)
	if err != nil {
		t.Fatalf("reparse error = %v", err)
	}
	if reparsed.Select.Where[0] != query.Select.Where[0] {
		t.Errorf("reparsed pattern = %+v, want %+v", reparsed.Select.Where[0], query.Select.Where[0])
	}
}
