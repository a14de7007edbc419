package ontology

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/coolbeans/norma/pkg/store"
)

const testOntology = `
classes:
  - id: FontProperty
    parent: DecorationProperty
  - id: SizeProperty
    parent: FontProperty
properties:
  - id: Font
    types: [FontProperty, EnumProperty]
    labels: [шрифт]
  - id: FontSize
    types: [SizeProperty, QuantitativeProperty]
    labels: [кегл]
  - id: Mixed
    types: [DecorationProperty, LabeledProperty, EnumProperty]
    labels: [смеш]
values:
  - id: Times
    labels: [times new roman]
    applicable_to: [Font]
  - id: Arial
    labels: [arial]
    applicable_to: [Font]
  - id: Points
    labels: [пт]
    applicable_to: [FontSize]
`

func mustParse(t *testing.T, data string) *KnowledgeBase {
	t.Helper()
	kb, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return kb
}

func TestDefaultOntology(t *testing.T) {
	kb, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	for _, category := range Categories {
		if len(kb.PropertiesOf(category)) == 0 {
			t.Errorf("category %s has no properties", category)
		}
	}
	if got := kb.Kind("KeywordCount"); got != KindQuantitative {
		t.Errorf("Kind(KeywordCount) = %v, want QuantitativeProperty", got)
	}
	values, err := kb.ApplicableValues(context.Background(), "KeywordCount")
	if err != nil {
		t.Fatalf("ApplicableValues() error = %v", err)
	}
	if len(values) != 2 || values[0].ID != "AtLeast" || values[1].ID != "AtMost" {
		t.Errorf("ApplicableValues(KeywordCount) = %+v", values)
	}

	// Regex labels survive YAML decoding verbatim.
	labels := []struct {
		id   string
		want []string
	}{
		{"Margins", []string{"пол[еяю]", "margin"}},
		{"ColorImages", []string{"цветн", "colou?r"}},
		{"ArticleVolume", []string{"объ[её]м", "length"}},
		{"FirstLineIndent", []string{"абзацн", "красн[а-я]* строк", "first line"}},
	}
	for _, tt := range labels {
		if got := kb.Labels(tt.id); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Labels(%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestMustDefault(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustDefault() panicked: %v", r)
		}
	}()
	if MustDefault().Store().Count() == 0 {
		t.Error("default ontology has no triples")
	}
}

func TestKindResolution(t *testing.T) {
	kb := mustParse(t, testOntology)

	tests := []struct {
		id   string
		want Kind
	}{
		{"Font", KindEnum},
		{"FontSize", KindQuantitative},
		{"Mixed", KindEnum},
		{"Times", KindNone},
		{"Missing", KindNone},
	}
	for _, tt := range tests {
		if got := kb.Kind(tt.id); got != tt.want {
			t.Errorf("Kind(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}

	if KindMinOnly.String() != "MinProperty" || Kind(99).String() != "None" {
		t.Error("Kind.String mismatch")
	}
}

func TestHierarchyLookups(t *testing.T) {
	kb := mustParse(t, testOntology)

	if got := kb.ChildrenOf("DecorationProperty"); !reflect.DeepEqual(got, []string{"FontProperty"}) {
		t.Errorf("ChildrenOf(DecorationProperty) = %v", got)
	}
	if got := kb.InstancesOf("FontProperty"); !reflect.DeepEqual(got, []string{"Font"}) {
		t.Errorf("InstancesOf(FontProperty) = %v", got)
	}
	if got := kb.ParentsOf("FontSize"); !reflect.DeepEqual(got, []string{"SizeProperty", "QuantitativeProperty"}) {
		t.Errorf("ParentsOf(FontSize) = %v", got)
	}
	if got := kb.Labels("Points"); !reflect.DeepEqual(got, []string{"пт"}) {
		t.Errorf("Labels(Points) = %v", got)
	}
}

func TestPropertiesOfBreadthFirst(t *testing.T) {
	kb := mustParse(t, testOntology)

	var ids []string
	for _, prop := range kb.PropertiesOf("DecorationProperty") {
		ids = append(ids, prop.ID)
	}
	// Direct instances first, then one generation down per level.
	want := []string{"Mixed", "Font", "FontSize"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("PropertiesOf(DecorationProperty) = %v, want %v", ids, want)
	}

	if got := kb.PropertiesOf("VolumeProperty"); len(got) != 0 {
		t.Errorf("PropertiesOf(VolumeProperty) = %v, want none", got)
	}
}

func TestApplicableValues(t *testing.T) {
	kb := mustParse(t, testOntology)
	ctx := context.Background()

	values, err := kb.ApplicableValues(ctx, "Font")
	if err != nil {
		t.Fatalf("ApplicableValues() error = %v", err)
	}
	want := []Value{
		{ID: "Times", Labels: []string{"times new roman"}},
		{ID: "Arial", Labels: []string{"arial"}},
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("ApplicableValues(Font) = %+v, want %+v", values, want)
	}

	values, err = kb.ApplicableValues(ctx, "Mixed")
	if err != nil || len(values) != 0 {
		t.Errorf("ApplicableValues(Mixed) = %+v, %v", values, err)
	}

	if _, err := kb.ApplicableValues(ctx, "bad id"); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		unknown bool
	}{
		{
			name:    "unknown parent",
			data:    "classes:\n  - id: A\n    parent: Nope\n",
			want:    "classes[0].parent",
			unknown: true,
		},
		{
			name:    "unknown type",
			data:    "properties:\n  - id: P\n    types: [Nope]\n    labels: [p]\n",
			want:    "properties[0].types",
			unknown: true,
		},
		{
			name:    "unknown property",
			data:    "values:\n  - id: V\n    labels: [v]\n    applicable_to: [Nope]\n",
			want:    "values[0].applicable_to",
			unknown: true,
		},
		{
			name: "invalid id",
			data: "classes:\n  - id: \"a.b\"\n",
			want: "invalid id",
		},
		{
			name: "missing labels",
			data: "properties:\n  - id: P\n    types: [EnumProperty]\n",
			want: "at least one label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
			if got := errors.Is(err, ErrUnknownClass); got != tt.unknown {
				t.Errorf("errors.Is(ErrUnknownClass) = %v, want %v", got, tt.unknown)
			}
		})
	}

	if _, err := Parse([]byte("classes: [")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontology.yaml")
	if err := os.WriteFile(path, []byte(testOntology), 0o644); err != nil {
		t.Fatal(err)
	}

	kb, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if _, ok := kb.Property("Font"); !ok {
		t.Error("Property(Font) not found")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestQueryAndExport(t *testing.T) {
	kb := mustParse(t, testOntology)

	result, err := kb.Query(context.Background(),
		`PREFIX : <file://document#> SELECT ?p WHERE { ?p a :EnumProperty }`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Count != 2 {
		t.Errorf("Query() Count = %d, want 2", result.Count)
	}

	var sb strings.Builder
	if err := kb.Export(&sb, FormatTurtle); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"@prefix : <file://document#> .",
		":Font a :FontProperty ,\n        :EnumProperty",
		`rdfs:label "шрифт"`,
		":applicableTo :Font",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Export() missing %q:\n%s", want, out)
		}
	}
}

func TestExportFormats(t *testing.T) {
	kb := mustParse(t, testOntology)

	var nt strings.Builder
	if err := kb.Export(&nt, FormatNTriples); err != nil {
		t.Fatalf("Export(ntriples) error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(nt.String(), "\n"), "\n")
	if len(lines) != kb.Store().Count() {
		t.Errorf("Export(ntriples) wrote %d lines, want %d", len(lines), kb.Store().Count())
	}
	for _, want := range []string{
		`<file://document#Font> <http://www.w3.org/2000/01/rdf-schema#label> "шрифт" .`,
		`<file://document#Times> <file://document#applicableTo> <file://document#Font> .`,
	} {
		if !strings.Contains(nt.String(), want) {
			t.Errorf("Export(ntriples) missing %q", want)
		}
	}

	var ttl strings.Builder
	prefix := store.PrefixMapping{Prefix: "ex", Namespace: "http://example.org/"}
	if err := kb.Export(&ttl, FormatTurtle, prefix); err != nil {
		t.Fatalf("Export(turtle) error = %v", err)
	}
	if !strings.Contains(ttl.String(), "@prefix ex: <http://example.org/> .") {
		t.Errorf("Export(turtle) missing extra prefix:\n%s", ttl.String())
	}

	if err := kb.Export(&strings.Builder{}, "rdfxml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
