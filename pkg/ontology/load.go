package ontology

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/norma/pkg/store"
)

//go:embed default.yaml
var defaultOntology []byte

// ErrUnknownClass is returned when a definition refers to an undeclared class
// or property.
var ErrUnknownClass = errors.New("unknown class")

// identifierPattern keeps IDs usable as prefixed names in queries.
var identifierPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_-]*$`)

// File is the YAML form of a knowledge base.
type File struct {
	Classes    []ClassDef    `yaml:"classes"`
	Properties []PropertyDef `yaml:"properties"`
	Values     []ValueDef    `yaml:"values"`
}

// ClassDef declares a property class. Parent is empty for a root class.
type ClassDef struct {
	ID     string   `yaml:"id"`
	Parent string   `yaml:"parent,omitempty"`
	Labels []string `yaml:"labels,omitempty"`
}

// PropertyDef declares a requirement property. Types name its direct classes:
// one class under a category and one kind class.
type PropertyDef struct {
	ID     string   `yaml:"id"`
	Types  []string `yaml:"types"`
	Labels []string `yaml:"labels"`
}

// ValueDef declares a candidate value and the properties it can fill.
type ValueDef struct {
	ID           string   `yaml:"id"`
	Labels       []string `yaml:"labels"`
	ApplicableTo []string `yaml:"applicable_to"`
}

// ValidationError describes one problem in a knowledge base file.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every problem found in a file.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(errs), strings.Join(messages, "\n  - "))
}

// Unwrap exposes the individual errors to errors.Is.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = err
	}
	return out
}

// Default loads the embedded knowledge base.
func Default() (*KnowledgeBase, error) {
	return Parse(defaultOntology)
}

// MustDefault is Default for package initialisation and tests.
func MustDefault() *KnowledgeBase {
	kb, err := Default()
	if err != nil {
		panic(fmt.Sprintf("ontology: embedded default: %v", err))
	}
	return kb
}

// LoadFile reads a knowledge base from a YAML file.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology %s: %w", path, err)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load ontology %s: %w", path, err)
	}
	return kb, nil
}

// Load reads a knowledge base from r.
func Load(r io.Reader) (*KnowledgeBase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and builds the knowledge base.
func Parse(data []byte) (*KnowledgeBase, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ontology YAML: %w", err)
	}
	return Build(&file)
}

// Build validates the definitions and converts them to triples. Category and
// kind classes are always declared.
func Build(file *File) (*KnowledgeBase, error) {
	if errs := file.Validate(); len(errs) > 0 {
		return nil, errs
	}

	ts := store.NewTripleStore()
	doc := store.DocumentIRI

	for _, id := range append(append([]string{}, Categories...), kindClasses...) {
		ts.Add(doc(id), store.RDFType, "rdfs:Class")
	}
	for _, class := range file.Classes {
		ts.Add(doc(class.ID), store.RDFType, "rdfs:Class")
		if class.Parent != "" {
			ts.Add(doc(class.ID), store.RDFSSubClassOf, doc(class.Parent))
		}
		for _, label := range class.Labels {
			ts.Add(doc(class.ID), store.RDFSLabel, label)
		}
	}
	for _, prop := range file.Properties {
		for _, t := range prop.Types {
			ts.Add(doc(prop.ID), store.RDFType, doc(t))
		}
		for _, label := range prop.Labels {
			ts.Add(doc(prop.ID), store.RDFSLabel, label)
		}
	}
	for _, value := range file.Values {
		for _, label := range value.Labels {
			ts.Add(doc(value.ID), store.RDFSLabel, label)
		}
		for _, prop := range value.ApplicableTo {
			ts.Add(doc(value.ID), store.PropApplicableTo, doc(prop))
		}
	}

	return newKnowledgeBase(ts), nil
}

// Validate checks IDs, references and labels.
func (f *File) Validate() ValidationErrors {
	var errs ValidationErrors

	classes := make(map[string]bool)
	for _, id := range Categories {
		classes[id] = true
	}
	for _, id := range kindClasses {
		classes[id] = true
	}

	checkID := func(field, id string) bool {
		if id == "" {
			errs = append(errs, ValidationError{Field: field, Message: "id is required"})
			return false
		}
		if !identifierPattern.MatchString(id) {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid id %q", id)})
			return false
		}
		return true
	}

	for i, class := range f.Classes {
		if checkID(fmt.Sprintf("classes[%d]", i), class.ID) {
			classes[class.ID] = true
		}
	}
	for i, class := range f.Classes {
		if class.Parent != "" && !classes[class.Parent] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("classes[%d].parent", i),
				Message: fmt.Sprintf("%s %q", ErrUnknownClass, class.Parent),
				Err:     ErrUnknownClass,
			})
		}
	}

	properties := make(map[string]bool)
	for i, prop := range f.Properties {
		field := fmt.Sprintf("properties[%d]", i)
		if checkID(field, prop.ID) {
			properties[prop.ID] = true
		}
		if len(prop.Labels) == 0 {
			errs = append(errs, ValidationError{Field: field + ".labels", Message: "at least one label is required"})
		}
		if len(prop.Types) == 0 {
			errs = append(errs, ValidationError{Field: field + ".types", Message: "at least one type is required"})
		}
		for _, t := range prop.Types {
			if !classes[t] {
				errs = append(errs, ValidationError{
					Field:   field + ".types",
					Message: fmt.Sprintf("%s %q", ErrUnknownClass, t),
					Err:     ErrUnknownClass,
				})
			}
		}
	}

	for i, value := range f.Values {
		field := fmt.Sprintf("values[%d]", i)
		checkID(field, value.ID)
		if len(value.Labels) == 0 {
			errs = append(errs, ValidationError{Field: field + ".labels", Message: "at least one label is required"})
		}
		for _, prop := range value.ApplicableTo {
			if !properties[prop] {
				errs = append(errs, ValidationError{
					Field:   field + ".applicable_to",
					Message: fmt.Sprintf("%s %q", ErrUnknownClass, prop),
					Err:     ErrUnknownClass,
				})
			}
		}
	}

	return errs
}
