// Package reader extracts requirement values for the properties of a
// knowledge base. Each property is dispatched on its kind to a proximity
// strategy over the sentences that mention it.
package reader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/coolbeans/norma/pkg/extract"
	"github.com/coolbeans/norma/pkg/ontology"
	"github.com/coolbeans/norma/pkg/vocab"
)

// ActualValue is a candidate value confirmed in the text.
type ActualValue struct {
	Value    string   `json:"value"`
	Number   *float64 `json:"number,omitempty"`
	Distance int      `json:"distance"`
	Right    bool     `json:"right"`
}

// PropertyValues pairs a property with the values found for it.
type PropertyValues struct {
	Property ontology.Property `json:"-"`
	ID       string            `json:"property"`
	Kind     string            `json:"kind"`
	Values   []ActualValue     `json:"values"`
}

// CategoryResult holds the properties of one category that produced values.
type CategoryResult struct {
	Category   string           `json:"category"`
	Properties []PropertyValues `json:"properties"`
}

// Result is the output of one Read.
type Result struct {
	Sentences  []string         `json:"-"`
	Categories []CategoryResult `json:"categories"`
}

// Category returns the properties found under a category.
func (r *Result) Category(name string) []PropertyValues {
	for _, c := range r.Categories {
		if c.Category == name {
			return c.Properties
		}
	}
	return nil
}

// Values returns the values found for a property.
func (r *Result) Values(propertyID string) []ActualValue {
	for _, c := range r.Categories {
		for _, p := range c.Properties {
			if p.ID == propertyID {
				return p.Values
			}
		}
	}
	return nil
}

// Reader runs the property dispatch.
type Reader struct {
	kb     *ontology.KnowledgeBase
	bundle *vocab.Bundle
	logger *log.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the reader logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a reader over a knowledge base. The bundle drives text
// normalization.
func New(kb *ontology.KnowledgeBase, b *vocab.Bundle, opts ...Option) *Reader {
	r := &Reader{
		kb:     kb,
		bundle: b,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read joins the paragraphs, normalizes the text, splits it into sentences
// and reads every category.
func (r *Reader) Read(ctx context.Context, paragraphs []string) (*Result, error) {
	text := extract.Normalize(" "+strings.Join(paragraphs, " "), r.bundle)
	return r.ReadSentences(ctx, extract.SplitSentences(text))
}

// ReadSentences reads every category from already split sentences.
func (r *Reader) ReadSentences(ctx context.Context, sentences []string) (*Result, error) {
	result := &Result{Sentences: sentences}

	for _, category := range ontology.Categories {
		var found []PropertyValues

		for _, prop := range r.kb.PropertiesOf(category) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			included := sentencesWith(sentences, prop.Labels)
			if len(included) == 0 {
				continue
			}

			values, err := r.dispatch(ctx, prop, included)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", prop.ID, err)
			}
			r.logger.Debug("property read", "property", prop.ID, "kind", prop.Kind,
				"sentences", len(included), "values", len(values))
			if len(values) == 0 {
				continue
			}

			found = append(found, PropertyValues{
				Property: prop,
				ID:       prop.ID,
				Kind:     prop.Kind.String(),
				Values:   values,
			})
		}

		if len(found) > 0 {
			result.Categories = append(result.Categories, CategoryResult{
				Category:   category,
				Properties: found,
			})
		}
	}

	return result, nil
}

// dispatch selects the strategy for the property kind.
func (r *Reader) dispatch(ctx context.Context, prop ontology.Property, sentences []string) ([]ActualValue, error) {
	switch prop.Kind {
	case ontology.KindTopic, ontology.KindMinOnly, ontology.KindMaxOnly, ontology.KindNone:
		return nil, nil
	}

	candidates, err := r.kb.ApplicableValues(ctx, prop.ID)
	if err != nil {
		return nil, err
	}

	switch prop.Kind {
	case ontology.KindQuantitative:
		return quantitativeValues(prop, candidates, sentences), nil
	case ontology.KindEnum:
		return enumValues(prop, candidates, sentences), nil
	case ontology.KindPermission:
		return permissionValues(prop, candidates, sentences), nil
	case ontology.KindLabeled:
		return labeledValues(prop, candidates, sentences), nil
	}
	return nil, nil
}

func sentencesWith(sentences []string, labels []string) []string {
	labelVocab := vocab.NewVocabulary("labels", labels)
	var out []string
	for _, s := range sentences {
		if labelVocab.ContainsAny(s) {
			out = append(out, s)
		}
	}
	return out
}
