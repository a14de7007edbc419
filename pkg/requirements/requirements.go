// Package requirements mines a complete formatting-requirements record from
// the paragraphs of a guidelines document: per-section style and count
// values, page format, article volume, reference and image counts, and
// document-wide defaults.
package requirements

import (
	"context"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/coolbeans/norma/pkg/segment"
	"github.com/coolbeans/norma/pkg/vocab"
)

// Option configures Extract.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for per-section debug output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Extract segments the paragraphs into canonical sections, reads every
// section according to its kind and runs the document-wide miners.
//
// The default format language is the bundle's format_lang ("rus" for the
// ru bundle, "eng" for en); "rus" is used only when the bundle leaves it empty.
func Extract(ctx context.Context, paragraphs []string, b *vocab.Bundle, opts ...Option) (*Record, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if err := b.Compile(); err != nil {
		return nil, err
	}

	buckets := segment.Segment(paragraphs, b)
	template := LiteratureTemplate(paragraphs, b)

	rec := &Record{Language: b.Language}
	for _, section := range b.Sections.Canonical {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := buckets.Get(section.Name)
		sr := SectionRecord{
			Name:  section.Name,
			Kind:  section.Kind,
			Style: ExtractStyle(text, b),
		}
		switch section.Kind {
		case vocab.KindValue:
			sr.Value = ExtractValue(text, b)
		case vocab.KindReferences:
			sr.Value = ExtractValue(text, b)
			sr.Template = template
		case vocab.KindImages:
			sr.Formats = ImageFormats(text, b)
		}
		o.logger.Debug("section extracted", "section", section.Name, "kind", section.Kind,
			"chars", utf8.RuneCountInString(text), "style", !sr.Style.Empty(), "value", sr.Value != nil)
		rec.Sections = append(rec.Sections, sr)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec.Format = DetectFormat(paragraphs, b)
	rec.Volume = VolumeBounds(paragraphs, b)
	rec.Counts = Counts{
		References: CountBounds(paragraphs, vocab.RoleLiterature, b, false),
		Images:     CountBounds(paragraphs, vocab.RoleImage, b, true),
	}
	rec.Default = FillDefaults(rec.Sections)
	if b.FormatLang != "" {
		rec.Default.Format.Lang = b.FormatLang
	}

	o.logger.Debug("document mined", "format", rec.Format.Format,
		"template", rec.Default.Template, "headers", len(buckets.Headers()))
	return rec, nil
}
