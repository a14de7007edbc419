package requirements

import (
	"bytes"
	"encoding/json"

	"github.com/coolbeans/norma/pkg/vocab"
)

// SectionRecord is the extraction result of one canonical section. Which
// parts are present depends on the section kind.
type SectionRecord struct {
	Name     string
	Kind     string
	Style    Style
	Value    *Value
	Template string
	Formats  []string
}

// Additional carries the image formats of an images section.
type Additional struct {
	Formats []string `json:"formats"`
}

// MarshalJSON writes style first, then value for value and references
// sections, the template for references and the formats for images.
func (s SectionRecord) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("style", s.Style)
	switch s.Kind {
	case vocab.KindValue:
		w.field("value", s.Value)
	case vocab.KindReferences:
		w.field("value", s.Value)
		w.field("template", s.Template)
	case vocab.KindImages:
		formats := s.Formats
		if formats == nil {
			formats = []string{}
		}
		w.field("add", Additional{Formats: formats})
	}
	return w.bytes()
}

// Counts are the document-wide reference and image count bounds.
type Counts struct {
	References Bounds `json:"references"`
	Images     Bounds `json:"images"`
}

// Record is the full requirements record of one document.
type Record struct {
	Language string
	Sections []SectionRecord
	Format   Format
	Volume   Volume
	Counts   Counts
	Default  Defaults
}

// Section returns the record of a canonical section.
func (r *Record) Section(name string) (SectionRecord, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionRecord{}, false
}

// MarshalJSON writes the sections in canonical order followed by format,
// volume, counts and default.
func (r Record) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, s := range r.Sections {
		w.field(s.Name, s)
	}
	w.field("format", r.Format)
	w.field("volume", r.Volume)
	w.field("counts", r.Counts)
	w.field("default", r.Default)
	return w.bytes()
}

// objectWriter builds a JSON object with keys in insertion order.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) field(key string, value any) {
	if w.err != nil {
		return
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = err
		return
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
	w.n++
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
