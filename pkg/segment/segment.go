// Package segment splits document paragraphs into canonical sections by
// scanning for known header phrases.
package segment

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/coolbeans/norma/pkg/vocab"
)

// Buckets maps canonical section names to their text. Every canonical name of
// the bundle is present, possibly empty.
type Buckets struct {
	names   []string
	text    map[string]string
	headers []string
}

// Names returns the canonical section names in bundle order.
func (b *Buckets) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Get returns the text of a section.
func (b *Buckets) Get(name string) string {
	return b.text[name]
}

// Len returns the number of canonical sections.
func (b *Buckets) Len() int {
	return len(b.names)
}

// Map returns a copy of the name to text mapping.
func (b *Buckets) Map() map[string]string {
	out := make(map[string]string, len(b.text))
	for k, v := range b.text {
		out[k] = v
	}
	return out
}

// Headers returns the raw header phrases that opened a section, in document
// order.
func (b *Buckets) Headers() []string {
	out := make([]string, len(b.headers))
	copy(out, b.headers)
	return out
}

// Segment walks the paragraphs. A paragraph containing a header phrase closes
// the current section and opens a new one; when several phrases match, the
// last one in table order wins. Text before the first header belongs to the
// default section.
func Segment(paragraphs []string, b *vocab.Bundle) *Buckets {
	headers := b.Sections.Headers()
	builder := newBuilder(b.Sections)

	current := ""
	var buffer []string

	for _, paragraph := range paragraphs {
		text := norm.NFC.String(strings.ReplaceAll(paragraph, "\u00a0", " "))

		matched := ""
		for _, h := range headers {
			if strings.Contains(text, h) {
				matched = h
			}
		}
		if matched != "" {
			builder.add(current, buffer)
			builder.opened(matched)
			current = matched
			buffer = nil
		}
		buffer = append(buffer, text)
	}
	builder.add(current, buffer)

	return builder.build()
}

// builder accumulates raw header buckets and folds them into canonical
// sections.
type builder struct {
	table   vocab.SectionTable
	parts   map[string][]string
	headers []string
}

func newBuilder(table vocab.SectionTable) *builder {
	return &builder{
		table: table,
		parts: make(map[string][]string),
	}
}

func (bl *builder) opened(header string) {
	bl.headers = append(bl.headers, header)
}

// add folds the buffered paragraphs of a raw header into its canonical section.
// The empty header is the preamble.
func (bl *builder) add(header string, buffer []string) {
	if len(buffer) == 0 {
		return
	}
	name := bl.table.Default
	if header != "" {
		name = bl.table.Fold(header)
	}
	bl.parts[name] = append(bl.parts[name], strings.Join(buffer, " "))
}

func (bl *builder) build() *Buckets {
	buckets := &Buckets{
		names:   bl.table.Names(),
		text:    make(map[string]string, len(bl.table.Canonical)),
		headers: bl.headers,
	}
	for _, name := range buckets.names {
		buckets.text[name] = strings.TrimSpace(strings.Join(bl.parts[name], " "))
	}
	return buckets
}
