// Package docx reads the paragraph text of Office Open XML documents.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// wordNamespace is the WordprocessingML main namespace.
const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// documentPart is the archive entry holding the document body.
const documentPart = "word/document.xml"

// ErrNoDocument is returned when the archive has no word/document.xml.
var ErrNoDocument = errors.New("docx: missing " + documentPart)

// Document is the text content of a DOCX file.
type Document struct {
	paragraphs []string
}

// Paragraphs returns the text of every w:p element in document order,
// including paragraphs inside tables. The text of a paragraph is the
// concatenation of its w:t runs.
func (d *Document) Paragraphs() []string {
	out := make([]string, len(d.paragraphs))
	copy(out, d.paragraphs)
	return out
}

// Text returns the paragraphs joined by newlines.
func (d *Document) Text() string {
	return strings.Join(d.paragraphs, "\n")
}

// Open reads a DOCX file from disk.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	doc, err := Read(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return doc, nil
}

// Read parses a DOCX archive.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, ErrNoDocument
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", documentPart, err)
	}
	defer rc.Close()

	paragraphs, err := parseParagraphs(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", documentPart, err)
	}
	return &Document{paragraphs: paragraphs}, nil
}

// parseParagraphs streams document.xml. Nested paragraphs (text boxes) keep
// their start order and their text also counts toward the enclosing one.
func parseParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var texts []*strings.Builder
	var open []int
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, len(texts))
				texts = append(texts, &strings.Builder{})
			case "t":
				inText = true
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if !inText {
				continue
			}
			for _, i := range open {
				texts[i].Write(t)
			}
		}
	}

	paragraphs := make([]string, len(texts))
	for i, b := range texts {
		paragraphs[i] = b.String()
	}
	return paragraphs, nil
}
