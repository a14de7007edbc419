package requirements

import (
	"regexp"
	"strings"

	"github.com/coolbeans/norma/pkg/vocab"
)

// Format is the page size and the language of the requirements.
type Format struct {
	Format string `json:"Format"`
	Lang   string `json:"lang"`
}

// DetectFormat returns the paper size named last in the document ("А4" in
// Cyrillic or "A4" in Latin script), normalized to Latin. Format is empty
// when no size is named.
func DetectFormat(paragraphs []string, b *vocab.Bundle) Format {
	f := Format{Lang: b.FormatLang}
	letters := b.PageFormat.Letters
	if letters == "" {
		return f
	}
	pattern := regexp.MustCompile(`[` + regexp.QuoteMeta(letters) + `]([0-6])`)

	for _, paragraph := range paragraphs {
		for _, word := range strings.Split(paragraph, " ") {
			if m := pattern.FindStringSubmatch(word); m != nil {
				f.Format = "A" + m[1]
			}
		}
	}
	return f
}

// LiteratureTemplate returns the citation style named in the document. A
// paragraph mentioning the GOST trigger yields the GOST template; otherwise
// the first known template found wins. Empty when none is named.
func LiteratureTemplate(paragraphs []string, b *vocab.Bundle) string {
	cfg := b.Literature
	for _, paragraph := range paragraphs {
		if cfg.GostTrigger != "" && strings.Contains(paragraph, cfg.GostTrigger) {
			return cfg.GostTemplate
		}
		for _, template := range cfg.Templates {
			if strings.Contains(paragraph, template) {
				return template
			}
		}
	}
	return ""
}
