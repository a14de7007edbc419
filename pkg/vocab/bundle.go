package vocab

import (
	"fmt"
)

// Vocabulary roles used by the extractors.
const (
	RoleMin         = "min"
	RoleMax         = "max"
	RoleMinInverted = "min_inverted"
	RoleMaxInverted = "max_inverted"
	RoleVolume      = "volume"
	RoleArticle     = "article"
	RoleImage       = "image"
	RoleLiterature  = "literature"
	RoleField       = "field"
	RoleTop         = "top"
	RoleBottom      = "bottom"
	RoleLeft        = "left"
	RoleRight       = "right"
	RoleLinearUnit  = "linear_unit"
	RoleIndent      = "indent"
	RoleFirstLine   = "first_line"
	RoleSpacing     = "spacing"
	RoleAlignCue    = "alignment_cue"
	RoleSize        = "size"
	RoleFont        = "font"
)

// Section kinds select which extractors run for a canonical section.
const (
	KindStyle      = "style"
	KindValue      = "value"
	KindReferences = "references"
	KindImages     = "images"
)

// Bundle is the language-specific configuration of the extraction pipeline.
type Bundle struct {
	Language     string              `yaml:"language" json:"language"`
	Version      string              `yaml:"version" json:"version"`
	FormatLang   string              `yaml:"format_lang" json:"format_lang"`
	NumberWords  string              `yaml:"number_words" json:"number_words"`
	Range        RangeWords          `yaml:"range" json:"range"`
	Bounds       BoundWords          `yaml:"bounds" json:"bounds"`
	Negations    []string            `yaml:"negations" json:"negations"`
	Vocabularies map[string][]string `yaml:"vocabularies" json:"vocabularies"`
	Sections     SectionTable        `yaml:"sections" json:"sections"`
	Style        StyleConfig         `yaml:"style" json:"style"`
	Measures     []string            `yaml:"measures" json:"measures"`
	ValueRules   []ValueRule         `yaml:"value_rules" json:"value_rules"`
	VolumeUnits  []UnitRule          `yaml:"volume_units" json:"volume_units"`
	Literature   LiteratureConfig    `yaml:"literature" json:"literature"`
	PageFormat   PageFormatConfig    `yaml:"page_format" json:"page_format"`
	ImageFormats []string            `yaml:"image_formats" json:"image_formats"`

	compiled map[string]*Vocabulary
}

// RangeWords replace a dash inside a numeric range token.
type RangeWords struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// BoundWords are tokens that, directly before a number, mark it as a bound.
type BoundWords struct {
	Min []string `yaml:"min" json:"min"`
	Max []string `yaml:"max" json:"max"`
}

// SectionTable maps raw header phrases to canonical section names.
type SectionTable struct {
	Default   string             `yaml:"default" json:"default"`
	Canonical []CanonicalSection `yaml:"canonical" json:"canonical"`
}

// CanonicalSection is one output section and the header phrases folded into it.
type CanonicalSection struct {
	Name    string   `yaml:"name" json:"name"`
	Kind    string   `yaml:"kind" json:"kind"`
	Headers []string `yaml:"headers" json:"headers"`
	// Contains folds any raw header containing one of these fragments.
	Contains []string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

// Window bounds a token scan around an anchor. After <= 0 scans to the end.
type Window struct {
	Before int `yaml:"before" json:"before"`
	After  int `yaml:"after" json:"after"`
}

// WordValue maps any of Words to a normalized Value.
type WordValue struct {
	Value string   `yaml:"value" json:"value"`
	Words []string `yaml:"words" json:"words"`

	vocab *Vocabulary
}

// StyleConfig carries the non-list switches of the style extractor.
type StyleConfig struct {
	MarginWindow    Window      `yaml:"margin_window" json:"margin_window"`
	MarginNeedsUnit bool        `yaml:"margin_needs_unit" json:"margin_needs_unit"`
	ExactDirections bool        `yaml:"exact_directions" json:"exact_directions"`
	GluedMarginStem string      `yaml:"glued_margin_stem" json:"glued_margin_stem"`
	IndentAnchor    string      `yaml:"indent_anchor" json:"indent_anchor"`
	SpacingAnchor   string      `yaml:"spacing_anchor" json:"spacing_anchor"`
	SpacingFollower string      `yaml:"spacing_follower" json:"spacing_follower"`
	SpacingWords    []WordValue `yaml:"spacing_words" json:"spacing_words"`
	Alignments      []WordValue `yaml:"alignments" json:"alignments"`
	SizeSuffix      string      `yaml:"size_suffix" json:"size_suffix"`
}

// ValueRule extracts a count bound from a sentence.
type ValueRule struct {
	Code        string   `yaml:"code" json:"code"`
	SentenceAll []string `yaml:"sentence_all" json:"sentence_all"`
	SentenceAny []string `yaml:"sentence_any" json:"sentence_any"`
	Nouns       []string `yaml:"nouns" json:"nouns"`
	Preceding   bool     `yaml:"preceding" json:"preceding"`
	Strip       []string `yaml:"strip" json:"strip"`
	// ElseOf skips this rule when the named rule's sentence condition held.
	ElseOf string `yaml:"else_of" json:"else_of"`
}

// UnitRule maps text following a volume number to a unit code.
type UnitRule struct {
	Match string `yaml:"match" json:"match"`
	Code  string `yaml:"code" json:"code"`
}

// LiteratureConfig lists citation style templates.
type LiteratureConfig struct {
	GostTrigger  string   `yaml:"gost_trigger" json:"gost_trigger"`
	GostTemplate string   `yaml:"gost_template" json:"gost_template"`
	Templates    []string `yaml:"templates" json:"templates"`
}

// PageFormatConfig holds the letters that start a paper size token (A4, А4).
type PageFormatConfig struct {
	Letters string `yaml:"letters" json:"letters"`
}

// Validate checks the bundle for required fields.
func (b *Bundle) Validate() error {
	if b.Language == "" {
		return fmt.Errorf("language is required")
	}
	if b.Range.From == "" || b.Range.To == "" {
		return fmt.Errorf("range words are required")
	}
	if len(b.Sections.Canonical) == 0 {
		return fmt.Errorf("at least one canonical section is required")
	}
	foundDefault := false
	for _, section := range b.Sections.Canonical {
		if section.Name == "" {
			return fmt.Errorf("canonical section without name")
		}
		switch section.Kind {
		case KindStyle, KindValue, KindReferences, KindImages:
		default:
			return fmt.Errorf("section %q: unknown kind %q", section.Name, section.Kind)
		}
		if section.Name == b.Sections.Default {
			foundDefault = true
		}
	}
	if !foundDefault {
		return fmt.Errorf("default section %q is not a canonical section", b.Sections.Default)
	}
	return nil
}

// Compile builds the vocabularies. It is idempotent.
func (b *Bundle) Compile() error {
	if b.compiled != nil {
		return nil
	}
	compiled := make(map[string]*Vocabulary, len(b.Vocabularies))
	for role, entries := range b.Vocabularies {
		compiled[role] = NewVocabulary(role, entries)
	}
	for i := range b.Style.SpacingWords {
		b.Style.SpacingWords[i].vocab = NewVocabulary("spacing_word", b.Style.SpacingWords[i].Words)
	}
	for i := range b.Style.Alignments {
		b.Style.Alignments[i].vocab = NewVocabulary("alignment", b.Style.Alignments[i].Words)
	}
	b.compiled = compiled
	return nil
}

// IsCompiled reports whether Compile has run.
func (b *Bundle) IsCompiled() bool {
	return b.compiled != nil
}

// Vocab returns the vocabulary for a role, or an empty one.
func (b *Bundle) Vocab(role string) *Vocabulary {
	if v, ok := b.compiled[role]; ok {
		return v
	}
	return NewVocabulary(role, nil)
}

// Lookup returns the value of the first entry whose words occur in text.
func Lookup(text string, table []WordValue) (string, bool) {
	for _, wv := range table {
		v := wv.vocab
		if v == nil {
			v = NewVocabulary("lookup", wv.Words)
		}
		if v.ContainsAny(text) {
			return wv.Value, true
		}
	}
	return "", false
}

// Headers returns every raw header phrase in table order.
func (t SectionTable) Headers() []string {
	var headers []string
	for _, section := range t.Canonical {
		headers = append(headers, section.Headers...)
	}
	return headers
}

// Names returns the canonical section names in order.
func (t SectionTable) Names() []string {
	names := make([]string, 0, len(t.Canonical))
	for _, section := range t.Canonical {
		names = append(names, section.Name)
	}
	return names
}

// Fold returns the canonical name for a raw header, or the default section.
func (t SectionTable) Fold(header string) string {
	for _, section := range t.Canonical {
		for _, h := range section.Headers {
			if h == header {
				return section.Name
			}
		}
	}
	for _, section := range t.Canonical {
		for _, fragment := range section.Contains {
			if fragment != "" && containsFold(header, fragment) {
				return section.Name
			}
		}
	}
	return t.Default
}

// Section returns the canonical section by name.
func (t SectionTable) Section(name string) (CanonicalSection, bool) {
	for _, section := range t.Canonical {
		if section.Name == name {
			return section, true
		}
	}
	return CanonicalSection{}, false
}

func containsFold(s, fragment string) bool {
	return NewVocabulary("fold", []string{fragment}).ContainsAny(s)
}
