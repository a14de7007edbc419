// Package vocab holds the language bundles that drive requirement extraction:
// trigger vocabularies, section header tables, style cues and unit tables.
package vocab

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vocabulary is an ordered list of lowercase phrase fragments sharing a role.
// Entries are regex source. An entry that does not compile is matched literally.
type Vocabulary struct {
	Role     string
	entries  []string
	compiled []*pattern
}

// Match is one occurrence of a vocabulary entry. Offsets are byte offsets into
// the lowercased text.
type Match struct {
	Entry string
	Start int
	End   int
}

// NewVocabulary compiles the entries for case-insensitive matching.
func NewVocabulary(role string, entries []string) *Vocabulary {
	v := &Vocabulary{
		Role:     role,
		entries:  make([]string, 0, len(entries)),
		compiled: make([]*pattern, 0, len(entries)),
	}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		v.entries = append(v.entries, entry)
		v.compiled = append(v.compiled, compileEntry(entry))
	}
	return v
}

// pattern is a compiled entry. RE2 word classes are ASCII only, so \w and \W
// are rewritten to Unicode classes and a leading or trailing \b or \B is
// checked against the neighbouring runes after matching.
type pattern struct {
	re    *regexp.Regexp
	left  boundary
	right boundary
}

type boundary int8

const (
	noBoundary boundary = iota
	wordBoundary
	nonWordBoundary
)

func compileEntry(entry string) *pattern {
	source := entry
	body, left, right := trimBoundaries(source)
	re, err := regexp.Compile("(?i)" + unicodeClasses(body))
	if err != nil {
		return &pattern{re: regexp.MustCompile("(?i)" + regexp.QuoteMeta(source))}
	}
	return &pattern{re: re, left: left, right: right}
}

func trimBoundaries(source string) (string, boundary, boundary) {
	left, right := noBoundary, noBoundary
	switch {
	case strings.HasPrefix(source, `\b`):
		left, source = wordBoundary, source[2:]
	case strings.HasPrefix(source, `\B`):
		left, source = nonWordBoundary, source[2:]
	}
	if n := len(source); n >= 2 && source[n-2] == '\\' && !escaped(source, n-2) {
		switch source[n-1] {
		case 'b':
			right, source = wordBoundary, source[:n-2]
		case 'B':
			right, source = nonWordBoundary, source[:n-2]
		}
	}
	return source, left, right
}

// escaped reports whether the byte at i is preceded by an odd run of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func unicodeClasses(source string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		if c == '\\' && i+1 < len(source) {
			next := source[i+1]
			switch {
			case next == 'w' && inClass:
				b.WriteString(`\p{L}\p{N}_`)
			case next == 'w':
				b.WriteString(`[\p{L}\p{N}_]`)
			case next == 'W' && !inClass:
				b.WriteString(`[^\p{L}\p{N}_]`)
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i++
			continue
		}
		switch {
		case c == '[' && !inClass:
			inClass = true
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (b boundary) holds(text string, at int) bool {
	if b == noBoundary {
		return true
	}
	before, after := false, false
	if at > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:at])
		before = isWordRune(r)
	}
	if at < len(text) {
		r, _ := utf8.DecodeRuneInString(text[at:])
		after = isWordRune(r)
	}
	return (before != after) == (b == wordBoundary)
}

func (p *pattern) match(text string) bool {
	if p.left == noBoundary && p.right == noBoundary {
		return p.re.MatchString(text)
	}
	return len(p.findAll(text)) > 0
}

func (p *pattern) findAll(text string) [][]int {
	if p.left == noBoundary && p.right == noBoundary {
		return p.re.FindAllStringIndex(text, -1)
	}
	var out [][]int
	for pos := 0; pos <= len(text); {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if p.left.holds(text, start) && p.right.holds(text, end) {
			out = append(out, []int{start, end})
			if end > start {
				pos = end
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}
	return out
}

// Lower lowercases text with Unicode-aware case mapping.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Entries returns a copy of the raw entries in order.
func (v *Vocabulary) Entries() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// ContainsAny reports whether any entry occurs in text.
func (v *Vocabulary) ContainsAny(text string) bool {
	ok, _ := v.ContainsAnyWith(text)
	return ok
}

// ContainsAnyWith returns the first entry, in vocabulary order, that occurs in text.
func (v *Vocabulary) ContainsAnyWith(text string) (bool, string) {
	if v == nil {
		return false, ""
	}
	lowered := Lower(text)
	for i, p := range v.compiled {
		if p.match(lowered) {
			return true, v.entries[i]
		}
	}
	return false, ""
}

// FindAll returns every occurrence of every entry in the lowercased text,
// grouped by entry in vocabulary order.
func (v *Vocabulary) FindAll(text string) []Match {
	if v == nil {
		return nil
	}
	lowered := Lower(text)
	var matches []Match
	for i, p := range v.compiled {
		for _, loc := range p.findAll(lowered) {
			if loc[1] == loc[0] {
				continue
			}
			matches = append(matches, Match{Entry: v.entries[i], Start: loc[0], End: loc[1]})
		}
	}
	return matches
}

// ContainsAny reports whether any of the labels occurs in text. Labels are
// treated like vocabulary entries.
func ContainsAny(text string, labels []string) bool {
	return NewVocabulary("labels", labels).ContainsAny(text)
}

// ContainsLiteral reports whether text contains any phrase as a plain,
// case-sensitive substring.
func ContainsLiteral(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
