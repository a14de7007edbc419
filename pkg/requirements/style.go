package requirements

import (
	"strings"
	"unicode"

	"github.com/coolbeans/norma/pkg/extract"
	"github.com/coolbeans/norma/pkg/vocab"
)

// Style is the formatting found in the text of one section. Lengths are in
// twips, spacing in 240ths of a line and font size in half-points.
type Style struct {
	Fields Fields        `json:"fields"`
	Indent Indent        `json:"indent"`
	Inter  Spacing       `json:"inter"`
	Jc     Justification `json:"jc"`
	Font   FontName      `json:"font"`
	Kegl   *int          `json:"kegl"`
}

// Fields are the page margins.
type Fields struct {
	Top    *int   `json:"top,omitempty"`
	Bottom *int   `json:"bottom,omitempty"`
	Left   *int   `json:"left,omitempty"`
	Right  *int   `json:"right,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Empty reports whether no margin was found.
func (f Fields) Empty() bool {
	return f.Top == nil && f.Bottom == nil && f.Left == nil && f.Right == nil
}

func (f *Fields) slot(role string) **int {
	switch role {
	case vocab.RoleTop:
		return &f.Top
	case vocab.RoleBottom:
		return &f.Bottom
	case vocab.RoleLeft:
		return &f.Left
	default:
		return &f.Right
	}
}

// Indent holds paragraph indents. Only the first-line indent is read from
// text; the others come from defaults.
type Indent struct {
	First  *int `json:"first,omitempty"`
	Top    *int `json:"top,omitempty"`
	Bottom *int `json:"bottom,omitempty"`
	Left   *int `json:"left,omitempty"`
	Right  *int `json:"right,omitempty"`
	String *int `json:"string,omitempty"`
}

// Spacing is the line spacing.
type Spacing struct {
	String *int `json:"string,omitempty"`
}

// Justification is the paragraph alignment: both, left, right or center.
type Justification struct {
	Jc string `json:"jc,omitempty"`
}

// FontName is the recognized font family.
type FontName struct {
	Font string `json:"font,omitempty"`
}

// Empty reports whether nothing was extracted.
func (s Style) Empty() bool {
	return s.Fields.Empty() && s.Indent.First == nil && s.Inter.String == nil &&
		s.Jc.Jc == "" && s.Font.Font == "" && s.Kegl == nil
}

// directionRoles is the order in which a token is tested for a margin side.
var directionRoles = []string{vocab.RoleTop, vocab.RoleBottom, vocab.RoleRight, vocab.RoleLeft}

// ExtractStyle reads margins, first-line indent, line spacing, alignment, font
// and font size from section text. The first value found wins for every field
// except alignment, where the last one does.
func ExtractStyle(text string, b *vocab.Bundle) Style {
	var st Style
	text = extract.DecimalCommas(strings.ReplaceAll(text, "\u00a0", " "))

	for _, sentence := range extract.SplitPeriods(text) {
		sentence = extract.CleanForm(sentence, b)
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		tokens := extract.Tokens(sentence)

		scanMargins(&st.Fields, sentence, tokens, b)
		scanIndent(&st.Indent, sentence, tokens, b)
		scanSpacing(&st.Inter, sentence, tokens, b)
		scanAlignment(&st.Jc, sentence, tokens, b)
		if st.Font.Font == "" {
			if ok, font := b.Vocab(vocab.RoleFont).ContainsAnyWith(sentence); ok {
				st.Font.Font = font
			}
		}
		if st.Kegl == nil {
			st.Kegl = scanSize(tokens, b)
		}
	}
	return st
}

func scanMargins(f *Fields, sentence string, tokens []string, b *vocab.Bundle) {
	cfg := b.Style
	if !b.Vocab(vocab.RoleField).ContainsAny(sentence) {
		return
	}
	units := b.Vocab(vocab.RoleLinearUnit)

	hasDirection := false
	for _, role := range directionRoles {
		if b.Vocab(role).ContainsAny(sentence) {
			hasDirection = true
			break
		}
	}
	if cfg.MarginNeedsUnit && !units.ContainsAny(sentence) {
		hasDirection = false
	}

	if !hasDirection {
		if cfg.GluedMarginStem != "" {
			scanUniformMargin(f, tokens, cfg.GluedMarginStem, units)
		}
		return
	}

	found := false
	for i, token := range tokens {
		role, ok := directionOf(token, b)
		if !ok {
			continue
		}
		slot := f.slot(role)
		if *slot != nil {
			continue
		}
		j, ok := nearestDigit(tokens, i, cfg.MarginWindow)
		if !ok {
			continue
		}
		unit := unitAt(tokens, j, units)
		*slot = Linear(tokens[j], unit)
		if unit != "" {
			f.Unit = unit
		}
		found = true
	}

	if !found && cfg.GluedMarginStem != "" {
		scanGluedMargins(f, tokens, cfg.GluedMarginStem, b)
	}
}

// nearestDigit looks for a token starting with a digit, forward from i up to
// the window end and then backward to the window start.
func nearestDigit(tokens []string, i int, w vocab.Window) (int, bool) {
	end := len(tokens)
	if w.After > 0 {
		end = min(i+w.After, len(tokens))
	}
	for j := i; j < end; j++ {
		if extract.StartsWithDigit(tokens[j]) {
			return j, true
		}
	}
	for j := i - 1; j >= max(i-w.Before, 0); j-- {
		if extract.StartsWithDigit(tokens[j]) {
			return j, true
		}
	}
	return 0, false
}

// directionOf returns the margin side named by a token.
func directionOf(token string, b *vocab.Bundle) (string, bool) {
	lowered := vocab.Lower(strings.Trim(token, ",;:"))
	if lowered == "" {
		return "", false
	}
	for _, role := range directionRoles {
		v := b.Vocab(role)
		if !b.Style.ExactDirections {
			if v.ContainsAny(lowered) {
				return role, true
			}
			continue
		}
		for _, entry := range v.Entries() {
			if lowered == vocab.Lower(entry) {
				return role, true
			}
		}
	}
	return "", false
}

// unitAt returns the linear unit written in the value token or the next one.
func unitAt(tokens []string, j int, units *vocab.Vocabulary) string {
	if ok, unit := units.ContainsAnyWith(tokens[j]); ok {
		return unit
	}
	if j+1 < len(tokens) {
		if ok, unit := units.ContainsAnyWith(tokens[j+1]); ok {
			return unit
		}
	}
	return ""
}

// scanGluedMargins handles "top margin2cm" where the value is glued to the
// margin word and the side precedes it.
func scanGluedMargins(f *Fields, tokens []string, stem string, b *vocab.Bundle) {
	for j := 1; j < len(tokens); j++ {
		lowered := vocab.Lower(tokens[j])
		idx := strings.Index(lowered, stem)
		if idx < 0 {
			continue
		}
		role, ok := directionOf(tokens[j-1], b)
		if !ok {
			continue
		}
		slot := f.slot(role)
		if *slot != nil {
			continue
		}
		raw := strings.TrimLeftFunc(lowered[idx+len(stem):], func(r rune) bool {
			return !unicode.IsDigit(r)
		})
		raw = strings.TrimRight(raw, ";,")
		if raw == "" {
			continue
		}
		*slot = Linear(raw, "")
		if ok, unit := b.Vocab(vocab.RoleLinearUnit).ContainsAnyWith(raw); ok {
			f.Unit = unit
		}
	}
}

// scanUniformMargin applies a single "margins 2cm" value to every side.
func scanUniformMargin(f *Fields, tokens []string, stem string, units *vocab.Vocabulary) {
	seen := false
	for _, token := range tokens {
		if strings.Contains(vocab.Lower(token), stem) {
			seen = true
			continue
		}
		if !seen || !extract.StartsWithDigit(token) {
			continue
		}
		ok, unit := units.ContainsAnyWith(token)
		if !ok {
			continue
		}
		for _, role := range directionRoles {
			if slot := f.slot(role); *slot == nil {
				*slot = Linear(token, unit)
			}
		}
		f.Unit = unit
		return
	}
}

func scanIndent(in *Indent, sentence string, tokens []string, b *vocab.Bundle) {
	anchor := b.Style.IndentAnchor
	if in.First != nil || anchor == "" {
		return
	}
	if !b.Vocab(vocab.RoleIndent).ContainsAny(sentence) || !b.Vocab(vocab.RoleFirstLine).ContainsAny(sentence) {
		return
	}
	units := b.Vocab(vocab.RoleLinearUnit)
	for i, token := range tokens {
		if !strings.Contains(vocab.Lower(token), anchor) {
			continue
		}
		for j := i; j < len(tokens); j++ {
			if extract.StartsWithDigit(tokens[j]) {
				in.First = Linear(tokens[j], unitAt(tokens, j, units))
				return
			}
		}
	}
}

func scanSpacing(sp *Spacing, sentence string, tokens []string, b *vocab.Bundle) {
	cfg := b.Style
	if sp.String != nil || cfg.SpacingAnchor == "" {
		return
	}
	if !b.Vocab(vocab.RoleSpacing).ContainsAny(sentence) {
		return
	}

	if cfg.SpacingFollower != "" {
		// "1,5 line spacing": the value precedes the anchor pair.
		for i := 1; i < len(tokens)-1; i++ {
			if strings.Contains(vocab.Lower(tokens[i]), cfg.SpacingAnchor) &&
				strings.Contains(vocab.Lower(tokens[i+1]), cfg.SpacingFollower) &&
				extract.StartsWithDigit(tokens[i-1]) {
				sp.String = LineSpacing(tokens[i-1])
				return
			}
		}
		return
	}

	for i, token := range tokens {
		if !strings.Contains(vocab.Lower(token), cfg.SpacingAnchor) {
			continue
		}
		for j := i; j < len(tokens) && tokens[j] != ""; j++ {
			if extract.StartsWithDigit(tokens[j]) {
				sp.String = LineSpacing(tokens[j])
				return
			}
			if strings.HasSuffix(tokens[j], ",") {
				break
			}
		}
		if value, ok := vocab.Lookup(sentence, cfg.SpacingWords); ok {
			sp.String = LineSpacing(value)
			return
		}
	}
}

func scanAlignment(jc *Justification, sentence string, tokens []string, b *vocab.Bundle) {
	table := b.Style.Alignments
	cue := b.Vocab(vocab.RoleAlignCue)
	if cue.Len() > 0 {
		if !cue.ContainsAny(sentence) {
			return
		}
		if value, ok := vocab.Lookup(sentence, table); ok {
			jc.Jc = value
		}
		return
	}
	for _, token := range tokens {
		if value, ok := vocab.Lookup(token, table); ok {
			jc.Jc = value
		}
	}
}

// scanSize returns the font size: the first number after a size cue, or with
// a size suffix the number written before or glued to it ("12 pt", "12pt").
func scanSize(tokens []string, b *vocab.Bundle) *int {
	if suffix := b.Style.SizeSuffix; suffix != "" {
		for i := 1; i < len(tokens); i++ {
			if !strings.Contains(vocab.Lower(tokens[i]), suffix) {
				continue
			}
			if extract.IsDigits(tokens[i-1]) {
				return FontSize(tokens[i-1])
			}
			if extract.StartsWithDigit(tokens[i]) {
				return FontSize(tokens[i])
			}
		}
		return nil
	}

	size := b.Vocab(vocab.RoleSize)
	for i, token := range tokens {
		if !size.ContainsAny(token) {
			continue
		}
		for j := i; j < len(tokens); j++ {
			if extract.StartsWithDigit(tokens[j]) {
				return FontSize(tokens[j])
			}
		}
	}
	return nil
}
