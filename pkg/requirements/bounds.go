package requirements

import (
	"strconv"
	"strings"

	"github.com/coolbeans/norma/pkg/extract"
	"github.com/coolbeans/norma/pkg/vocab"
)

// negationWindow is how many tokens before a min/max stem are checked for a
// negation.
const negationWindow = 4

// imageNoiseWindow is how many tokens after an image count may carry a
// percentage that disqualifies it.
const imageNoiseWindow = 4

// Bounds is a minimum and maximum count. Either may be absent.
type Bounds struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// Volume bounds the article size. Units are bundle codes such as стр, сбп,
// ссп or слов.
type Volume struct {
	Min     *int   `json:"min"`
	MinUnit string `json:"min_unit,omitempty"`
	Max     *int   `json:"max"`
	MaxUnit string `json:"max_unit,omitempty"`
}

// MinMaxExists reports whether a sentence states a lower or an upper bound.
// An inverted phrase ("не менее") implies the bound directly; otherwise a
// min/max stem counts unless a negation occurs within the previous four
// tokens.
func MinMaxExists(sentence string, b *vocab.Bundle) (minimum, maximum bool) {
	tokens := extract.Tokens(sentence)
	minimum = b.Vocab(vocab.RoleMinInverted).ContainsAny(sentence) ||
		stemWithoutNegation(tokens, b.Vocab(vocab.RoleMin), b.Negations)
	maximum = b.Vocab(vocab.RoleMaxInverted).ContainsAny(sentence) ||
		stemWithoutNegation(tokens, b.Vocab(vocab.RoleMax), b.Negations)
	return minimum, maximum
}

func stemWithoutNegation(tokens []string, stems *vocab.Vocabulary, negations []string) bool {
	for i, token := range tokens {
		if !stems.ContainsAny(token) {
			continue
		}
		negated := false
		for j := 1; j <= negationWindow && i-j >= 0; j++ {
			if isWord(tokens[i-j], negations) {
				negated = true
				break
			}
		}
		if !negated {
			return true
		}
	}
	return false
}

// isWord reports whether token equals one of words, ignoring case.
func isWord(token string, words []string) bool {
	lowered := vocab.Lower(token)
	for _, w := range words {
		if lowered == w {
			return true
		}
	}
	return false
}

// count parses a bare integer token; trailing punctuation is ignored.
func count(token string) (int, bool) {
	token = strings.TrimRight(token, ",;:")
	if !extract.IsDigits(token) {
		return 0, false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

// boundTracker keeps the largest minimum and the smallest maximum.
type boundTracker struct {
	min, max         *int
	minUnit, maxUnit string
}

func (t *boundTracker) offer(n int, isMin, isMax bool, unit string) {
	if isMin && (t.min == nil || n > *t.min) {
		t.min = intPtr(n)
		t.minUnit = unit
	}
	if isMax && (t.max == nil || n < *t.max) {
		t.max = intPtr(n)
		t.maxUnit = unit
	}
}

// boundSentences yields the number-word-parsed sentences of every paragraph
// that pass the filter, both at paragraph and at sentence level.
func boundSentences(paragraphs []string, b *vocab.Bundle, paragraphOK, sentenceOK func(string) bool, yield func(string)) {
	for _, paragraph := range paragraphs {
		text := extract.CleanForm(paragraph, b)
		if !paragraphOK(text) {
			continue
		}
		for _, sentence := range extract.SplitPeriods(text) {
			if !sentenceOK(sentence) {
				continue
			}
			yield(extract.ParseNumberWords(sentence, b.NumberWords))
		}
	}
}

// scanNumbers offers every integer token of a sentence to the tracker. A
// number directly after a bundle bound word is a bound of that kind; the
// sentence-level min/max decision applies to all numbers.
func scanNumbers(sentence string, b *vocab.Bundle, t *boundTracker, skip func(tokens []string, i int) bool, unit func(tokens []string, i int) string) {
	minOK, maxOK := MinMaxExists(sentence, b)
	tokens := extract.Tokens(sentence)
	for i, token := range tokens {
		n, ok := count(token)
		if !ok {
			continue
		}
		if skip != nil && skip(tokens, i) {
			continue
		}
		u := ""
		if unit != nil {
			u = unit(tokens, i)
		}
		isMin := minOK || (i > 0 && isWord(tokens[i-1], b.Bounds.Min))
		isMax := maxOK || (i > 0 && isWord(tokens[i-1], b.Bounds.Max))
		t.offer(n, isMin, isMax, u)
	}
}

// VolumeBounds mines the minimum and maximum article volume from sentences
// mentioning both a volume word and an article word. The unit sticks until
// another one is found after a later number.
func VolumeBounds(paragraphs []string, b *vocab.Bundle) Volume {
	volume := b.Vocab(vocab.RoleVolume)
	article := b.Vocab(vocab.RoleArticle)

	var t boundTracker
	current := ""
	unit := func(tokens []string, i int) string {
		window := strings.Join(tokens[i+1:min(i+4, len(tokens))], " ")
		if code := volumeUnit(window, b.VolumeUnits); code != "" {
			current = code
		}
		return current
	}

	boundSentences(paragraphs, b,
		func(text string) bool {
			return (volume.ContainsAny(text) || volumeUnit(text, b.VolumeUnits) != "") && article.ContainsAny(text)
		},
		func(sentence string) bool {
			return volume.ContainsAny(sentence) && article.ContainsAny(sentence)
		},
		func(sentence string) {
			scanNumbers(sentence, b, &t, nil, unit)
		})

	return Volume{Min: t.min, MinUnit: t.minUnit, Max: t.max, MaxUnit: t.maxUnit}
}

// volumeUnit returns the code of the unit written earliest in text. Rules
// matching at the same position are tried in table order.
func volumeUnit(text string, rules []vocab.UnitRule) string {
	lowered := vocab.Lower(text)
	best, code := -1, ""
	for _, rule := range rules {
		idx := strings.Index(lowered, rule.Match)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best, code = idx, rule.Code
		}
	}
	return code
}

// CountBounds mines a minimum and maximum count from sentences containing a
// word of the trigger vocabulary role. With skipImageNoise, numbers followed
// by "dpi" or by a percentage within four tokens are ignored.
func CountBounds(paragraphs []string, role string, b *vocab.Bundle, skipImageNoise bool) Bounds {
	trigger := b.Vocab(role)

	var skip func([]string, int) bool
	if skipImageNoise {
		skip = imageNoise
	}

	var t boundTracker
	boundSentences(paragraphs, b, trigger.ContainsAny, trigger.ContainsAny, func(sentence string) {
		scanNumbers(sentence, b, &t, skip, nil)
	})
	return Bounds{Min: t.min, Max: t.max}
}

func imageNoise(tokens []string, i int) bool {
	if i+1 < len(tokens) && vocab.Lower(strings.Trim(tokens[i+1], ",;:")) == "dpi" {
		return true
	}
	for j := 1; j <= imageNoiseWindow && i+j < len(tokens); j++ {
		if strings.Contains(tokens[i+j], "%") {
			return true
		}
	}
	return false
}
