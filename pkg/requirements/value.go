package requirements

import (
	"strconv"
	"strings"

	"github.com/coolbeans/norma/pkg/extract"
	"github.com/coolbeans/norma/pkg/vocab"
)

// Value is a count bound read from section text. W is the rule code: Kw for
// keywords, W for words or characters and s for references.
type Value struct {
	W   string     `json:"w"`
	Val ValueRange `json:"val"`
}

// ValueRange holds the number attached to the count noun (Val1) and the
// farthest number of the bound phrase before it (Val2), zero when absent.
type ValueRange struct {
	Val1 int `json:"val1"`
	Val2 int `json:"val2"`
}

// ExtractValue applies the bundle value rules to every period-delimited
// sentence and returns the first count found, or nil.
func ExtractValue(text string, b *vocab.Bundle) *Value {
	measures := vocab.NewVocabulary("measure", b.Measures)

	for _, sentence := range extract.SplitPeriods(text) {
		held := make(map[string]bool, len(b.ValueRules))

		for _, rule := range b.ValueRules {
			if rule.ElseOf != "" && held[rule.ElseOf] {
				continue
			}
			if !ruleHolds(rule, sentence) {
				continue
			}
			held[rule.Code] = true

			if v := applyRule(rule, sentence, measures, b); v != nil {
				return v
			}
		}
	}
	return nil
}

func ruleHolds(rule vocab.ValueRule, sentence string) bool {
	if len(rule.SentenceAll) == 0 && len(rule.SentenceAny) == 0 {
		return false
	}
	for _, word := range rule.SentenceAll {
		if !vocab.ContainsAny(sentence, []string{word}) {
			return false
		}
	}
	if len(rule.SentenceAny) > 0 && !vocab.ContainsAny(sentence, rule.SentenceAny) {
		return false
	}
	return true
}

func applyRule(rule vocab.ValueRule, sentence string, measures *vocab.Vocabulary, b *vocab.Bundle) *Value {
	cleaned := extract.CleanForm(sentence, b)
	for _, s := range rule.Strip {
		cleaned = strings.ReplaceAll(cleaned, s, "")
	}
	var tokens []string
	for _, token := range extract.Tokens(cleaned) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	nouns := vocab.NewVocabulary("noun", rule.Nouns)
	for i := range tokens {
		n, ok := leadingInt(tokens[i])
		if !ok {
			continue
		}
		next := i+1 < len(tokens) && nouns.ContainsAny(tokens[i+1])
		prev := rule.Preceding && i > 0 && nouns.ContainsAny(tokens[i-1])
		if !next && !prev {
			continue
		}

		v := &Value{W: rule.Code, Val: ValueRange{Val1: n}}
		for k := i - 1; k >= 0; k-- {
			if extract.IsDigits(tokens[k]) {
				v.Val.Val2, _ = strconv.Atoi(tokens[k])
				continue
			}
			if !measures.ContainsAny(tokens[k]) {
				break
			}
		}
		return v
	}
	return nil
}

// leadingInt parses the digits a token starts with: "5," is 5.
func leadingInt(token string) (int, bool) {
	end := 0
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(token[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ImageFormats returns the known image file formats named in text, in table
// order.
func ImageFormats(text string, b *vocab.Bundle) []string {
	text = strings.NewReplacer(".", "", ",", "").Replace(text)
	words := make(map[string]bool)
	for _, word := range strings.Split(vocab.Lower(text), " ") {
		words[word] = true
	}

	formats := []string{}
	for _, format := range b.ImageFormats {
		if words[format] {
			formats = append(formats, format)
		}
	}
	return formats
}
