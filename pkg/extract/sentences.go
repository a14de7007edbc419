package extract

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"golang.org/x/text/unicode/norm"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

func sentenceTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
	})
	return tokenizer, tokenizerErr
}

// SplitSentences splits normalized text into sentences with the punkt
// boundary detector. Empty sentences are dropped. If the tokenizer cannot be
// built, text is split on periods instead.
func SplitSentences(text string) []string {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tok, err := sentenceTokenizer()
	if err != nil {
		return trimmed(SplitPeriods(text))
	}

	var result []string
	for _, s := range tok.Tokenize(text) {
		if sentence := strings.TrimSpace(s.Text); sentence != "" {
			result = append(result, sentence)
		}
	}
	return result
}

func trimmed(parts []string) []string {
	var result []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
