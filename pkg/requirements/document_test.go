package requirements

import (
	"testing"

	"github.com/coolbeans/norma/pkg/vocab"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		lang       string
		paragraphs []string
		want       Format
	}{
		{"cyrillic letter", "ru", []string{"Формат листа А4, ориентация книжная."}, Format{"A4", "rus"}},
		{"last one wins", "ru", []string{"Формат А4.", "Приложения допускаются на листах А3."}, Format{"A3", "rus"}},
		{"latin letter", "en", []string{"Paper size A4."}, Format{"A4", "eng"}},
		{"latin letter ignored in russian", "ru", []string{"Paper size A4."}, Format{"", "rus"}},
		{"out of range", "ru", []string{"Формат А7."}, Format{"", "rus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.paragraphs, vocab.MustBuiltin(tt.lang)); got != tt.want {
				t.Errorf("DetectFormat() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLiteratureTemplate(t *testing.T) {
	ru := vocab.MustBuiltin("ru")

	tests := []struct {
		name       string
		paragraphs []string
		want       string
	}{
		{"gost trigger", []string{"Оформление по ГОСТ Р 7.0.100-2018."}, "ГОСТ Р 7.0.5 -2008"},
		{"named style", []string{"Введение.", "References in APA style."}, "APA"},
		{"first paragraph wins", []string{"Стиль Harvard.", "Оформление по ГОСТ."}, "Harvard"},
		{"none", []string{"Список литературы в конце статьи."}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LiteratureTemplate(tt.paragraphs, ru); got != tt.want {
				t.Errorf("LiteratureTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}
