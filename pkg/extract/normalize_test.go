package extract

import (
	"reflect"
	"testing"

	"github.com/coolbeans/norma/pkg/vocab"
)

func TestNormalizeRanges(t *testing.T) {
	ru := vocab.MustBuiltin("ru")
	en := vocab.MustBuiltin("en")

	tests := []struct {
		name   string
		bundle *vocab.Bundle
		input  string
		want   string
	}{
		{"hyphen range", ru, "объем 5-7 страниц", "объем от 5 до 7 страниц"},
		{"en dash range", ru, "объем 5–7 страниц", "объем от 5 до 7 страниц"},
		{"english range", en, "length 10-12 pages", "length from 10 to 12 pages"},
		{"split thousands", ru, "не более 10 000 знаков", "не более 10000 знаков"},
		{"merge consumes last token", ru, "объем 10 000", "объем 10000"},
		{"parentheses removed", ru, "шрифт (кегль 14) ок", "шрифт кегль 14 ок"},
		{"nbsp and newline", ru, "не\u00a0менее\n5 слов", "не менее 5 слов"},
		{"empty tokens dropped", ru, "a  b", "a b"},
		{"range as last token", ru, "Объём 5-10", "Объём от 5 до 10"},
		{"english range as last token", en, "length 10-12", "length from 10 to 12"},
		{"several thousands separators", ru, "10 000 000", "10000000"},
		{"separators then word", ru, "до 1 000 000 знаков", "до 1000000 знаков"},
		{"trailing space dropped", ru, "объем 5 ", "объем 5"},
		{"single token", ru, "текст", "текст"},
		{"empty", ru, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanForm(tt.input, tt.bundle); got != tt.want {
				t.Errorf("CleanForm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNumberWords(t *testing.T) {
	ru := vocab.MustBuiltin("ru")

	got := Normalize("не менее пяти ключевых слов", ru)
	if want := "не менее 5 ключевых слов"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}

	// CleanForm keeps number words.
	got = CleanForm("не менее пяти ключевых слов", ru)
	if want := "не менее пяти ключевых слов"; got != want {
		t.Errorf("CleanForm() = %q, want %q", got, want)
	}

	if got, want := Normalize("Объём 5-10", ru), "Объём от 5 до 10"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
	if got, want := Normalize("не более 10 000 000 знаков", ru), "не более 10000000 знаков"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestDecimalCommas(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"интервал 1.5. Шрифт", "интервал 1,5. Шрифт"},
		{"ver 1.2.3", "ver 1,2,3"},
		{"end. 5", "end. 5"},
	}
	for _, tt := range tests {
		if got := DecimalCommas(tt.input); got != tt.want {
			t.Errorf("DecimalCommas(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseNumberWords(t *testing.T) {
	tests := []struct {
		lang  string
		input string
		want  string
	}{
		{"ru", "пяти", "5"},
		{"ru", "двадцать пять страниц", "25 страниц"},
		{"ru", "две тысячи сто знаков", "2100 знаков"},
		{"ru", "пять тысяч", "5000"},
		{"ru", "Десять,", "10,"},
		{"ru", "два три", "2 3"},
		{"ru", "пятиэтажный", "пятиэтажный"},
		{"en", "twenty-five words", "25 words"},
		{"en", "one hundred twenty", "120"},
		{"en", "two thousand three hundred", "2300"},
		{"en", "no numbers here", "no numbers here"},
		{"de", "fünf", "fünf"},
	}

	for _, tt := range tests {
		if got := ParseNumberWords(tt.input, tt.lang); got != tt.want {
			t.Errorf("ParseNumberWords(%q, %s) = %q, want %q", tt.input, tt.lang, got, tt.want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Объем статьи 5 страниц. Шрифт Times New Roman.")
	want := []string{"Объем статьи 5 страниц.", "Шрифт Times New Roman."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSentences() = %q, want %q", got, want)
	}

	if got := SplitSentences("   "); got != nil {
		t.Errorf("SplitSentences(blank) = %q, want nil", got)
	}

	// Restartable: the same input gives the same output.
	again := SplitSentences("Объем статьи 5 страниц. Шрифт Times New Roman.")
	if !reflect.DeepEqual(again, want) {
		t.Errorf("second SplitSentences() = %q, want %q", again, want)
	}
}

func TestDigitHelpers(t *testing.T) {
	if !IsDigits("2018") || IsDigits("") || IsDigits("12a") {
		t.Error("IsDigits mismatch")
	}
	if !StartsWithDigit("2см") || StartsWithDigit("см2") || StartsWithDigit("") {
		t.Error("StartsWithDigit mismatch")
	}
}
