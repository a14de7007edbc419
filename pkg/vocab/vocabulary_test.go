package vocab

import "testing"

func TestVocabularyContainsAnyWith(t *testing.T) {
	v := NewVocabulary("min", []string{"мин", "бол", "выш"})

	tests := []struct {
		name      string
		text      string
		wantOK    bool
		wantEntry string
	}{
		{"first entry", "Минимальный объём", true, "мин"},
		{"order decides", "больше минимума", true, "мин"},
		{"second entry", "Не более пяти", true, "бол"},
		{"no match", "ровно пять страниц", false, ""},
		{"empty text", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, entry := v.ContainsAnyWith(tt.text)
			if ok != tt.wantOK || entry != tt.wantEntry {
				t.Errorf("ContainsAnyWith(%q) = (%v, %q), want (%v, %q)", tt.text, ok, entry, tt.wantOK, tt.wantEntry)
			}
		})
	}
}

func TestVocabularyRegexEntries(t *testing.T) {
	v := NewVocabulary("templates", []string{"NISO Z39.29-2005", "C++(", "ключев\\w* слов"})

	if !v.ContainsAny("Оформление по NISO Z39.29-2005") {
		t.Error("regex entry with dots should match literally present text")
	}
	if !v.ContainsAny("язык c++( не нужен") {
		t.Error("invalid regex entry should fall back to literal match")
	}
	if !v.ContainsAny("Не менее 5 Ключевых слов") {
		t.Error("regex entry should match case-insensitively")
	}
}

func TestVocabularyUnicodeWordClasses(t *testing.T) {
	tests := []struct {
		entry string
		text  string
		want  bool
	}{
		{`ключев\w* слов`, "не менее пяти ключевых слов", true},
		{`ключев\w* слов`, "ключев- слов", false},
		{`[\w]+ов\b`, "список источников.", true},
		{`\bпол`, "поля 2 см", true},
		{`\bпол`, "пополам", false},
		{`слов\b`, "до 250 слов.", true},
		{`слов\b`, "ключевые слова", false},
		{`кегл\B`, "кегль 14", true},
		{`кегл\B`, "кегл 14", false},
		{`\Bстр`, "подстрочный", true},
		{`см\W`, "2 см,", true},
		{`см\W`, "смотри", false},
		{`\\b`, `путь c:\b`, true},
	}
	for _, tt := range tests {
		v := NewVocabulary("test", []string{tt.entry})
		if got := v.ContainsAny(tt.text); got != tt.want {
			t.Errorf("%q ContainsAny(%q) = %v, want %v", tt.entry, tt.text, got, tt.want)
		}
	}
}

func TestVocabularyBoundaryFindAll(t *testing.T) {
	v := NewVocabulary("test", []string{`\bпол\b`})
	matches := v.FindAll("пол, поле и пол")
	if len(matches) != 2 {
		t.Fatalf("FindAll() returned %d matches, want 2: %+v", len(matches), matches)
	}
	if matches[0].Start != 0 || matches[1].Start != len("пол, поле и ") {
		t.Errorf("matches = %+v", matches)
	}
}

func TestVocabularyFindAll(t *testing.T) {
	v := NewVocabulary("labels", []string{"abc", "x"})
	matches := v.FindAll("ABC x abc")

	if len(matches) != 3 {
		t.Fatalf("FindAll() returned %d matches, want 3", len(matches))
	}
	if matches[0].Entry != "abc" || matches[0].Start != 0 || matches[0].End != 3 {
		t.Errorf("matches[0] = %+v", matches[0])
	}
	if matches[1].Start != 6 {
		t.Errorf("matches[1].Start = %d, want 6", matches[1].Start)
	}
	if matches[2].Entry != "x" || matches[2].Start != 4 {
		t.Errorf("matches[2] = %+v", matches[2])
	}
}

func TestVocabularyNil(t *testing.T) {
	var v *Vocabulary
	if v.ContainsAny("text") {
		t.Error("nil vocabulary should not match")
	}
	if v.Len() != 0 || v.FindAll("text") != nil {
		t.Error("nil vocabulary should be empty")
	}
}

func TestContainsLiteral(t *testing.T) {
	if !ContainsLiteral("Список литературы", []string{"Список литературы"}) {
		t.Error("expected literal match")
	}
	if ContainsLiteral("список литературы", []string{"Список литературы"}) {
		t.Error("literal match must be case-sensitive")
	}
	if ContainsLiteral("anything", []string{""}) {
		t.Error("empty phrase must not match")
	}
}

func TestLookup(t *testing.T) {
	table := []WordValue{
		{Value: "both", Words: []string{"ширине"}},
		{Value: "center", Words: []string{"центру"}},
	}
	if got, ok := Lookup("по центру", table); !ok || got != "center" {
		t.Errorf("Lookup() = (%q, %v), want (center, true)", got, ok)
	}
	if _, ok := Lookup("слева", table); ok {
		t.Error("Lookup() should not match")
	}
}
