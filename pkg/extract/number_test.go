package extract

import (
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"12", 12, true},
		{"1,5", 1.5, true},
		{"1.5", 1.5, true},
		{"5,", 5, true},
		{"", 0, false},
		{",", 0, false},
		{".", 0, false},
		{"1,5,3", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseNumber(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		label  string
		want   float64
		wantOK bool
	}{
		{"number before label", "не менее 150 страниц", "страниц", 150, true},
		{"decimal before label", "интервал 1,5 строки", "строки", 1.5, true},
		{"number after label", "страниц: 150", "страниц", 150, true},
		{"no number", "много страниц вообще", "страниц", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := runeIndex(tt.text, tt.label)
			end := start + len([]rune(tt.label))
			got, ok := ExtractNumber(tt.text, start, end)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractNumber() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractNumberOutOfRange(t *testing.T) {
	if _, ok := ExtractNumber("abc", 10, 12); ok {
		t.Error("out of range label should be absent")
	}
}

func TestFindNumbersNearOrdersByDistance(t *testing.T) {
	text := "1 xxxx 22 xx 333"
	hits := FindNumbersNear(text, 10, 20)
	if len(hits) != 3 {
		t.Fatalf("FindNumbersNear() returned %d hits, want 3", len(hits))
	}
	if hits[0].Text != "22" {
		t.Errorf("nearest hit = %q, want 22", hits[0].Text)
	}
	if hits[0].Offset != 7 || hits[0].Distance != 3 {
		t.Errorf("hits[0] = %+v", hits[0])
	}

	if hits := FindNumbersNear(text, 3, 2); len(hits) != 0 {
		t.Errorf("window without digits returned %v", hits)
	}
}

func TestQuantitativeValue(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     float64
		wantOK   bool
	}{
		{
			name:     "earlier year ignored",
			sentence: "С 2019 года объем статьи не менее 150 страниц",
			want:     150,
			wantOK:   true,
		},
		{
			name:     "bounded to sentence",
			sentence: "Объем статьи не менее 10 страниц. Приложения 20 страниц",
			want:     10,
			wantOK:   true,
		},
		{
			name:     "decimal point is not a boundary",
			sentence: "Объем 2.5 страниц",
			want:     2.5,
			wantOK:   true,
		},
		{
			name:     "no value label",
			sentence: "Объем статьи не ограничен",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dist, ok := QuantitativeValue(tt.sentence, []string{"объем"}, []string{"страниц"})
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("QuantitativeValue() = (%v, %d, %v), want (%v, %v)", got, dist, ok, tt.want, tt.wantOK)
			}
			if !ok && dist != NoMatch {
				t.Errorf("distance = %d, want %d when absent", dist, NoMatch)
			}
		})
	}
}

func runeIndex(s, sub string) int {
	runes := []rune(s)
	target := []rune(sub)
	for i := 0; i+len(target) <= len(runes); i++ {
		if string(runes[i:i+len(target)]) == sub {
			return i
		}
	}
	return -1
}
