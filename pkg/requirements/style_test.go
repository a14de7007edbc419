package requirements

import (
	"testing"

	"github.com/coolbeans/norma/pkg/vocab"
)

func TestExtractStyleRussian(t *testing.T) {
	ru := vocab.MustBuiltin("ru")

	st := ExtractStyle("Шрифт Times New Roman, кегль 14, межстрочный интервал полуторный, выравнивание по ширине.", ru)
	if st.Font.Font != "Times New Roman" {
		t.Errorf("Font = %q, want Times New Roman", st.Font.Font)
	}
	if !eqInt(st.Kegl, 28) {
		t.Errorf("Kegl = %v, want 28", show(st.Kegl))
	}
	if !eqInt(st.Inter.String, 360) {
		t.Errorf("Inter = %v, want 360", show(st.Inter.String))
	}
	if st.Jc.Jc != "both" {
		t.Errorf("Jc = %q, want both", st.Jc.Jc)
	}
	if !st.Fields.Empty() {
		t.Errorf("Fields = %+v, want empty", st.Fields)
	}
}

func TestExtractStyleMargins(t *testing.T) {
	tests := []struct {
		name   string
		lang   string
		text   string
		top    int
		bottom int
		left   int
		right  int
		unit   string
	}{
		{
			name: "russian sides share a value",
			lang: "ru",
			text: "Поля: верхнее и нижнее 2 см, левое 3 см, правое 1,5 см.",
			top:  1136, bottom: 1136, left: 1704, right: 852,
			unit: "см",
		},
		{
			name: "english exact sides",
			lang: "en",
			text: "Margins: top 2 cm, bottom 2 cm, left 3 cm, right 1.5 cm.",
			top:  1136, bottom: 1136, left: 1704, right: 852,
			unit: "cm",
		},
		{
			name: "english glued values",
			lang: "en",
			text: "Use top margin2cm and bottom margin3cm.",
			top:  1136, bottom: 1704,
			unit: "cm",
		},
		{
			name: "english uniform margin",
			lang: "en",
			text: "Margins 2cm on all sides.",
			top:  1136, bottom: 1136, left: 1136, right: 1136,
			unit: "cm",
		},
	}

	check := func(t *testing.T, side string, got *int, want int) {
		t.Helper()
		if want == 0 {
			if got != nil {
				t.Errorf("%s = %d, want nil", side, *got)
			}
			return
		}
		if !eqInt(got, want) {
			t.Errorf("%s = %v, want %d", side, show(got), want)
		}
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ExtractStyle(tt.text, vocab.MustBuiltin(tt.lang)).Fields
			check(t, "Top", f.Top, tt.top)
			check(t, "Bottom", f.Bottom, tt.bottom)
			check(t, "Left", f.Left, tt.left)
			check(t, "Right", f.Right, tt.right)
			if f.Unit != tt.unit {
				t.Errorf("Unit = %q, want %q", f.Unit, tt.unit)
			}
		})
	}
}

func TestExtractStyleIndentAndSpacing(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		text    string
		indent  int
		spacing int
	}{
		{"russian indent", "ru", "Отступ первой строки 1,25 см.", 710, 0},
		{"russian numeric spacing", "ru", "Межстрочный интервал 2.", 0, 480},
		{"russian single spacing word", "ru", "Интервал одинарный.", 0, 240},
		{"english indent", "en", "First line indent of paragraphs is 1.25 cm.", 710, 0},
		{"english spacing", "en", "Use 1.5 line spacing.", 0, 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ExtractStyle(tt.text, vocab.MustBuiltin(tt.lang))
			if tt.indent == 0 && st.Indent.First != nil {
				t.Errorf("Indent.First = %d, want nil", *st.Indent.First)
			}
			if tt.indent != 0 && !eqInt(st.Indent.First, tt.indent) {
				t.Errorf("Indent.First = %v, want %d", show(st.Indent.First), tt.indent)
			}
			if tt.spacing == 0 && st.Inter.String != nil {
				t.Errorf("Inter = %d, want nil", *st.Inter.String)
			}
			if tt.spacing != 0 && !eqInt(st.Inter.String, tt.spacing) {
				t.Errorf("Inter = %v, want %d", show(st.Inter.String), tt.spacing)
			}
		})
	}
}

func TestExtractStyleAlignment(t *testing.T) {
	tests := []struct {
		name string
		lang string
		text string
		want string
	}{
		{"last word wins", "ru", "Заголовки по центру, текст по ширине.", "both"},
		{"last word wins reversed", "ru", "Текст по ширине, подписи по центру.", "center"},
		{"english needs the cue", "en", "Paragraph justification: centred.", "center"},
		{"english without cue", "en", "Place the logo on the left.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractStyle(tt.text, vocab.MustBuiltin(tt.lang)).Jc.Jc; got != tt.want {
				t.Errorf("Jc = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractStyleEnglishSize(t *testing.T) {
	st := ExtractStyle("Set the text in 12 pt Times New Roman.", vocab.MustBuiltin("en"))
	if !eqInt(st.Kegl, 24) {
		t.Errorf("Kegl = %v, want 24", show(st.Kegl))
	}
	if st.Font.Font != "Times New Roman" {
		t.Errorf("Font = %q", st.Font.Font)
	}

	st = ExtractStyle("Font size 11pt.", vocab.MustBuiltin("en"))
	if !eqInt(st.Kegl, 22) {
		t.Errorf("Kegl = %v, want 22", show(st.Kegl))
	}
}

func TestExtractStyleEmpty(t *testing.T) {
	if st := ExtractStyle("", vocab.MustBuiltin("ru")); !st.Empty() {
		t.Errorf("ExtractStyle(\"\") = %+v, want empty", st)
	}
}
