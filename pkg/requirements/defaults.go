package requirements

// Literal defaults used when no section states a value.
const (
	defaultMarginVertical   = 1136
	defaultMarginHorizontal = 1420
	defaultFontSize         = 24
	defaultFont             = "Times New Roman"
	defaultIndent           = 280
	defaultLineSpacing      = 240
	defaultAlignment        = "both"
	defaultTemplate         = "ГОСТ Р 7.0.100 -2018"
	defaultFormat           = "A4"
	defaultFormatLang       = "rus"
)

// Defaults is the document-wide style: the first value stated by any section,
// or a literal default.
type Defaults struct {
	Fields   Fields        `json:"fields"`
	Kegl     int           `json:"kegl"`
	Font     FontName      `json:"font"`
	Indent   Indent        `json:"indent"`
	Inter    Spacing       `json:"inter"`
	Jc       Justification `json:"jc"`
	Template string        `json:"template"`
	Format   Format        `json:"format"`
}

// FillDefaults takes, field by field, the first value found over the sections
// in order and fills the rest with literal defaults.
func FillDefaults(sections []SectionRecord) Defaults {
	var d Defaults
	var kegl *int

	for _, s := range sections {
		st := s.Style
		firstInt(&d.Fields.Top, st.Fields.Top)
		firstInt(&d.Fields.Bottom, st.Fields.Bottom)
		firstInt(&d.Fields.Left, st.Fields.Left)
		firstInt(&d.Fields.Right, st.Fields.Right)
		firstString(&d.Fields.Unit, st.Fields.Unit)
		firstInt(&kegl, st.Kegl)
		firstString(&d.Font.Font, st.Font.Font)
		firstInt(&d.Indent.First, st.Indent.First)
		firstInt(&d.Inter.String, st.Inter.String)
		firstString(&d.Jc.Jc, st.Jc.Jc)
		firstString(&d.Template, s.Template)
	}

	firstInt(&d.Fields.Top, intPtr(defaultMarginVertical))
	firstInt(&d.Fields.Bottom, intPtr(defaultMarginVertical))
	firstInt(&d.Fields.Left, intPtr(defaultMarginHorizontal))
	firstInt(&d.Fields.Right, intPtr(defaultMarginHorizontal))
	firstInt(&kegl, intPtr(defaultFontSize))
	d.Kegl = *kegl
	firstString(&d.Font.Font, defaultFont)
	for _, slot := range []**int{&d.Indent.First, &d.Indent.Top, &d.Indent.Bottom, &d.Indent.Left, &d.Indent.Right, &d.Indent.String} {
		firstInt(slot, intPtr(defaultIndent))
	}
	firstInt(&d.Inter.String, intPtr(defaultLineSpacing))
	firstString(&d.Jc.Jc, defaultAlignment)
	firstString(&d.Template, defaultTemplate)
	d.Format = Format{Format: defaultFormat, Lang: defaultFormatLang}
	return d
}

func firstInt(dst **int, v *int) {
	if *dst == nil && v != nil {
		*dst = intPtr(*v)
	}
}

func firstString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
