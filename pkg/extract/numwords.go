package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/norma/pkg/vocab"
)

// numberWord is one spelled-out numeral. Multipliers scale what precedes them.
type numberWord struct {
	value      int
	multiplier bool
}

var (
	wordPattern = regexp.MustCompile(`\p{L}+`)
	runGap      = regexp.MustCompile(`^[\s-]+$`)
)

var numberWordTables = map[string]map[string]numberWord{
	"ru": russianNumberWords(),
	"en": englishNumberWords(),
}

func russianNumberWords() map[string]numberWord {
	table := make(map[string]numberWord)
	add := func(value int, forms ...string) {
		for _, form := range forms {
			table[form] = numberWord{value: value}
		}
	}

	add(0, "ноль", "нуля", "нулю", "нулем", "нулём")
	add(1, "один", "одна", "одно", "одного", "одной", "одному", "одним", "одном", "одну")
	add(2, "два", "две", "двух", "двум", "двумя")
	add(3, "три", "трех", "трёх", "трем", "трём", "тремя")
	add(4, "четыре", "четырех", "четырёх", "четырем", "четырём", "четырьмя")
	add(5, "пять", "пяти", "пятью")
	add(6, "шесть", "шести", "шестью")
	add(7, "семь", "семи", "семью")
	add(8, "восемь", "восьми", "восемью", "восьмью")
	add(9, "девять", "девяти", "девятью")
	add(10, "десять", "десяти", "десятью")
	add(11, "одиннадцать", "одиннадцати")
	add(12, "двенадцать", "двенадцати")
	add(13, "тринадцать", "тринадцати")
	add(14, "четырнадцать", "четырнадцати")
	add(15, "пятнадцать", "пятнадцати")
	add(16, "шестнадцать", "шестнадцати")
	add(17, "семнадцать", "семнадцати")
	add(18, "восемнадцать", "восемнадцати")
	add(19, "девятнадцать", "девятнадцати")
	add(20, "двадцать", "двадцати")
	add(30, "тридцать", "тридцати")
	add(40, "сорок", "сорока")
	add(50, "пятьдесят", "пятидесяти")
	add(60, "шестьдесят", "шестидесяти")
	add(70, "семьдесят", "семидесяти")
	add(80, "восемьдесят", "восьмидесяти")
	add(90, "девяносто", "девяноста")
	add(100, "сто", "ста")
	add(200, "двести", "двухсот")
	add(300, "триста", "трехсот", "трёхсот")
	add(400, "четыреста", "четырехсот", "четырёхсот")
	add(500, "пятьсот", "пятисот")
	add(600, "шестьсот", "шестисот")
	add(700, "семьсот", "семисот")
	add(800, "восемьсот", "восьмисот")
	add(900, "девятьсот", "девятисот")

	for _, form := range []string{"тысяча", "тысячи", "тысяч", "тысячу", "тысячей", "тысячам"} {
		table[form] = numberWord{value: 1000, multiplier: true}
	}
	return table
}

func englishNumberWords() map[string]numberWord {
	table := make(map[string]numberWord)
	names := []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	for value, name := range names {
		table[name] = numberWord{value: value}
	}
	tens := []string{"twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	for i, name := range tens {
		table[name] = numberWord{value: (i + 2) * 10}
	}
	table["hundred"] = numberWord{value: 100, multiplier: true}
	table["thousand"] = numberWord{value: 1000, multiplier: true}
	return table
}

// ParseNumberWords replaces runs of spelled-out numerals with digits.
// Punctuation around a run is kept. Unknown languages leave text unchanged.
func ParseNumberWords(text string, lang string) string {
	table, ok := numberWordTables[lang]
	if !ok || text == "" {
		return text
	}

	locs := wordPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var out strings.Builder
	last := 0
	for i := 0; i < len(locs); {
		if _, ok := table[vocab.Lower(text[locs[i][0]:locs[i][1]])]; !ok {
			i++
			continue
		}

		// Extend the run over number words separated by spaces or hyphens.
		j := i + 1
		for j < len(locs) {
			if _, ok := table[vocab.Lower(text[locs[j][0]:locs[j][1]])]; !ok {
				break
			}
			if !runGap.MatchString(text[locs[j-1][1]:locs[j][0]]) {
				break
			}
			j++
		}

		words := make([]numberWord, 0, j-i)
		for k := i; k < j; k++ {
			words = append(words, table[vocab.Lower(text[locs[k][0]:locs[k][1]])])
		}

		out.WriteString(text[last:locs[i][0]])
		out.WriteString(strings.Join(composeNumbers(words), " "))
		last = locs[j-1][1]
		i = j
	}
	out.WriteString(text[last:])
	return out.String()
}

// composeNumbers folds a run of number words into one or more numbers.
// "двадцать пять" is 25; "два три" is two numbers.
func composeNumbers(words []numberWord) []string {
	var numbers []string
	total, current := 0, 0
	room := -1 // largest additive value that may follow; -1 means any
	started := false

	flush := func() {
		if started {
			numbers = append(numbers, strconv.Itoa(total+current))
		}
		total, current, room, started = 0, 0, -1, false
	}

	for _, w := range words {
		if w.multiplier {
			if current == 0 {
				current = 1
			}
			if w.value == 1000 {
				total += current * 1000
				current = 0
				room = 999
			} else {
				current *= w.value
				room = 99
			}
			started = true
			continue
		}

		if started && (room >= 0 && w.value > room || w.value == 0) {
			flush()
		}
		current += w.value
		started = true

		switch {
		case w.value == 0:
			room = 0
		case w.value >= 100:
			room = 99
		case w.value >= 20:
			room = 9
		default:
			room = 0
		}
		if w.value == 0 {
			flush()
		}
	}
	flush()
	return numbers
}
