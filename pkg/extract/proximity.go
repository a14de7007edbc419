package extract

import (
	"github.com/coolbeans/norma/pkg/vocab"
)

const (
	// LeftRightBias is how much closer a value on the right must be before it
	// beats a value on the left.
	LeftRightBias = 10

	// NoMatch is the distance reported when no label pair was found.
	NoMatch = 1000
)

// Distances holds the smallest property-to-value distance on each side of
// the property label.
type Distances struct {
	Left  int
	Right int
}

// Pick chooses a side. The left value wins unless the right one is more than
// LeftRightBias characters closer. ok is false when nothing matched.
func (d Distances) Pick() (distance int, valueIsRight bool, ok bool) {
	if d.Left >= NoMatch && d.Right >= NoMatch {
		return NoMatch, true, false
	}
	if d.Left < d.Right+LeftRightBias {
		return d.Left, false, true
	}
	return d.Right, true, true
}

// LabelDistances measures, for every property match i and value match j,
// |i-j| in runes of the lowercased text, keeping the minimum per side. A
// value starting at or after the property start is on the right.
func LabelDistances(text string, propertyLabels, valueLabels []string) Distances {
	d := Distances{Left: NoMatch, Right: NoMatch}

	props := matchStarts(text, propertyLabels)
	if len(props) == 0 {
		return d
	}
	values := matchStarts(text, valueLabels)

	for _, i := range props {
		for _, j := range values {
			dist := abs(i - j)
			if j >= i {
				if dist < d.Right {
					d.Right = dist
				}
			} else if dist < d.Left {
				d.Left = dist
			}
		}
	}
	return d
}

// LabelsDistance returns the picked distance and whether the value lies to the
// right of the property. It returns (NoMatch, true) when nothing matched.
func LabelsDistance(text string, propertyLabels, valueLabels []string) (int, bool) {
	distance, right, ok := LabelDistances(text, propertyLabels, valueLabels).Pick()
	if !ok {
		return NoMatch, true
	}
	return distance, right
}

// matchStarts returns the rune offsets of every label match.
func matchStarts(text string, labels []string) []int {
	lowered := vocab.Lower(text)
	matches := vocab.NewVocabulary("labels", labels).FindAll(text)
	starts := make([]int, 0, len(matches))
	for _, m := range matches {
		starts = append(starts, runeOffset(lowered, m.Start))
	}
	return starts
}

// runeOffset converts a byte offset in s to a rune offset.
func runeOffset(s string, byteOffset int) int {
	n := 0
	for i := range s {
		if i >= byteOffset {
			break
		}
		n++
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
