package reader

import (
	"github.com/coolbeans/norma/pkg/extract"
	"github.com/coolbeans/norma/pkg/ontology"
)

// quantitativeValues keeps the single closest property/value pairing that
// carries a number.
func quantitativeValues(prop ontology.Property, candidates []ontology.Value, sentences []string) []ActualValue {
	best := extract.NoMatch
	var found *ActualValue

	for _, candidate := range candidates {
		for _, s := range sentencesWith(sentences, candidate.Labels) {
			number, distance, ok := extract.QuantitativeValue(s, prop.Labels, candidate.Labels)
			if !ok || distance >= best {
				continue
			}
			best = distance
			n := number
			found = &ActualValue{Value: candidate.ID, Number: &n, Distance: distance}
		}
	}

	if found == nil {
		return nil
	}
	return []ActualValue{*found}
}

// enumValues returns the nearest candidate first and the other matched
// candidates after it in discovery order.
func enumValues(prop ontology.Property, candidates []ontology.Value, sentences []string) []ActualValue {
	var values []ActualValue

	for _, candidate := range candidates {
		matched := sentencesWith(sentences, candidate.Labels)
		if len(matched) == 0 {
			continue
		}
		value := ActualValue{Value: candidate.ID, Distance: extract.NoMatch, Right: true}
		for _, s := range matched {
			distance, right := extract.LabelsDistance(s, prop.Labels, candidate.Labels)
			if distance < value.Distance {
				value.Distance = distance
				value.Right = right
			}
		}
		values = append(values, value)
	}

	if len(values) < 2 {
		return values
	}
	nearest := 0
	for i, v := range values {
		if v.Distance < values[nearest].Distance {
			nearest = i
		}
	}
	ordered := make([]ActualValue, 0, len(values))
	ordered = append(ordered, values[nearest])
	ordered = append(ordered, values[:nearest]...)
	return append(ordered, values[nearest+1:]...)
}

// permissionValues compares the best value left of the property with the best
// one right of it. The left one wins unless the right one is more than
// LeftRightBias closer.
func permissionValues(prop ontology.Property, candidates []ontology.Value, sentences []string) []ActualValue {
	best := extract.Distances{Left: extract.NoMatch, Right: extract.NoMatch}
	var left, right string

	for _, candidate := range candidates {
		for _, s := range sentencesWith(sentences, candidate.Labels) {
			d := extract.LabelDistances(s, prop.Labels, candidate.Labels)
			if d.Left < best.Left {
				best.Left = d.Left
				left = candidate.ID
			}
			if d.Right < best.Right {
				best.Right = d.Right
				right = candidate.ID
			}
		}
	}

	distance, valueIsRight, ok := best.Pick()
	if !ok {
		return nil
	}
	id := left
	if valueIsRight {
		id = right
	}
	return []ActualValue{{Value: id, Distance: distance, Right: valueIsRight}}
}

// labeledValues returns every candidate mentioned in the sentences, once.
func labeledValues(prop ontology.Property, candidates []ontology.Value, sentences []string) []ActualValue {
	var values []ActualValue
	for _, candidate := range candidates {
		matched := sentencesWith(sentences, candidate.Labels)
		if len(matched) == 0 {
			continue
		}
		distance, right := extract.LabelsDistance(matched[0], prop.Labels, candidate.Labels)
		values = append(values, ActualValue{Value: candidate.ID, Distance: distance, Right: right})
	}
	return values
}
