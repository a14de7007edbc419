// Package ontology loads the requirement knowledge base: property classes
// arranged under four categories, requirement properties with their kinds,
// and the candidate values applicable to each property.
package ontology

import "github.com/coolbeans/norma/pkg/store"

// Kind selects the extraction strategy of a property.
type Kind int

const (
	KindNone Kind = iota
	KindQuantitative
	KindEnum
	KindPermission
	KindTopic
	KindLabeled
	KindMinOnly
	KindMaxOnly
)

// String returns the class local name of the kind.
func (k Kind) String() string {
	switch k {
	case KindQuantitative:
		return "QuantitativeProperty"
	case KindEnum:
		return "EnumProperty"
	case KindPermission:
		return "PermissionProperty"
	case KindTopic:
		return "TopicProperty"
	case KindLabeled:
		return "LabeledProperty"
	case KindMinOnly:
		return "MinProperty"
	case KindMaxOnly:
		return "MaxProperty"
	default:
		return "None"
	}
}

// kindPriority is consulted in order; the first kind class among a property's
// direct types wins.
var kindPriority = []struct {
	class string
	kind  Kind
}{
	{store.ClassEnumProperty, KindEnum},
	{store.ClassQuantitativeProperty, KindQuantitative},
	{store.ClassPermissionProperty, KindPermission},
	{store.ClassTopicProperty, KindTopic},
	{store.ClassLabeledProperty, KindLabeled},
	{store.ClassMinProperty, KindMinOnly},
	{store.ClassMaxProperty, KindMaxOnly},
}

// resolveKind maps the direct types of a property to its kind.
func resolveKind(types []string) Kind {
	for _, candidate := range kindPriority {
		for _, t := range types {
			if t == candidate.class {
				return candidate.kind
			}
		}
	}
	return KindNone
}

// Categories are the root classes that group requirement properties, in
// output order.
var Categories = []string{
	"DecorationProperty",
	"StructureProperty",
	"ContentProperty",
	"VolumeProperty",
}

// kindClasses are declared implicitly in every knowledge base.
var kindClasses = []string{
	"EnumProperty",
	"QuantitativeProperty",
	"PermissionProperty",
	"TopicProperty",
	"LabeledProperty",
	"MinProperty",
	"MaxProperty",
}
