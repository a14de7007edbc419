// Package store provides the in-memory triple store behind the requirement
// ontology, together with its namespace vocabulary and a Turtle serializer.
package store

// Namespace URIs.
const (
	// NamespaceDocument is the namespace of every ontology class, property and
	// value. Queries address it with the empty prefix.
	NamespaceDocument = "file://document#"

	// NamespaceRDF is the standard RDF namespace.
	NamespaceRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// NamespaceRDFS is the RDF Schema namespace.
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"

	// NamespaceXSD is the XML Schema namespace for datatypes.
	NamespaceXSD = "http://www.w3.org/2001/XMLSchema#"
)

// Standard predicates. They are stored in prefixed form.
const (
	RDFType        = "rdf:type"
	RDFSLabel      = "rdfs:label"
	RDFSComment    = "rdfs:comment"
	RDFSSubClassOf = "rdfs:subClassOf"
)

// Ontology predicates.
const (
	// PropApplicableTo links a candidate value to the property it can fill.
	PropApplicableTo = NamespaceDocument + "applicableTo"
)

// Category classes. Every requirement property descends from one of them.
const (
	ClassDecorationProperty = NamespaceDocument + "DecorationProperty"
	ClassStructureProperty  = NamespaceDocument + "StructureProperty"
	ClassContentProperty    = NamespaceDocument + "ContentProperty"
	ClassVolumeProperty     = NamespaceDocument + "VolumeProperty"
)

// Kind classes. A property's direct type among these selects its extraction
// strategy.
const (
	ClassEnumProperty         = NamespaceDocument + "EnumProperty"
	ClassQuantitativeProperty = NamespaceDocument + "QuantitativeProperty"
	ClassPermissionProperty   = NamespaceDocument + "PermissionProperty"
	ClassTopicProperty        = NamespaceDocument + "TopicProperty"
	ClassLabeledProperty      = NamespaceDocument + "LabeledProperty"
	ClassMinProperty          = NamespaceDocument + "MinProperty"
	ClassMaxProperty          = NamespaceDocument + "MaxProperty"
)

// DocumentIRI returns the full IRI of a local name in the document namespace.
func DocumentIRI(localName string) string {
	return NamespaceDocument + localName
}

// LocalName strips the document namespace from an IRI.
func LocalName(iri string) string {
	if len(iri) > len(NamespaceDocument) && iri[:len(NamespaceDocument)] == NamespaceDocument {
		return iri[len(NamespaceDocument):]
	}
	return iri
}
