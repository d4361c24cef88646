// Package ontology holds the RDF, RDFS and OWL IRIs that ontodoc interprets.
//
// Only three relations carry meaning for documentation generation: a triple
// whose object is owl:Class declares a class, rdfs:domain attaches a property
// to a class, and rdfs:label names a term. Everything else is rendered as-is.
package ontology

import "github.com/c360studio/semstreams/vocabulary"

// Namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

const (
	// XSDString is the datatype of plain literals.
	XSDString = XSDNamespace + "string"

	// RDFType relates a resource to its class.
	RDFType = RDFNamespace + "type"

	// OWLClass is the object that marks a triple as declaring a class.
	OWLClass = OWLNamespace + "Class"

	// RDFSDomain is the predicate that attaches a property to a class.
	RDFSDomain = RDFSNamespace + "domain"

	// RDFSLabel names a resource.
	RDFSLabel = vocabulary.RdfsLabel

	// RDFSComment describes a resource.
	RDFSComment = vocabulary.RdfsComment
)
