// Package export serializes resolved labels as RDF or plain text.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/ontodoc/ontology"
	vocab "github.com/c360studio/ontodoc/vocabulary/ontology"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatText produces one "uri<TAB>label" line per label.
	FormatText Format = "text"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatText: {
		Name:        FormatText,
		MIMEType:    "text/plain",
		Extension:   ".txt",
		Description: "Tab separated URI and label",
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Names returns the supported format names, sorted.
func Names() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// TurtleWriter writes labels in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer that declares the rdfs prefix.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: map[string]string{"rdfs": vocab.RDFSNamespace},
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes prefix declarations in name order.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteLabel writes one rdfs:label statement, compacting the subject when a
// declared prefix covers it.
func (w *TurtleWriter) WriteLabel(uri, label string) {
	w.sb.WriteString(fmt.Sprintf("%s rdfs:label %s .\n", w.compact(uri), ontology.Literal(label, "").String()))
}

// compact returns prefix:local for uri when the local part is a simple name.
func (w *TurtleWriter) compact(uri string) string {
	best, bestLen := "", 0
	for prefix, base := range w.prefixes {
		if strings.HasPrefix(uri, base) && len(base) > bestLen && isLocalName(uri[len(base):]) {
			best, bestLen = prefix, len(base)
		}
	}
	if bestLen == 0 {
		return "<" + uri + ">"
	}
	return best + ":" + uri[bestLen:]
}

func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// NTriplesWriter writes labels in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteLabel writes a single rdfs:label triple.
func (w *NTriplesWriter) WriteLabel(uri, label string) {
	t := ontology.Triple{
		Subject:   ontology.IRI(uri),
		Predicate: ontology.IRI(vocab.RDFSLabel),
		Object:    ontology.Literal(label, ""),
	}
	w.sb.WriteString(t.String())
	w.sb.WriteString("\n")
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode is a labelled node of a JSON-LD graph.
type JSONLDNode struct {
	ID    string `json:"@id"`
	Label string `json:"rdfs:label"`
}

// JSONLDWriter writes labels in JSON-LD format.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: map[string]any{"rdfs": vocab.RDFSNamespace},
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext adds prefixes to the @context.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// AddLabel adds a labelled node to the graph.
func (w *JSONLDWriter) AddLabel(uri, label string) {
	w.doc.Graph = append(w.doc.Graph, JSONLDNode{ID: uri, Label: label})
}

// String returns the JSON-LD output.
func (w *JSONLDWriter) String() (string, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}
