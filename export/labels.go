package export

import (
	"fmt"
	"strings"
)

// Label is a resolved label for one URI.
type Label struct {
	URI   string
	Label string
	// Prefix and BaseURI name the registered vocabulary of URI, if any.
	Prefix  string
	BaseURI string
}

// LabelExporter collects labels and serializes them.
type LabelExporter struct {
	labels []Label
}

// NewLabelExporter creates an empty exporter.
func NewLabelExporter() *LabelExporter {
	return &LabelExporter{labels: make([]Label, 0)}
}

// Add adds labels in output order.
func (e *LabelExporter) Add(labels ...Label) {
	e.labels = append(e.labels, labels...)
}

// Export serializes all labels to the specified format.
func (e *LabelExporter) Export(format Format) (string, error) {
	switch format {
	case FormatText, "":
		return e.toText(), nil
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// prefixes returns the vocabularies referenced by the labels.
func (e *LabelExporter) prefixes() map[string]string {
	out := make(map[string]string)
	for _, l := range e.labels {
		if l.Prefix != "" && l.BaseURI != "" {
			out[l.Prefix] = l.BaseURI
		}
	}
	return out
}

func (e *LabelExporter) toText() string {
	var sb strings.Builder
	for _, l := range e.labels {
		sb.WriteString(l.URI)
		sb.WriteByte('\t')
		sb.WriteString(l.Label)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (e *LabelExporter) toTurtle() string {
	w := NewTurtleWriter()
	for prefix, base := range e.prefixes() {
		w.SetPrefix(prefix, base)
	}
	w.WritePrefixes()
	for _, l := range e.labels {
		w.WriteLabel(l.URI, l.Label)
	}
	return w.String()
}

func (e *LabelExporter) toNTriples() string {
	w := NewNTriplesWriter()
	for _, l := range e.labels {
		w.WriteLabel(l.URI, l.Label)
	}
	return w.String()
}

func (e *LabelExporter) toJSONLD() (string, error) {
	w := NewJSONLDWriter()
	w.SetContext(e.prefixes())
	for _, l := range e.labels {
		w.AddLabel(l.URI, l.Label)
	}
	return w.String()
}
