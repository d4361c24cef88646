package export_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/c360studio/ontodoc/export"
	"github.com/c360studio/ontodoc/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLabels() []export.Label {
	return []export.Label{
		{
			URI:     "http://www.w3.org/ns/prov#Activity",
			Label:   "Activity",
			Prefix:  "prov",
			BaseURI: "http://www.w3.org/ns/prov#",
		},
		{URI: "https://schema.org/birthDate", Label: "birth \"date\""},
	}
}

func newExporter() *export.LabelExporter {
	e := export.NewLabelExporter()
	e.Add(sampleLabels()...)
	return e
}

func TestExportText(t *testing.T) {
	out, err := newExporter().Export(export.FormatText)
	require.NoError(t, err)
	assert.Equal(t,
		"http://www.w3.org/ns/prov#Activity\tActivity\nhttps://schema.org/birthDate\tbirth \"date\"\n",
		out)
}

func TestExportTurtle(t *testing.T) {
	out, err := newExporter().Export(export.FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix prov: <http://www.w3.org/ns/prov#> .")
	assert.Contains(t, out, "@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .")
	assert.Contains(t, out, `prov:Activity rdfs:label "Activity" .`)
	assert.Contains(t, out, `<https://schema.org/birthDate> rdfs:label "birth \"date\"" .`)
	assert.Less(t, strings.Index(out, "@prefix prov"), strings.Index(out, "@prefix rdfs"))

	// The output must parse back into the same labels.
	store := ontology.NewStore(nil, "", nil, nil)
	require.NoError(t, store.LoadFrom(strings.NewReader(out), "export"))
	label, ok := store.LabelOf("https://schema.org/birthDate")
	require.True(t, ok)
	assert.Equal(t, `birth "date"`, label)
}

func TestExportNTriples(t *testing.T) {
	out, err := newExporter().Export(export.FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`<http://www.w3.org/ns/prov#Activity> <http://www.w3.org/2000/01/rdf-schema#label> "Activity" .`,
		lines[0])
}

func TestExportJSONLD(t *testing.T) {
	out, err := newExporter().Export(export.FormatJSONLD)
	require.NoError(t, err)

	var doc export.JSONLDDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "http://www.w3.org/ns/prov#", doc.Context["prov"])
	assert.Equal(t, "http://www.w3.org/2000/01/rdf-schema#", doc.Context["rdfs"])
	require.Len(t, doc.Graph, 2)
	assert.Equal(t, "https://schema.org/birthDate", doc.Graph[1].ID)
	assert.Equal(t, `birth "date"`, doc.Graph[1].Label)
}

func TestExportUnsupported(t *testing.T) {
	_, err := newExporter().Export("rdfxml")
	assert.Error(t, err)
}

func TestFormatRegistry(t *testing.T) {
	for _, name := range export.Names() {
		info, ok := export.GetFormatInfo(export.Format(name))
		require.True(t, ok, name)
		assert.NotEmpty(t, info.MIMEType)
		assert.True(t, strings.HasPrefix(info.Extension, "."))
	}
	assert.Equal(t, []string{"jsonld", "ntriples", "text", "turtle"}, export.Names())
}
