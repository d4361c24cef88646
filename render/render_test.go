package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/ontodoc/aggregate"
	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const page = `<html><head><title>{{.OntologyURL}}</title></head><body>
<h1>Classes</h1>
{{range .Classes}}<h2>{{titleize .Label}}</h2>
<ul>{{range .Properties}}<li>{{humanize .Label}}</li>{{end}}</ul>
{{end}}</body></html>`

func sampleData() Data {
	return Data{
		OntologyURL: "https://example.org/cartoon",
		Classes: []aggregate.ClassElement{
			{
				Element: aggregate.Element{Subject: "https://example.org/cartoon#Cat", Label: "house cat"},
				Properties: []aggregate.Element{
					{Label: "birthDate"},
					{Label: "<favourite_food>"},
				},
			},
		},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRenderHTML(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)
	metrics := metric.New()

	r, err := New(file, Options{Metrics: metrics})
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleData()))

	out := buf.String()
	assert.Contains(t, out, "<h2>House Cat</h2>")
	assert.Contains(t, out, "<li>Birth date</li>")
	assert.Contains(t, out, "&lt;favourite food&gt;")
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RenderDuration))
}

func TestRenderText(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.txt",
		`{{range .Classes}}{{.Label}}:{{range .Properties}} {{.Label}}{{end}}{{end}}`)

	r, err := New(file, Options{Format: FormatText})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleData()))
	assert.Equal(t, "house cat: birthDate <favourite_food>", buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	r, err := New(file, Options{Format: FormatMarkdown})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleData()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "---\n"))
	header, _, found := strings.Cut(strings.TrimPrefix(out, "---\n"), "---\n")
	require.True(t, found)

	var meta map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(header), &meta))
	assert.Equal(t, map[string]string{
		"title":  "https://example.org/cartoon",
		"source": "https://example.org/cartoon",
	}, meta)

	assert.Contains(t, out, "# Classes")
	assert.Contains(t, out, "## House Cat")
	assert.Contains(t, out, "- Birth date")
	assert.NotContains(t, out, "<h2>")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRenderPartials(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "page.html",
		`{{range .Classes}}{{template "class.html" .}}{{end}}`)
	writeFile(t, dir, "partials/nested/class.html",
		`<section>{{.Label}}{{range .Properties}}{{template "property.html" .}}{{end}}</section>`)
	writeFile(t, dir, "partials/property.html", `<p>{{.Label}}</p>`)

	r, err := New(file, Options{Partials: filepath.Join(dir, "partials", "**", "*.html")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleData()))
	assert.Equal(t,
		"<section>house cat<p>birthDate</p><p>&lt;favourite_food&gt;</p></section>",
		buf.String())

	files, err := Files(file, filepath.Join(dir, "**", "*.html"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Equal(t, file, files[0])
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "ok.html", "ok")
	broken := writeFile(t, dir, "broken.html", "{{range .Classes}")

	tests := []struct {
		name    string
		file    string
		opts    Options
		wantErr error
	}{
		{"empty file name", "", Options{}, errs.ErrValidation},
		{"unknown format", valid, Options{Format: "pdf"}, errs.ErrValidation},
		{"bad partials pattern", valid, Options{Partials: "[a-"}, errs.ErrValidation},
		{"syntax error", broken, Options{}, errs.ErrParse},
		{"missing file", filepath.Join(dir, "nope.html"), Options{}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.file, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRenderExecuteError(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.txt", `{{.Missing}}`)
	r, err := New(file, Options{Format: FormatText})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, sampleData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute template")
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatHTML, false},
		{"html", FormatHTML, false},
		{" Markdown ", FormatMarkdown, false},
		{"text", FormatText, false},
		{"Handlebars", FormatHandlebars, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
