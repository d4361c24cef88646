package render

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/ontodoc/aggregate"
	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/metric"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	// FormatHandlebars renders Handlebars templates; the output is html.
	FormatHandlebars Format = "handlebars"
)

// ParseFormat parses a format name. An empty name selects html.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatText, FormatMarkdown, FormatHandlebars:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected html, text, markdown or handlebars)", name)
	}
}

// Data is the value passed to templates.
type Data struct {
	Classes     []aggregate.ClassElement
	OntologyURL string
	RunID       string
}

// Options configures a Renderer.
type Options struct {
	Format Format
	// Partials is a doublestar glob of additional templates.
	Partials string
	Logger   *slog.Logger
	Metrics  *metric.Metrics
}

// executor is satisfied by html/template, text/template and Handlebars
// templates.
type executor interface {
	Execute(w io.Writer, data any) error
}

// Renderer executes one parsed template. It is immutable once created; watch
// mode builds a new Renderer after every template change.
type Renderer struct {
	file     string
	format   Format
	tmpl     executor
	markdown *markdownConverter
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// New reads and parses templateFile and the partials matched by
// opts.Partials.
func New(templateFile string, opts Options) (*Renderer, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metric.New()
	}

	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, errs.Validation("render", err)
	}
	if strings.TrimSpace(templateFile) == "" {
		return nil, errs.Validation("render", fmt.Errorf("template file is required"))
	}

	content, err := os.ReadFile(templateFile)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	partials, err := matchPartials(opts.Partials, templateFile)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		file:    templateFile,
		format:  format,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}

	name := filepath.Base(templateFile)
	switch format {
	case FormatHandlebars:
		t, err := parseHandlebars(templateFile, string(content), partials)
		if err != nil {
			return nil, err
		}
		r.tmpl = t
	case FormatText:
		t, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(Funcs())).Parse(string(content))
		if err == nil && len(partials) > 0 {
			t, err = t.ParseFiles(partials...)
		}
		if err != nil {
			return nil, errs.Parse("parse template", templateFile, err)
		}
		r.tmpl = t
	default:
		t, err := htmltemplate.New(name).Funcs(htmltemplate.FuncMap(Funcs())).Parse(string(content))
		if err == nil && len(partials) > 0 {
			t, err = t.ParseFiles(partials...)
		}
		if err != nil {
			return nil, errs.Parse("parse template", templateFile, err)
		}
		r.tmpl = t
	}

	if format == FormatMarkdown {
		r.markdown = newMarkdownConverter()
	}

	r.logger.Debug("Loaded template",
		"file", templateFile,
		"format", format,
		"partials", len(partials))
	return r, nil
}

// Files returns the main template followed by its partials, for watching.
func Files(templateFile, partialsGlob string) ([]string, error) {
	partials, err := matchPartials(partialsGlob, templateFile)
	if err != nil {
		return nil, err
	}
	return append([]string{templateFile}, partials...), nil
}

func matchPartials(pattern, templateFile string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, errs.Validation("render", fmt.Errorf("invalid partials pattern %q", pattern))
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errs.Validation("render", fmt.Errorf("match partials %q: %w", pattern, err))
	}

	main, _ := filepath.Abs(templateFile)
	partials := make([]string, 0, len(matches))
	for _, m := range matches {
		if abs, _ := filepath.Abs(m); abs == main {
			continue
		}
		partials = append(partials, m)
	}
	return partials, nil
}

// Format returns the output format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render executes the template with data and writes the result to w.
func (r *Renderer) Render(w io.Writer, data Data) error {
	start := time.Now()
	defer func() {
		r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}()

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template %s: %w", r.file, err)
	}

	out := buf.String()
	var title string
	if r.format != FormatText {
		title = extractHTMLTitle(out)
		r.logger.Debug("Rendered document", "title", title, "bytes", len(out))
	}

	if r.markdown != nil {
		markdown, err := r.markdown.Convert(out)
		if err != nil {
			return fmt.Errorf("convert to markdown: %w", err)
		}
		header, err := frontMatter(title, data.OntologyURL)
		if err != nil {
			return fmt.Errorf("convert to markdown: %w", err)
		}
		out = header + markdown
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
