package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/c360studio/ontodoc/aggregate"
	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/fetch"
	"github.com/c360studio/ontodoc/label"
	"github.com/c360studio/ontodoc/metric"
	"github.com/c360studio/ontodoc/ontology"
	"github.com/c360studio/ontodoc/prefix"
	"github.com/c360studio/ontodoc/render"
	"github.com/c360studio/ontodoc/weburl"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Options configures one generator run.
type Options struct {
	OntologyURL  string
	TemplateFile string
	// PrefixesURL defaults to prefix.DefaultSourceURL.
	PrefixesURL string
	// PrefixesFile reads the registry from a local JSON file instead.
	PrefixesFile string
	// OutputFile receives the document. Empty writes to Stdout.
	OutputFile  string
	Format      render.Format
	Partials    string
	Concurrency int
	// Locale selects the collation for sorting labels, e.g. "en" or "de".
	Locale      string
	MetricsFile string
	Fetch       fetch.Config
	// Debounce delays re-rendering in watch mode. Defaults to 200ms.
	Debounce time.Duration
	Stdout   io.Writer
}

// Validate checks the options without touching the network or disk.
func (o Options) Validate() error {
	if err := weburl.ValidateURL(o.OntologyURL); err != nil {
		return errs.Validation("ontology url", err)
	}
	if strings.TrimSpace(o.TemplateFile) == "" {
		return errs.Validation("template", fmt.Errorf("template file is required"))
	}
	if o.PrefixesURL != "" {
		if err := weburl.ValidateURL(o.PrefixesURL); err != nil {
			return errs.Validation("prefixes url", err)
		}
	}
	if _, err := render.ParseFormat(string(o.Format)); err != nil {
		return errs.Validation("format", err)
	}
	if o.Concurrency < 0 {
		return errs.Validation("concurrency", fmt.Errorf("concurrency must not be negative, got %d", o.Concurrency))
	}
	if _, err := parseLocale(o.Locale); err != nil {
		return errs.Validation("locale", err)
	}
	return nil
}

func parseLocale(locale string) (language.Tag, error) {
	if locale == "" {
		return language.English, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag, nil
}

// Generator runs the pipeline.
type Generator struct {
	opts    Options
	logger  *slog.Logger
	metrics *metric.Metrics
	client  *fetch.Client
	lang    language.Tag
	runID   string
}

// New validates opts and creates a Generator.
func New(opts Options, logger *slog.Logger) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.PrefixesURL == "" {
		opts.PrefixesURL = prefix.DefaultSourceURL
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	if opts.Fetch.Timeout == 0 {
		opts.Fetch = fetch.DefaultConfig()
	}
	opts.Format, _ = render.ParseFormat(string(opts.Format))
	lang, _ := parseLocale(opts.Locale)

	runID := uuid.New().String()
	logger = logger.With("run_id", runID)
	metrics := metric.New()

	return &Generator{
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		client:  fetch.NewClient(opts.Fetch, logger, metrics),
		lang:    lang,
		runID:   runID,
	}, nil
}

// Metrics returns the collectors of this generator.
func (g *Generator) Metrics() *metric.Metrics {
	return g.metrics
}

// RunID identifies this generator in logs and template data.
func (g *Generator) RunID() string {
	return g.runID
}

// Run performs one complete generation.
func (g *Generator) Run(ctx context.Context) error {
	data, err := g.Load(ctx)
	if err != nil {
		return err
	}
	if err := g.Render(data); err != nil {
		return err
	}
	return g.writeMetrics()
}

// Load fetches the prefix registry and the ontology and aggregates the
// template data.
func (g *Generator) Load(ctx context.Context) (render.Data, error) {
	start := time.Now()
	g.logger.Info("Generating documentation",
		"ontology_url", g.opts.OntologyURL,
		"template", g.opts.TemplateFile)

	registry, err := loadRegistry(ctx, g.client, g.opts.PrefixesURL, g.opts.PrefixesFile, g.logger)
	if err != nil {
		return render.Data{}, err
	}

	store := ontology.NewStore(g.client, metric.KindOntology, g.logger, g.metrics)
	if err := store.Load(ctx, g.opts.OntologyURL); err != nil {
		return render.Data{}, fmt.Errorf("load ontology: %w", err)
	}

	resolver := label.NewResolver(registry, label.StoreLoader(g.client, g.logger, g.metrics), g.logger, g.metrics)
	agg := aggregate.New(store, resolver, aggregate.Options{
		Concurrency: g.opts.Concurrency,
		Language:    g.lang,
		Logger:      g.logger,
		Metrics:     g.metrics,
	})

	classes, err := agg.Build(ctx)
	if err != nil {
		return render.Data{}, fmt.Errorf("aggregate elements: %w", err)
	}

	stats := resolver.Stats()
	g.logger.Info("Aggregated ontology",
		"triples", store.Len(),
		"prefixes", registry.Len(),
		"classes", len(classes),
		"vocabularies", stats.Cached,
		"vocabulary_failures", stats.Failures,
		"duration", time.Since(start))

	return render.Data{
		Classes:     classes,
		OntologyURL: g.opts.OntologyURL,
		RunID:       g.runID,
	}, nil
}

// Render parses the templates and writes data through them.
func (g *Generator) Render(data render.Data) error {
	r, err := render.New(g.opts.TemplateFile, render.Options{
		Format:   g.opts.Format,
		Partials: g.opts.Partials,
		Logger:   g.logger,
		Metrics:  g.metrics,
	})
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, data); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	return g.write(buf.Bytes())
}

func (g *Generator) write(out []byte) error {
	if g.opts.OutputFile == "" {
		g.logger.Debug("Writing generated document to stdout", "bytes", len(out))
		if _, err := g.opts.Stdout.Write(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(g.opts.OutputFile, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	g.logger.Info("Wrote generated document", "file", g.opts.OutputFile, "bytes", len(out))
	return nil
}

func (g *Generator) writeMetrics() error {
	if g.opts.MetricsFile == "" {
		return nil
	}
	if err := g.metrics.WriteTextfile(g.opts.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
