package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/export"
	"github.com/c360studio/ontodoc/fetch"
	"github.com/c360studio/ontodoc/label"
	"github.com/c360studio/ontodoc/metric"
	"github.com/c360studio/ontodoc/prefix"
	"github.com/c360studio/ontodoc/weburl"
	"golang.org/x/sync/errgroup"
)

// LabelOptions configures ResolveLabels.
type LabelOptions struct {
	PrefixesURL  string
	PrefixesFile string
	Concurrency  int
	Fetch        fetch.Config
	Metrics      *metric.Metrics
}

// ResolveLabels loads the prefix registry and resolves a label for every
// uri, in order.
func ResolveLabels(ctx context.Context, opts LabelOptions, uris []string, logger *slog.Logger) ([]export.Label, error) {
	if opts.PrefixesURL != "" {
		if err := weburl.ValidateURL(opts.PrefixesURL); err != nil {
			return nil, errs.Validation("prefixes url", err)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metric.New()
	}
	if opts.Fetch.Timeout == 0 {
		opts.Fetch = fetch.DefaultConfig()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	client := fetch.NewClient(opts.Fetch, logger, opts.Metrics)
	registry, err := loadRegistry(ctx, client, opts.PrefixesURL, opts.PrefixesFile, logger)
	if err != nil {
		return nil, err
	}

	resolver := label.NewResolver(registry, label.StoreLoader(client, logger, opts.Metrics), logger, opts.Metrics)

	labels := make([]export.Label, len(uris))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, uri := range uris {
		g.Go(func() error {
			l := export.Label{URI: uri, Label: resolver.Resolve(gctx, uri)}
			if base, ok := registry.ResolveBaseURI(uri); ok {
				l.BaseURI = base
				l.Prefix, _ = registry.Prefix(base)
			}
			labels[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return labels, nil
}

// loadRegistry reads the registry from file when set, otherwise from url.
func loadRegistry(ctx context.Context, client *fetch.Client, url, file string, logger *slog.Logger) (*prefix.Registry, error) {
	registry := prefix.NewRegistry(client, logger)

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open prefixes: %w", err)
		}
		defer f.Close()

		if err := registry.LoadFrom(f); err != nil {
			return nil, fmt.Errorf("load prefixes from %s: %w", file, err)
		}
		logger.Debug("Loaded prefixes from file", "file", file, "count", registry.Len())
		return registry, nil
	}

	if err := registry.Load(ctx, url); err != nil {
		return nil, fmt.Errorf("load prefixes: %w", err)
	}
	return registry, nil
}
