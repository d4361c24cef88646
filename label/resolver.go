// Package label derives human-readable labels for RDF terms.
//
// A Resolver looks the term's vocabulary up in the prefix registry, loads
// that vocabulary on first use, and returns its rdfs:label. When no
// vocabulary matches, the vocabulary cannot be loaded, or it has no label for
// the term, the label is synthesized from the URI. Resolve never fails.
package label

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/fetch"
	"github.com/c360studio/ontodoc/metric"
	"github.com/c360studio/ontodoc/ontology"
	"golang.org/x/sync/singleflight"
)

// BaseURIResolver finds the vocabulary a URI belongs to.
type BaseURIResolver interface {
	ResolveBaseURI(uri string) (string, bool)
}

// Labeler returns the authored label of a subject.
type Labeler interface {
	LabelOf(subject string) (string, bool)
}

// LoaderFunc loads the vocabulary published at baseURI.
type LoaderFunc func(ctx context.Context, baseURI string) (Labeler, error)

// StoreLoader returns a LoaderFunc that fetches vocabularies as Turtle into
// fresh ontology stores.
func StoreLoader(client *fetch.Client, logger *slog.Logger, metrics *metric.Metrics) LoaderFunc {
	return func(ctx context.Context, baseURI string) (Labeler, error) {
		store := ontology.NewStore(client, metric.KindVocabulary, logger, metrics)
		if err := store.Load(ctx, baseURI); err != nil {
			return nil, err
		}
		return store, nil
	}
}

// entry is a cached vocabulary: either a loaded store or a failed load.
type entry struct {
	store Labeler
	err   error
}

func (e *entry) failed() bool {
	return e.store == nil
}

// Stats counts cache activity of one resolver.
type Stats struct {
	Hits     int64
	Misses   int64
	Failures int64
	Cached   int
}

// Resolver resolves labels and caches one vocabulary per base URI for its
// lifetime. It is safe for concurrent use; every base URI is loaded at most
// once.
type Resolver struct {
	registry BaseURIResolver
	load     LoaderFunc
	logger   *slog.Logger
	metrics  *metric.Metrics

	mu    sync.Mutex
	cache map[string]*entry
	group singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// NewResolver creates a resolver with an empty cache.
func NewResolver(registry BaseURIResolver, load LoaderFunc, logger *slog.Logger, metrics *metric.Metrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = metric.New()
	}
	return &Resolver{
		registry: registry,
		load:     load,
		logger:   logger,
		metrics:  metrics,
		cache:    make(map[string]*entry),
	}
}

// Resolve returns a label for uri.
func (r *Resolver) Resolve(ctx context.Context, uri string) string {
	baseURI, ok := r.registry.ResolveBaseURI(uri)
	if !ok {
		return r.synthetic(uri)
	}

	e := r.vocabulary(ctx, baseURI)
	if e.failed() {
		return r.synthetic(uri)
	}

	if label, ok := e.store.LabelOf(uri); ok {
		r.metrics.LabelsResolved.WithLabelValues("vocabulary").Inc()
		return label
	}
	return r.synthetic(uri)
}

// Stats returns the cache counters.
func (r *Resolver) Stats() Stats {
	r.mu.Lock()
	cached := len(r.cache)
	r.mu.Unlock()

	return Stats{
		Hits:     r.hits.Load(),
		Misses:   r.misses.Load(),
		Failures: r.failures.Load(),
		Cached:   cached,
	}
}

func (r *Resolver) synthetic(uri string) string {
	r.metrics.LabelsResolved.WithLabelValues("synthetic").Inc()
	return Synthetic(uri)
}

// vocabulary returns the cache entry for baseURI, loading it on a miss.
func (r *Resolver) vocabulary(ctx context.Context, baseURI string) *entry {
	if e, ok := r.cached(baseURI); ok {
		r.countHit(e)
		return e
	}

	v, _, _ := r.group.Do(baseURI, func() (any, error) {
		// A concurrent load may have finished between the miss and Do.
		if e, ok := r.cached(baseURI); ok {
			return e, nil
		}

		r.misses.Add(1)
		r.metrics.CacheLookups.WithLabelValues("miss").Inc()

		store, err := r.load(ctx, baseURI)
		e := &entry{store: store, err: err}
		if err != nil {
			e.store = nil
			r.failures.Add(1)
			r.logger.Debug("Cannot load vocabulary, falling back to synthetic labels",
				"base_uri", baseURI,
				"kind", errs.Kind(err),
				"error", err)
		}

		r.mu.Lock()
		r.cache[baseURI] = e
		r.mu.Unlock()
		return e, nil
	})

	return v.(*entry)
}

func (r *Resolver) cached(baseURI string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache[baseURI]
	return e, ok
}

func (r *Resolver) countHit(e *entry) {
	r.hits.Add(1)
	if e.failed() {
		r.metrics.CacheLookups.WithLabelValues("failed").Inc()
		return
	}
	r.metrics.CacheLookups.WithLabelValues("hit").Inc()
}

// Synthetic derives a label from the tail of uri: the part after the last
// '#', else after the last '/', else uri itself.
func Synthetic(uri string) string {
	i := strings.LastIndex(uri, "#")
	if i == -1 {
		i = strings.LastIndex(uri, "/")
	}
	if i == -1 {
		return uri
	}
	return uri[i+1:]
}
