// Package aggregate turns the triples of an ontology into labelled, sorted
// elements ready for rendering: one element per OWL class, each with the
// properties whose rdfs:domain is that class.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/c360studio/ontodoc/metric"
	"github.com/c360studio/ontodoc/ontology"
	vocab "github.com/c360studio/ontodoc/vocabulary/ontology"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultConcurrency bounds parallel label lookups within one element.
const DefaultConcurrency = 4

// Querier is the read side of an ontology store.
type Querier interface {
	Query(p ontology.Pattern) []ontology.Triple
}

// LabelResolver returns a label for any URI. It never fails.
type LabelResolver interface {
	Resolve(ctx context.Context, uri string) string
}

// Child describes one statement about an element's subject.
type Child struct {
	// LabelURI is the predicate IRI.
	LabelURI string
	// Label is the resolved label of the predicate.
	Label    string
	Language string
	Value    string
	Kind     string
	Datatype string
}

// Element is a subject together with everything the ontology says about it.
type Element struct {
	// Triple is the statement that selected the element.
	Triple   ontology.Triple
	Subject  string
	Label    string
	Elements []Child
}

// ClassElement is a class element with the properties of that class.
type ClassElement struct {
	Element
	Properties []Element
}

// Options configures an Aggregator.
type Options struct {
	// Concurrency bounds parallel child label lookups. Values below 2 resolve
	// strictly in order.
	Concurrency int
	// Language selects the collation used for sorting. Defaults to English.
	Language language.Tag
	Logger   *slog.Logger
	Metrics  *metric.Metrics
}

// Aggregator builds elements from a primary store.
type Aggregator struct {
	store    Querier
	resolver LabelResolver
	opts     Options
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// New creates an Aggregator over store using resolver for labels.
func New(store Querier, resolver LabelResolver, opts Options) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metric.New()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	return &Aggregator{
		store:    store,
		resolver: resolver,
		opts:     opts,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Classes returns one element per triple whose object is owl:Class.
func (a *Aggregator) Classes(ctx context.Context) ([]Element, error) {
	class := ontology.IRI(vocab.OWLClass)
	triples := a.store.Query(ontology.Pattern{Object: &class})

	elements, err := a.elements(ctx, triples)
	if err != nil {
		return nil, fmt.Errorf("collect classes: %w", err)
	}

	a.logger.Debug("Collected OWL classes", "count", len(elements))
	return elements, nil
}

// PropertiesOfClass returns one element per rdfs:domain triple pointing at
// class.
func (a *Aggregator) PropertiesOfClass(ctx context.Context, class ontology.Term) ([]Element, error) {
	domain := ontology.IRI(vocab.RDFSDomain)
	triples := a.store.Query(ontology.Pattern{Predicate: &domain, Object: &class})

	elements, err := a.elements(ctx, triples)
	if err != nil {
		return nil, fmt.Errorf("collect properties of %s: %w", class.Value, err)
	}

	a.logger.Debug("Collected properties of class", "class", class.Value, "count", len(elements))
	return elements, nil
}

// Build returns every class merged with its properties.
func (a *Aggregator) Build(ctx context.Context) ([]ClassElement, error) {
	classes, err := a.Classes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ClassElement, 0, len(classes))
	properties := 0
	for _, class := range classes {
		props, err := a.PropertiesOfClass(ctx, class.Triple.Subject)
		if err != nil {
			return nil, err
		}
		properties += len(props)
		out = append(out, ClassElement{Element: class, Properties: props})
	}

	a.metrics.ElementsTotal.WithLabelValues("class").Set(float64(len(out)))
	a.metrics.ElementsTotal.WithLabelValues("property").Set(float64(properties))
	return out, nil
}

func (a *Aggregator) elements(ctx context.Context, triples []ontology.Triple) ([]Element, error) {
	elements := make([]Element, 0, len(triples))
	for _, t := range triples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		children, err := a.children(ctx, t.Subject)
		if err != nil {
			return nil, err
		}

		elements = append(elements, Element{
			Triple:   t,
			Subject:  t.Subject.Value,
			Label:    a.resolver.Resolve(ctx, t.Subject.Value),
			Elements: children,
		})
	}

	a.sortElements(elements)
	return elements, nil
}

// children describes every triple with the given subject, in store order
// before sorting.
func (a *Aggregator) children(ctx context.Context, subject ontology.Term) ([]Child, error) {
	triples := a.store.Query(ontology.Pattern{Subject: &subject})
	children := make([]Child, len(triples))

	describe := func(i int) {
		t := triples[i]
		child := Child{
			LabelURI: t.Predicate.Value,
			Label:    a.resolver.Resolve(ctx, t.Predicate.Value),
			Value:    t.Object.Value,
			Kind:     t.Object.Kind.String(),
		}
		if t.Object.IsLiteral() {
			child.Language = t.Object.Language
			child.Datatype = t.Object.Datatype
		}
		children[i] = child
	}

	if a.opts.Concurrency < 2 {
		for i := range triples {
			describe(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(a.opts.Concurrency)
		for i := range triples {
			g.Go(func() error {
				describe(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	a.sortChildren(children)
	return children, nil
}

// A collator is not safe for concurrent use, so each sort gets its own.
func (a *Aggregator) sortElements(elements []Element) {
	c := collate.New(a.opts.Language)
	sort.SliceStable(elements, func(i, j int) bool {
		return c.CompareString(elements[i].Label, elements[j].Label) < 0
	})
}

func (a *Aggregator) sortChildren(children []Child) {
	c := collate.New(a.opts.Language)
	sort.SliceStable(children, func(i, j int) bool {
		return c.CompareString(children[i].Label, children[j].Label) < 0
	})
}
