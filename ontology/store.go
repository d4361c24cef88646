// Package ontology provides an in-memory triple store loaded from Turtle.
//
// A Store owns the triples of exactly one document. Triples keep their
// insertion order, which makes "first label" lookups follow the order of the
// source document.
package ontology

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/fetch"
	"github.com/c360studio/ontodoc/metric"
	vocab "github.com/c360studio/ontodoc/vocabulary/ontology"
	"github.com/knakk/rdf"
)

// Store is an insertion-ordered multiset of triples indexed by subject,
// predicate and object.
type Store struct {
	client  *fetch.Client
	kind    string
	logger  *slog.Logger
	metrics *metric.Metrics

	mu          sync.RWMutex
	triples     []Triple
	bySubject   map[Term][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int
}

// NewStore creates an empty store. kind labels fetches in metrics
// (metric.KindOntology or metric.KindVocabulary). client may be nil when the
// store is only filled through LoadFrom or Add.
func NewStore(client *fetch.Client, kind string, logger *slog.Logger, metrics *metric.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = metric.New()
	}
	if kind == "" {
		kind = metric.KindOntology
	}
	return &Store{
		client:      client,
		kind:        kind,
		logger:      logger,
		metrics:     metrics,
		bySubject:   make(map[Term][]int),
		byPredicate: make(map[Term][]int),
		byObject:    make(map[Term][]int),
	}
}

// Load retrieves url as Turtle and adds every triple to the store.
func (s *Store) Load(ctx context.Context, url string) error {
	if s.client == nil {
		return errs.Validation("load ontology", fmt.Errorf("no fetch client configured"))
	}

	s.logger.Debug("Loading ontology", "url", url, "kind", s.kind)

	result, err := s.client.Get(ctx, s.kind, url, fetch.AcceptTurtle)
	if err != nil {
		return err
	}

	return s.LoadFrom(bytes.NewReader(result.Body), url)
}

// LoadFrom parses Turtle from r and adds every triple to the store. The
// store is left untouched when the document is malformed. source names the
// document in errors and logs.
func (s *Store) LoadFrom(r io.Reader, source string) error {
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)

	var parsed []Triple
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errs.Parse("load ontology", source, err)
		}
		parsed = append(parsed, Triple{
			Subject:   convertTerm(tr.Subj),
			Predicate: convertTerm(tr.Pred),
			Object:    convertTerm(tr.Obj),
		})
	}

	for _, t := range parsed {
		s.Add(t)
	}

	s.metrics.TriplesLoaded.WithLabelValues(s.kind).Add(float64(len(parsed)))
	s.logger.Debug("Parsed ontology", "source", source, "triples", len(parsed))
	return nil
}

// Add appends t to the store.
func (s *Store) Add(t Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := len(s.triples)
	s.triples = append(s.triples, t)
	s.bySubject[t.Subject] = append(s.bySubject[t.Subject], i)
	s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], i)
	s.byObject[t.Object] = append(s.byObject[t.Object], i)
}

// Query returns every triple matching p in insertion order.
func (s *Store) Query(p Pattern) []Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates, indexed := s.candidates(p)
	if !indexed {
		out := make([]Triple, 0, len(s.triples))
		for _, t := range s.triples {
			if p.Matches(t) {
				out = append(out, t)
			}
		}
		return out
	}

	out := make([]Triple, 0, len(candidates))
	for _, i := range candidates {
		if t := s.triples[i]; p.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// candidates picks the smallest index list among the bound fields of p.
func (s *Store) candidates(p Pattern) ([]int, bool) {
	var best []int
	indexed := false

	consider := func(term *Term, index map[Term][]int) {
		if term == nil {
			return
		}
		list := index[*term]
		if !indexed || len(list) < len(best) {
			best = list
			indexed = true
		}
	}
	consider(p.Subject, s.bySubject)
	consider(p.Predicate, s.byPredicate)
	consider(p.Object, s.byObject)

	return best, indexed
}

// LabelOf returns the value of the first rdfs:label of subject.
func (s *Store) LabelOf(subject string) (string, bool) {
	subj := IRI(subject)
	pred := IRI(vocab.RDFSLabel)

	labels := s.Query(Pattern{Subject: &subj, Predicate: &pred})
	if len(labels) == 0 {
		return "", false
	}
	return labels[0].Object.Value, true
}

// Len returns the number of triples in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples)
}

func convertTerm(t rdf.Term) Term {
	switch v := t.(type) {
	case rdf.IRI:
		return IRI(v.String())
	case rdf.Blank:
		return Blank(strings.TrimPrefix(v.String(), "_:"))
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return Literal(v.String(), lang)
		}
		// Plain literals are stored without their implicit xsd:string.
		if dt := v.DataType.String(); dt != vocab.XSDString {
			return TypedLiteral(v.String(), dt)
		}
		return Literal(v.String(), "")
	default:
		return IRI(t.String())
	}
}
