// Package prefix maps vocabulary prefixes to their base URIs.
//
// The registry is loaded once from a JSON object of prefix → base URI pairs,
// such as the prefix.cc export, and then answers which registered vocabulary
// a term URI belongs to.
package prefix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"sort"
	"strings"

	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/fetch"
	"github.com/c360studio/ontodoc/metric"
)

// DefaultSourceURL is the prefix.cc export of popular vocabularies.
const DefaultSourceURL = "http://prefix.cc/popular/all.file.json"

// ErrAlreadyLoaded is returned when Load is called on a populated registry.
var ErrAlreadyLoaded = errors.New("prefix registry already loaded")

// Registry holds prefix → base URI and base URI → prefix mappings.
// It is immutable once loaded and safe for concurrent reads.
type Registry struct {
	client *fetch.Client
	logger *slog.Logger

	loaded      bool
	prefixToURI map[string]string
	uriToPrefix map[string]string

	// byLength lists distinct base URIs, longest first, insertion order
	// among equal lengths.
	byLength []string
}

// NewRegistry creates an empty registry. client may be nil when the registry
// is only filled through LoadFrom.
func NewRegistry(client *fetch.Client, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		client:      client,
		logger:      logger,
		prefixToURI: make(map[string]string),
		uriToPrefix: make(map[string]string),
	}
}

// Load fetches the registry from sourceURL, or DefaultSourceURL when empty.
func (r *Registry) Load(ctx context.Context, sourceURL string) error {
	if r.loaded {
		return ErrAlreadyLoaded
	}
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if r.client == nil {
		return errs.Validation("load prefixes", fmt.Errorf("no fetch client configured"))
	}

	r.logger.Debug("Loading prefixes", "url", sourceURL)

	result, err := r.client.Get(ctx, metric.KindPrefixes, sourceURL, fetch.AcceptJSON)
	if err != nil {
		return err
	}

	if !isJSONContentType(result.ContentType) {
		return errs.InvalidResponse("load prefixes", sourceURL,
			fmt.Errorf("content type %q is not JSON compatible", result.ContentType))
	}

	entries, err := decode(bytes.NewReader(result.Body))
	if err != nil {
		return classify(sourceURL, err)
	}

	r.populate(entries)
	r.logger.Debug("Loaded prefixes", "url", sourceURL, "count", r.Len())
	return nil
}

// LoadFrom reads the registry from a JSON document.
func (r *Registry) LoadFrom(reader io.Reader) error {
	if r.loaded {
		return ErrAlreadyLoaded
	}

	entries, err := decode(reader)
	if err != nil {
		return classify("", err)
	}

	r.populate(entries)
	return nil
}

// ResolveBaseURI returns the longest registered base URI that is a prefix of
// uri.
func (r *Registry) ResolveBaseURI(uri string) (string, bool) {
	for _, base := range r.byLength {
		if strings.HasPrefix(uri, base) {
			return base, true
		}
	}
	return "", false
}

// BaseURI returns the base URI registered for prefix.
func (r *Registry) BaseURI(prefix string) (string, bool) {
	uri, ok := r.prefixToURI[prefix]
	return uri, ok
}

// Prefix returns the prefix registered for baseURI.
func (r *Registry) Prefix(baseURI string) (string, bool) {
	prefix, ok := r.uriToPrefix[baseURI]
	return prefix, ok
}

// Len returns the number of registered prefixes.
func (r *Registry) Len() int {
	return len(r.prefixToURI)
}

func (r *Registry) populate(entries []entry) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.uri == "" {
			r.logger.Warn("Skipping prefix with empty base URI", "prefix", e.prefix)
			continue
		}
		r.prefixToURI[e.prefix] = e.uri
		r.uriToPrefix[e.uri] = e.prefix
		if !seen[e.uri] {
			seen[e.uri] = true
			r.byLength = append(r.byLength, e.uri)
		}
	}

	sort.SliceStable(r.byLength, func(i, j int) bool {
		return len(r.byLength[i]) > len(r.byLength[j])
	})
	r.loaded = true
}

type entry struct {
	prefix string
	uri    string
}

// syntaxError marks payloads that are not JSON at all.
type syntaxError struct{ err error }

func (e *syntaxError) Error() string { return e.err.Error() }
func (e *syntaxError) Unwrap() error { return e.err }

// decode reads a JSON object of string values, keeping document order.
func decode(reader io.Reader) ([]entry, error) {
	dec := json.NewDecoder(reader)

	tok, err := dec.Token()
	if err != nil {
		return nil, &syntaxError{fmt.Errorf("decode prefixes: %w", err)}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("prefixes must be a JSON object")
	}

	// A repeated key keeps its first position and its last value.
	var entries []entry
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &syntaxError{fmt.Errorf("decode prefix key: %w", err)}
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, &syntaxError{fmt.Errorf("decode prefix %q: %w", key, err)}
		}
		uri, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("prefix %q must be a string", key)
		}
		if i, ok := index[key]; ok {
			entries[i].uri = uri
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry{prefix: key, uri: uri})
	}

	if _, err := dec.Token(); err != nil {
		return nil, &syntaxError{fmt.Errorf("decode prefixes: %w", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &syntaxError{fmt.Errorf("decode prefixes: unexpected data after object")}
	}

	return entries, nil
}

func classify(sourceURL string, err error) error {
	var se *syntaxError
	if errors.As(err, &se) {
		return errs.Parse("load prefixes", sourceURL, err)
	}
	return errs.InvalidResponse("load prefixes", sourceURL, err)
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
