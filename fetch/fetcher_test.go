package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/metric"
	"github.com/c360studio/semstreams/pkg/retry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.Retry = retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
	return cfg
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AcceptTurtle, r.Header.Get("Accept"))
		assert.Equal(t, "ontodoc/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/turtle")
		_, _ = w.Write([]byte("<http://example.org/a> <http://example.org/b> \"c\" ."))
	}))
	defer server.Close()

	client := NewClient(testConfig(), nil, nil)
	result, err := client.Get(context.Background(), metric.KindOntology, server.URL, AcceptTurtle)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/turtle", result.ContentType)
	assert.Contains(t, string(result.Body), "example.org")
	assert.Equal(t, server.URL, result.URL)
}

func TestGetFollowsSeeOtherKeepingAccept(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/terms/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terms.ttl", http.StatusSeeOther)
	})
	mux.HandleFunc("/terms.ttl", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != AcceptTurtle {
			http.Error(w, "not acceptable", http.StatusNotAcceptable)
			return
		}
		w.Header().Set("Content-Type", "text/turtle")
		_, _ = w.Write([]byte("# turtle"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(testConfig(), nil, nil)
	result, err := client.Get(context.Background(), metric.KindVocabulary, server.URL+"/terms/", AcceptTurtle)
	require.NoError(t, err)

	assert.Equal(t, "# turtle", string(result.Body))
	assert.True(t, strings.HasSuffix(result.URL, "/terms.ttl"))
}

func TestGetTooManyRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 3
	cfg.Retry.MaxAttempts = 1

	client := NewClient(cfg, nil, nil)
	_, err := client.Get(context.Background(), metric.KindOntology, server.URL+"/a", AcceptTurtle)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.Contains(t, err.Error(), "too many redirects")
}

func TestGetSkipsCertificateVerification(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(testConfig(), nil, nil)
	result, err := client.Get(context.Background(), metric.KindOntology, server.URL, AcceptTurtle)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(result.Body))

	cfg := testConfig()
	cfg.InsecureSkipVerify = false
	cfg.Retry.MaxAttempts = 1
	strict := NewClient(cfg, nil, nil)
	_, err = strict.Get(context.Background(), metric.KindOntology, server.URL, AcceptTurtle)
	assert.ErrorIs(t, err, errs.ErrNetwork)
}

func TestGetRetries(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantAttempts int32
	}{
		{"server error retried", http.StatusInternalServerError, 3},
		{"rate limited retried", http.StatusTooManyRequests, 3},
		{"not found not retried", http.StatusNotFound, 1},
		{"not acceptable not retried", http.StatusNotAcceptable, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			metrics := metric.New()
			client := NewClient(testConfig(), nil, metrics)
			_, err := client.Get(context.Background(), metric.KindPrefixes, server.URL, AcceptJSON)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrNetwork)
			assert.Equal(t, tt.wantAttempts, attempts.Load())
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchesTotal.WithLabelValues(metric.KindPrefixes, "error")))
		})
	}
}

func TestGetRecoversFromTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	metrics := metric.New()
	client := NewClient(testConfig(), nil, metrics)
	result, err := client.Get(context.Background(), metric.KindPrefixes, server.URL, AcceptJSON)
	require.NoError(t, err)

	assert.Equal(t, "{}", string(result.Body))
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchesTotal.WithLabelValues(metric.KindPrefixes, "ok")))
}

func TestGetUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := testConfig()
	cfg.Retry.MaxAttempts = 1
	client := NewClient(cfg, nil, nil)

	_, err := client.Get(context.Background(), metric.KindOntology, url, AcceptTurtle)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNetwork)
}

func TestGetContentTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxContentSize = 16
	client := NewClient(cfg, nil, nil)

	_, err := client.Get(context.Background(), metric.KindOntology, server.URL, AcceptTurtle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content too large")
}

func TestGetInvalidURL(t *testing.T) {
	tests := []string{"", "badValue", "ftp://example.org"}

	client := NewClient(testConfig(), nil, nil)
	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			_, err := client.Get(context.Background(), metric.KindOntology, url, AcceptTurtle)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestGetBlocksPrivateNetworks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.BlockPrivateNetworks = true
	cfg.Retry.MaxAttempts = 1
	client := NewClient(cfg, nil, nil)

	_, err := client.Get(context.Background(), metric.KindOntology, server.URL, AcceptTurtle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private IP")
}
