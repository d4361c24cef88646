package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: no such host")

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"network", Network("load ontology", "https://example.org", cause), ErrNetwork},
		{"parse", Parse("load ontology", "https://example.org", cause), ErrParse},
		{"validation", Validation("load ontology", cause), ErrValidation},
		{"invalid response", InvalidResponse("load prefixes", "https://prefix.cc", cause), ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.ErrorIs(t, tt.err, cause)
			assert.Equal(t, tt.kind, Kind(tt.err))

			wrapped := fmt.Errorf("run: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			assert.Equal(t, tt.kind, Kind(wrapped))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Network("load ontology", "https://doesnotexist1234.org", errors.New("no such host"))
	assert.Equal(t, "load ontology: network error (https://doesnotexist1234.org): no such host", err.Error())

	err = Validation("", errors.New("url is required"))
	assert.Equal(t, "validation error: url is required", err.Error())
}

func TestKindUnclassified(t *testing.T) {
	assert.Nil(t, Kind(errors.New("plain")))
	assert.Nil(t, Kind(nil))
}

func TestKindsAreDistinct(t *testing.T) {
	err := Parse("decode", "", errors.New("bad"))
	assert.NotErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrValidation)
}
