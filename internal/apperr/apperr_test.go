package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Signature("bad signature"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Precondition("not ready"), http.StatusConflict},
		{Conflict("sold out"), http.StatusConflict},
		{Gateway("upstream down", nil), http.StatusBadGateway},
		{Internal("boom", nil), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "for %v", tt.err)
	}
}

func TestHTTPStatus_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("while verifying: %w", NotFound("registration not found"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("workshop is fully booked"))
	assert.True(t, errors.Is(err, Conflict("anything")))
	assert.False(t, errors.Is(err, NotFound("anything")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "workshop not found", PublicMessage(NotFound("workshop not found")))
	assert.Equal(t, "internal error", PublicMessage(errors.New("pq: connection refused")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Gateway("order creation failed", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestScrub(t *testing.T) {
	in := "request to https://api.example.com failed: auth s3cr3t rejected"
	out := Scrub(in, "s3cr3t", "")
	assert.NotContains(t, out, "s3cr3t")
	assert.Contains(t, out, "[redacted]")
	assert.Equal(t, "no secrets here", Scrub("no secrets here", "s3cr3t"))
}
