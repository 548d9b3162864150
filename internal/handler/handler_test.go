package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/model"
)

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Validation("amount must be positive"), http.StatusBadRequest, "amount must be positive"},
		{"not found", apperr.NotFound("registration not found"), http.StatusNotFound, "registration not found"},
		{"conflict", apperr.Conflict("workshop is fully booked"), http.StatusConflict, "workshop is fully booked"},
		{"gateway", apperr.Gateway("order creation failed", nil), http.StatusBadGateway, "order creation failed"},
		{"internal hides detail", apperr.Internal("insert registration", nil), http.StatusInternalServerError, "insert registration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodPost, "/x", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var resp model.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	body := strings.NewReader(`{"email":"a@b.co","password":"x","extra":"nope"}`)
	r := httptest.NewRequest(http.MethodPost, "/auth/login", body)

	var req model.LoginRequest
	err := decodeJSON(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the next handler")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/workshops", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_LabelsUseRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/payments/bill/{registrationID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"reg-1", "reg-2", "reg-3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/bill/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// All three requests collapse into one series keyed by the route
	// template; per-id paths would grow the label space without bound.
	count := testutil.ToFloat64(httpRequests.WithLabelValues(
		http.MethodGet, "/payments/bill/{registrationID}", http.StatusText(http.StatusOK)))
	assert.Equal(t, float64(3), count)
}

func TestRequireAdmin(t *testing.T) {
	const secret = "jwt-test-secret"
	const issuer = "workshop-platform"

	mint := func(iss string, exp time.Time, secret string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": iss,
			"sub": "admin-1",
			"iat": time.Now().Unix(),
			"exp": exp.Unix(),
		})
		signed, err := tok.SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	protected := NewAuthz(secret, issuer).RequireAdmin(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

	serve := func(authHeader string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/registrations", nil)
		if authHeader != "" {
			r.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, r)
		return rec
	}

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("").Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Basic abc").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer not.a.jwt").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := mint(issuer, time.Now().Add(time.Hour), "other-secret")
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := mint(issuer, time.Now().Add(-time.Hour), secret)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := mint("someone-else", time.Now().Add(time.Hour), secret)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		token := mint(issuer, time.Now().Add(time.Hour), secret)
		assert.Equal(t, http.StatusTeapot, serve("Bearer "+token).Code)
	})
}
