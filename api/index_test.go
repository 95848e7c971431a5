package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	once = sync.Once{}
	router = nil
	initErr = nil
}

func TestHandlerPreflight(t *testing.T) {
	reset()
	t.Setenv("SIO_SLOT_SOURCE", "table")

	w := httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandlerMissingKey(t *testing.T) {
	reset()
	t.Setenv("SIO_API_KEY", "")
	t.Setenv("SIO_SLOT_SOURCE", "table")

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"jane@example.com","lastName":"Doe","slot":"enfants_salon"}`)
	Handler(w, httptest.NewRequest(http.MethodPost, "/", body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "missing SIO_API_KEY")
}

func TestHandlerConfigError(t *testing.T) {
	reset()
	t.Setenv("SIO_SLOT_SOURCE", "vault")

	w := httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported SIO_SLOT_SOURCE")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandlerServesMountPaths(t *testing.T) {
	reset()
	t.Setenv("SIO_API_KEY", "")
	t.Setenv("SIO_SLOT_SOURCE", "table")

	for _, p := range []string{"/api", "/api/index", "/api/systeme-contact", "/api/contact"} {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"email":"jane@example.com","lastName":"Doe","slot":"enfants_salon"}`)
		Handler(w, httptest.NewRequest(http.MethodPost, p, body))

		assert.Equal(t, http.StatusInternalServerError, w.Code, p)
		assert.Contains(t, w.Body.String(), "missing SIO_API_KEY", p)
	}

	w := httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodOptions, "/api/systeme-contact", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandlerKeepsHealthRoute(t *testing.T) {
	reset()
	t.Setenv("SIO_SLOT_SOURCE", "table")

	w := httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRoutePath(t *testing.T) {
	cases := map[string]string{
		"/":                    "/",
		"/api":                 "/",
		"/api/index":           "/",
		"/api/systeme-contact": "/",
		"/health":              "/health",
		"/api/metrics":         "/metrics",
	}
	for in, want := range cases {
		assert.Equal(t, want, routePath(in), in)
	}
}
