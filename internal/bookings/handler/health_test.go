package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"roombook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRouter(checks map[string]ReadinessCheck) *httprouter.Router {
	router := httprouter.New()
	NewHealthHandler(checks, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("down") }

	rec := httptest.NewRecorder()
	healthRouter(map[string]ReadinessCheck{"store": ok}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	healthRouter(map[string]ReadinessCheck{"store": ok, "events": failing}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "error", resp.Checks["events"])
	assert.Equal(t, "ok", resp.Checks["store"])
}
