package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bhw-patient-registry/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	method, route string
	status        int
}

type fakeObserver struct {
	got []recordedRequest
}

func (o *fakeObserver) ObserveRequest(method, route string, status int, d time.Duration) {
	o.got = append(o.got, recordedRequest{method: method, route: route, status: status})
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestAccessLog_RecordsRoutePatternAndStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := &fakeObserver{}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logger.Wrap(zap.New(core)), obs))
	r.Get("/patients/{patientID}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "patient not found", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/9", nil))

	require.Len(t, obs.got, 1)
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/patients/{patientID}", status: http.StatusNotFound}, obs.got[0])

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "/patients/9", entry.ContextMap()["path"])
}

func TestRecover_Returns500(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := Recover(logger.Wrap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["panic"])
}
