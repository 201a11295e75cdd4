package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCounters(t *testing.T) {
	m := New()

	m.PatientRegistered()
	m.PatientRegistered()
	m.PatientUpdated()
	m.ValidationRejected("lmp")
	m.ValidationRejected("lmp")
	m.ValidationRejected("name")
	m.RegistryLoaded(12)
	m.RegistrySaved(13)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PatientsRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PatientsUpdated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationRejects.WithLabelValues("lmp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationRejects.WithLabelValues("name")))
	assert.Equal(t, 13.0, testutil.ToFloat64(m.RegistrySize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrySaves))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.PatientRegistered()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.PatientsRegistered))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PatientsRegistered))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.PatientRegistered()
	m.ObserveRequest(http.MethodGet, "/patients/{patientID}", http.StatusOK, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "bhw_registry_patients_registered_total 1")
	assert.Contains(t, body, `route="/patients/{patientID}"`)
	assert.Contains(t, body, `route="unmatched"`)
}
