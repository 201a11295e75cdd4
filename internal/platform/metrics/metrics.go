package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry counters and the HTTP request metrics.
// Each instance owns its prometheus.Registry.
type Metrics struct {
	reg *prometheus.Registry

	PatientsRegistered prometheus.Counter
	PatientsUpdated    prometheus.Counter
	ValidationRejects  *prometheus.CounterVec
	RegistrySize       prometheus.Gauge
	RegistrySaves      prometheus.Counter

	HTTPRequests *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		PatientsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "bhw_registry_patients_registered_total",
			Help: "Total number of residents added to the registry",
		}),
		PatientsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "bhw_registry_patients_updated_total",
			Help: "Total number of record updates applied to residents",
		}),
		ValidationRejects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bhw_registry_validation_rejected_total",
			Help: "Total number of add/update operations rejected by field validation",
		}, []string{"field"}),
		RegistrySize: f.NewGauge(prometheus.GaugeOpts{
			Name: "bhw_registry_loaded_patients",
			Help: "Number of residents in the registry after the last load or save",
		}),
		RegistrySaves: f.NewCounter(prometheus.CounterOpts{
			Name: "bhw_registry_saves_total",
			Help: "Total number of successful registry saves",
		}),
		HTTPRequests: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bhw_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) PatientRegistered() {
	m.PatientsRegistered.Inc()
}

func (m *Metrics) PatientUpdated() {
	m.PatientsUpdated.Inc()
}

func (m *Metrics) ValidationRejected(field string) {
	m.ValidationRejects.WithLabelValues(field).Inc()
}

func (m *Metrics) RegistryLoaded(size int) {
	m.RegistrySize.Set(float64(size))
}

func (m *Metrics) RegistrySaved(size int) {
	m.RegistrySaves.Inc()
	m.RegistrySize.Set(float64(size))
}

// ObserveRequest records one HTTP request; route is the chi pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes this instance's registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry is used by tests to gather values.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
