package router

import (
	"database/sql"
	"net/http"

	_ "bhw-patient-registry/docs"
	"bhw-patient-registry/internal/adapters/export/xlsx"
	"bhw-patient-registry/internal/adapters/storage/csvfile"
	mem "bhw-patient-registry/internal/adapters/storage/memory"
	pg "bhw-patient-registry/internal/adapters/storage/postgres"
	"bhw-patient-registry/internal/domain/patients"
	"bhw-patient-registry/internal/domain/reports"
	"bhw-patient-registry/internal/middleware"
	"bhw-patient-registry/internal/platform/logger"
	"bhw-patient-registry/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger  logger.Logger    // puede ser nil
	Metrics *metrics.Metrics // puede ser nil: sin /metrics

	// Opcional: servicio ya armado (serve lo carga desde DATA_FILE antes de levantar el router).
	Patients *patients.Service

	// Solo si Patients es nil. Si viene DB usa Postgres, si no in-memory.
	DB       *sql.DB
	Taxonomy patients.Taxonomy
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	var obs middleware.RequestObserver
	if opts.Metrics != nil {
		obs = opts.Metrics
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log, obs))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	patientsSvc := opts.Patients
	if patientsSvc == nil {
		var repo patients.Repository
		if opts.DB != nil {
			repo = pg.NewPatientsRepo(opts.DB)
		} else {
			repo = mem.NewPatientRepo()
		}

		popts := patients.Options{
			Taxonomy: opts.Taxonomy,
			Codec:    csvfile.New(),
			Logger:   log,
		}
		if opts.Metrics != nil {
			popts.Metrics = opts.Metrics
		}
		patientsSvc = patients.NewService(repo, popts)
	}

	// Services por módulo
	reportsSvc := reports.NewService(patientsSvc)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc)
	reports.RegisterRoutes(r, reportsSvc, xlsx.New())

	return r
}
