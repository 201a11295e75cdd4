package reports

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"bhw-patient-registry/internal/domain/dates"

	"github.com/go-chi/chi/v5"
)

// Exporter escribe el libro de cálculo (adapters/export/xlsx).
type Exporter interface {
	WriteWorkbook(w io.Writer, wb Workbook) error
}

func RegisterRoutes(r chi.Router, svc *Service, exp Exporter) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/summary", summaryHandler(svc))
		if exp != nil {
			rr.Get("/export.xlsx", exportWorkbookHandler(svc, exp))
		}
	})

	r.Route("/rosters", func(rr chi.Router) {
		rr.Get("/seniors", seniorsHandler(svc))
		rr.Get("/pwd", pwdHandler(svc))
		rr.Get("/pregnant", pregnantHandler(svc))
	})
}

type sitioCountResponse struct {
	Sitio string `json:"sitio"`
	Count int    `json:"count"`
}

type shareResponse struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // un decimal
}

// summaryResponse es el tablero: totales, sitios y desgloses.
type summaryResponse struct {
	GeneratedAt       string               `json:"generated_at"`
	Total             int                  `json:"total"`
	Seniors           int                  `json:"seniors"`
	ActivePregnancies int                  `json:"active_pregnancies"`
	PWD               int                  `json:"pwd"`
	BySitio           []sitioCountResponse `json:"by_sitio"`
	Undefined         int                  `json:"undefined_sitio"`
	Illnesses         []shareResponse      `json:"illnesses"`
	PWDCategories     []shareResponse      `json:"pwd_categories"`
}

type residentResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Age          *int   `json:"age"`
	Sitio        string `json:"sitio"`
	HealthStatus string `json:"health_status"`
	LMP          string `json:"lmp"`
	DueDate      string `json:"due_date_or_status"`
	PWDType      string `json:"pwd_type"`
}

type pregnantResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LMP         string `json:"lmp"`
	DueDate     string `json:"due_date"`
	Sitio       string `json:"sitio"`
	NextCheckup string `json:"next_checkup"`
}

// summaryHandler godoc
// @Summary Resumen del registro
// @Description Totales (residentes, seniors, embarazos activos, PWD), residentes por sitio y desglose de enfermedades (sin NORMAL) y categorías PWD con porcentaje sobre el total.
// @Tags reports
// @Produce json
// @Success 200 {object} summaryResponse
// @Router /reports/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toSummaryResponse(snap))
	}
}

// exportWorkbookHandler godoc
// @Summary Exportar a Excel
// @Description Libro con hojas Residents, Pregnant y Summary.
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /reports/export.xlsx [get]
func exportWorkbookHandler(svc *Service, exp Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wb, err := svc.Workbook(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// armar en memoria: si falla no queda una respuesta 200 a medias
		var buf bytes.Buffer
		if err := exp.WriteWorkbook(&buf, wb); err != nil {
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		name := "BHW_Patient_Registry_" + wb.Snapshot.GeneratedAt.Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// seniorsHandler godoc
// @Summary Lista de senior citizens
// @Description Residentes de 60 años o más, en orden de registro.
// @Tags rosters
// @Produce json
// @Success 200 {array} residentResponse
// @Router /rosters/seniors [get]
func seniorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Seniors(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResidentResponses(items))
	}
}

// pwdHandler godoc
// @Summary Lista de PWD
// @Description Residentes con categoría de discapacidad distinta de NOT PWD.
// @Tags rosters
// @Produce json
// @Success 200 {array} residentResponse
// @Router /rosters/pwd [get]
func pwdHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.PWDs(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResidentResponses(items))
	}
}

// pregnantHandler godoc
// @Summary Calendario de embarazadas
// @Description Embarazos activos con FPP y próximo control prenatal.
// @Tags rosters
// @Produce json
// @Success 200 {array} pregnantResponse
// @Router /rosters/pregnant [get]
func pregnantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Pregnant(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]pregnantResponse, 0, len(items))
		for _, p := range items {
			next := p.NextCheckup
			if next == "" {
				next = "No upcoming checkups."
			}
			out = append(out, pregnantResponse{
				ID:          p.ID,
				Name:        p.Name,
				LMP:         p.LMP,
				DueDate:     dates.Format(p.DueDate),
				Sitio:       p.Sitio,
				NextCheckup: next,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toSummaryResponse(s Snapshot) summaryResponse {
	out := summaryResponse{
		GeneratedAt:       s.GeneratedAt.Format(time.RFC3339),
		Total:             s.Total,
		Seniors:           s.Seniors,
		ActivePregnancies: s.ActivePregnancies,
		PWD:               s.PWD,
		BySitio:           make([]sitioCountResponse, 0, len(s.BySitio)),
		Undefined:         s.Undefined,
		Illnesses:         toShareResponses(s.Illnesses),
		PWDCategories:     toShareResponses(s.PWDCategories),
	}
	for _, sc := range s.BySitio {
		out.BySitio = append(out.BySitio, sitioCountResponse{Sitio: sc.Sitio, Count: sc.Count})
	}
	return out
}

func toShareResponses(in []Share) []shareResponse {
	out := make([]shareResponse, 0, len(in))
	for _, s := range in {
		out = append(out, shareResponse{
			Name:    s.Name,
			Count:   s.Count,
			Percent: math.Round(s.Percent*10) / 10,
		})
	}
	return out
}

func toResidentResponses(in []Resident) []residentResponse {
	out := make([]residentResponse, 0, len(in))
	for _, r := range in {
		var age *int
		if r.Age != dates.UnknownAge {
			a := r.Age
			age = &a
		}
		out = append(out, residentResponse{
			ID:           r.ID,
			Name:         r.Name,
			Age:          age,
			Sitio:        r.Sitio,
			HealthStatus: r.HealthStatus,
			LMP:          r.LMP,
			DueDate:      r.DueDate,
			PWDType:      r.PWDType,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
