package patients

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/pregnancy"
	"bhw-patient-registry/internal/domain/validation"

	"github.com/go-chi/chi/v5"
)

// maxImportBytes limita el CSV que acepta /registry/import.
const maxImportBytes = 32 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/", listPatientsHandler(svc))

		// Búsqueda por ID o prefijo de nombre
		pr.Get("/search", searchPatientHandler(svc))

		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Patch("/{patientID}", updatePatientHandler(svc))
	})

	// Guardar / cargar el registro completo en el formato CSV
	r.Route("/registry", func(rr chi.Router) {
		rr.Get("/export.csv", exportRegistryHandler(svc))
		rr.Post("/import", importRegistryHandler(svc))
	})
}

// createPatientRequest es el formulario de alta de un residente.
type createPatientRequest struct {
	Name       string   `json:"name"`
	Birthday   string   `json:"birthday"` // YYYY-MM-DD o N/A
	LMP        string   `json:"lmp"`      // YYYY-MM-DD o N/A
	Sitio      string   `json:"sitio"`
	Conditions []string `json:"conditions"`
	PWDType    string   `json:"pwd_type"`
	RecentLMP  string   `json:"recent_lmp" enums:"clear,abort"` // respuesta a la confirmación de LMP reciente
}

// updatePatientRequest agrega una entrada al historial; los campos omitidos
// conservan su valor actual.
type updatePatientRequest struct {
	Record       string  `json:"record"`
	HealthStatus *string `json:"health_status,omitempty"`
	PWDType      *string `json:"pwd_type,omitempty"`
	LMP          *string `json:"lmp,omitempty"`
	RecentLMP    string  `json:"recent_lmp" enums:"clear,abort"`
}

// patientResponse es la fila del listado maestro.
type patientResponse struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Birthday     string   `json:"birthday"`
	Age          *int     `json:"age"` // null si no se conoce
	LMP          string   `json:"lmp"`
	DueDate      string   `json:"due_date_or_status"`
	Sitio        string   `json:"sitio"`
	HealthStatus string   `json:"health_status"`
	PWDType      string   `json:"pwd_type"`
	Records      []string `json:"records"`
}

// visitResponse es un control del calendario prenatal.
type visitResponse struct {
	Kind     pregnancy.VisitKind `json:"kind"`
	Week     int                 `json:"week,omitempty"`
	Date     string              `json:"date"`
	Upcoming bool                `json:"upcoming"`
	Label    string              `json:"label"`
}

type pregnancyResponse struct {
	Status   pregnancy.Kind  `json:"status"`
	DueDate  string          `json:"due_date,omitempty"`
	Label    string          `json:"label"`
	Upcoming []visitResponse `json:"upcoming_visits"`
}

// profileResponse es el perfil completo de un residente.
type profileResponse struct {
	patientResponse
	Pregnancy pregnancyResponse `json:"pregnancy"`
}

// confirmationResponse se devuelve con 409 cuando la LMP es reciente y no se envió recent_lmp.
type confirmationResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field"`
	Candidate string `json:"candidate"`
	Hint      string `json:"hint"`
}

// createPatientHandler godoc
// @Summary Registrar residente
// @Description Valida el formulario y agrega el residente con el siguiente ID. Si la LMP tiene menos de 4 semanas responde 409 salvo que `recent_lmp` sea `clear` (guardar con LMP N/A) o `abort` (cancelar).
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body createPatientRequest true "Datos del residente; fechas en formato YYYY-MM-DD"
// @Success 201 {object} profileResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 409 {object} confirmationResponse
// @Router /patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Register(r.Context(), CreateInput{
			Name:       req.Name,
			Birthday:   req.Birthday,
			LMP:        req.LMP,
			Sitio:      req.Sitio,
			Conditions: req.Conditions,
			PWDType:    req.PWDType,
		}, validation.ParseDecision(req.RecentLMP))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toProfileResponse(p, svc.Now()))
	}
}

// listPatientsHandler godoc
// @Summary Listado maestro
// @Description Todos los residentes en orden de registro, con edad y FPP derivadas.
// @Tags patients
// @Produce json
// @Success 200 {array} patientResponse
// @Router /patients [get]
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		today := svc.Now()
		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p, today))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// searchPatientHandler godoc
// @Summary Buscar residente
// @Description Busca por ID exacto y, si no, por prefijo de nombre sin distinguir mayúsculas. Con varios resultados gana el primero registrado.
// @Tags patients
// @Produce json
// @Param q query string true "ID o prefijo del nombre"
// @Success 200 {object} profileResponse
// @Failure 404 {string} string "patient not found"
// @Router /patients/search [get]
func searchPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok, err := svc.Find(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p, svc.Now()))
	}
}

// getPatientHandler godoc
// @Summary Perfil de residente
// @Description Perfil con edad, estado de embarazo y controles pendientes.
// @Tags patients
// @Produce json
// @Param patientID path int true "ID del residente"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid id"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [get]
func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := patientID(w, r)
		if !ok {
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p, svc.Now()))
	}
}

// updatePatientHandler godoc
// @Summary Actualizar residente
// @Description Agrega una entrada fechada al inicio del historial. `record` es obligatorio; estado de salud, PWD y LMP solo cambian si vienen en el cuerpo.
// @Tags patients
// @Accept json
// @Produce json
// @Param patientID path int true "ID del residente"
// @Param payload body updatePatientRequest true "Entrada de historial y nuevos valores"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 404 {string} string "patient not found"
// @Failure 409 {object} confirmationResponse
// @Router /patients/{patientID} [patch]
func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := patientID(w, r)
		if !ok {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePatientRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cur, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, UpdateInput{
			RecordText:   req.Record,
			HealthStatus: orCurrent(req.HealthStatus, cur.HealthStatus),
			PWDType:      orCurrent(req.PWDType, cur.PWDType),
			LMP:          orCurrent(req.LMP, cur.LMP),
		}, validation.ParseDecision(req.RecentLMP))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(updated, svc.Now()))
	}
}

func orCurrent(v *string, cur string) string {
	if v == nil {
		return cur
	}
	return *v
}

// exportRegistryHandler godoc
// @Summary Exportar registro (CSV)
// @Description Descarga el registro completo con columnas ID, Name, Birthday, LMP, Sitio, Health_Status, Records, PWD_Type. El historial va en una celda unido con ';'.
// @Tags registry
// @Produce text/csv
// @Success 200 {file} file
// @Router /registry/export.csv [get]
func exportRegistryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := svc.Save(r.Context(), &buf); err != nil {
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+DefaultExportName(svc.Now())+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

type importResponse struct {
	Patients int `json:"patients"`
	NextID   int `json:"next_id"`
}

// importRegistryHandler godoc
// @Summary Cargar registro (CSV)
// @Description Reemplaza el registro completo con el CSV del cuerpo. Si el archivo no se puede leer el registro queda vacío y se responde 400.
// @Tags registry
// @Accept text/csv
// @Produce json
// @Success 200 {object} importResponse
// @Failure 400 {string} string "registry file could not be parsed"
// @Router /registry/import [post]
func importRegistryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, maxImportBytes)
		if err := svc.Load(r.Context(), body); err != nil {
			if errors.Is(err, ErrNoCodec) {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		next, err := svc.repo.NextID(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, importResponse{Patients: len(list), NextID: next})
	}
}

func patientID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "patientID")))
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	if candidate, ok := validation.NeedsConfirmation(err); ok {
		writeJSON(w, http.StatusConflict, confirmationResponse{
			Error:     err.Error(),
			Field:     "lmp",
			Candidate: dates.Format(candidate),
			Hint:      `resend with "recent_lmp": "clear" to save LMP as N/A, or "abort" to cancel`,
		})
		return
	}

	switch {
	case validation.IsValidation(err), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPatientResponse(p Patient, today time.Time) patientResponse {
	var age *int
	if a := p.Age(today); a != dates.UnknownAge {
		age = &a
	}
	return patientResponse{
		ID:           p.ID,
		Name:         p.Name,
		Birthday:     p.Birthday,
		Age:          age,
		LMP:          p.LMP,
		DueDate:      p.Pregnancy(today).Label(),
		Sitio:        p.Sitio,
		HealthStatus: p.HealthStatus,
		PWDType:      p.PWDType,
		Records:      append([]string{}, p.Records...),
	}
}

func toProfileResponse(p Patient, today time.Time) profileResponse {
	est := p.Pregnancy(today)

	preg := pregnancyResponse{
		Status:   est.Kind,
		Label:    est.Label(),
		Upcoming: make([]visitResponse, 0),
	}
	if !est.DueDate.IsZero() {
		preg.DueDate = dates.Format(est.DueDate)
	}
	for _, v := range est.Upcoming() {
		preg.Upcoming = append(preg.Upcoming, visitResponse{
			Kind:     v.Kind,
			Week:     v.Week,
			Date:     dates.Format(v.Date),
			Upcoming: v.Upcoming,
			Label:    v.String(),
		})
	}

	return profileResponse{
		patientResponse: toPatientResponse(p, today),
		Pregnancy:       preg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
