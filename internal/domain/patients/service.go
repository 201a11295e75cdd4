package patients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/pregnancy"
	"bhw-patient-registry/internal/domain/validation"
	"bhw-patient-registry/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("patient not found")
	ErrNoCodec      = errors.New("no registry codec configured")
)

// Metrics recibe los eventos del registro (implementado por platform/metrics).
type Metrics interface {
	PatientRegistered()
	PatientUpdated()
	ValidationRejected(field string)
	RegistryLoaded(size int)
	RegistrySaved(size int)
}

type Options struct {
	Taxonomy Taxonomy
	Codec    Codec
	Logger   logger.Logger
	Metrics  Metrics
}

// Service es el contexto explícito de un registro: cada instancia es independiente.
type Service struct {
	id       string
	repo     Repository
	codec    Codec
	taxonomy Taxonomy
	log      logger.Logger
	metrics  Metrics
	now      func() time.Time

	// loadFailed queda en true si un Load vació el registro por un error.
	loadFailed atomic.Bool
}

func NewService(repo Repository, opts Options) *Service {
	id := uuid.NewString()

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	m := opts.Metrics
	if m == nil {
		m = nopMetrics{}
	}

	return &Service{
		id:       id,
		repo:     repo,
		codec:    opts.Codec,
		taxonomy: opts.Taxonomy.withDefaults(),
		log:      log.With(map[string]any{"registry_id": id}),
		metrics:  m,
		now:      time.Now,
	}
}

// InstanceID identifica este registro en logs.
func (s *Service) InstanceID() string { return s.id }

func (s *Service) Taxonomy() Taxonomy { return s.taxonomy }

// Now es el reloj del registro (inyectable en tests).
func (s *Service) Now() time.Time { return s.now() }

// Register valida el borrador y agrega el paciente con el siguiente ID.
// Ante cualquier error de validación no se muta el registro.
func (s *Service) Register(ctx context.Context, in CreateInput, decision validation.Decision) (Patient, error) {
	now := s.now()

	name, err := validation.Name(in.Name)
	if err != nil {
		return Patient{}, s.reject(err)
	}
	bday, err := validation.Birthday(in.Birthday, now)
	if err != nil {
		return Patient{}, s.reject(err)
	}
	lmp, err := validation.LMP(in.LMP, now, decision)
	if err != nil {
		return Patient{}, s.reject(err)
	}

	p := Patient{
		Name:         name,
		Birthday:     bday,
		LMP:          lmp,
		Sitio:        normalizeSitio(in.Sitio),
		HealthStatus: JoinConditions(in.Conditions),
		PWDType:      validation.Text(in.PWDType, NotPWD),
		Records:      []string{registrationRecord(now)},
	}

	saved, err := s.repo.Create(ctx, p)
	if err != nil {
		return Patient{}, fmt.Errorf("create patient: %w", err)
	}

	s.metrics.PatientRegistered()
	s.log.Info("patient registered", map[string]any{
		"patient_id": saved.ID,
		"sitio":      saved.Sitio,
		"lmp":        saved.LMP,
	})
	return saved, nil
}

// Update agrega una entrada al historial (al frente) y actualiza estado de salud, PWD y LMP.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput, decision validation.Decision) (Patient, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	now := s.now()

	text := strings.TrimSpace(in.RecordText)
	if text == "" {
		return Patient{}, s.reject(&validation.FieldError{Field: "record", Err: validation.ErrRequired})
	}
	lmp := p.LMP
	if strings.TrimSpace(in.LMP) != p.LMP {
		lmp, err = validation.LMP(in.LMP, now, decision)
		if err != nil {
			return Patient{}, s.reject(err)
		}
	}

	AppendRecord(&p, text, now)
	p.HealthStatus = validation.Text(in.HealthStatus, NoCondition)
	p.PWDType = validation.Text(in.PWDType, NotPWD)
	p.LMP = lmp

	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, fmt.Errorf("update patient %d: %w", id, err)
	}

	s.metrics.PatientUpdated()
	s.log.Info("patient updated", map[string]any{
		"patient_id": p.ID,
		"records":    len(p.Records),
		"lmp":        p.LMP,
	})
	return p, nil
}

// AppendRecord inserta la entrada al frente del historial (más reciente primero).
func AppendRecord(p *Patient, text string, ts time.Time) {
	p.Records = append([]string{historyRecord(ts, text)}, p.Records...)
}

func (s *Service) GetByID(ctx context.Context, id int) (Patient, error) {
	if id <= 0 {
		return Patient{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Patient{}, ErrNotFound
		}
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

// Find busca por ID exacto y, si no, por prefijo de nombre (sin distinguir mayúsculas).
// Con prefijos ambiguos gana el primero en orden de registro.
// No encontrar nada no es un error: se devuelve ok=false.
func (s *Service) Find(ctx context.Context, term string) (Patient, bool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Patient{}, false, nil
	}

	if id, err := strconv.Atoi(term); err == nil && id > 0 {
		p, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return p, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Patient{}, false, err
		}
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return Patient{}, false, err
	}
	prefix := strings.ToUpper(term)
	for _, p := range list {
		if strings.HasPrefix(strings.ToUpper(p.Name), prefix) {
			return p, true, nil
		}
	}
	return Patient{}, false, nil
}

// Load reemplaza el registro con lo que decodifique el codec.
// Si falla el parseo el registro queda vacío y se devuelve el error; un
// repositorio Durable conserva sus datos.
func (s *Service) Load(ctx context.Context, r io.Reader) error {
	if s.codec == nil {
		return ErrNoCodec
	}

	list, err := s.codec.Decode(r)
	if err != nil {
		return s.loadFailure(ctx, fmt.Errorf("load registry: %w", err))
	}

	if err := s.repo.Replace(ctx, list); err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	s.loadFailed.Store(false)

	next, _ := s.repo.NextID(ctx)
	s.metrics.RegistryLoaded(len(list))
	s.log.Info("registry loaded", map[string]any{"patients": len(list), "next_id": next})
	return nil
}

// LoadFailed indica que el último Load falló y dejó el registro vacío.
// Mientras sea true no conviene guardar encima del archivo de origen.
func (s *Service) LoadFailed() bool { return s.loadFailed.Load() }

func (s *Service) loadFailure(ctx context.Context, err error) error {
	if isDurable(s.repo) {
		s.log.Error("registry load failed, keeping stored patients", map[string]any{"error": err.Error()})
		return err
	}
	if rerr := s.repo.Replace(ctx, nil); rerr != nil {
		return errors.Join(err, rerr)
	}
	s.loadFailed.Store(true)
	s.log.Error("registry load failed, starting empty", map[string]any{"error": err.Error()})
	return err
}

// Save escribe el registro completo; el registro en memoria no cambia.
func (s *Service) Save(ctx context.Context, w io.Writer) error {
	if s.codec == nil {
		return ErrNoCodec
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	if err := s.codec.Encode(w, list); err != nil {
		s.log.Error("registry save failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("save registry: %w", err)
	}

	s.metrics.RegistrySaved(len(list))
	s.log.Info("registry saved", map[string]any{"patients": len(list)})
	return nil
}

// Age = ComputeAge.
func (p Patient) Age(today time.Time) int {
	return dates.Age(p.Birthday, today)
}

// Pregnancy = ComputePregnancy.
func (p Patient) Pregnancy(today time.Time) pregnancy.Estimate {
	return pregnancy.Calculate(p.LMP, today)
}

func (s *Service) reject(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		s.metrics.ValidationRejected(fe.Field)
		s.log.Debug("validation rejected", map[string]any{"field": fe.Field, "error": fe.Err.Error()})
	}
	return err
}

func normalizeSitio(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return dates.Unknown
	}
	return s
}

type nopMetrics struct{}

func (nopMetrics) PatientRegistered()        {}
func (nopMetrics) PatientUpdated()           {}
func (nopMetrics) ValidationRejected(string) {}
func (nopMetrics) RegistryLoaded(int)        {}
func (nopMetrics) RegistrySaved(int)         {}
