package reports

import (
	"context"
	"time"

	"bhw-patient-registry/internal/domain/patients"
)

// Source es lo que reports necesita del registro (lo implementa *patients.Service).
type Source interface {
	List(ctx context.Context) ([]patients.Patient, error)
	Taxonomy() patients.Taxonomy
	Now() time.Time
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	list, err := s.src.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Aggregate(list, s.src.Taxonomy(), s.src.Now()), nil
}

func (s *Service) Seniors(ctx context.Context) ([]Resident, error) {
	list, err := s.src.List(ctx)
	if err != nil {
		return nil, err
	}
	return Seniors(list, s.src.Now()), nil
}

func (s *Service) PWDs(ctx context.Context) ([]Resident, error) {
	list, err := s.src.List(ctx)
	if err != nil {
		return nil, err
	}
	return PWDs(list, s.src.Now()), nil
}

func (s *Service) Pregnant(ctx context.Context) ([]PregnantResident, error) {
	list, err := s.src.List(ctx)
	if err != nil {
		return nil, err
	}
	return Pregnant(list, s.src.Now()), nil
}

// Workbook junta todo lo que va a la exportación del registro.
type Workbook struct {
	Snapshot  Snapshot
	Residents []Resident
	Pregnant  []PregnantResident
}

// Workbook toma una sola lectura del registro para que hojas y resumen coincidan.
func (s *Service) Workbook(ctx context.Context) (Workbook, error) {
	list, err := s.src.List(ctx)
	if err != nil {
		return Workbook{}, err
	}
	today := s.src.Now()

	residents := make([]Resident, 0, len(list))
	for _, p := range list {
		residents = append(residents, ToResident(p, today))
	}

	return Workbook{
		Snapshot:  Aggregate(list, s.src.Taxonomy(), today),
		Residents: residents,
		Pregnant:  Pregnant(list, today),
	}, nil
}
