package memory

import (
	"context"
	"fmt"
	"sync"

	"bhw-patient-registry/internal/domain/patients"
)

var (
	ErrNotFound = fmt.Errorf("memory: %w", patients.ErrNotFound)
)

type patientRepo struct {
	mu     sync.RWMutex
	byID   map[int]patients.Patient
	order  []int // orden de registro
	nextID int
}

func NewPatientRepo() patients.Repository {
	return &patientRepo{
		byID:   make(map[int]patients.Patient),
		nextID: 1,
	}
}

func (r *patientRepo) Create(ctx context.Context, p patients.Patient) (patients.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++

	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return p, nil
}

func (r *patientRepo) Update(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *patientRepo) GetByID(ctx context.Context, id int) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *patientRepo) List(ctx context.Context) ([]patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]patients.Patient, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

// Replace descarta el registro actual. El codec CSV ya rechaza IDs repetidos;
// si igual llegan, gana la última fila en la posición de la primera.
func (r *patientRepo) Replace(ctx context.Context, list []patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[int]patients.Patient, len(list))
	r.order = make([]int, 0, len(list))
	r.nextID = 1

	for _, p := range list {
		if _, dup := r.byID[p.ID]; !dup {
			r.order = append(r.order, p.ID)
		}
		r.byID[p.ID] = p.Clone()
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return nil
}

func (r *patientRepo) NextID(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID, nil
}
