package patients

import (
	"context"
	"io"
)

// Repository persiste el registro en orden de inserción.
type Repository interface {
	// Create asigna el siguiente ID disponible y devuelve el paciente guardado.
	Create(ctx context.Context, p Patient) (Patient, error)
	Update(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id int) (Patient, error)
	// List devuelve el registro completo en orden de registro.
	List(ctx context.Context) ([]Patient, error)
	// Replace reemplaza todo el registro; el próximo ID pasa a ser max(ID)+1 (o 1).
	Replace(ctx context.Context, list []Patient) error
	NextID(ctx context.Context) (int, error)
}

// Durable lo implementan los repositorios que ya escriben cada cambio en su
// propio almacenamiento (Postgres). Un Load fallido no los vacía.
type Durable interface {
	Durable() bool
}

func isDurable(r Repository) bool {
	d, ok := r.(Durable)
	return ok && d.Durable()
}

// Codec (de)serializa el registro completo (CSV en producción).
type Codec interface {
	Decode(r io.Reader) ([]Patient, error)
	Encode(w io.Writer, list []Patient) error
}
