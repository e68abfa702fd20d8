package prescription

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	GetByID(ctx context.Context, id string) (*Prescription, error)
	// GetByAppointment returns the newest prescription written for an
	// appointment.
	GetByAppointment(ctx context.Context, appointmentID int) (*Prescription, error)
	GetDetails(ctx context.Context, id string) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]*Prescription, error)
	Update(ctx context.Context, id string, p schema.Patch) (*Prescription, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	AppointmentExists(ctx context.Context, appointmentID int) (bool, error)
}
