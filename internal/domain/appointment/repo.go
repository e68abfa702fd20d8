package appointment

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id int) (*Appointment, error)
	GetDetails(ctx context.Context, id int) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]*Appointment, error)
	// Upcoming returns appointments dated today or later, soonest first.
	Upcoming(ctx context.Context, limit int) ([]*Appointment, error)
	Update(ctx context.Context, id int, p schema.Patch) (*Appointment, error)
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context) ([]*StatusCount, error)
}
