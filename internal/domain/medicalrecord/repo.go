package medicalrecord

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, r *Record) (*Record, error)
	GetByID(ctx context.Context, id int) (*Record, error)
	GetDetails(ctx context.Context, id int) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]*Record, error)
	Search(ctx context.Context, term string) ([]*Record, error)
	Update(ctx context.Context, id int, p schema.Patch) (*Record, error)
	Delete(ctx context.Context, id int) error
	CountByPatient(ctx context.Context, patientID string) (int64, error)
}
