package patient

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	GetDetails(ctx context.Context, id string) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]*Patient, error)
	Search(ctx context.Context, term string) ([]*Details, error)
	Update(ctx context.Context, id string, p schema.Patch) (*Patient, error)
	Delete(ctx context.Context, id string) error

	// UserRole returns the role of a user account.
	UserRole(ctx context.Context, userID string) (string, error)
}
