package doctor

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	GetDetails(ctx context.Context, id string) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]*Doctor, error)
	Specializations(ctx context.Context) ([]string, error)
	Search(ctx context.Context, term string) ([]*Doctor, error)
	Update(ctx context.Context, id string, p schema.Patch) (*Doctor, error)
	Delete(ctx context.Context, id string) error

	// UserRole returns the role of the linked user account.
	UserRole(ctx context.Context, userID string) (string, error)
	// SyncContactNumber mirrors the doctor's phone onto the user account.
	SyncContactNumber(ctx context.Context, userID string, phone *string) error
}
