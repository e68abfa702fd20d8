package receptionist

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, r *NewReceptionist) (*Receptionist, error)
	GetByID(ctx context.Context, id string) (*Receptionist, error)
	Credentials(ctx context.Context, column, value string) (*Credentials, error)
	// Taken reports whether username or email belongs to a receptionist
	// other than excludeID.
	Taken(ctx context.Context, username, email, excludeID string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*Receptionist, error)
	Update(ctx context.Context, id string, p schema.Patch) (*Receptionist, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
