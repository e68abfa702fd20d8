package user

import (
	"context"

	"github.com/medcore/medcore/internal/platform/schema"
)

type Repository interface {
	Create(ctx context.Context, u *NewUser) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Credentials(ctx context.Context, email string) (*Credentials, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]*User, error)
	Update(ctx context.Context, id string, p schema.Patch) (*User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) ([]*RoleCount, error)
}
