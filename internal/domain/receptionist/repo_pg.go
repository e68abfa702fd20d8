package receptionist

import (
	"context"
	"fmt"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Receptionist"

type receptionistRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &receptionistRepoPG{db: m}
}

func (r *receptionistRepoPG) Create(ctx context.Context, rc *NewReceptionist) (*Receptionist, error) {
	return db.One[Receptionist](ctx, r.db, entityName, `
		INSERT INTO receptionist (id, name, number, username, email, password)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+Schema.SelectList(""),
		rc.ID, rc.Name, rc.Number, rc.Username, rc.Email, rc.PasswordHash)
}

func (r *receptionistRepoPG) GetByID(ctx context.Context, id string) (*Receptionist, error) {
	return db.One[Receptionist](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM receptionist WHERE id = $1`, id)
}

// Credentials looks a receptionist up by username or email.
func (r *receptionistRepoPG) Credentials(ctx context.Context, column, value string) (*Credentials, error) {
	if column != "username" && column != "email" {
		return nil, fmt.Errorf("credentials lookup by %q not supported", column)
	}
	return db.One[Credentials](ctx, r.db, entityName,
		`SELECT id, password FROM receptionist WHERE `+column+` = $1`, value)
}

func (r *receptionistRepoPG) Taken(ctx context.Context, username, email, excludeID string) (bool, error) {
	return db.Scalar[bool](ctx, r.db, entityName, `
		SELECT EXISTS (
			SELECT 1 FROM receptionist WHERE (username = $1 OR email = $2) AND id <> $3
		)`, username, email, excludeID)
}

func (r *receptionistRepoPG) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return db.Scalar[bool](ctx, r.db, entityName,
		`SELECT EXISTS (SELECT 1 FROM receptionist WHERE username = $1)`, username)
}

func (r *receptionistRepoPG) List(ctx context.Context) ([]*Receptionist, error) {
	return db.All[Receptionist](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM receptionist ORDER BY `+Schema.OrderBy)
}

func (r *receptionistRepoPG) Update(ctx context.Context, id string, p schema.Patch) (*Receptionist, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[Receptionist](ctx, r.db, entityName, sql, args...)
}

func (r *receptionistRepoPG) Delete(ctx context.Context, id string) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM receptionist WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *receptionistRepoPG) DeleteAll(ctx context.Context) (int64, error) {
	return db.Exec(ctx, r.db, entityName, `DELETE FROM receptionist`)
}
