package user

import (
	"context"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "User"

type userRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &userRepoPG{db: m}
}

func (r *userRepoPG) Create(ctx context.Context, u *NewUser) (*User, error) {
	return db.One[User](ctx, r.db, entityName, `
		INSERT INTO users (user_id, first_name, last_name, email, username, password, role, contact_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+Schema.SelectList(""),
		u.UserID, u.FirstName, u.LastName, u.Email, u.Username, u.PasswordHash, u.Role, u.ContactNumber)
}

func (r *userRepoPG) GetByID(ctx context.Context, id string) (*User, error) {
	return db.One[User](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM users WHERE user_id = $1`, id)
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return db.One[User](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM users WHERE email = $1`, email)
}

func (r *userRepoPG) Credentials(ctx context.Context, email string) (*Credentials, error) {
	return db.One[Credentials](ctx, r.db, entityName,
		`SELECT user_id, password FROM users WHERE email = $1`, email)
}

func (r *userRepoPG) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return db.Scalar[bool](ctx, r.db, entityName,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND user_id <> $2)`, email, excludeID)
}

func (r *userRepoPG) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return db.Scalar[bool](ctx, r.db, entityName,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *userRepoPG) List(ctx context.Context, f ListFilter) ([]*User, error) {
	q := schema.NewQuery("users", Schema.SelectList(""))
	if f.Role != "" {
		q.Eq("role", f.Role)
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[User](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *userRepoPG) Update(ctx context.Context, id string, p schema.Patch) (*User, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[User](ctx, r.db, entityName, sql, args...)
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, id, hash string) error {
	n, err := db.Exec(ctx, r.db, entityName, `UPDATE users SET password = $1 WHERE user_id = $2`, hash, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *userRepoPG) Delete(ctx context.Context, id string) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *userRepoPG) CountByRole(ctx context.Context) ([]*RoleCount, error) {
	return db.All[RoleCount](ctx, r.db, entityName,
		`SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role`)
}
