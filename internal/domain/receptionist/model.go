package receptionist

import (
	"time"

	"github.com/medcore/medcore/internal/platform/schema"
)

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "receptionist",
	Table: "receptionist",
	Key:   "id",
	Columns: []schema.Column{
		{Name: "id", Type: schema.TypeText, Immutable: true},
		{Name: "name", Type: schema.TypeText, Searchable: true},
		{Name: "number", Type: schema.TypeText},
		{Name: "username", Type: schema.TypeText, Searchable: true},
		{Name: "email", Type: schema.TypeText, Searchable: true},
		{Name: "password", Type: schema.TypeText, Hidden: true},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
		{Name: "updated_at", Type: schema.TypeTimestamp},
	},
	Relations: []schema.Relation{
		{Kind: schema.HasMany, Target: "notification", JoinKey: "receptionist_id"},
	},
	OrderBy: "created_at DESC",
})

type Receptionist struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Number    string    `db:"number" json:"number"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Credentials is the login lookup row.
type Credentials struct {
	ID           string `db:"id"`
	PasswordHash string `db:"password"`
}

// NewReceptionist carries an already-hashed password and resolved username.
type NewReceptionist struct {
	ID           string
	Name         string
	Number       string
	Username     string
	Email        string
	PasswordHash string
}

type CreateRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest replaces the profile. Password is optional and re-hashed
// when present.
type UpdateRequest struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest accepts either a username or an email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
