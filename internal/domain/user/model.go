package user

import (
	"time"

	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/schema"
)

var (
	Roles       = []string{auth.RoleAdmin, auth.RoleDoctor, auth.RolePatient, auth.RoleReceptionist}
	Genders     = []string{"Male", "Female", "Other"}
	BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "user",
	Table: "users",
	Key:   "user_id",
	Columns: []schema.Column{
		{Name: "user_id", Type: schema.TypeText, Immutable: true},
		{Name: "first_name", Type: schema.TypeText, Searchable: true},
		{Name: "last_name", Type: schema.TypeText, Searchable: true},
		{Name: "email", Type: schema.TypeText, Searchable: true},
		{Name: "username", Type: schema.TypeText, Immutable: true},
		{Name: "password", Type: schema.TypeText, Hidden: true},
		{Name: "role", Type: schema.TypeText, Enum: Roles, Default: auth.RolePatient, Immutable: true},
		{Name: "contact_number", Type: schema.TypeText, Nullable: true},
		{Name: "gender", Type: schema.TypeText, Enum: Genders, Nullable: true},
		{Name: "date_of_birth", Type: schema.TypeDate, Nullable: true},
		{Name: "blood_group", Type: schema.TypeText, Enum: BloodGroups, Nullable: true},
		{Name: "address_line1", Type: schema.TypeText, Nullable: true},
		{Name: "address_line2", Type: schema.TypeText, Nullable: true},
		{Name: "city", Type: schema.TypeText, Nullable: true},
		{Name: "state", Type: schema.TypeText, Nullable: true},
		{Name: "postal_code", Type: schema.TypeText, Nullable: true},
		{Name: "country", Type: schema.TypeText, Nullable: true},
		{Name: "medical_history", Type: schema.TypeText, Nullable: true},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
	},
	Relations: []schema.Relation{
		{Kind: schema.HasOne, Target: "doctor", JoinKey: "doctor_id"},
		{Kind: schema.HasMany, Target: "patient", JoinKey: "user_id"},
		{Kind: schema.HasMany, Target: "appointment", JoinKey: "patient_id"},
	},
	OrderBy: "created_at DESC",
})

// User is the public view of a users row. The password hash is never
// selected into it.
type User struct {
	UserID         string    `db:"user_id" json:"user_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	Username       string    `db:"username" json:"username"`
	Role           string    `db:"role" json:"role"`
	ContactNumber  *string   `db:"contact_number" json:"contact_number"`
	Gender         *string   `db:"gender" json:"gender"`
	DateOfBirth    *string   `db:"date_of_birth" json:"date_of_birth"`
	BloodGroup     *string   `db:"blood_group" json:"blood_group"`
	AddressLine1   *string   `db:"address_line1" json:"address_line1"`
	AddressLine2   *string   `db:"address_line2" json:"address_line2"`
	City           *string   `db:"city" json:"city"`
	State          *string   `db:"state" json:"state"`
	PostalCode     *string   `db:"postal_code" json:"postal_code"`
	Country        *string   `db:"country" json:"country"`
	MedicalHistory *string   `db:"medical_history" json:"medical_history"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Credentials is the login lookup row.
type Credentials struct {
	UserID       string `db:"user_id"`
	PasswordHash string `db:"password"`
}

// RoleCount is one row of the count-by-role report.
type RoleCount struct {
	Role  string `db:"role" json:"role"`
	Count int64  `db:"count" json:"count"`
}

// NewUser carries an already-hashed password and resolved username.
type NewUser struct {
	UserID        string
	FirstName     string
	LastName      string
	Email         string
	Username      string
	PasswordHash  string
	Role          string
	ContactNumber *string
}

type CreateRequest struct {
	UserID        string  `json:"user_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Username      string  `json:"username"`
	Password      string  `json:"password"`
	Role          string  `json:"role"`
	ContactNumber *string `json:"contact_number"`
}

// UpdateRequest is a partial profile update. Nil fields keep their stored
// value.
type UpdateRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	ContactNumber  *string `json:"contact_number"`
	Gender         *string `json:"gender"`
	DateOfBirth    *string `json:"date_of_birth"`
	BloodGroup     *string `json:"blood_group"`
	AddressLine1   *string `json:"address_line1"`
	AddressLine2   *string `json:"address_line2"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	PostalCode     *string `json:"postal_code"`
	Country        *string `json:"country"`
	MedicalHistory *string `json:"medical_history"`
}

func (r *UpdateRequest) Patch() schema.Patch {
	p := schema.Patch{}
	schema.Set(p, "first_name", r.FirstName)
	schema.Set(p, "last_name", r.LastName)
	schema.Set(p, "email", r.Email)
	schema.Set(p, "contact_number", r.ContactNumber)
	schema.Set(p, "gender", r.Gender)
	schema.Set(p, "date_of_birth", r.DateOfBirth)
	schema.Set(p, "blood_group", r.BloodGroup)
	schema.Set(p, "address_line1", r.AddressLine1)
	schema.Set(p, "address_line2", r.AddressLine2)
	schema.Set(p, "city", r.City)
	schema.Set(p, "state", r.State)
	schema.Set(p, "postal_code", r.PostalCode)
	schema.Set(p, "country", r.Country)
	schema.Set(p, "medical_history", r.MedicalHistory)
	return p
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordRequest struct {
	Password string `json:"password"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Role   string
	Limit  int
	Offset int
}
