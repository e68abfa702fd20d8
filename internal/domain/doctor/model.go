package doctor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/medcore/medcore/internal/platform/schema"
)

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "doctor",
	Table: "doctordetails",
	Key:   "doctor_id",
	Columns: []schema.Column{
		{Name: "doctor_id", Type: schema.TypeText, References: "users.user_id", Immutable: true},
		{Name: "name", Type: schema.TypeText, Searchable: true},
		{Name: "specialization", Type: schema.TypeText, Searchable: true},
		{Name: "qualification", Type: schema.TypeText, Nullable: true},
		{Name: "experience_years", Type: schema.TypeInt, Default: "0"},
		{Name: "city", Type: schema.TypeText, Nullable: true, Searchable: true},
		{Name: "phone_number", Type: schema.TypeText, Nullable: true},
		{Name: "is_active", Type: schema.TypeBool, Default: "true"},
		{Name: "clinic_name", Type: schema.TypeText, Nullable: true, Searchable: true},
		{Name: "clinic_address", Type: schema.TypeText, Nullable: true},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
		{Name: "updated_at", Type: schema.TypeTimestamp},
	},
	Relations: []schema.Relation{
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "doctor_id"},
		{Kind: schema.HasMany, Target: "appointment", JoinKey: "doctor_id"},
	},
	OrderBy: "name ASC",
})

type Doctor struct {
	DoctorID        string    `db:"doctor_id" json:"doctor_id"`
	Name            string    `db:"name" json:"name"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Qualification   *string   `db:"qualification" json:"qualification"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	City            *string   `db:"city" json:"city"`
	PhoneNumber     *string   `db:"phone_number" json:"phone_number"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	ClinicName      *string   `db:"clinic_name" json:"clinic_name"`
	ClinicAddress   *string   `db:"clinic_address" json:"clinic_address"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Details is a doctor joined with the linked user account.
type Details struct {
	Doctor
	FirstName     string  `db:"first_name" json:"first_name"`
	LastName      string  `db:"last_name" json:"last_name"`
	Email         string  `db:"email" json:"email"`
	Username      string  `db:"username" json:"username"`
	ContactNumber *string `db:"contact_number" json:"contact_number"`
}

// Flag is a boolean that also accepts "true"/"false" and 1/0 on input.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch s := strings.ToLower(string(bytes.Trim(b, `"`))); s {
	case "true", "1":
		*f = true
	case "false", "0", "":
		*f = false
	default:
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("invalid boolean %s", b)
		}
		*f = Flag(v)
	}
	return nil
}

type CreateRequest struct {
	DoctorID        string  `json:"doctor_id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Qualification   string  `json:"qualification"`
	ExperienceYears *int    `json:"experience_years"`
	City            *string `json:"city"`
	PhoneNumber     *string `json:"phone_number"`
	IsActive        *Flag   `json:"is_active"`
	ClinicName      *string `json:"clinic_name"`
	ClinicAddress   *string `json:"clinic_address"`
}

type UpdateRequest struct {
	Name            *string `json:"name"`
	Specialization  *string `json:"specialization"`
	Qualification   *string `json:"qualification"`
	ExperienceYears *int    `json:"experience_years"`
	City            *string `json:"city"`
	PhoneNumber     *string `json:"phone_number"`
	IsActive        *Flag   `json:"is_active"`
	ClinicName      *string `json:"clinic_name"`
	ClinicAddress   *string `json:"clinic_address"`
}

func (r *UpdateRequest) Patch() schema.Patch {
	p := schema.Patch{}
	schema.Set(p, "name", r.Name)
	schema.Set(p, "specialization", r.Specialization)
	schema.Set(p, "qualification", r.Qualification)
	schema.Set(p, "experience_years", r.ExperienceYears)
	schema.Set(p, "city", r.City)
	schema.Set(p, "phone_number", r.PhoneNumber)
	if r.IsActive != nil {
		p["is_active"] = bool(*r.IsActive)
	}
	schema.Set(p, "clinic_name", r.ClinicName)
	schema.Set(p, "clinic_address", r.ClinicAddress)
	return p
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Specialization string
	City           string
	Active         *bool
	Limit          int
	Offset         int
}
