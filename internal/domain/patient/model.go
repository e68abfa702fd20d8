package patient

import (
	"time"

	"github.com/medcore/medcore/internal/platform/schema"
)

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "patient",
	Table: "patientdetails",
	Key:   "id",
	Columns: []schema.Column{
		{Name: "id", Type: schema.TypeText, Immutable: true},
		{Name: "user_id", Type: schema.TypeText, References: "users.user_id", Searchable: true, Immutable: true},
		{Name: "doctor_id", Type: schema.TypeText, References: "users.user_id", Nullable: true, Searchable: true},
		{Name: "problem", Type: schema.TypeText, Searchable: true},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
	},
	Relations: []schema.Relation{
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "user_id"},
		{Kind: schema.BelongsTo, Target: "doctor", JoinKey: "doctor_id"},
	},
	OrderBy: "created_at DESC",
})

type Patient struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	DoctorID  *string   `db:"doctor_id" json:"doctor_id"`
	Problem   string    `db:"problem" json:"problem"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Details is a patient record joined with the patient's account and the
// assigned doctor's directory entry.
type Details struct {
	Patient
	FirstName            string  `db:"first_name" json:"first_name"`
	LastName             string  `db:"last_name" json:"last_name"`
	Email                string  `db:"email" json:"email"`
	ContactNumber        *string `db:"contact_number" json:"contact_number"`
	Gender               *string `db:"gender" json:"gender"`
	DateOfBirth          *string `db:"date_of_birth" json:"date_of_birth"`
	BloodGroup           *string `db:"blood_group" json:"blood_group"`
	DoctorName           *string `db:"doctor_name" json:"doctor_name"`
	DoctorSpecialization *string `db:"doctor_specialization" json:"doctor_specialization"`
}

type CreateRequest struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	DoctorID *string `json:"doctor_id"`
	Problem  string  `json:"problem"`
}

type UpdateRequest struct {
	DoctorID *string `json:"doctor_id"`
	Problem  *string `json:"problem"`
}

func (r *UpdateRequest) Patch() schema.Patch {
	p := schema.Patch{}
	schema.Set(p, "doctor_id", r.DoctorID)
	schema.Set(p, "problem", r.Problem)
	return p
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	UserID   string
	DoctorID string
	Limit    int
	Offset   int
}
