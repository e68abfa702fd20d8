package prescription

import (
	"time"

	"github.com/medcore/medcore/internal/platform/schema"
)

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "prescription",
	Table: "prescriptions",
	Key:   "prescription_id",
	Columns: []schema.Column{
		{Name: "prescription_id", Type: schema.TypeText, Immutable: true},
		{Name: "appointment_id", Type: schema.TypeInt, References: "appointments.appointment_id"},
		{Name: "doctor_id", Type: schema.TypeText, References: "users.user_id"},
		{Name: "patient_id", Type: schema.TypeText, References: "users.user_id"},
		{Name: "problem", Type: schema.TypeText},
		{Name: "doctor_notes", Type: schema.TypeText},
		{Name: "medicines", Type: schema.TypeText},
		{Name: "pdf_link", Type: schema.TypeText, Nullable: true},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
	},
	Relations: []schema.Relation{
		{Kind: schema.BelongsTo, Target: "appointment", JoinKey: "appointment_id"},
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "doctor_id"},
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "patient_id"},
	},
	OrderBy: "created_at DESC",
})

type Prescription struct {
	PrescriptionID string    `db:"prescription_id" json:"prescription_id"`
	AppointmentID  int       `db:"appointment_id" json:"appointment_id"`
	DoctorID       string    `db:"doctor_id" json:"doctor_id"`
	PatientID      string    `db:"patient_id" json:"patient_id"`
	Problem        string    `db:"problem" json:"problem"`
	DoctorNotes    string    `db:"doctor_notes" json:"doctor_notes"`
	Medicines      string    `db:"medicines" json:"medicines"`
	PDFLink        *string   `db:"pdf_link" json:"pdf_link"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Details is a prescription joined with its appointment slot and both
// participants.
type Details struct {
	Prescription
	AppointmentDate   string  `db:"appointment_date" json:"appointment_date"`
	AppointmentTime   string  `db:"appointment_time" json:"appointment_time"`
	AppointmentStatus string  `db:"appointment_status" json:"appointment_status"`
	DoctorFirstName   string  `db:"doctor_first_name" json:"doctor_first_name"`
	DoctorLastName    string  `db:"doctor_last_name" json:"doctor_last_name"`
	Specialization    *string `db:"specialization" json:"specialization"`
	PatientFirstName  string  `db:"patient_first_name" json:"patient_first_name"`
	PatientLastName   string  `db:"patient_last_name" json:"patient_last_name"`
	PatientEmail      string  `db:"patient_email" json:"patient_email"`
}

type CreateRequest struct {
	PrescriptionID string  `json:"prescription_id"`
	AppointmentID  int     `json:"appointment_id"`
	DoctorID       string  `json:"doctor_id"`
	PatientID      string  `json:"patient_id"`
	Problem        string  `json:"problem"`
	DoctorNotes    string  `json:"doctor_notes"`
	Medicines      string  `json:"medicines"`
	PDFLink        *string `json:"pdf_link"`
}

type UpdateRequest struct {
	AppointmentID *int    `json:"appointment_id"`
	DoctorID      *string `json:"doctor_id"`
	PatientID     *string `json:"patient_id"`
	Problem       *string `json:"problem"`
	DoctorNotes   *string `json:"doctor_notes"`
	Medicines     *string `json:"medicines"`
	PDFLink       *string `json:"pdf_link"`
}

func (r *UpdateRequest) Patch() schema.Patch {
	p := schema.Patch{}
	schema.Set(p, "appointment_id", r.AppointmentID)
	schema.Set(p, "doctor_id", r.DoctorID)
	schema.Set(p, "patient_id", r.PatientID)
	schema.Set(p, "problem", r.Problem)
	schema.Set(p, "doctor_notes", r.DoctorNotes)
	schema.Set(p, "medicines", r.Medicines)
	schema.Set(p, "pdf_link", r.PDFLink)
	return p
}

type PDFRequest struct {
	PDFLink string `json:"pdf_link"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	PatientID string
	DoctorID  string
	Limit     int
	Offset    int
}
