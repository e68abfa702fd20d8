package appointment

import (
	"strings"
	"time"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/schema"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "appointment",
	Table: "appointments",
	Key:   "appointment_id",
	Columns: []schema.Column{
		{Name: "appointment_id", Type: schema.TypeSerial, Immutable: true},
		{Name: "patient_id", Type: schema.TypeText, References: "users.user_id", Immutable: true},
		{Name: "doctor_id", Type: schema.TypeText, References: "users.user_id", Immutable: true},
		{Name: "date", Type: schema.TypeDate},
		{Name: "time", Type: schema.TypeText},
		{Name: "status", Type: schema.TypeText, Enum: Statuses, Default: StatusPending},
		{Name: "remarks", Type: schema.TypeText, Nullable: true},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
		{Name: "updated_at", Type: schema.TypeTimestamp, Immutable: true},
	},
	Relations: []schema.Relation{
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "patient_id"},
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "doctor_id"},
		{Kind: schema.HasOne, Target: "prescription", JoinKey: "appointment_id"},
		{Kind: schema.HasMany, Target: "notification", JoinKey: "appointment_id"},
	},
	OrderBy: `"date" DESC, "time" DESC`,
})

type Appointment struct {
	AppointmentID int       `db:"appointment_id" json:"appointment_id"`
	PatientID     string    `db:"patient_id" json:"patient_id"`
	DoctorID      string    `db:"doctor_id" json:"doctor_id"`
	Date          string    `db:"date" json:"date"`
	Time          string    `db:"time" json:"time"`
	Status        string    `db:"status" json:"status"`
	Remarks       *string   `db:"remarks" json:"remarks"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Details is an appointment joined with both participants and the doctor's
// directory entry, when there is one.
type Details struct {
	Appointment
	PatientFirstName     string  `db:"patient_first_name" json:"patient_first_name"`
	PatientLastName      string  `db:"patient_last_name" json:"patient_last_name"`
	PatientEmail         string  `db:"patient_email" json:"patient_email"`
	PatientContactNumber *string `db:"patient_contact_number" json:"patient_contact_number"`
	DoctorFirstName      string  `db:"doctor_first_name" json:"doctor_first_name"`
	DoctorLastName       string  `db:"doctor_last_name" json:"doctor_last_name"`
	DoctorEmail          string  `db:"doctor_email" json:"doctor_email"`
	Specialization       *string `db:"specialization" json:"specialization"`
	ClinicName           *string `db:"clinic_name" json:"clinic_name"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

type CreateRequest struct {
	PatientID string  `json:"patient_id"`
	DoctorID  string  `json:"doctor_id"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Status    string  `json:"status"`
	Remarks   *string `json:"remarks"`
}

type UpdateRequest struct {
	Date    *string `json:"date"`
	Time    *string `json:"time"`
	Status  *string `json:"status"`
	Remarks *string `json:"remarks"`
}

func (r *UpdateRequest) Patch() schema.Patch {
	p := schema.Patch{}
	schema.Set(p, "date", r.Date)
	schema.Set(p, "time", r.Time)
	schema.Set(p, "status", r.Status)
	schema.Set(p, "remarks", r.Remarks)
	return p
}

type StatusRequest struct {
	Status  string  `json:"status"`
	Remarks *string `json:"remarks"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	PatientID string
	DoctorID  string
	Status    string
	Date      string
	Limit     int
	Offset    int
}

// NormalizeTime turns HH:MM or HH:MM:SS into zero-padded HH:MM:SS.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		return "", apperr.Validation("Invalid time format. Expected HH:MM or HH:MM:SS")
	}
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return "", apperr.Validation("Invalid time format. Expected HH:MM or HH:MM:SS")
	}
	return t.Format("15:04:05"), nil
}
