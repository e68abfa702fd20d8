package medicalrecord

import (
	"strings"
	"time"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/schema"
)

const (
	StatusPending   = "Pending"
	StatusOngoing   = "Ongoing"
	StatusResolved  = "Resolved"
	StatusCancelled = "Cancelled"
)

var Statuses = []string{StatusPending, StatusOngoing, StatusResolved, StatusCancelled}

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "medical_record",
	Table: "medicalrecords",
	Key:   "record_id",
	Columns: []schema.Column{
		{Name: "record_id", Type: schema.TypeSerial, Immutable: true},
		{Name: "patient_id", Type: schema.TypeText, References: "users.user_id", Searchable: true, Immutable: true},
		{Name: "doctor_id", Type: schema.TypeText, References: "users.user_id", Nullable: true, Searchable: true},
		{Name: "report_name", Type: schema.TypeText, Nullable: true, Searchable: true},
		{Name: "problem", Type: schema.TypeText, Searchable: true},
		{Name: "status", Type: schema.TypeText, Enum: Statuses, Default: StatusPending, Searchable: true},
		{Name: "description", Type: schema.TypeText, Nullable: true},
		{Name: "upload_date", Type: schema.TypeTimestamp, Immutable: true},
	},
	Relations: []schema.Relation{
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "patient_id"},
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "doctor_id"},
	},
	OrderBy: "upload_date DESC",
})

type Record struct {
	RecordID    int       `db:"record_id" json:"record_id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	DoctorID    *string   `db:"doctor_id" json:"doctor_id"`
	ReportName  *string   `db:"report_name" json:"report_name"`
	Problem     string    `db:"problem" json:"problem"`
	Status      string    `db:"status" json:"status"`
	Description *string   `db:"description" json:"description"`
	UploadDate  time.Time `db:"upload_date" json:"upload_date"`
}

// Details is a record joined with the patient and, when assigned, the
// treating doctor.
type Details struct {
	Record
	PatientFirstName string  `db:"patient_first_name" json:"patient_first_name"`
	PatientLastName  string  `db:"patient_last_name" json:"patient_last_name"`
	PatientEmail     string  `db:"patient_email" json:"patient_email"`
	DoctorFirstName  *string `db:"doctor_first_name" json:"doctor_first_name"`
	DoctorLastName   *string `db:"doctor_last_name" json:"doctor_last_name"`
	Specialization   *string `db:"specialization" json:"specialization"`
}

type CreateRequest struct {
	PatientID   string  `json:"patient_id"`
	DoctorID    *string `json:"doctor_id"`
	ReportName  *string `json:"report_name"`
	Problem     string  `json:"problem"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

type UpdateRequest struct {
	DoctorID    *string `json:"doctor_id"`
	ReportName  *string `json:"report_name"`
	Problem     *string `json:"problem"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

func (r *UpdateRequest) Patch() schema.Patch {
	p := schema.Patch{}
	schema.Set(p, "doctor_id", r.DoctorID)
	schema.Set(p, "report_name", r.ReportName)
	schema.Set(p, "problem", r.Problem)
	schema.Set(p, "status", r.Status)
	schema.Set(p, "description", r.Description)
	return p
}

type DescriptionRequest struct {
	Description string `json:"description"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	PatientID string
	Status    string
	Limit     int
	Offset    int
}

func validateStatus(status string) error {
	if Schema.ValidateEnum("status", status) != nil {
		return apperr.Validation("Invalid status. Allowed values: %s", strings.Join(Statuses, ", "))
	}
	return nil
}
