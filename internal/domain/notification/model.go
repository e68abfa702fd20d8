package notification

import (
	"time"

	"github.com/medcore/medcore/internal/platform/schema"
)

const (
	TypeAppointmentConfirmation = "appointment_confirmation"
	TypeAppointmentReminder     = "appointment_reminder"
	TypeAppointmentCancellation = "appointment_cancellation"
	TypePrescriptionReady       = "prescription_ready"
	TypeGeneral                 = "general"
)

var Types = []string{
	TypeAppointmentConfirmation,
	TypeAppointmentReminder,
	TypeAppointmentCancellation,
	TypePrescriptionReady,
	TypeGeneral,
}

// DefaultRetentionDays is how long seen notifications are kept when no
// explicit window is given.
const DefaultRetentionDays = 30

var Schema = schema.Default.MustRegister(&schema.Entity{
	Name:  "notification",
	Table: "notifications",
	Key:   "notification_id",
	Columns: []schema.Column{
		{Name: "notification_id", Type: schema.TypeSerial, Immutable: true},
		{Name: "appointment_id", Type: schema.TypeInt, References: "appointments.appointment_id", Nullable: true},
		{Name: "patient_id", Type: schema.TypeText, References: "users.user_id"},
		{Name: "receptionist_id", Type: schema.TypeText, References: "receptionist.id", Nullable: true},
		{Name: "message", Type: schema.TypeText},
		{Name: "notification_type", Type: schema.TypeText, Enum: Types, Default: TypeGeneral},
		{Name: "seen", Type: schema.TypeBool, Default: "false"},
		{Name: "created_at", Type: schema.TypeTimestamp, Immutable: true},
	},
	Relations: []schema.Relation{
		{Kind: schema.BelongsTo, Target: "appointment", JoinKey: "appointment_id"},
		{Kind: schema.BelongsTo, Target: "user", JoinKey: "patient_id"},
		{Kind: schema.BelongsTo, Target: "receptionist", JoinKey: "receptionist_id"},
	},
	OrderBy: "created_at DESC",
})

type Notification struct {
	NotificationID   int       `db:"notification_id" json:"notification_id"`
	AppointmentID    *int      `db:"appointment_id" json:"appointment_id"`
	PatientID        string    `db:"patient_id" json:"patient_id"`
	ReceptionistID   *string   `db:"receptionist_id" json:"receptionist_id"`
	Message          string    `db:"message" json:"message"`
	NotificationType string    `db:"notification_type" json:"notification_type"`
	Seen             bool      `db:"seen" json:"seen"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Details is a notification joined with the patient, the appointment it
// refers to and the receptionist who raised it. The last two are optional.
type Details struct {
	Notification
	PatientFirstName  string  `db:"patient_first_name" json:"patient_first_name"`
	PatientLastName   string  `db:"patient_last_name" json:"patient_last_name"`
	PatientEmail      string  `db:"patient_email" json:"patient_email"`
	AppointmentDate   *string `db:"appointment_date" json:"appointment_date"`
	AppointmentTime   *string `db:"appointment_time" json:"appointment_time"`
	AppointmentStatus *string `db:"appointment_status" json:"appointment_status"`
	ReceptionistName  *string `db:"receptionist_name" json:"receptionist_name"`
}

type CreateRequest struct {
	AppointmentID    *int    `json:"appointment_id"`
	PatientID        string  `json:"patient_id"`
	ReceptionistID   *string `json:"receptionist_id"`
	Message          string  `json:"message"`
	NotificationType string  `json:"notification_type"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	PatientID      string
	ReceptionistID string
	Type           string
	UnseenOnly     bool
	Limit          int
	Offset         int
}
