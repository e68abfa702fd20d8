package notification

import (
	"context"
	"time"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Notification"

const detailsFrom = `notifications n
	JOIN users pu ON pu.user_id = n.patient_id
	LEFT JOIN appointments a ON a.appointment_id = n.appointment_id
	LEFT JOIN receptionist r ON r.id = n.receptionist_id`

var detailsColumns = Schema.SelectList("n") + `,
	pu.first_name AS patient_first_name, pu.last_name AS patient_last_name,
	pu.email AS patient_email,
	to_char(a."date", 'YYYY-MM-DD') AS appointment_date, a."time" AS appointment_time,
	a.status AS appointment_status, r.name AS receptionist_name`

type notificationRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &notificationRepoPG{db: m}
}

func (r *notificationRepoPG) Create(ctx context.Context, n *Notification) (*Notification, error) {
	return db.One[Notification](ctx, r.db, entityName, `
		INSERT INTO notifications (appointment_id, patient_id, receptionist_id, message, notification_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+Schema.SelectList(""),
		n.AppointmentID, n.PatientID, n.ReceptionistID, n.Message, n.NotificationType)
}

func (r *notificationRepoPG) GetByID(ctx context.Context, id int) (*Notification, error) {
	return db.One[Notification](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM notifications WHERE notification_id = $1`, id)
}

func (r *notificationRepoPG) GetDetails(ctx context.Context, id int) (*Details, error) {
	return db.One[Details](ctx, r.db, entityName,
		`SELECT `+detailsColumns+` FROM `+detailsFrom+` WHERE n.notification_id = $1`, id)
}

func (r *notificationRepoPG) List(ctx context.Context, f ListFilter) ([]*Notification, error) {
	q := schema.NewQuery("notifications", Schema.SelectList(""))
	if f.PatientID != "" {
		q.Eq("patient_id", f.PatientID)
	}
	if f.ReceptionistID != "" {
		q.Eq("receptionist_id", f.ReceptionistID)
	}
	if f.Type != "" {
		q.Eq("notification_type", f.Type)
	}
	if f.UnseenOnly {
		q.Add("seen = FALSE")
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[Notification](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *notificationRepoPG) CountUnread(ctx context.Context, patientID string) (int64, error) {
	return db.Scalar[int64](ctx, r.db, entityName,
		`SELECT COUNT(*) FROM notifications WHERE patient_id = $1 AND seen = FALSE`, patientID)
}

func (r *notificationRepoPG) MarkSeen(ctx context.Context, id int) error {
	n, err := db.Exec(ctx, r.db, entityName,
		`UPDATE notifications SET seen = TRUE WHERE notification_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *notificationRepoPG) MarkAllSeen(ctx context.Context, patientID string) (int64, error) {
	return db.Exec(ctx, r.db, entityName,
		`UPDATE notifications SET seen = TRUE WHERE patient_id = $1 AND seen = FALSE`, patientID)
}

func (r *notificationRepoPG) Delete(ctx context.Context, id int) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM notifications WHERE notification_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *notificationRepoPG) PurgeSeen(ctx context.Context, cutoff time.Time) (int64, error) {
	return db.Exec(ctx, r.db, entityName,
		`DELETE FROM notifications WHERE seen = TRUE AND created_at < $1`, cutoff)
}
