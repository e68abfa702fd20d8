package appointment

import (
	"context"
	"fmt"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Appointment"

const detailsFrom = `appointments a
	JOIN users pu ON pu.user_id = a.patient_id
	JOIN users du ON du.user_id = a.doctor_id
	LEFT JOIN doctordetails dd ON dd.doctor_id = a.doctor_id`

var detailsColumns = Schema.SelectList("a") + `,
	pu.first_name AS patient_first_name, pu.last_name AS patient_last_name,
	pu.email AS patient_email, pu.contact_number AS patient_contact_number,
	du.first_name AS doctor_first_name, du.last_name AS doctor_last_name,
	du.email AS doctor_email, dd.specialization, dd.clinic_name`

type appointmentRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &appointmentRepoPG{db: m}
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	return db.One[Appointment](ctx, r.db, entityName, `
		INSERT INTO appointments (patient_id, doctor_id, "date", "time", status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+Schema.SelectList(""),
		a.PatientID, a.DoctorID, a.Date, a.Time, a.Status, a.Remarks)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int) (*Appointment, error) {
	return db.One[Appointment](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM appointments WHERE appointment_id = $1`, id)
}

func (r *appointmentRepoPG) GetDetails(ctx context.Context, id int) (*Details, error) {
	return db.One[Details](ctx, r.db, entityName,
		`SELECT `+detailsColumns+` FROM `+detailsFrom+` WHERE a.appointment_id = $1`, id)
}

func (r *appointmentRepoPG) List(ctx context.Context, f ListFilter) ([]*Appointment, error) {
	q := schema.NewQuery("appointments", Schema.SelectList(""))
	if f.PatientID != "" {
		q.Eq("patient_id", f.PatientID)
	}
	if f.DoctorID != "" {
		q.Eq("doctor_id", f.DoctorID)
	}
	if f.Status != "" {
		q.Eq("status", f.Status)
	}
	if f.Date != "" {
		q.Add(fmt.Sprintf(`"date" = $%d::date`, q.Idx()), f.Date)
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[Appointment](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *appointmentRepoPG) Upcoming(ctx context.Context, limit int) ([]*Appointment, error) {
	q := schema.NewQuery("appointments", Schema.SelectList(""))
	q.Add(`"date" >= CURRENT_DATE`)
	q.OrderBy(`"date" ASC, "time" ASC`)
	q.Limit(limit, 0)
	return db.All[Appointment](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *appointmentRepoPG) Update(ctx context.Context, id int, p schema.Patch) (*Appointment, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[Appointment](ctx, r.db, entityName, sql, args...)
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id int) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM appointments WHERE appointment_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *appointmentRepoPG) CountByStatus(ctx context.Context) ([]*StatusCount, error) {
	return db.All[StatusCount](ctx, r.db, entityName,
		`SELECT status, COUNT(*) AS count FROM appointments GROUP BY status ORDER BY status`)
}
