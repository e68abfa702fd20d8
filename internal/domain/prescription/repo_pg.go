package prescription

import (
	"context"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Prescription"

const detailsFrom = `prescriptions p
	JOIN appointments a ON a.appointment_id = p.appointment_id
	JOIN users du ON du.user_id = p.doctor_id
	JOIN users pu ON pu.user_id = p.patient_id
	LEFT JOIN doctordetails dd ON dd.doctor_id = p.doctor_id`

var detailsColumns = Schema.SelectList("p") + `,
	to_char(a."date", 'YYYY-MM-DD') AS appointment_date, a."time" AS appointment_time,
	a.status AS appointment_status,
	du.first_name AS doctor_first_name, du.last_name AS doctor_last_name, dd.specialization,
	pu.first_name AS patient_first_name, pu.last_name AS patient_last_name,
	pu.email AS patient_email`

type prescriptionRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &prescriptionRepoPG{db: m}
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	return db.One[Prescription](ctx, r.db, entityName, `
		INSERT INTO prescriptions (
			prescription_id, appointment_id, doctor_id, patient_id,
			problem, doctor_notes, medicines, pdf_link
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+Schema.SelectList(""),
		p.PrescriptionID, p.AppointmentID, p.DoctorID, p.PatientID,
		p.Problem, p.DoctorNotes, p.Medicines, p.PDFLink)
}

func (r *prescriptionRepoPG) GetByID(ctx context.Context, id string) (*Prescription, error) {
	return db.One[Prescription](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM prescriptions WHERE prescription_id = $1`, id)
}

func (r *prescriptionRepoPG) GetByAppointment(ctx context.Context, appointmentID int) (*Prescription, error) {
	return db.One[Prescription](ctx, r.db, entityName, `
		SELECT `+Schema.SelectList("")+` FROM prescriptions
		WHERE appointment_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, appointmentID)
}

func (r *prescriptionRepoPG) GetDetails(ctx context.Context, id string) (*Details, error) {
	return db.One[Details](ctx, r.db, entityName,
		`SELECT `+detailsColumns+` FROM `+detailsFrom+` WHERE p.prescription_id = $1`, id)
}

func (r *prescriptionRepoPG) List(ctx context.Context, f ListFilter) ([]*Prescription, error) {
	q := schema.NewQuery("prescriptions", Schema.SelectList(""))
	if f.PatientID != "" {
		q.Eq("patient_id", f.PatientID)
	}
	if f.DoctorID != "" {
		q.Eq("doctor_id", f.DoctorID)
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[Prescription](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *prescriptionRepoPG) Update(ctx context.Context, id string, p schema.Patch) (*Prescription, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[Prescription](ctx, r.db, entityName, sql, args...)
}

func (r *prescriptionRepoPG) Delete(ctx context.Context, id string) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM prescriptions WHERE prescription_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *prescriptionRepoPG) Count(ctx context.Context) (int64, error) {
	return db.Scalar[int64](ctx, r.db, entityName, `SELECT COUNT(*) FROM prescriptions`)
}

func (r *prescriptionRepoPG) AppointmentExists(ctx context.Context, appointmentID int) (bool, error) {
	return db.Scalar[bool](ctx, r.db, "Appointment",
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE appointment_id = $1)`, appointmentID)
}
