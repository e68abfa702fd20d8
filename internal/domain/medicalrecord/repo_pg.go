package medicalrecord

import (
	"context"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Medical record"

const detailsFrom = `medicalrecords m
	JOIN users pu ON pu.user_id = m.patient_id
	LEFT JOIN users du ON du.user_id = m.doctor_id
	LEFT JOIN doctordetails dd ON dd.doctor_id = m.doctor_id`

var detailsColumns = Schema.SelectList("m") + `,
	pu.first_name AS patient_first_name, pu.last_name AS patient_last_name,
	pu.email AS patient_email,
	du.first_name AS doctor_first_name, du.last_name AS doctor_last_name,
	dd.specialization`

type recordRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &recordRepoPG{db: m}
}

func (r *recordRepoPG) Create(ctx context.Context, rec *Record) (*Record, error) {
	return db.One[Record](ctx, r.db, entityName, `
		INSERT INTO medicalrecords (patient_id, doctor_id, report_name, problem, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+Schema.SelectList(""),
		rec.PatientID, rec.DoctorID, rec.ReportName, rec.Problem, rec.Status, rec.Description)
}

func (r *recordRepoPG) GetByID(ctx context.Context, id int) (*Record, error) {
	return db.One[Record](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM medicalrecords WHERE record_id = $1`, id)
}

func (r *recordRepoPG) GetDetails(ctx context.Context, id int) (*Details, error) {
	return db.One[Details](ctx, r.db, entityName,
		`SELECT `+detailsColumns+` FROM `+detailsFrom+` WHERE m.record_id = $1`, id)
}

func (r *recordRepoPG) List(ctx context.Context, f ListFilter) ([]*Record, error) {
	q := schema.NewQuery("medicalrecords", Schema.SelectList(""))
	if f.PatientID != "" {
		q.Eq("patient_id", f.PatientID)
	}
	if f.Status != "" {
		q.Eq("status", f.Status)
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[Record](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *recordRepoPG) Search(ctx context.Context, term string) ([]*Record, error) {
	q := schema.NewQuery("medicalrecords", Schema.SelectList(""))
	q.Contains(Schema.SearchColumns(), term)
	q.OrderBy(Schema.OrderBy)
	return db.All[Record](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *recordRepoPG) Update(ctx context.Context, id int, p schema.Patch) (*Record, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[Record](ctx, r.db, entityName, sql, args...)
}

func (r *recordRepoPG) Delete(ctx context.Context, id int) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM medicalrecords WHERE record_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *recordRepoPG) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return db.Scalar[int64](ctx, r.db, entityName,
		`SELECT COUNT(*) FROM medicalrecords WHERE patient_id = $1`, patientID)
}
