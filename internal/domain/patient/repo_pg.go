package patient

import (
	"context"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Patient"

const detailsFrom = `patientdetails p
	JOIN users u ON u.user_id = p.user_id
	LEFT JOIN doctordetails dd ON dd.doctor_id = p.doctor_id`

var detailsColumns = Schema.SelectList("p") + `,
	u.first_name, u.last_name, u.email, u.contact_number, u.gender,
	to_char(u.date_of_birth, 'YYYY-MM-DD') AS date_of_birth, u.blood_group,
	dd.name AS doctor_name, dd.specialization AS doctor_specialization`

type patientRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &patientRepoPG{db: m}
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) (*Patient, error) {
	return db.One[Patient](ctx, r.db, entityName, `
		INSERT INTO patientdetails (id, user_id, doctor_id, problem)
		VALUES ($1, $2, $3, $4)
		RETURNING `+Schema.SelectList(""),
		p.ID, p.UserID, p.DoctorID, p.Problem)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	return db.One[Patient](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM patientdetails WHERE id = $1`, id)
}

func (r *patientRepoPG) GetDetails(ctx context.Context, id string) (*Details, error) {
	return db.One[Details](ctx, r.db, entityName,
		`SELECT `+detailsColumns+` FROM `+detailsFrom+` WHERE p.id = $1`, id)
}

func (r *patientRepoPG) List(ctx context.Context, f ListFilter) ([]*Patient, error) {
	q := schema.NewQuery("patientdetails", Schema.SelectList(""))
	if f.UserID != "" {
		q.Eq("user_id", f.UserID)
	}
	if f.DoctorID != "" {
		q.Eq("doctor_id", f.DoctorID)
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[Patient](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

// Search matches the record's own searchable columns and the patient's name.
func (r *patientRepoPG) Search(ctx context.Context, term string) ([]*Details, error) {
	q := schema.NewQuery(detailsFrom, detailsColumns)
	q.Contains(append(Schema.QualifiedSearchColumns("p"), "u.first_name", "u.last_name"), term)
	q.OrderBy("p.created_at DESC")
	return db.All[Details](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *patientRepoPG) Update(ctx context.Context, id string, p schema.Patch) (*Patient, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[Patient](ctx, r.db, entityName, sql, args...)
}

func (r *patientRepoPG) Delete(ctx context.Context, id string) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM patientdetails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *patientRepoPG) UserRole(ctx context.Context, userID string) (string, error) {
	return db.Scalar[string](ctx, r.db, "User", `SELECT role FROM users WHERE user_id = $1`, userID)
}
