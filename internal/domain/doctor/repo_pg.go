package doctor

import (
	"context"

	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/schema"
)

const entityName = "Doctor"

type doctorRepoPG struct {
	db *db.Manager
}

func NewRepo(m *db.Manager) Repository {
	return &doctorRepoPG{db: m}
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) (*Doctor, error) {
	return db.One[Doctor](ctx, r.db, entityName, `
		INSERT INTO doctordetails (
			doctor_id, name, specialization, qualification, experience_years,
			city, phone_number, is_active, clinic_name, clinic_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+Schema.SelectList(""),
		d.DoctorID, d.Name, d.Specialization, d.Qualification, d.ExperienceYears,
		d.City, d.PhoneNumber, d.IsActive, d.ClinicName, d.ClinicAddress)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return db.One[Doctor](ctx, r.db, entityName,
		`SELECT `+Schema.SelectList("")+` FROM doctordetails WHERE doctor_id = $1`, id)
}

func (r *doctorRepoPG) GetDetails(ctx context.Context, id string) (*Details, error) {
	return db.One[Details](ctx, r.db, entityName, `
		SELECT `+Schema.SelectList("d")+`,
			u.first_name, u.last_name, u.email, u.username, u.contact_number
		FROM doctordetails d
		JOIN users u ON u.user_id = d.doctor_id
		WHERE d.doctor_id = $1`, id)
}

func (r *doctorRepoPG) List(ctx context.Context, f ListFilter) ([]*Doctor, error) {
	q := schema.NewQuery("doctordetails", Schema.SelectList(""))
	if f.Specialization != "" {
		q.EqFold("specialization", f.Specialization)
	}
	if f.City != "" {
		q.EqFold("city", f.City)
	}
	if f.Active != nil {
		q.Eq("is_active", *f.Active)
	}
	q.OrderBy(Schema.OrderBy)
	q.Limit(f.Limit, f.Offset)
	return db.All[Doctor](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *doctorRepoPG) Specializations(ctx context.Context) ([]string, error) {
	return db.Values[string](ctx, r.db, entityName,
		`SELECT DISTINCT specialization FROM doctordetails ORDER BY specialization`)
}

func (r *doctorRepoPG) Search(ctx context.Context, term string) ([]*Doctor, error) {
	q := schema.NewQuery("doctordetails", Schema.SelectList(""))
	q.Contains(Schema.SearchColumns(), term)
	q.OrderBy(Schema.OrderBy)
	return db.All[Doctor](ctx, r.db, entityName, q.SQL(), q.Args()...)
}

func (r *doctorRepoPG) Update(ctx context.Context, id string, p schema.Patch) (*Doctor, error) {
	sql, args, err := Schema.UpdateSQL(p, id)
	if err != nil {
		return nil, err
	}
	return db.One[Doctor](ctx, r.db, entityName, sql, args...)
}

func (r *doctorRepoPG) Delete(ctx context.Context, id string) error {
	n, err := db.Exec(ctx, r.db, entityName, `DELETE FROM doctordetails WHERE doctor_id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound()
	}
	return nil
}

func (r *doctorRepoPG) UserRole(ctx context.Context, userID string) (string, error) {
	return db.Scalar[string](ctx, r.db, "User", `SELECT role FROM users WHERE user_id = $1`, userID)
}

func (r *doctorRepoPG) SyncContactNumber(ctx context.Context, userID string, phone *string) error {
	_, err := db.Exec(ctx, r.db, "User", `UPDATE users SET contact_number = $1 WHERE user_id = $2`, phone, userID)
	return err
}
