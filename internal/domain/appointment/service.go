package appointment

import (
	"context"
	"strings"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/schema"
	"github.com/medcore/medcore/pkg/pagination"
)

func errNotFound() error {
	return apperr.NotFound("Appointment not found")
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Date = strings.TrimSpace(req.Date)
	if req.PatientID == "" || req.DoctorID == "" || req.Date == "" || strings.TrimSpace(req.Time) == "" {
		return nil, apperr.Validation("Patient ID, Doctor ID, date, and time are required")
	}
	if !schema.ValidDate(req.Date) {
		return nil, apperr.Validation("invalid date: expected YYYY-MM-DD")
	}
	t, err := NormalizeTime(req.Time)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if err := Schema.ValidateEnum("status", status); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	return s.repo.Create(ctx, &Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      t,
		Status:    status,
		Remarks:   req.Remarks,
	})
}

func (s *Service) Get(ctx context.Context, id int) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return a, err
}

func (s *Service) GetDetails(ctx context.Context, id int) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return d, err
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Appointment, error) {
	if f.Status != "" {
		if err := Schema.ValidateEnum("status", f.Status); err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
	}
	if f.Date != "" && !schema.ValidDate(f.Date) {
		return nil, apperr.Validation("invalid date: expected YYYY-MM-DD")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Upcoming(ctx context.Context, limit int) ([]*Appointment, error) {
	if limit <= 0 {
		limit = pagination.DefaultRecent
	}
	return s.repo.Upcoming(ctx, limit)
}

// Update applies a partial update to the schedule, status and remarks.
// Participants never change.
func (s *Service) Update(ctx context.Context, id int, req *UpdateRequest) (*Appointment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.Time != nil {
		t, err := NormalizeTime(*req.Time)
		if err != nil {
			return nil, err
		}
		req.Time = &t
	}
	p := req.Patch()
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) UpdateStatus(ctx context.Context, id int, req *StatusRequest) (*Appointment, error) {
	if req.Status == "" {
		return nil, apperr.Validation("Status is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	p := schema.Patch{"status": req.Status}
	schema.Set(p, "remarks", req.Remarks)
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) ([]*StatusCount, error) {
	return s.repo.CountByStatus(ctx)
}
