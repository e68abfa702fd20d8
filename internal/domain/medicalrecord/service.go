package medicalrecord

import (
	"context"
	"strings"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/pkg/pagination"
)

func errNotFound() error {
	return apperr.NotFound("Medical record not found")
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Record, error) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientID == "" || strings.TrimSpace(req.Problem) == "" {
		return nil, apperr.Validation("patient_id and problem are required")
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &Record{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ReportName:  req.ReportName,
		Problem:     req.Problem,
		Status:      status,
		Description: req.Description,
	})
}

func (s *Service) Get(ctx context.Context, id int) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return rec, err
}

func (s *Service) GetDetails(ctx context.Context, id int) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return d, err
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Record, error) {
	if f.Status != "" {
		if err := validateStatus(f.Status); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Record, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("Search query is required")
	}
	return s.repo.Search(ctx, term)
}

// Recent returns the newest uploads first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = pagination.DefaultRecent
	}
	return s.repo.List(ctx, ListFilter{Limit: limit})
}

func (s *Service) Update(ctx context.Context, id int, req *UpdateRequest) (*Record, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := validateStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	p := req.Patch()
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) UpdateDescription(ctx context.Context, id int, description string) (*Record, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperr.Validation("Description is required")
	}
	return s.Update(ctx, id, &UpdateRequest{Description: &description})
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return s.repo.CountByPatient(ctx, patientID)
}
