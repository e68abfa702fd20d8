package patient

import (
	"context"
	"strings"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/credential"
)

func errNotFound() error {
	return apperr.NotFound("Patient details not found")
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Patient, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Problem = strings.TrimSpace(req.Problem)
	if req.UserID == "" || req.Problem == "" {
		return nil, apperr.Validation("user_id and problem are required")
	}
	if err := s.checkRole(ctx, "user_id", req.UserID, auth.RolePatient); err != nil {
		return nil, err
	}
	if req.DoctorID != nil {
		if err := s.checkRole(ctx, "doctor_id", *req.DoctorID, auth.RoleDoctor); err != nil {
			return nil, err
		}
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = credential.NewID()
	}
	return s.repo.Create(ctx, &Patient{
		ID:       id,
		UserID:   req.UserID,
		DoctorID: req.DoctorID,
		Problem:  req.Problem,
	})
}

func (s *Service) checkRole(ctx context.Context, field, userID, want string) error {
	role, err := s.repo.UserRole(ctx, userID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.Validation("%s must reference an existing user", field)
	}
	if err != nil {
		return err
	}
	if role != want {
		return apperr.Validation("%s must reference a user with role %s", field, want)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return p, err
}

func (s *Service) GetDetails(ctx context.Context, id string) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.NotFound("Patient not found")
	}
	return d, err
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Patient, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]*Patient, error) {
	return s.repo.List(ctx, ListFilter{UserID: userID})
}

func (s *Service) Search(ctx context.Context, term string) ([]*Details, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("Search query is required")
	}
	return s.repo.Search(ctx, term)
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Patient, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.Problem != nil && strings.TrimSpace(*req.Problem) == "" {
		return nil, apperr.Validation("problem cannot be empty")
	}
	if req.DoctorID != nil {
		if err := s.checkRole(ctx, "doctor_id", *req.DoctorID, auth.RoleDoctor); err != nil {
			return nil, err
		}
	}
	p := req.Patch()
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
