package doctor

import (
	"context"
	"strings"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/db"
)

func errNotFound() error {
	return apperr.NotFound("Doctor details not found")
}

type Service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

// Create adds the directory entry for an existing doctor account. The phone
// number, when given, is mirrored onto the account in the same transaction.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Doctor, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Name = strings.TrimSpace(req.Name)
	req.Specialization = strings.TrimSpace(req.Specialization)
	req.Qualification = strings.TrimSpace(req.Qualification)
	if req.DoctorID == "" || req.Name == "" || req.Specialization == "" || req.Qualification == "" || req.ExperienceYears == nil {
		return nil, apperr.Validation("All required fields must be provided")
	}
	if *req.ExperienceYears < 0 {
		return nil, apperr.Validation("experience_years must be zero or greater")
	}

	role, err := s.repo.UserRole(ctx, req.DoctorID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Validation("doctor_id must reference an existing user")
		}
		return nil, err
	}
	if role != auth.RoleDoctor {
		return nil, apperr.Validation("doctor_id must reference a user with role doctor")
	}

	d := &Doctor{
		DoctorID:        req.DoctorID,
		Name:            req.Name,
		Specialization:  req.Specialization,
		Qualification:   &req.Qualification,
		ExperienceYears: *req.ExperienceYears,
		City:            req.City,
		PhoneNumber:     req.PhoneNumber,
		IsActive:        true,
		ClinicName:      req.ClinicName,
		ClinicAddress:   req.ClinicAddress,
	}
	if req.IsActive != nil {
		d.IsActive = bool(*req.IsActive)
	}

	var created *Doctor
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if created, err = s.repo.Create(ctx, d); err != nil {
			return err
		}
		if d.PhoneNumber != nil {
			return s.repo.SyncContactNumber(ctx, d.DoctorID, d.PhoneNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return d, err
}

func (s *Service) GetDetails(ctx context.Context, id string) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.NotFound("Doctor not found")
	}
	return d, err
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Doctor, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) BySpecialization(ctx context.Context, specialization string) ([]*Doctor, error) {
	if strings.TrimSpace(specialization) == "" {
		return nil, apperr.Validation("specialization is required")
	}
	return s.repo.List(ctx, ListFilter{Specialization: specialization})
}

func (s *Service) Specializations(ctx context.Context) ([]string, error) {
	return s.repo.Specializations(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Doctor, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("Search query is required")
	}
	return s.repo.Search(ctx, term)
}

// Update applies a partial update. A phone number change is written to the
// linked account in the same transaction.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Doctor, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return nil, apperr.Validation("experience_years must be zero or greater")
	}
	p := req.Patch()
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}

	var updated *Doctor
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = s.repo.Update(ctx, id, p); err != nil {
			return err
		}
		if req.PhoneNumber != nil {
			return s.repo.SyncContactNumber(ctx, id, req.PhoneNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
