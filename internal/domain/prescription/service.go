package prescription

import (
	"context"
	"math"
	"strings"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/credential"
)

func errNotFound() error {
	return apperr.NotFound("Prescription not found")
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Prescription, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.AppointmentID == 0 || req.DoctorID == "" || req.PatientID == "" ||
		strings.TrimSpace(req.Problem) == "" || strings.TrimSpace(req.DoctorNotes) == "" ||
		strings.TrimSpace(req.Medicines) == "" {
		return nil, apperr.Validation("appointment_id, doctor_id, patient_id, problem, doctor_notes and medicines are required")
	}
	if err := s.checkAppointment(ctx, req.AppointmentID); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.PrescriptionID)
	if id == "" {
		id = credential.NewID()
	}
	return s.repo.Create(ctx, &Prescription{
		PrescriptionID: id,
		AppointmentID:  req.AppointmentID,
		DoctorID:       req.DoctorID,
		PatientID:      req.PatientID,
		Problem:        req.Problem,
		DoctorNotes:    req.DoctorNotes,
		Medicines:      req.Medicines,
		PDFLink:        req.PDFLink,
	})
}

func (s *Service) checkAppointment(ctx context.Context, appointmentID int) error {
	if appointmentID <= 0 || appointmentID > math.MaxInt32 {
		return apperr.Validation("appointment_id %d does not reference an existing appointment", appointmentID)
	}
	ok, err := s.repo.AppointmentExists(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("appointment_id %d does not reference an existing appointment", appointmentID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID int) (*Prescription, error) {
	p, err := s.repo.GetByAppointment(ctx, appointmentID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.NotFound("Prescription not found for this appointment")
	}
	return p, err
}

func (s *Service) GetDetails(ctx context.Context, id string) (*Details, error) {
	return s.repo.GetDetails(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Prescription, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Prescription, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if req.AppointmentID != nil {
		if err := s.checkAppointment(ctx, *req.AppointmentID); err != nil {
			return nil, err
		}
	}
	p := req.Patch()
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) UpdatePDFLink(ctx context.Context, id, link string) (*Prescription, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, apperr.Validation("PDF link is required")
	}
	req := &UpdateRequest{PDFLink: &link}
	return s.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
