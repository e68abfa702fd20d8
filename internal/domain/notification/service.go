package notification

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/pkg/pagination"
)

func errNotFound() error {
	return apperr.NotFound("Notification not found")
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Notification, error) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientID == "" || strings.TrimSpace(req.Message) == "" || req.NotificationType == "" {
		return nil, apperr.Validation("Patient ID, message, and notification type are required")
	}
	if err := s.validateType(req.NotificationType); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &Notification{
		AppointmentID:    req.AppointmentID,
		PatientID:        req.PatientID,
		ReceptionistID:   req.ReceptionistID,
		Message:          req.Message,
		NotificationType: req.NotificationType,
	})
}

func (s *Service) validateType(t string) error {
	if err := Schema.ValidateEnum("notification_type", t); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return n, err
}

func (s *Service) GetDetails(ctx context.Context, id int) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errNotFound()
	}
	return d, err
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Notification, error) {
	if f.Type != "" {
		if err := s.validateType(f.Type); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]*Notification, error) {
	if limit <= 0 {
		limit = pagination.DefaultRecent
	}
	return s.repo.List(ctx, ListFilter{Limit: limit})
}

func (s *Service) CountUnread(ctx context.Context, patientID string) (int64, error) {
	return s.repo.CountUnread(ctx, patientID)
}

func (s *Service) MarkSeen(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.MarkSeen(ctx, id)
}

func (s *Service) MarkAllSeen(ctx context.Context, patientID string) (int64, error) {
	return s.repo.MarkAllSeen(ctx, patientID)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// PurgeSeen removes seen notifications older than days and reports how many
// were deleted.
func (s *Service) PurgeSeen(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, apperr.Validation("days must be a positive number")
	}
	cutoff := s.now().AddDate(0, 0, -days)
	n, err := s.repo.PurgeSeen(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("days", days).Int64("deleted", n).Msg("purged seen notifications")
	return n, nil
}
