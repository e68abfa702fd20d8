package notification

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	rows   map[int]*Notification
	nextID int
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[int]*Notification), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, n *Notification) (*Notification, error) {
	n.NotificationID = m.nextID
	m.nextID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().Add(time.Duration(n.NotificationID) * time.Millisecond)
	}
	m.rows[n.NotificationID] = n
	return n, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int) (*Notification, error) {
	n, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("Notification not found")
	}
	return n, nil
}

func (m *mockRepo) GetDetails(ctx context.Context, id int) (*Details, error) {
	n, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Details{Notification: *n, PatientFirstName: "Pat"}, nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter) ([]*Notification, error) {
	var out []*Notification
	for _, n := range m.rows {
		if f.PatientID != "" && n.PatientID != f.PatientID {
			continue
		}
		if f.ReceptionistID != "" && (n.ReceptionistID == nil || *n.ReceptionistID != f.ReceptionistID) {
			continue
		}
		if f.Type != "" && n.NotificationType != f.Type {
			continue
		}
		if f.UnseenOnly && n.Seen {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockRepo) CountUnread(_ context.Context, patientID string) (int64, error) {
	var count int64
	for _, n := range m.rows {
		if n.PatientID == patientID && !n.Seen {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) MarkSeen(_ context.Context, id int) error {
	n, ok := m.rows[id]
	if !ok {
		return apperr.NotFound("Notification not found")
	}
	n.Seen = true
	return nil
}

func (m *mockRepo) MarkAllSeen(_ context.Context, patientID string) (int64, error) {
	var count int64
	for _, n := range m.rows {
		if n.PatientID == patientID && !n.Seen {
			n.Seen = true
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	delete(m.rows, id)
	return nil
}

func (m *mockRepo) PurgeSeen(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for id, n := range m.rows {
		if n.Seen && n.CreatedAt.Before(cutoff) {
			delete(m.rows, id)
			count++
		}
	}
	return count, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func notify(t *testing.T, svc *Service, patientID, kind string) *Notification {
	t.Helper()
	n, err := svc.Create(context.Background(), &CreateRequest{
		PatientID:        patientID,
		Message:          "Your appointment is confirmed",
		NotificationType: kind,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return n
}

// -- Tests --

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()
	n := notify(t, svc, "pat-1", TypeAppointmentConfirmation)

	if n.Seen {
		t.Error("expected new notification to be unseen")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateRequest{PatientID: "pat-1", Message: "hi"})
	if err == nil || err.Error() != "Patient ID, message, and notification type are required" {
		t.Errorf("expected required-fields error, got %v", err)
	}
	_, err = svc.Create(ctx, &CreateRequest{PatientID: "pat-1", Message: "hi", NotificationType: "sms"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error for unknown type, got %v", err)
	}
}

func TestService_UnreadAndMarkSeen(t *testing.T) {
	svc, _ := newTestService()
	first := notify(t, svc, "pat-1", TypeGeneral)
	notify(t, svc, "pat-1", TypeAppointmentReminder)
	notify(t, svc, "pat-2", TypeGeneral)
	ctx := context.Background()

	if n, _ := svc.CountUnread(ctx, "pat-1"); n != 2 {
		t.Fatalf("expected 2 unread, got %d", n)
	}
	if err := svc.MarkSeen(ctx, first.NotificationID); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if n, _ := svc.CountUnread(ctx, "pat-1"); n != 1 {
		t.Errorf("expected 1 unread, got %d", n)
	}
	if err := svc.MarkSeen(ctx, 999); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}

	changed, err := svc.MarkAllSeen(ctx, "pat-1")
	if err != nil || changed != 1 {
		t.Errorf("expected 1 changed, got %d (%v)", changed, err)
	}
	if n, _ := svc.CountUnread(ctx, "pat-2"); n != 1 {
		t.Errorf("expected other patient untouched, got %d", n)
	}
}

func TestService_ListByType(t *testing.T) {
	svc, _ := newTestService()
	notify(t, svc, "pat-1", TypePrescriptionReady)
	notify(t, svc, "pat-2", TypeGeneral)
	ctx := context.Background()

	items, err := svc.List(ctx, ListFilter{Type: TypePrescriptionReady})
	if err != nil || len(items) != 1 {
		t.Errorf("expected one prescription_ready, got %d (%v)", len(items), err)
	}
	if _, err := svc.List(ctx, ListFilter{Type: "fax"}); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error for unknown type, got %v", err)
	}
}

func TestService_Recent(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 12; i++ {
		notify(t, svc, "pat-1", TypeGeneral)
	}

	items, err := svc.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("expected default of 10, got %d", len(items))
	}
	if items[0].NotificationID != 12 {
		t.Errorf("expected newest first, got %d", items[0].NotificationID)
	}
}

func TestService_PurgeSeen(t *testing.T) {
	svc, repo := newTestService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	old := &Notification{PatientID: "pat-1", Message: "old", NotificationType: TypeGeneral, Seen: true, CreatedAt: now.AddDate(0, 0, -45)}
	oldUnseen := &Notification{PatientID: "pat-1", Message: "old", NotificationType: TypeGeneral, CreatedAt: now.AddDate(0, 0, -45)}
	fresh := &Notification{PatientID: "pat-1", Message: "new", NotificationType: TypeGeneral, Seen: true, CreatedAt: now.AddDate(0, 0, -2)}
	for _, n := range []*Notification{old, oldUnseen, fresh} {
		repo.Create(ctx, n)
	}

	deleted, err := svc.PurgeSeen(ctx, DefaultRetentionDays)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}
	if _, ok := repo.rows[oldUnseen.NotificationID]; !ok {
		t.Error("unseen notification must survive the purge")
	}
	if _, err := svc.PurgeSeen(ctx, 0); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error for zero days, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService()
	n := notify(t, svc, "pat-1", TypeGeneral)
	ctx := context.Background()

	if err := svc.Delete(ctx, n.NotificationID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetDetails(ctx, n.NotificationID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
