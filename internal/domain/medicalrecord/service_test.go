package medicalrecord

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/schema"
)

// -- Mock Repository --

type mockRepo struct {
	rows   map[int]*Record
	nextID int
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[int]*Record), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, r *Record) (*Record, error) {
	r.RecordID = m.nextID
	m.nextID++
	r.UploadDate = time.Now().Add(time.Duration(r.RecordID) * time.Second)
	m.rows[r.RecordID] = r
	return r, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int) (*Record, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("Medical record not found")
	}
	return r, nil
}

func (m *mockRepo) GetDetails(ctx context.Context, id int) (*Details, error) {
	r, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Details{Record: *r, PatientFirstName: "Pat"}, nil
}

func (m *mockRepo) sorted() []*Record {
	out := make([]*Record, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out
}

func (m *mockRepo) List(_ context.Context, f ListFilter) ([]*Record, error) {
	var out []*Record
	for _, r := range m.sorted() {
		if f.PatientID != "" && r.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockRepo) Search(_ context.Context, term string) ([]*Record, error) {
	term = strings.ToLower(term)
	var out []*Record
	for _, r := range m.sorted() {
		if strings.Contains(strings.ToLower(r.Problem), term) || strings.Contains(strings.ToLower(r.Status), term) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, id int, p schema.Patch) (*Record, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("Medical record not found")
	}
	for col, v := range p {
		s := v.(string)
		switch col {
		case "problem":
			r.Problem = s
		case "status":
			r.Status = s
		case "description":
			r.Description = &s
		case "report_name":
			r.ReportName = &s
		case "doctor_id":
			r.DoctorID = &s
		}
	}
	return r, nil
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	delete(m.rows, id)
	return nil
}

func (m *mockRepo) CountByPatient(_ context.Context, patientID string) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func strPtr(s string) *string { return &s }

func record(t *testing.T, svc *Service, patientID, problem string) *Record {
	t.Helper()
	r, err := svc.Create(context.Background(), &CreateRequest{PatientID: patientID, Problem: problem})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return r
}

// -- Tests --

func TestService_Create_DefaultStatus(t *testing.T) {
	svc, _ := newTestService()
	r := record(t, svc, "pat-1", "Back pain")

	if r.Status != StatusPending {
		t.Errorf("expected Pending, got %s", r.Status)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateRequest{PatientID: "pat-1"})
	if err == nil || err.Error() != "patient_id and problem are required" {
		t.Errorf("expected required-fields error, got %v", err)
	}

	_, err = svc.Create(ctx, &CreateRequest{PatientID: "pat-1", Problem: "x", Status: "pending"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Invalid status. Allowed values: Pending, Ongoing, Resolved, Cancelled" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestService_Update(t *testing.T) {
	svc, _ := newTestService()
	r := record(t, svc, "pat-1", "Back pain")
	ctx := context.Background()

	got, err := svc.Update(ctx, r.RecordID, &UpdateRequest{Status: strPtr(StatusOngoing), ReportName: strPtr("MRI")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusOngoing || got.ReportName == nil || *got.ReportName != "MRI" {
		t.Errorf("unexpected row %+v", got)
	}

	if _, err := svc.Update(ctx, r.RecordID, &UpdateRequest{}); err == nil || err.Error() != "No fields provided to update" {
		t.Errorf("expected empty patch rejected, got %v", err)
	}
	if _, err := svc.Update(ctx, r.RecordID, &UpdateRequest{Status: strPtr("Done")}); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error for bad status, got %v", err)
	}
	if _, err := svc.Update(ctx, 404, &UpdateRequest{Problem: strPtr("x")}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_UpdateDescription(t *testing.T) {
	svc, _ := newTestService()
	r := record(t, svc, "pat-1", "Back pain")
	ctx := context.Background()

	if _, err := svc.UpdateDescription(ctx, r.RecordID, ""); err == nil || err.Error() != "Description is required" {
		t.Errorf("expected description required, got %v", err)
	}
	got, err := svc.UpdateDescription(ctx, r.RecordID, "Physio twice a week")
	if err != nil {
		t.Fatalf("update description: %v", err)
	}
	if got.Description == nil || *got.Description != "Physio twice a week" {
		t.Errorf("unexpected description %v", got.Description)
	}
}

func TestService_SearchRecentAndCount(t *testing.T) {
	svc, _ := newTestService()
	record(t, svc, "pat-1", "Back pain")
	record(t, svc, "pat-1", "Knee injury")
	newest := record(t, svc, "pat-2", "Back spasm")
	ctx := context.Background()

	found, err := svc.Search(ctx, "back")
	if err != nil || len(found) != 2 {
		t.Errorf("expected 2 hits, got %d (%v)", len(found), err)
	}
	if _, err := svc.Search(ctx, "  "); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error for empty query, got %v", err)
	}

	recent, err := svc.Recent(ctx, 2)
	if err != nil || len(recent) != 2 || recent[0].RecordID != newest.RecordID {
		t.Errorf("expected newest first, got %v (%v)", recent, err)
	}

	if n, _ := svc.CountByPatient(ctx, "pat-1"); n != 2 {
		t.Errorf("expected 2 records for pat-1, got %d", n)
	}
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService()
	r := record(t, svc, "pat-1", "Back pain")
	ctx := context.Background()

	if err := svc.Delete(ctx, r.RecordID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, r.RecordID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
