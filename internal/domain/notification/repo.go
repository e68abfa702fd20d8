package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id int) (*Notification, error)
	GetDetails(ctx context.Context, id int) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]*Notification, error)
	CountUnread(ctx context.Context, patientID string) (int64, error)
	MarkSeen(ctx context.Context, id int) error
	// MarkAllSeen flags every unseen notification of a patient and returns
	// how many changed.
	MarkAllSeen(ctx context.Context, patientID string) (int64, error)
	Delete(ctx context.Context, id int) error
	// PurgeSeen deletes seen notifications created before cutoff.
	PurgeSeen(ctx context.Context, cutoff time.Time) (int64, error)
}
