package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest, document *Document) (LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// ListApprovedOverlapping returns approved requests covering any day in [start, end].
	ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	// TransitionState moves a request from one state to another only if it is
	// currently in from. It reports whether the row changed.
	TransitionState(ctx context.Context, id int64, from, to ApprovalState, decidedBy *string) (bool, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
}
