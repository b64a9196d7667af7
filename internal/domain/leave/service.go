package leave

import (
	"context"
)

type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, req DecideLeaveRequestRequest) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, id int64) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	CategorySummary(ctx context.Context) ([]CategoryCountResponse, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
}
