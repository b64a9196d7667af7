package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		AttendanceRepository:   attendanceRepository,
		EmployeeRepository:     employeeRepository,
	}
}

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	document := &leave.Document{
		Name:        req.DocumentName,
		ContentType: leave.DetectDocumentType(req.Document),
		Content:     req.Document,
	}

	created, err := l.LeaveRequestRepository.Create(ctx, req.ToEntity(), document)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave request submitted", "id", created.ID, "name", created.Name, "category", created.Category)
	return leave.NewLeaveRequestResponse(created), nil
}

// Decide implements leave.LeaveService.
//
// The state change and, for approvals, the expansion into leave records run in
// one transaction. The state change is a compare-and-swap from pending, so a
// request is expanded at most once even under concurrent approvals.
func (l *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var decidedBy *string
	if req.DecidedBy != "" {
		decidedBy = &req.DecidedBy
	}

	var result leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		changed, err := l.LeaveRequestRepository.TransitionState(txCtx, req.ID, leave.ApprovalPending, req.Outcome, decidedBy)
		if err != nil {
			return fmt.Errorf("failed to update leave request state: %w", err)
		}

		result, err = l.LeaveRequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveRequestNotFound) {
				return err
			}
			return fmt.Errorf("failed to get leave request: %w", err)
		}

		if !changed {
			if result.ApprovalState == req.Outcome {
				// same decision again
				return nil
			}
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if req.Outcome != leave.ApprovalApproved {
			return nil
		}

		records := Expand(result, l.resolveEmployeeID(txCtx, result.Name))
		if _, err := l.AttendanceRepository.CreateBatch(txCtx, records); err != nil {
			return fmt.Errorf("failed to expand leave request into attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request decided", "id", result.ID, "state", result.ApprovalState, "decided_by", req.DecidedBy)
	return leave.NewLeaveRequestResponse(result), nil
}

// resolveEmployeeID links expansion rows to an employee when the request
// name matches exactly one; otherwise the rows carry only the name.
func (l *LeaveServiceImpl) resolveEmployeeID(ctx context.Context, name string) *string {
	emp, err := l.EmployeeRepository.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("employee lookup failed during leave expansion", "name", name, "error", err)
		}
		return nil
	}
	return &emp.ID
}

// GetRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, id int64) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// CategorySummary implements leave.LeaveService. Every category is listed,
// including those without requests.
func (l *LeaveServiceImpl) CategorySummary(ctx context.Context) ([]leave.CategoryCountResponse, error) {
	counts, err := l.LeaveRequestRepository.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count leave requests: %w", err)
	}

	totals := make(map[leave.Category]int64, len(counts))
	for _, c := range counts {
		totals[c.Category] = c.Total
	}

	summary := make([]leave.CategoryCountResponse, 0, len(leave.Categories))
	for _, c := range leave.Categories {
		summary = append(summary, leave.CategoryCountResponse{Category: string(c), Total: totals[c]})
	}
	return summary, nil
}

// GetDocument implements leave.LeaveService.
func (l *LeaveServiceImpl) GetDocument(ctx context.Context, id int64) (leave.Document, error) {
	doc, err := l.LeaveRequestRepository.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrDocumentNotFound) {
			return leave.Document{}, err
		}
		return leave.Document{}, fmt.Errorf("failed to get leave document: %w", err)
	}
	return doc, nil
}
