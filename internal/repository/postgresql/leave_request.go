package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, name, division, category, submitted_on, starts_on, duration_days,
	document IS NOT NULL, COALESCE(document_name, ''), COALESCE(document_type, ''),
	approval_state, decided_by, decided_at, created_at
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.Name,
		&lr.Division,
		&lr.Category,
		&lr.SubmittedOn,
		&lr.StartsOn,
		&lr.DurationDays,
		&lr.HasDocument,
		&lr.DocumentName,
		&lr.DocumentType,
		&lr.ApprovalState,
		&lr.DecidedBy,
		&lr.DecidedAt,
		&lr.CreatedAt,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest, document *leave.Document) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var (
		content      []byte
		documentName *string
		documentType *string
	)
	if document != nil && len(document.Content) > 0 {
		content = document.Content
		documentName = &document.Name
		documentType = &document.ContentType
	}

	query := `
		INSERT INTO leave_requests (
			name, division, category, submitted_on, starts_on, duration_days,
			document, document_name, document_type, approval_state, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, 'pending', NOW()
		)
		RETURNING ` + leaveRequestColumns

	return scanLeaveRequest(q.QueryRow(ctx, query,
		request.Name,
		request.Division,
		string(request.Category),
		request.SubmittedOn,
		request.StartsOn,
		request.DurationDays,
		content,
		documentName,
		documentType,
	))
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.State != nil {
		args = append(args, *filter.State)
		conditions = append(conditions, fmt.Sprintf("approval_state = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	return r.queryMany(ctx, q, query, args...)
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE approval_state = 'approved'
		  AND starts_on <= $2
		  AND starts_on + (duration_days - 1) >= $1
		ORDER BY starts_on, id
	`

	return r.queryMany(ctx, q, query, start, end)
}

func (r *leaveRequestRepositoryImpl) queryMany(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// CountByCategory implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountByCategory(ctx context.Context) ([]leave.CategoryCount, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT category, COUNT(*) FROM leave_requests GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []leave.CategoryCount
	for rows.Next() {
		var c leave.CategoryCount
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TransitionState implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) TransitionState(ctx context.Context, id int64, from, to leave.ApprovalState, decidedBy *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET approval_state = $3, decided_by = $4, decided_at = NOW()
		WHERE id = $1 AND approval_state = $2
	`
	commandTag, err := q.Exec(ctx, query, id, string(from), string(to), decidedBy)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

// GetDocument implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetDocument(ctx context.Context, id int64) (leave.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT document, COALESCE(document_name, ''), COALESCE(document_type, '')
		FROM leave_requests
		WHERE id = $1
	`

	var doc leave.Document
	err := q.QueryRow(ctx, query, id).Scan(&doc.Content, &doc.Name, &doc.ContentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Document{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Document{}, err
	}
	if doc.Content == nil {
		return leave.Document{}, leave.ErrDocumentNotFound
	}
	return doc, nil
}
