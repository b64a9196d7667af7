package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// CreateBatch appends records and returns how many were written.
	CreateBatch(ctx context.Context, records []Record) (int64, error)
	// ListBetween returns records dated within [start, end] ordered by date then name.
	ListBetween(ctx context.Context, start, end time.Time) ([]Record, error)
	// LockMonth serializes imports of one month until the surrounding
	// transaction ends. It must run inside a transaction.
	LockMonth(ctx context.Context, year int, month time.Month) error
	// CountPresenceInMonth counts walk-in records (not leave, sick or remote work) in a month.
	CountPresenceInMonth(ctx context.Context, year int, month time.Month) (int64, error)
}
