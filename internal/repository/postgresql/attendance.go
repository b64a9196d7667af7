package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// importLockClass namespaces the advisory locks taken by LockMonth.
const importLockClass = 0x41425331

var attendanceColumns = []string{
	"employee_id", "name", "division", "date",
	"arrival_time", "departure_time", "status", "leave_request_id",
}

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// CreateBatch implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateBatch(ctx context.Context, records []attendance.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	return q.CopyFrom(ctx, pgx.Identifier{"attendances"}, attendanceColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				rec.EmployeeID,
				rec.Name,
				rec.Division,
				attendance.DateOf(rec.Date),
				rec.ArrivalTime,
				rec.DepartureTime,
				string(rec.Status),
				rec.LeaveRequestID,
			}, nil
		}),
	)
}

// ListBetween implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, name, division, date, arrival_time, departure_time,
			   status, leave_request_id, created_at
		FROM attendances
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, name, id
	`

	rows, err := q.Query(ctx, query, attendance.DateOf(start), attendance.DateOf(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID,
			&rec.EmployeeID,
			&rec.Name,
			&rec.Division,
			&rec.Date,
			&rec.ArrivalTime,
			&rec.DepartureTime,
			&rec.Status,
			&rec.LeaveRequestID,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LockMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) LockMonth(ctx context.Context, year int, month time.Month) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(importLockClass), int32(year*100+int(month)))
	return err
}

// CountPresenceInMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountPresenceInMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	q := GetQuerier(ctx, r.db)
	start, end := attendance.MonthBounds(year, month)

	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE date BETWEEN $1 AND $2
		  AND status NOT IN ('leave', 'sick', 'remote_work')
	`

	var total int64
	if err := q.QueryRow(ctx, query, start, end).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
