package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	tx     database.Transactor
	cutoff string
	attendance.AttendanceRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	fileStorage storage.FileStorage
}

func NewAttendanceService(
	tx database.Transactor,
	cutoff string,
	attendanceRepository attendance.AttendanceRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	fileStorage storage.FileStorage,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                     tx,
		cutoff:                 cutoff,
		AttendanceRepository:   attendanceRepository,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		fileStorage:            fileStorage,
	}
}

// ImportTimesheet implements attendance.AttendanceService.
//
// The whole sheet is normalized before anything is written; a batch-level
// problem such as a missing column aborts the import. A month that already
// holds presence records is refused.
func (s *AttendanceServiceImpl) ImportTimesheet(ctx context.Context, req attendance.ImportTimesheetRequest) (attendance.ImportTimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportTimesheetResponse{}, err
	}

	rows, err := spreadsheet.ReadRows(bytes.NewReader(req.Content), req.Filename)
	if err != nil {
		slog.Warn("timesheet could not be read", "filename", req.Filename, "error", err)
		return attendance.ImportTimesheetResponse{}, validator.Single("file", err.Error())
	}

	employees, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return attendance.ImportTimesheetResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}

	month := time.Month(req.Month)
	result, err := Normalize(rows, NormalizeOptions{Year: req.Year, Month: month, Cutoff: s.cutoff}, employee.DivisionMap(employees))
	if err != nil {
		return attendance.ImportTimesheetResponse{}, err
	}
	SortRecords(result.Records)

	for _, w := range result.Warnings {
		slog.Warn("timesheet normalization", "filename", req.Filename, "warning", w)
	}

	response := attendance.ImportTimesheetResponse{
		Year:       req.Year,
		Month:      req.Month,
		Normalized: len(result.Records),
		Warnings:   result.Warnings,
	}

	if req.DryRun {
		response.Records = attendance.NewRecordResponses(result.Records)
		return response, nil
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.AttendanceRepository.LockMonth(txCtx, req.Year, month); err != nil {
			return fmt.Errorf("failed to lock attendance month: %w", err)
		}

		existing, err := s.AttendanceRepository.CountPresenceInMonth(txCtx, req.Year, month)
		if err != nil {
			return fmt.Errorf("failed to check existing attendance: %w", err)
		}
		if existing > 0 {
			return attendance.ErrMonthAlreadyImported
		}

		response.Imported, err = s.AttendanceRepository.CreateBatch(txCtx, result.Records)
		if err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.ImportTimesheetResponse{}, err
	}

	key := storage.NewKey(fmt.Sprintf("%s/%04d-%02d", attendance.ArchivePrefix, req.Year, req.Month), req.Filename)
	archived, err := s.fileStorage.Upload(ctx, bytes.NewReader(req.Content), key, "application/octet-stream")
	if err != nil {
		slog.Warn("failed to archive timesheet upload", "filename", req.Filename, "error", err)
	} else {
		response.ArchivePath = archived
	}

	slog.Info("timesheet imported", "year", req.Year, "month", req.Month, "records", response.Imported)
	return response, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start, end := filter.Bounds()
	records, err := s.AttendanceRepository.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	out := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		if !r.Status.IsPresence() {
			continue
		}
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		out = append(out, attendance.NewRecordResponse(r))
	}
	return out, nil
}

// GetCalendar implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCalendar(ctx context.Context, query attendance.CalendarQuery) ([]attendance.DayAggregateResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	start, end := query.Bounds()
	days, err := s.aggregateRange(ctx, start, end, query.Dense)
	if err != nil {
		return nil, err
	}
	return attendance.NewDayAggregateResponses(days), nil
}

// GetDayDetail implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDayDetail(ctx context.Context, date time.Time) (attendance.DayDetail, error) {
	day := attendance.DateOf(date)

	records, requests, err := s.load(ctx, day, day)
	if err != nil {
		return attendance.DayDetail{}, err
	}
	return AggregateDay(day, records, requests), nil
}

// ExportMonth implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportMonth(ctx context.Context, req attendance.ExportRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start, end := attendance.MonthBounds(req.Year, time.Month(req.Month))
	records, requests, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	presence := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if r.Status.IsPresence() {
			presence = append(presence, r)
		}
	}

	days := AggregateRange(start, end, true, records, requests)
	return buildMonthWorkbook(req.Year, time.Month(req.Month), presence, days)
}

// DownloadArchive implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DownloadArchive(ctx context.Context, req attendance.DownloadArchiveRequest) (attendance.ArchiveFile, error) {
	if err := req.Validate(); err != nil {
		return attendance.ArchiveFile{}, err
	}

	key := path.Clean(req.Path)
	rc, err := s.fileStorage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return attendance.ArchiveFile{}, attendance.ErrArchiveNotFound
		}
		return attendance.ArchiveFile{}, fmt.Errorf("failed to open archived timesheet: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return attendance.ArchiveFile{}, fmt.Errorf("failed to read archived timesheet: %w", err)
	}

	return attendance.ArchiveFile{
		Name:        path.Base(key),
		ContentType: spreadsheet.ContentType(key),
		Content:     content,
	}, nil
}

func (s *AttendanceServiceImpl) aggregateRange(ctx context.Context, start, end time.Time, dense bool) ([]attendance.DayAggregate, error) {
	records, requests, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return AggregateRange(start, end, dense, records, requests), nil
}

func (s *AttendanceServiceImpl) load(ctx context.Context, start, end time.Time) ([]attendance.Record, []leave.LeaveRequest, error) {
	if start.After(end) {
		return nil, nil, attendance.ErrInvalidDateRange
	}

	var (
		records  []attendance.Record
		requests []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListBetween(gCtx, start, end)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		requests, err = s.LeaveRequestRepository.ListApprovedOverlapping(gCtx, start, end)
		if err != nil && !errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return fmt.Errorf("failed to list approved leave: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, requests, nil
}
