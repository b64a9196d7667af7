package attendance

import (
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// maxCalendarDays bounds calendar queries to roughly one year.
const maxCalendarDays = 366

type ImportTimesheetRequest struct {
	Year     int    `json:"year" validate:"required,min=2000,max=2100"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Filename string `json:"filename" validate:"required"`
	Content  []byte `json:"file" validate:"required,min=1"`
	DryRun   bool   `json:"dry_run"`
}

func (r *ImportTimesheetRequest) Validate() error {
	return validator.Struct(r)
}

type ImportTimesheetResponse struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Imported    int64            `json:"imported"`
	Normalized  int              `json:"normalized"`
	Warnings    []string         `json:"warnings,omitempty"`
	ArchivePath string           `json:"archive_path,omitempty"`
	Records     []RecordResponse `json:"records,omitempty"`
}

type RecordResponse struct {
	ID             int64   `json:"id,omitempty"`
	EmployeeID     *string `json:"employee_id"`
	Name           string  `json:"name"`
	Division       string  `json:"division"`
	Date           string  `json:"date"`
	ArrivalTime    string  `json:"arrival_time"`
	DepartureTime  string  `json:"departure_time"`
	Status         string  `json:"status"`
	IsLate         bool    `json:"is_late"`
	LeaveRequestID *int64  `json:"leave_request_id,omitempty"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Name:           r.Name,
		Division:       r.Division,
		Date:           r.Date.Format(DateLayout),
		ArrivalTime:    r.ArrivalTime,
		DepartureTime:  r.DepartureTime,
		Status:         string(r.Status),
		IsLate:         r.Status == StatusLate,
		LeaveRequestID: r.LeaveRequestID,
	}
}

func NewRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

// AttendanceFilter selects presence rows of one month, optionally narrowed to
// a date range inside that month.
type AttendanceFilter struct {
	Year      int     `json:"year" validate:"required,min=2000,max=2100"`
	Month     int     `json:"month" validate:"required,min=1,max=12"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=on_time late no_data invalid_time"`
}

func (f *AttendanceFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}

	monthStart, monthEnd := MonthBounds(f.Year, time.Month(f.Month))
	start, end := f.Bounds()

	var errs validator.ValidationErrors
	if start.Before(monthStart) || start.After(monthEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must fall within the selected month",
		})
	}
	if end.Before(monthStart) || end.After(monthEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must fall within the selected month",
		})
	}
	if len(errs) == 0 && start.After(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Bounds returns the requested range, defaulting to the whole month.
func (f *AttendanceFilter) Bounds() (time.Time, time.Time) {
	start, end := MonthBounds(f.Year, time.Month(f.Month))
	if f.StartDate != nil {
		if d, err := time.Parse(DateLayout, *f.StartDate); err == nil {
			start = d
		}
	}
	if f.EndDate != nil {
		if d, err := time.Parse(DateLayout, *f.EndDate); err == nil {
			end = d
		}
	}
	return start, end
}

type CalendarQuery struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Dense     bool   `json:"dense"`
}

func (q *CalendarQuery) Validate() error {
	if err := validator.Struct(q); err != nil {
		return err
	}

	start, end := q.Bounds()
	if start.After(end) {
		return validator.Single("end_date", "end_date must not be before start_date")
	}
	if int(end.Sub(start).Hours()/24)+1 > maxCalendarDays {
		return validator.Single("end_date", "calendar range must not exceed 366 days")
	}
	return nil
}

func (q *CalendarQuery) Bounds() (time.Time, time.Time) {
	start, _ := time.Parse(DateLayout, q.StartDate)
	end, _ := time.Parse(DateLayout, q.EndDate)
	return start, end
}

type DayAggregateResponse struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

func NewDayAggregateResponses(days []DayAggregate) []DayAggregateResponse {
	out := make([]DayAggregateResponse, 0, len(days))
	for _, d := range days {
		out = append(out, DayAggregateResponse{
			Date:    d.Date.Format(DateLayout),
			Present: d.Present,
			Late:    d.Late,
			Absent:  d.Absent,
		})
	}
	return out
}

// AbsenceEntry is an approved leave request covering the queried day.
type AbsenceEntry struct {
	LeaveRequestID int64  `json:"leave_request_id"`
	Name           string `json:"name"`
	Division       string `json:"division"`
	Category       string `json:"category"`
	StartsOn       string `json:"starts_on"`
	EndsOn         string `json:"ends_on"`
}

// DayDetail breaks one date down into the people behind each count.
type DayDetail struct {
	Date             string           `json:"date"`
	Present          int              `json:"present"`
	Late             int              `json:"late"`
	Absent           int              `json:"absent"`
	LatePercentage   decimal.Decimal  `json:"late_percentage"`
	AbsentPercentage decimal.Decimal  `json:"absent_percentage"`
	OnTime           []RecordResponse `json:"on_time"`
	LateRecords      []RecordResponse `json:"late_records"`
	Unclassified     []RecordResponse `json:"unclassified"`
	Absences         []AbsenceEntry   `json:"absences"`
}

type ExportRequest struct {
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (r *ExportRequest) Validate() error {
	return validator.Struct(r)
}

// ArchivePrefix is the storage prefix uploaded timesheets are archived under.
const ArchivePrefix = "timesheets"

type DownloadArchiveRequest struct {
	Path string `json:"path"`
}

func (r *DownloadArchiveRequest) Validate() error {
	if validator.IsEmpty(r.Path) {
		return validator.Single("path", "path is required")
	}
	if !strings.HasPrefix(path.Clean(r.Path), ArchivePrefix+"/") {
		return validator.Single("path", "path must point to an archived timesheet")
	}
	return nil
}

type ArchiveFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// MonthBounds returns the first and last date of a month in UTC.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
