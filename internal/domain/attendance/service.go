package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	ImportTimesheet(ctx context.Context, req ImportTimesheetRequest) (ImportTimesheetResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]RecordResponse, error)
	GetCalendar(ctx context.Context, query CalendarQuery) ([]DayAggregateResponse, error)
	GetDayDetail(ctx context.Context, date time.Time) (DayDetail, error)
	ExportMonth(ctx context.Context, req ExportRequest) ([]byte, error)
	DownloadArchive(ctx context.Context, req DownloadArchiveRequest) (ArchiveFile, error)
}
