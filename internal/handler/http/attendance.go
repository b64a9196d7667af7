package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/spreadsheet"
)

const xlsxContentType = spreadsheet.XLSXContentType

type AttendanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	DownloadArchive(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	maxUploadSize     int64
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, maxUploadSize int64) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		maxUploadSize:     maxUploadSize,
	}
}

// Import implements AttendanceHandler.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	content, filename, err := readFormFile(r, "file", h.maxUploadSize)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		response.ValidationError(w, map[string]string{"file": "timesheet file is required"})
		return
	case errors.Is(err, errFileTooLarge):
		response.ValidationError(w, map[string]string{"file": fmt.Sprintf("file must not exceed %d bytes", h.maxUploadSize)})
		return
	case err != nil:
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	req := attendance.ImportTimesheetRequest{
		Year:     queryInt(r, "year"),
		Month:    queryInt(r, "month"),
		Filename: filename,
		Content:  content,
		DryRun:   queryBool(r, "dry_run"),
	}

	result, err := h.attendanceService.ImportTimesheet(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.DryRun {
		response.SuccessWithMessage(w, "Timesheet normalized", result)
		return
	}
	response.Created(w, "Timesheet imported successfully", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		Year:  queryInt(r, "year"),
		Month: queryInt(r, "month"),
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	records, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Calendar implements AttendanceHandler.
func (h *attendanceHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	query := attendance.CalendarQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Dense:     queryBool(r, "dense"),
	}

	days, err := h.attendanceService.GetCalendar(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, days)
}

// Daily implements AttendanceHandler. The date defaults to today.
func (h *attendanceHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(attendance.DateLayout, raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"date": "date must be in YYYY-MM-DD format"})
			return
		}
		date = parsed
	}

	detail, err := h.attendanceService.GetDayDetail(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := attendance.ExportRequest{
		Year:  queryInt(r, "year"),
		Month: queryInt(r, "month"),
	}

	data, err := h.attendanceService.ExportMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("absensi-%04d-%02d.xlsx", req.Year, req.Month)
	response.File(w, xlsxContentType, "attachment", filename, data)
}

// DownloadArchive implements AttendanceHandler. It returns an uploaded
// timesheet by the archive_path reported at import.
func (h *attendanceHandlerImpl) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	file, err := h.attendanceService.DownloadArchive(r.Context(), attendance.DownloadArchiveRequest{
		Path: r.URL.Query().Get("path"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, "attachment", file.Name, file.Content)
}
