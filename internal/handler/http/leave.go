package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetDocument(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := r.ParseMultipartForm(leave.MaxDocumentSize + 1<<20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.SubmittedOn == "" {
		req.SubmittedOn = time.Now().Format(leave.DateLayout)
	}

	content, filename, err := readFormFile(r, "document", leave.MaxDocumentSize)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// Validate reports the missing document in field order
	case errors.Is(err, errFileTooLarge):
		response.ValidationError(w, map[string]string{"document": "document must not exceed 5MB"})
		return
	case err != nil:
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	default:
		req.Document = content
		req.DocumentName = filename
	}

	leaveRequest, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveRequestFilter{}

	if state := r.URL.Query().Get("state"); state != "" {
		filter.State = &state
	}
	if category := r.URL.Query().Get("category"); category != "" {
		if c, ok := leave.ParseCategory(category); ok {
			category = string(c)
		}
		filter.Category = &category
	}

	requests, err := l.leaveService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// Summary implements LeaveHandler.
func (l *LeaveHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := l.leaveService.CategorySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	request, err := l.leaveService.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// GetDocument implements LeaveHandler. The stored bytes are written as-is;
// a type outside the allow-list is only offered as a download.
func (l *LeaveHandlerImpl) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	doc, err := l.leaveService.GetDocument(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	contentType, disposition := doc.ContentType, "inline"
	if !leave.IsAllowedDocumentType(contentType) {
		contentType, disposition = "application/octet-stream", "attachment"
	}
	response.File(w, contentType, disposition, doc.Name, doc.Content)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, leave.ApprovalApproved, "Leave request approved successfully")
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, leave.ApprovalRejected, "Leave request rejected successfully")
}

func (l *LeaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, outcome leave.ApprovalState, message string) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	req := leave.DecideLeaveRequestRequest{
		ID:        id,
		Outcome:   outcome,
		DecidedBy: middleware.Username(r),
	}

	decided, err := l.leaveService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, decided)
}

func requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid leave request id", nil)
		return 0, false
	}
	return id, true
}
