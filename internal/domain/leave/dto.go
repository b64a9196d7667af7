package leave

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

const (
	DateLayout      = "2006-01-02"
	MaxDocumentSize = 5 << 20
)

var (
	AllowedDocumentExts  = []string{".pdf", ".jpg", ".jpeg", ".png"}
	AllowedDocumentTypes = []string{"application/pdf", "image/jpeg", "image/png"}
)

// DetectDocumentType sniffs the media type from the document bytes.
func DetectDocumentType(content []byte) string {
	return http.DetectContentType(content)
}

// IsAllowedDocumentType reports whether a stored type may be served inline.
func IsAllowedDocumentType(contentType string) bool {
	return validator.IsInSlice(contentType, AllowedDocumentTypes)
}

type CreateLeaveRequestRequest struct {
	Name         string `json:"name"`
	Division     string `json:"division"`
	Category     string `json:"category"`
	SubmittedOn  string `json:"submitted_on"`
	StartsOn     string `json:"starts_on"`
	DurationDays int    `json:"duration_days"`

	// Filled from the multipart upload
	DocumentName string `json:"-"`
	Document     []byte `json:"-"`
}

// Validate reports only the first failing field, checked in the order
// name, division, category, dates, duration, document.
func (r *CreateLeaveRequestRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.Single("name", "name is required")
	}
	if len(r.Name) > 255 {
		return validator.Single("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Division) {
		return validator.Single("division", "division is required")
	}

	if _, ok := ParseCategory(r.Category); !ok {
		return validator.Single("category", "category must be one of: leave, late_excuse, sick, remote_work")
	}

	submittedOn, ok := validator.IsValidDate(r.SubmittedOn)
	if !ok {
		return validator.Single("submitted_on", "submitted_on must be a date in YYYY-MM-DD format")
	}
	startsOn, ok := validator.IsValidDate(r.StartsOn)
	if !ok {
		return validator.Single("starts_on", "starts_on must be a date in YYYY-MM-DD format")
	}
	if startsOn.Before(submittedOn) {
		return validator.Single("starts_on", "starts_on must not be earlier than submitted_on")
	}

	if r.DurationDays < 1 {
		return validator.Single("duration_days", "duration_days must be at least 1")
	}

	if len(r.Document) == 0 {
		return validator.Single("document", "supporting document is required")
	}
	if len(r.Document) > MaxDocumentSize {
		return validator.Single("document", "document must not exceed 5MB")
	}
	ext := strings.ToLower(filepath.Ext(r.DocumentName))
	if !validator.IsInSlice(ext, AllowedDocumentExts) {
		return validator.Single("document", "document must be a pdf, jpg, jpeg or png file")
	}
	if !IsAllowedDocumentType(DetectDocumentType(r.Document)) {
		return validator.Single("document", "document content must be a pdf, jpeg or png")
	}

	return nil
}

// ToEntity converts a validated request into a pending LeaveRequest.
func (r *CreateLeaveRequestRequest) ToEntity() LeaveRequest {
	category, _ := ParseCategory(r.Category)
	submittedOn, _ := time.Parse(DateLayout, r.SubmittedOn)
	startsOn, _ := time.Parse(DateLayout, r.StartsOn)

	return LeaveRequest{
		Name:          strings.TrimSpace(r.Name),
		Division:      strings.TrimSpace(r.Division),
		Category:      category,
		SubmittedOn:   submittedOn,
		StartsOn:      startsOn,
		DurationDays:  r.DurationDays,
		HasDocument:   true,
		DocumentName:  filepath.Base(r.DocumentName),
		DocumentType:  DetectDocumentType(r.Document),
		ApprovalState: ApprovalPending,
	}
}

type DecideLeaveRequestRequest struct {
	ID        int64         `json:"id"`
	Outcome   ApprovalState `json:"outcome"`
	DecidedBy string        `json:"-"`
}

func (r *DecideLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a positive integer",
		})
	}
	if r.Outcome != ApprovalApproved && r.Outcome != ApprovalRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "outcome",
			Message: "outcome must be one of: approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestFilter struct {
	State    *string `json:"state,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=leave late_excuse sick remote_work"`
}

func (f *LeaveRequestFilter) Validate() error {
	return validator.Struct(f)
}

type LeaveRequestResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Division      string     `json:"division"`
	Category      string     `json:"category"`
	SubmittedOn   string     `json:"submitted_on"`
	StartsOn      string     `json:"starts_on"`
	EndsOn        string     `json:"ends_on"`
	DurationDays  int        `json:"duration_days"`
	HasDocument   bool       `json:"has_document"`
	DocumentName  string     `json:"document_name,omitempty"`
	ApprovalState string     `json:"approval_state"`
	DecidedBy     *string    `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID,
		Name:          r.Name,
		Division:      r.Division,
		Category:      string(r.Category),
		SubmittedOn:   r.SubmittedOn.Format(DateLayout),
		StartsOn:      r.StartsOn.Format(DateLayout),
		EndsOn:        r.EndsOn().Format(DateLayout),
		DurationDays:  r.DurationDays,
		HasDocument:   r.HasDocument,
		DocumentName:  r.DocumentName,
		ApprovalState: string(r.ApprovalState),
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		CreatedAt:     r.CreatedAt,
	}
}

type CategoryCountResponse struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}
