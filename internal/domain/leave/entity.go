package leave

import (
	"strings"
	"time"
)

// Category is the kind of absence a request asks for.
type Category string

const (
	CategoryLeave      Category = "leave"
	CategoryLateExcuse Category = "late_excuse"
	CategorySick       Category = "sick"
	CategoryRemoteWork Category = "remote_work"
)

var categoryAliases = map[string]Category{
	"leave":       CategoryLeave,
	"cuti":        CategoryLeave,
	"late_excuse": CategoryLateExcuse,
	"telat":       CategoryLateExcuse,
	"sick":        CategorySick,
	"sakit":       CategorySick,
	"remote_work": CategoryRemoteWork,
	"wfh":         CategoryRemoteWork,
}

// Categories lists every category in display order.
var Categories = []Category{CategoryLeave, CategoryLateExcuse, CategorySick, CategoryRemoteWork}

// ParseCategory accepts canonical names and the Indonesian form labels.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

func (s ApprovalState) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// LeaveRequest entity. Document holds the raw supporting file and is only
// loaded by GetDocument; list and get queries set HasDocument instead.
type LeaveRequest struct {
	ID            int64
	Name          string
	Division      string
	Category      Category
	SubmittedOn   time.Time
	StartsOn      time.Time
	DurationDays  int
	HasDocument   bool
	DocumentName  string
	DocumentType  string
	ApprovalState ApprovalState
	DecidedBy     *string
	DecidedAt     *time.Time
	CreatedAt     time.Time
}

// EndsOn is the last calendar day the request covers.
func (r LeaveRequest) EndsOn() time.Time {
	return r.StartsOn.AddDate(0, 0, r.DurationDays-1)
}

// Covers reports whether day falls within StartsOn..EndsOn.
func (r LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(r.StartsOn) && !day.After(r.EndsOn())
}

// Days lists every date the request covers.
func (r LeaveRequest) Days() []time.Time {
	days := make([]time.Time, 0, r.DurationDays)
	for i := 0; i < r.DurationDays; i++ {
		days = append(days, r.StartsOn.AddDate(0, 0, i))
	}
	return days
}

func (r LeaveRequest) IsApproved() bool {
	return r.ApprovalState == ApprovalApproved
}

// Document is a supporting file attached to a request.
type Document struct {
	Name        string
	ContentType string
	Content     []byte
}

// CategoryCount is the number of requests filed under one category.
type CategoryCount struct {
	Category Category
	Total    int64
}
