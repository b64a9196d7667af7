package attendance

import (
	"strings"
	"time"
)

// Status classifies a daily attendance record.
type Status string

const (
	StatusOnTime      Status = "on_time"
	StatusLate        Status = "late"
	StatusLeave       Status = "leave"
	StatusSick        Status = "sick"
	StatusRemoteWork  Status = "remote_work"
	StatusNoData      Status = "no_data"
	StatusInvalidTime Status = "invalid_time"
)

// IsPresence reports whether the status comes from walk-in attendance rather
// than an absence category.
func (s Status) IsPresence() bool {
	switch s {
	case StatusLeave, StatusSick, StatusRemoteWork:
		return false
	}
	return true
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusLeave, StatusSick, StatusRemoteWork, StatusNoData, StatusInvalidTime:
		return true
	}
	return false
}

// RecordType is the kind of clock event a timesheet row holds.
type RecordType string

const (
	RecordTypeArrival   RecordType = "arrival"
	RecordTypeDeparture RecordType = "departure"
)

var recordTypeAliases = map[string]RecordType{
	"arrival":   RecordTypeArrival,
	"datang":    RecordTypeArrival,
	"masuk":     RecordTypeArrival,
	"in":        RecordTypeArrival,
	"departure": RecordTypeDeparture,
	"pulang":    RecordTypeDeparture,
	"keluar":    RecordTypeDeparture,
	"out":       RecordTypeDeparture,
}

// ParseRecordType maps a raw record-type cell onto the closed vocabulary.
func ParseRecordType(s string) (RecordType, bool) {
	rt, ok := recordTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return rt, ok
}

// Record is one employee's attendance on one date.
type Record struct {
	ID             int64
	EmployeeID     *string
	Name           string
	Division       string
	Date           time.Time
	ArrivalTime    string
	DepartureTime  string
	Status         Status
	LeaveRequestID *int64
	CreatedAt      time.Time
}

// DayAggregate counts attendance for one calendar date.
type DayAggregate struct {
	Date    time.Time
	Present int
	Late    int
	Absent  int
}
