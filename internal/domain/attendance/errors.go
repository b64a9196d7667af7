package attendance

import "errors"

var (
	ErrInvalidTime          = errors.New("invalid time of day")
	ErrMonthAlreadyImported = errors.New("attendance for this month has already been imported")
	ErrInvalidDateRange     = errors.New("start date must not be after end date")
	ErrArchiveNotFound      = errors.New("archived timesheet not found")
)
