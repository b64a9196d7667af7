package leave

import (
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
)

// Expand turns an approved request into one leave record per covered day,
// StartsOn through StartsOn+DurationDays-1.
func Expand(request leave.LeaveRequest, employeeID *string) []attendance.Record {
	requestID := request.ID
	days := request.Days()

	records := make([]attendance.Record, 0, len(days))
	for _, day := range days {
		records = append(records, attendance.Record{
			EmployeeID:     employeeID,
			Name:           request.Name,
			Division:       request.Division,
			Date:           attendance.DateOf(day),
			Status:         attendance.StatusLeave,
			LeaveRequestID: &requestID,
		})
	}
	return records
}
