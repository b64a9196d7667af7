package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type dayBreakdown struct {
	onTime       []attendance.Record
	late         []attendance.Record
	unclassified []attendance.Record
	absences     []leave.LeaveRequest
}

func (b dayBreakdown) present() int {
	return len(b.onTime) + len(b.late) + len(b.unclassified)
}

// breakdownDay reconciles one day's records against approved leave. Anyone
// on approved leave that day counts once as absent and never as present,
// whatever their attendance rows say.
func breakdownDay(day time.Time, records []attendance.Record, requests []leave.LeaveRequest) dayBreakdown {
	var b dayBreakdown

	onLeave := make(map[string]bool)
	for _, req := range requests {
		if !req.IsApproved() || !req.Covers(day) || onLeave[req.Name] {
			continue
		}
		onLeave[req.Name] = true
		b.absences = append(b.absences, req)
	}

	for _, rec := range records {
		if !rec.Status.IsPresence() || !attendance.DateOf(rec.Date).Equal(day) || onLeave[rec.Name] {
			continue
		}
		switch rec.Status {
		case attendance.StatusOnTime:
			b.onTime = append(b.onTime, rec)
		case attendance.StatusLate:
			b.late = append(b.late, rec)
		default:
			b.unclassified = append(b.unclassified, rec)
		}
	}

	return b
}

// AggregateDay computes the detailed breakdown for a single date.
func AggregateDay(day time.Time, records []attendance.Record, requests []leave.LeaveRequest) attendance.DayDetail {
	day = attendance.DateOf(day)
	b := breakdownDay(day, records, requests)

	present := b.present()
	detail := attendance.DayDetail{
		Date:             day.Format(attendance.DateLayout),
		Present:          present,
		Late:             len(b.late),
		Absent:           len(b.absences),
		LatePercentage:   percentage(len(b.late), present),
		AbsentPercentage: percentage(len(b.absences), present+len(b.absences)),
		OnTime:           attendance.NewRecordResponses(b.onTime),
		LateRecords:      attendance.NewRecordResponses(b.late),
		Unclassified:     attendance.NewRecordResponses(b.unclassified),
		Absences:         make([]attendance.AbsenceEntry, 0, len(b.absences)),
	}

	for _, req := range b.absences {
		detail.Absences = append(detail.Absences, attendance.AbsenceEntry{
			LeaveRequestID: req.ID,
			Name:           req.Name,
			Division:       req.Division,
			Category:       string(req.Category),
			StartsOn:       req.StartsOn.Format(attendance.DateLayout),
			EndsOn:         req.EndsOn().Format(attendance.DateLayout),
		})
	}

	return detail
}

// AggregateRange emits one DayAggregate per date in [start, end]. Without
// dense only dates holding a presence record or an approved leave day are
// returned; with dense every date in the range is returned, zero-filled.
func AggregateRange(start, end time.Time, dense bool, records []attendance.Record, requests []leave.LeaveRequest) []attendance.DayAggregate {
	start, end = attendance.DateOf(start), attendance.DateOf(end)
	if start.After(end) {
		return nil
	}

	byDay := make(map[time.Time][]attendance.Record)
	for _, rec := range records {
		if !rec.Status.IsPresence() {
			continue
		}
		d := attendance.DateOf(rec.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		byDay[d] = append(byDay[d], rec)
	}

	var approved []leave.LeaveRequest
	events := make(map[time.Time]bool, len(byDay))
	for d := range byDay {
		events[d] = true
	}
	for _, req := range requests {
		if !req.IsApproved() {
			continue
		}
		approved = append(approved, req)
		for _, d := range req.Days() {
			d = attendance.DateOf(d)
			if !d.Before(start) && !d.After(end) {
				events[d] = true
			}
		}
	}

	var days []time.Time
	if dense {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	} else {
		for d := range events {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	}

	out := make([]attendance.DayAggregate, 0, len(days))
	for _, d := range days {
		b := breakdownDay(d, byDay[d], approved)
		out = append(out, attendance.DayAggregate{
			Date:    d,
			Present: b.present(),
			Late:    len(b.late),
			Absent:  len(b.absences),
		})
	}
	return out
}

func percentage(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}
