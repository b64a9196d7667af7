package attendance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

const (
	DefaultCutoff = "09:17"
	clockLayout   = "15:04"
)

var (
	identifierHeaders = []string{"id", "identifier", "employee_id"}
	nameHeaders       = []string{"nama", "name"}
	recordTypeHeaders = []string{"jenis", "type", "record_type", "record-type"}
)

// NormalizeOptions selects the month the day columns belong to and the
// arrival cutoff.
type NormalizeOptions struct {
	Year   int
	Month  time.Month
	Cutoff string
}

// NormalizeResult holds the normalized records in pivot insertion order plus
// warnings about columns that were ignored and values that were collapsed or
// could not be placed.
type NormalizeResult struct {
	Records  []attendance.Record
	Warnings []string
}

type columnLayout struct {
	identifier int
	name       int
	recordType int
	days       map[int]int // column index -> day of month
	dayOrder   []int       // column indexes in header order
}

type pivotKey struct {
	identifier string
	name       string
	day        int
}

type pivotRow struct {
	arrival   *string
	departure *string
}

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", attendance.ErrInvalidTime, s)
	}
	return t, nil
}

// ClassifyArrival derives a record status from its arrival time. Arrivals
// strictly after cutoff are late. An unparseable arrival returns
// StatusInvalidTime together with ErrInvalidTime.
func ClassifyArrival(arrival string, cutoff time.Time) (attendance.Status, error) {
	if strings.TrimSpace(arrival) == "" {
		return attendance.StatusNoData, nil
	}

	t, err := ParseClock(arrival)
	if err != nil {
		return attendance.StatusInvalidTime, err
	}

	if t.After(cutoff) {
		return attendance.StatusLate, nil
	}
	return attendance.StatusOnTime, nil
}

// Normalize reshapes a wide timesheet (one row per employee and record type,
// one column per day of month) into one record per employee and day.
//
// The first row must be the header. When several rows carry the same
// employee, day and record type the first non-empty time wins; the rest are
// reported in Warnings. Times under an unrecognized record type still
// produce the employee's record for that day but fill neither side, so it
// comes out as no data. divisions maps employee identifiers to divisions; unknown
// identifiers get employee.UnknownDivision.
func Normalize(rows [][]string, opts NormalizeOptions, divisions map[string]string) (NormalizeResult, error) {
	cutoff, err := normalizeOptions(&opts)
	if err != nil {
		return NormalizeResult{}, err
	}

	if len(rows) == 0 {
		return NormalizeResult{}, validator.Single("file", "timesheet has no header row")
	}

	layout, err := detectColumns(rows[0])
	if err != nil {
		return NormalizeResult{}, err
	}

	var (
		result    NormalizeResult
		order     []pivotKey
		pivot     = make(map[pivotKey]*pivotRow)
		daysInMon = daysIn(opts.Year, opts.Month)
		skipDays  = make(map[int]bool)
	)

	for _, col := range layout.dayOrder {
		day := layout.days[col]
		if day > daysInMon && !skipDays[day] {
			skipDays[day] = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("column %d ignored: %s %d has only %d days", day, opts.Month, opts.Year, daysInMon))
		}
	}

	for i, row := range rows[1:] {
		if spreadsheet.IsBlankRow(row) {
			continue
		}
		line := i + 2

		identifier := spreadsheet.CellValue(row, layout.identifier)
		name := spreadsheet.CellValue(row, layout.name)
		rawType := spreadsheet.CellValue(row, layout.recordType)

		recordType, known := attendance.ParseRecordType(rawType)
		if !known {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: unrecognized record type %q, times kept out of arrival and departure", line, rawType))
		}

		for _, col := range layout.dayOrder {
			day := layout.days[col]
			if skipDays[day] {
				continue
			}

			value := spreadsheet.CellValue(row, col)
			if value == "" {
				continue
			}

			key := pivotKey{identifier: identifier, name: name, day: day}
			entry, exists := pivot[key]
			if !exists {
				entry = &pivotRow{}
				pivot[key] = entry
				order = append(order, key)
			}
			if !known {
				continue
			}

			slot := &entry.arrival
			if recordType == attendance.RecordTypeDeparture {
				slot = &entry.departure
			}
			if *slot != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("row %d: duplicate %s for %s (%s) on day %d, keeping %q and discarding %q",
						line, recordType, name, identifier, day, **slot, value))
				continue
			}
			v := value
			*slot = &v
		}
	}

	result.Records = make([]attendance.Record, 0, len(order))
	for _, key := range order {
		entry := pivot[key]

		var arrival, departure string
		if entry.arrival != nil {
			arrival = *entry.arrival
		}
		if entry.departure != nil {
			departure = *entry.departure
		}

		// the error is already represented by StatusInvalidTime
		status, _ := ClassifyArrival(arrival, cutoff)

		division, ok := divisions[key.identifier]
		if !ok || division == "" {
			division = employee.UnknownDivision
		}

		identifier := key.identifier
		result.Records = append(result.Records, attendance.Record{
			EmployeeID:    &identifier,
			Name:          key.name,
			Division:      division,
			Date:          time.Date(opts.Year, opts.Month, key.day, 0, 0, 0, 0, time.UTC),
			ArrivalTime:   arrival,
			DepartureTime: departure,
			Status:        status,
		})
	}

	return result, nil
}

func normalizeOptions(opts *NormalizeOptions) (time.Time, error) {
	var errs validator.ValidationErrors

	if opts.Year < 1 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a positive integer"})
	}
	if opts.Month < time.January || opts.Month > time.December {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}

	if strings.TrimSpace(opts.Cutoff) == "" {
		opts.Cutoff = DefaultCutoff
	}
	cutoff, err := ParseClock(opts.Cutoff)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "cutoff", Message: "cutoff must be a time in HH:MM format"})
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return cutoff, nil
}

func detectColumns(header []string) (columnLayout, error) {
	layout := columnLayout{identifier: -1, name: -1, recordType: -1, days: make(map[int]int)}

	for idx, cell := range header {
		h := spreadsheet.NormalizeHeader(cell)
		switch {
		case layout.identifier < 0 && validator.IsInSlice(h, identifierHeaders):
			layout.identifier = idx
		case layout.name < 0 && validator.IsInSlice(h, nameHeaders):
			layout.name = idx
		case layout.recordType < 0 && validator.IsInSlice(h, recordTypeHeaders):
			layout.recordType = idx
		case validator.IsNumeric(h):
			day, err := strconv.Atoi(h)
			if err != nil || day < 1 || day > 31 {
				continue
			}
			layout.days[idx] = day
			layout.dayOrder = append(layout.dayOrder, idx)
		}
	}

	var errs validator.ValidationErrors
	if layout.identifier < 0 {
		errs = append(errs, validator.ValidationError{Field: "identifier", Message: "timesheet is missing the identifier column (ID)"})
	}
	if layout.name < 0 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "timesheet is missing the name column (Nama)"})
	}
	if layout.recordType < 0 {
		errs = append(errs, validator.ValidationError{Field: "record_type", Message: "timesheet is missing the record type column (Jenis)"})
	}
	if len(layout.dayOrder) == 0 {
		errs = append(errs, validator.ValidationError{Field: "day_columns", Message: "timesheet has no day-of-month columns (1..31)"})
	}

	if len(errs) > 0 {
		return columnLayout{}, errs
	}
	return layout, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SortRecords orders records by employee identifier, numerically when both
// identifiers are numbers, then by date.
func SortRecords(records []attendance.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := identifierOf(records[i]), identifierOf(records[j])
		if a != b {
			return lessIdentifier(a, b)
		}
		return records[i].Date.Before(records[j].Date)
	})
}

func identifierOf(r attendance.Record) string {
	if r.EmployeeID == nil {
		return ""
	}
	return *r.EmployeeID
}

func lessIdentifier(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	}
	return a < b
}
