package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	recordsSheet = "Absensi"
	summarySheet = "Ringkasan"
)

var recordsHeader = []interface{}{"ID", "Nama", "Divisi", "Tanggal", "Jam Masuk", "Jam Keluar", "Status"}

// buildMonthWorkbook renders a month of presence records, late rows
// highlighted, plus a per-day summary sheet.
func buildMonthWorkbook(year int, month time.Month, records []attendance.Record, days []attendance.DayAggregate) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), recordsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lateStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F4CCCC"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create late style: %w", err)
	}

	if err := writeRow(f, recordsSheet, 1, recordsHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(recordsSheet, "A1", "G1", headerStyle); err != nil {
		return nil, err
	}

	for i, r := range records {
		row := i + 2
		var employeeID string
		if r.EmployeeID != nil {
			employeeID = *r.EmployeeID
		}
		values := []interface{}{
			employeeID, r.Name, r.Division, r.Date.Format(attendance.DateLayout),
			r.ArrivalTime, r.DepartureTime, string(r.Status),
		}
		if err := writeRow(f, recordsSheet, row, values); err != nil {
			return nil, err
		}
		if r.Status == attendance.StatusLate {
			if err := f.SetCellStyle(recordsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), lateStyle); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(recordsSheet, "A", "G", 16); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Rekap Kehadiran %s %d", month, year)
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		return nil, err
	}
	if err := writeRow(f, summarySheet, 3, []interface{}{"Tanggal", "Hadir", "Telat", "Izin"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A3", "D3", headerStyle); err != nil {
		return nil, err
	}
	for i, d := range days {
		values := []interface{}{d.Date.Format(attendance.DateLayout), d.Present, d.Late, d.Absent}
		if err := writeRow(f, summarySheet, i+4, values); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "D", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
