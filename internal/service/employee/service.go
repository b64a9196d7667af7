package employee

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

var (
	idHeaders       = []string{"id", "identifier", "employee_id"}
	nameHeaders     = []string{"nama", "name"}
	divisionHeaders = []string{"divisi", "division", "department"}
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(tx database.Transactor, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employee.EmployeeResponse{ID: e.ID, Name: e.Name, Division: e.Division})
	}
	return out, nil
}

// Import implements employee.EmployeeService. Rows are upserted by
// identifier; rows without an identifier or name are reported as skipped.
func (s *EmployeeServiceImpl) Import(ctx context.Context, req employee.ImportEmployeesRequest) (employee.ImportEmployeesResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.ImportEmployeesResponse{}, err
	}

	rows, err := spreadsheet.ReadRows(bytes.NewReader(req.Content), req.Filename)
	if err != nil {
		return employee.ImportEmployeesResponse{}, validator.Single("file", err.Error())
	}

	employees, skipped, err := parseEmployeeRows(rows)
	if err != nil {
		return employee.ImportEmployeesResponse{}, err
	}

	var response employee.ImportEmployeesResponse
	response.Skipped = skipped

	if len(employees) == 0 {
		return response, nil
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		response.Imported, err = s.employeeRepo.Upsert(txCtx, employees)
		if err != nil {
			return fmt.Errorf("failed to upsert employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.ImportEmployeesResponse{}, err
	}

	slog.Info("employees imported", "filename", req.Filename, "imported", response.Imported, "skipped", len(skipped))
	return response, nil
}

func parseEmployeeRows(rows [][]string) ([]employee.Employee, []string, error) {
	if len(rows) == 0 {
		return nil, nil, validator.Single("file", "employee sheet has no header row")
	}

	idCol, nameCol, divisionCol := -1, -1, -1
	for idx, cell := range rows[0] {
		h := spreadsheet.NormalizeHeader(cell)
		switch {
		case idCol < 0 && validator.IsInSlice(h, idHeaders):
			idCol = idx
		case nameCol < 0 && validator.IsInSlice(h, nameHeaders):
			nameCol = idx
		case divisionCol < 0 && validator.IsInSlice(h, divisionHeaders):
			divisionCol = idx
		}
	}

	var errs validator.ValidationErrors
	if idCol < 0 {
		errs = append(errs, validator.ValidationError{Field: "identifier", Message: "employee sheet is missing the identifier column (ID)"})
	}
	if nameCol < 0 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "employee sheet is missing the name column (Nama)"})
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	var (
		employees []employee.Employee
		skipped   []string
		seen      = make(map[string]bool)
	)
	for i, row := range rows[1:] {
		if spreadsheet.IsBlankRow(row) {
			continue
		}
		line := i + 2

		id := spreadsheet.CellValue(row, idCol)
		name := spreadsheet.CellValue(row, nameCol)
		division := spreadsheet.CellValue(row, divisionCol)

		switch {
		case id == "" || name == "":
			skipped = append(skipped, fmt.Sprintf("row %d: identifier and name are required", line))
			continue
		case seen[id]:
			skipped = append(skipped, fmt.Sprintf("row %d: duplicate identifier %s", line, id))
			continue
		}
		seen[id] = true

		if division == "" {
			division = employee.UnknownDivision
		}
		employees = append(employees, employee.Employee{ID: id, Name: name, Division: division})
	}

	return employees, skipped, nil
}
