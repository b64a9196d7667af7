package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, division FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Division); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var e employee.Employee
	err := q.QueryRow(ctx, `SELECT id, name, division FROM employees WHERE id = $1`, id).Scan(&e.ID, &e.Name, &e.Division)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

// FindByName implements employee.EmployeeRepository. A name shared by more
// than one employee is treated as not found.
func (r *employeeRepositoryImpl) FindByName(ctx context.Context, name string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, division FROM employees WHERE name = $1 LIMIT 2`, name)
	if err != nil {
		return employee.Employee{}, err
	}
	defer rows.Close()

	var matches []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Division); err != nil {
			return employee.Employee{}, err
		}
		matches = append(matches, e)
	}
	if err := rows.Err(); err != nil {
		return employee.Employee{}, err
	}

	if len(matches) != 1 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return matches[0], nil
}

// Upsert implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Upsert(ctx context.Context, employees []employee.Employee) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (id, name, division)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, division = EXCLUDED.division
	`

	var total int64
	for _, e := range employees {
		commandTag, err := q.Exec(ctx, query, e.ID, e.Name, e.Division)
		if err != nil {
			return total, err
		}
		total += commandTag.RowsAffected()
	}
	return total, nil
}
