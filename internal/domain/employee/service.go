package employee

import "context"

type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	Import(ctx context.Context, req ImportEmployeesRequest) (ImportEmployeesResponse, error)
}
