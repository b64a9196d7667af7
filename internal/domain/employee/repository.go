package employee

import "context"

type EmployeeRepository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	FindByName(ctx context.Context, name string) (Employee, error)
	Upsert(ctx context.Context, employees []Employee) (int64, error)
}
