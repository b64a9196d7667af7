package employee

import "github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"

type EmployeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
}

type ImportEmployeesRequest struct {
	Filename string `json:"filename" validate:"required"`
	Content  []byte `json:"file" validate:"required,min=1"`
}

func (r *ImportEmployeesRequest) Validate() error {
	return validator.Struct(r)
}

type ImportEmployeesResponse struct {
	Imported int64    `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}
