package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	maxUploadSize   int64
}

func NewEmployeeHandler(employeeService employee.EmployeeService, maxUploadSize int64) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		maxUploadSize:   maxUploadSize,
	}
}

// List implements EmployeeHandler.
func (e *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees, err := e.employeeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// Import implements EmployeeHandler.
func (e *employeeHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(e.maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	content, filename, err := readFormFile(r, "file", e.maxUploadSize)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		response.ValidationError(w, map[string]string{"file": "employee file is required"})
		return
	case errors.Is(err, errFileTooLarge):
		response.ValidationError(w, map[string]string{"file": "file is too large"})
		return
	case err != nil:
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	result, err := e.employeeService.Import(r.Context(), employee.ImportEmployeesRequest{
		Filename: filename,
		Content:  content,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employees imported successfully", result)
}
