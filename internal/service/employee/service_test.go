package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	byID  map[string]employee.Employee
	order []string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byID: make(map[string]employee.Employee)}
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) FindByName(ctx context.Context, name string) (employee.Employee, error) {
	for _, id := range f.order {
		if f.byID[id].Name == name {
			return f.byID[id], nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Upsert(ctx context.Context, employees []employee.Employee) (int64, error) {
	for _, e := range employees {
		if _, ok := f.byID[e.ID]; !ok {
			f.order = append(f.order, e.ID)
		}
		f.byID[e.ID] = e
	}
	return int64(len(employees)), nil
}

func TestImportEmployees(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(passThroughTx{}, repo)

	content := "ID,Nama,Divisi\n" +
		"1,Budi,Engineering\n" +
		"2,Sari,\n" +
		",Tanpa ID,Finance\n" +
		"1,Budi Lagi,Finance\n" +
		"\n"

	resp, err := svc.Import(ctx, employee.ImportEmployeesRequest{Filename: "karyawan.csv", Content: []byte(content)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Imported)
	assert.Len(t, resp.Skipped, 2)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []employee.EmployeeResponse{
		{ID: "1", Name: "Budi", Division: "Engineering"},
		{ID: "2", Name: "Sari", Division: employee.UnknownDivision},
	}, list)

	resp, err = svc.Import(ctx, employee.ImportEmployeesRequest{Filename: "karyawan.csv", Content: []byte("id,name,division\n2,Sari,Finance\n")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Imported)
	assert.Equal(t, "Finance", repo.byID["2"].Division)
	assert.Len(t, repo.order, 2)
}

func TestImportEmployees_MissingColumns(t *testing.T) {
	svc := NewEmployeeService(passThroughTx{}, newFakeEmployeeRepo())

	_, err := svc.Import(context.Background(), employee.ImportEmployeesRequest{Filename: "karyawan.csv", Content: []byte("Divisi\nFinance\n")})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "identifier")
	assert.Contains(t, fields, "name")
}

func TestImportEmployees_UnsupportedFile(t *testing.T) {
	svc := NewEmployeeService(passThroughTx{}, newFakeEmployeeRepo())

	_, err := svc.Import(context.Background(), employee.ImportEmployeesRequest{Filename: "karyawan.txt", Content: []byte("x")})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "file")
}
