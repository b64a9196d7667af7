package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAttendanceRepository_CreateBatchAndList(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	records := []attendance.Record{
		{EmployeeID: strPtr("1"), Name: "Budi", Division: "Engineering", Date: day(2024, time.March, 4), ArrivalTime: "09:10", DepartureTime: "17:00", Status: attendance.StatusOnTime},
		{EmployeeID: strPtr("1"), Name: "Budi", Division: "Engineering", Date: day(2024, time.March, 5), ArrivalTime: "09:30", Status: attendance.StatusLate},
		{EmployeeID: strPtr("2"), Name: "Sari", Division: "Finance", Date: day(2024, time.April, 1), ArrivalTime: "08:00", Status: attendance.StatusOnTime},
		{Name: "Aya", Division: "Finance", Date: day(2024, time.March, 6), Status: attendance.StatusLeave},
	}

	n, err := repo.CreateBatch(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	march, err := repo.ListBetween(ctx, day(2024, time.March, 1), day(2024, time.March, 31))
	require.NoError(t, err)
	require.Len(t, march, 3)
	assert.Equal(t, "Budi", march[0].Name)
	assert.Equal(t, attendance.StatusLate, march[1].Status)
	assert.Equal(t, "09:30", march[1].ArrivalTime)
	assert.Equal(t, "", march[1].DepartureTime)
	assert.Nil(t, march[2].EmployeeID)

	count, err := repo.CountPresenceInMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountPresenceInMonth(ctx, 2024, time.May)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAttendanceRepository_ExpansionGuard(t *testing.T) {
	setup := NewTestDatabase(t)
	leaveRepo := postgresql.NewLeaveRequestRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	request, err := leaveRepo.Create(ctx, newRequest("Aya", leave.CategoryLeave, day(2024, time.January, 10), 1), nil)
	require.NoError(t, err)

	id := request.ID
	rows := []attendance.Record{{Name: "Aya", Division: "Engineering", Date: day(2024, time.January, 10), Status: attendance.StatusLeave, LeaveRequestID: &id}}

	_, err = repo.CreateBatch(ctx, rows)
	require.NoError(t, err)

	// a second expansion of the same request and day violates the unique index
	_, err = repo.CreateBatch(ctx, rows)
	assert.Error(t, err)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	tx := postgresql.NewTransactor(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := employees.Upsert(txCtx, []employee.Employee{{ID: "1", Name: "Budi", Division: "Engineering"}}); err != nil {
			return err
		}
		if _, err := repo.CreateBatch(txCtx, []attendance.Record{{Name: "Budi", Date: day(2024, time.March, 4), Status: attendance.StatusOnTime}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := employees.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := repo.CountPresenceInMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, []employee.Employee{
		{ID: "1", Name: "Budi", Division: "Engineering"},
		{ID: "2", Name: "Sari", Division: "Finance"},
		{ID: "3", Name: "Sari", Division: "Marketing"},
	})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, []employee.Employee{{ID: "1", Name: "Budi", Division: "Operations"}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Operations", got.Division)

	_, err = repo.GetByID(ctx, "99")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	found, err := repo.FindByName(ctx, "Budi")
	require.NoError(t, err)
	assert.Equal(t, "1", found.ID)

	// ambiguous names do not resolve
	_, err = repo.FindByName(ctx, "Sari")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestAttendanceRepository_LockMonthSerializesImports(t *testing.T) {
	setup := NewTestDatabase(t)
	tx := postgresql.NewTransactor(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.LockMonth(txCtx, 2024, time.March); err != nil {
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err := tx.WithinTransaction(waitCtx, func(txCtx context.Context) error {
		return repo.LockMonth(txCtx, 2024, time.March)
	})
	assert.Error(t, err, "second import of the same month must wait for the first")

	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return repo.LockMonth(txCtx, 2024, time.April)
	})
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return repo.LockMonth(txCtx, 2024, time.March)
	})
	assert.NoError(t, err)
}
