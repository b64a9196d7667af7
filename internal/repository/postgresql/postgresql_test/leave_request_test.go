package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRequest(name string, category leave.Category, start time.Time, duration int) leave.LeaveRequest {
	return leave.LeaveRequest{
		Name:         name,
		Division:     "Engineering",
		Category:     category,
		SubmittedOn:  start.AddDate(0, 0, -1),
		StartsOn:     start,
		DurationDays: duration,
	}
}

func TestLeaveRequestRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	ctx := context.Background()

	doc := &leave.Document{Name: "surat.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")}
	created, err := repo.Create(ctx, newRequest("Aya", leave.CategorySick, day(2024, time.March, 5), 2), doc)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, leave.ApprovalPending, created.ApprovalState)
	assert.True(t, created.HasDocument)
	assert.Equal(t, "surat.pdf", created.DocumentName)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, day(2024, time.March, 5).Equal(found.StartsOn))
	assert.Equal(t, 2, found.DurationDays)

	got, err := repo.GetDocument(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "application/pdf", got.ContentType)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_GetDocument_Missing(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRequest("Budi", leave.CategoryLeave, day(2024, time.March, 1), 1), nil)
	require.NoError(t, err)
	assert.False(t, created.HasDocument)

	_, err = repo.GetDocument(ctx, created.ID)
	assert.ErrorIs(t, err, leave.ErrDocumentNotFound)

	_, err = repo.GetDocument(ctx, 9999)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_TransitionState(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRequest("Budi", leave.CategoryLeave, day(2024, time.January, 10), 3), nil)
	require.NoError(t, err)

	admin := "hr.admin"
	changed, err := repo.TransitionState(ctx, created.ID, leave.ApprovalPending, leave.ApprovalApproved, &admin)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.TransitionState(ctx, created.ID, leave.ApprovalPending, leave.ApprovalRejected, &admin)
	require.NoError(t, err)
	assert.False(t, changed)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.ApprovalApproved, found.ApprovalState)
	require.NotNil(t, found.DecidedBy)
	assert.Equal(t, admin, *found.DecidedBy)
	assert.NotNil(t, found.DecidedAt)
}

func TestLeaveRequestRepository_ListAndOverlap(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	ctx := context.Background()

	first, err := repo.Create(ctx, newRequest("Aya", leave.CategorySick, day(2024, time.March, 4), 3), nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRequest("Budi", leave.CategoryLeave, day(2024, time.March, 5), 1), nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRequest("Sari", leave.CategoryRemoteWork, day(2024, time.March, 20), 1), nil)
	require.NoError(t, err)

	_, err = repo.TransitionState(ctx, first.ID, leave.ApprovalPending, leave.ApprovalApproved, nil)
	require.NoError(t, err)

	all, err := repo.List(ctx, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending := "pending"
	sick := "sick"
	pendingOnly, err := repo.List(ctx, leave.LeaveRequestFilter{State: &pending})
	require.NoError(t, err)
	assert.Len(t, pendingOnly, 2)

	sickOnly, err := repo.List(ctx, leave.LeaveRequestFilter{Category: &sick})
	require.NoError(t, err)
	require.Len(t, sickOnly, 1)
	assert.Equal(t, "Aya", sickOnly[0].Name)

	// Aya covers 4..6 March
	overlap, err := repo.ListApprovedOverlapping(ctx, day(2024, time.March, 6), day(2024, time.March, 10))
	require.NoError(t, err)
	require.Len(t, overlap, 1)
	assert.Equal(t, first.ID, overlap[0].ID)

	none, err := repo.ListApprovedOverlapping(ctx, day(2024, time.March, 7), day(2024, time.March, 31))
	require.NoError(t, err)
	assert.Empty(t, none)

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	totals := make(map[leave.Category]int64)
	for _, c := range counts {
		totals[c.Category] = c.Total
	}
	assert.Equal(t, map[leave.Category]int64{
		leave.CategoryLeave:      1,
		leave.CategorySick:       1,
		leave.CategoryRemoteWork: 1,
	}, totals)
}
