package leave

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() CreateLeaveRequestRequest {
	return CreateLeaveRequestRequest{
		Name:         "Aya",
		Division:     "Finance",
		Category:     "Cuti",
		SubmittedOn:  "2024-01-08",
		StartsOn:     "2024-01-10",
		DurationDays: 3,
		DocumentName: "surat.pdf",
		Document:     []byte("%PDF-1.4"),
	}
}

func firstField(t *testing.T, err error) string {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	return errs[0].Field
}

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateLeaveRequestRequest)
		field  string
	}{
		{"valid", func(r *CreateLeaveRequestRequest) {}, ""},
		{"missing name", func(r *CreateLeaveRequestRequest) { r.Name = "  " }, "name"},
		{"missing division", func(r *CreateLeaveRequestRequest) { r.Division = "" }, "division"},
		{"unknown category", func(r *CreateLeaveRequestRequest) { r.Category = "vacation" }, "category"},
		{"bad submitted_on", func(r *CreateLeaveRequestRequest) { r.SubmittedOn = "08/01/2024" }, "submitted_on"},
		{"bad starts_on", func(r *CreateLeaveRequestRequest) { r.StartsOn = "" }, "starts_on"},
		{"start before submission", func(r *CreateLeaveRequestRequest) { r.StartsOn = "2024-01-07" }, "starts_on"},
		{"start equals submission", func(r *CreateLeaveRequestRequest) { r.StartsOn = "2024-01-08" }, ""},
		{"zero duration", func(r *CreateLeaveRequestRequest) { r.DurationDays = 0 }, "duration_days"},
		{"missing document", func(r *CreateLeaveRequestRequest) { r.Document = nil }, "document"},
		{"document too large", func(r *CreateLeaveRequestRequest) {
			r.Document = bytes.Repeat([]byte("a"), MaxDocumentSize+1)
		}, "document"},
		{"document wrong type", func(r *CreateLeaveRequestRequest) { r.DocumentName = "surat.docx" }, "document"},
		{"html named as image", func(r *CreateLeaveRequestRequest) {
			r.DocumentName = "surat.png"
			r.Document = []byte("<html><script>alert(1)</script></html>")
		}, "document"},
		{"png content", func(r *CreateLeaveRequestRequest) {
			r.DocumentName = "surat.png"
			r.Document = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validDraft()
			tt.mutate(&req)
			err := req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.field, firstField(t, err))
		})
	}
}

func TestCreateLeaveRequestRequest_Validate_Precedence(t *testing.T) {
	// semua field salah, yang dilaporkan hanya yang pertama
	req := CreateLeaveRequestRequest{StartsOn: "2024-01-01", SubmittedOn: "2024-02-01"}
	assert.Equal(t, "name", firstField(t, req.Validate()))

	req.Name = "Aya"
	assert.Equal(t, "division", firstField(t, req.Validate()))

	req.Division = "Finance"
	assert.Equal(t, "category", firstField(t, req.Validate()))

	req.Category = "sick"
	assert.Equal(t, "starts_on", firstField(t, req.Validate()))

	req.StartsOn = "2024-02-01"
	assert.Equal(t, "duration_days", firstField(t, req.Validate()))

	req.DurationDays = 1
	assert.Equal(t, "document", firstField(t, req.Validate()))
}

func TestCreateLeaveRequestRequest_ToEntity(t *testing.T) {
	req := validDraft()
	req.Name = " Aya "
	req.DocumentName = "../../etc/surat.pdf"
	require.NoError(t, req.Validate())

	entity := req.ToEntity()
	assert.Equal(t, "Aya", entity.Name)
	assert.Equal(t, CategoryLeave, entity.Category)
	assert.Equal(t, ApprovalPending, entity.ApprovalState)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), entity.StartsOn)
	assert.Equal(t, "surat.pdf", entity.DocumentName)
	assert.True(t, entity.HasDocument)
	assert.Equal(t, "application/pdf", entity.DocumentType)
}

func TestDecideLeaveRequestRequest_Validate(t *testing.T) {
	ok := DecideLeaveRequestRequest{ID: 1, Outcome: ApprovalApproved}
	assert.NoError(t, ok.Validate())

	bad := DecideLeaveRequestRequest{ID: 0, Outcome: ApprovalPending}
	var errs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "id")
	assert.Contains(t, errs.ToMap(), "outcome")
}

func TestLeaveRequest_Coverage(t *testing.T) {
	r := LeaveRequest{
		StartsOn:     time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		DurationDays: 3,
	}

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.EndsOn())
	assert.True(t, r.Covers(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Covers(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Covers(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Covers(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)))
	assert.Len(t, r.Days(), 3)
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"Cuti":        CategoryLeave,
		"telat":       CategoryLateExcuse,
		" SAKIT ":     CategorySick,
		"WFH":         CategoryRemoteWork,
		"remote_work": CategoryRemoteWork,
	}
	for in, want := range cases {
		got, ok := ParseCategory(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseCategory("lembur")
	assert.False(t, ok)
}
