package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadRows_XLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"ID", "Nama", "Jenis", "1", "2"},
		{"1", "Budi", "Datang", "09:10", "09:20"},
		{"1", "Budi", "Pulang", "17:00"},
	})

	rows, err := ReadRows(bytes.NewReader(data), "maret.XLSX")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Nama", "Jenis", "1", "2"}, rows[0])
	assert.Equal(t, "09:20", rows[1][4])
	// trailing empty cells are omitted by the reader
	assert.Len(t, rows[2], 4)
}

func TestReadRows_CSV(t *testing.T) {
	csvData := "\xef\xbb\xbfID,Nama,Jenis,5\n1,Budi,datang,09:10\n1,Budi,pulang\n"

	rows, err := ReadRows(strings.NewReader(csvData), "upload.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []string{"1", "Budi", "pulang"}, rows[2])
}

func TestReadRows_Errors(t *testing.T) {
	_, err := ReadRows(strings.NewReader("x"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadRows(strings.NewReader(""), "empty.csv")
	assert.ErrorIs(t, err, ErrEmptyWorksheet)

	_, err = ReadRows(strings.NewReader("not a zip"), "broken.xlsx")
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "jenis", NormalizeHeader("  Jenis "))
	assert.Equal(t, "b", CellValue([]string{"a", " b "}, 1))
	assert.Equal(t, "", CellValue([]string{"a"}, 3))
	assert.Equal(t, "", CellValue([]string{"a"}, -1))
	assert.True(t, IsBlankRow([]string{"", "  "}))
	assert.True(t, IsBlankRow(nil))
	assert.False(t, IsBlankRow([]string{"", "x"}))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, XLSXContentType, ContentType("a/b/Maret.XLSX"))
	assert.Equal(t, "application/vnd.ms-excel", ContentType("maret.xls"))
	assert.Equal(t, "text/csv", ContentType("maret.csv"))
	assert.Equal(t, "application/octet-stream", ContentType("maret.pdf"))
}
