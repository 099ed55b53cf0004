package importer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KVinaykumar2002/reckon-snap/internal/importer"
)

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestXLSXParser_Parse(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"type", "amount", "category", "date", "description"},
		{"expense", 12.5, "Food", "2024-01-15", "Lunch"},
		{"income", "2500", "Salary", "2024-01-31", "January salary"},
		{"expense", 3.0, "Food"}, // short row, dropped
	})

	records, err := importer.NewXLSXParser().Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, importer.CandidateRecord{
		Row:         2,
		Type:        "expense",
		Amount:      12.5,
		Category:    "Food",
		Date:        "2024-01-15",
		Description: "Lunch",
	}, records[0])

	assert.Equal(t, 3, records[1].Row)
	assert.Equal(t, "income", records[1].Type)
	assert.Equal(t, 2500.0, records[1].Amount)
}

func TestXLSXParser_Parse_CorruptInput(t *testing.T) {
	_, err := importer.NewXLSXParser().Parse(bytes.NewReader([]byte("this is not a workbook")))
	assert.Error(t, err)
}
