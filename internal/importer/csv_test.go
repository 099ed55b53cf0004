package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KVinaykumar2002/reckon-snap/internal/importer"
)

func TestCSVParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"type,amount,category,date,description",
		"expense,12.50,Food,2024-01-15,Lunch at cafe",
		"INCOME,  2500 ,Salary,2024-01-31,January salary",
		"expense,5.00,Snacks", // short row, dropped
		"expense,,Food,2024-01-16,missing amount cell", // empty cell, dropped
		"expense,9.99,Transport,2024-01-17,Bus ticket",
	}, "\n")

	records, err := importer.NewCSVParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, importer.CandidateRecord{
		Row:         2,
		Type:        "expense",
		Amount:      12.50,
		Category:    "Food",
		Date:        "2024-01-15",
		Description: "Lunch at cafe",
	}, records[0])

	// Type is lower-cased and the amount cell is trimmed before parsing.
	assert.Equal(t, "income", records[1].Type)
	assert.Equal(t, 2500.0, records[1].Amount)
	assert.Equal(t, 3, records[1].Row)

	// Dropped rows keep their positions reserved: the last row is row 6.
	assert.Equal(t, 6, records[2].Row)
	assert.Equal(t, "Bus ticket", records[2].Description)
}

func TestCSVParser_Parse_AmountCoercion(t *testing.T) {
	input := "type,amount,category,date,description\n" +
		"expense,not-a-number,Food,2024-01-15,typo in amount\n"

	records, err := importer.NewCSVParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Unparseable amounts become 0 here; validation rejects them later.
	assert.Equal(t, 0.0, records[0].Amount)
}

func TestCSVParser_Parse_EmptyFile(t *testing.T) {
	records, err := importer.NewCSVParser().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVParser_Parse_HeaderOnly(t *testing.T) {
	records, err := importer.NewCSVParser().Parse(strings.NewReader("type,amount,category,date,description\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVParser_Parse_Windows1252(t *testing.T) {
	// "Café" with a Windows-1252 é (0xE9).
	input := []byte("type,amount,category,date,description\n" +
		"expense,4.20,Food,2024-02-01,Caf\xe9 com leite\n")

	records, err := importer.NewCSVParser().Parse(bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Café com leite", records[0].Description)
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &importer.XLSXParser{}, importer.ForFile("report.xlsx"))
	assert.IsType(t, &importer.XLSXParser{}, importer.ForFile("REPORT.XLSX"))
	assert.IsType(t, &importer.XLSXParser{}, importer.ForFile("legacy.xls"))
	assert.IsType(t, &importer.CSVParser{}, importer.ForFile("data.csv"))
	assert.IsType(t, &importer.CSVParser{}, importer.ForFile("notes.txt"))
	assert.IsType(t, &importer.CSVParser{}, importer.ForFile("no-extension"))
}
