package importer_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KVinaykumar2002/reckon-snap/internal/importer"
)

func TestProcessor_Process(t *testing.T) {
	first := "type,amount,category,date,description\n" +
		"expense,10.00,Food,2024-01-01,Groceries\n" +
		"expense,-3.00,Food,2024-01-02,Refund entered wrong\n"

	second := "type,amount,category,date,description\n" +
		"income,100.00,Salary,2024-01-03,Consulting\n"

	var fractions []float64

	proc := importer.NewProcessor(func(fraction float64) {
		fractions = append(fractions, fraction)
	})

	result, err := proc.Process([]importer.File{
		{Name: "january.csv", Reader: strings.NewReader(first)},
		{Name: "extra.csv", Reader: strings.NewReader(second)},
	})
	require.NoError(t, err)

	// Accepted records keep source order across files.
	require.Len(t, result.Accepted, 2)
	assert.Equal(t, "Groceries", result.Accepted[0].Description)
	assert.Equal(t, "Consulting", result.Accepted[1].Description)

	// The rejected row names its file and keeps its raw fields.
	require.Len(t, result.Rejected, 1)
	rejected := result.Rejected[0]
	assert.Equal(t, "january.csv", rejected.File)
	assert.Equal(t, 3, rejected.Row)
	assert.Equal(t, "Invalid amount: -3. Must be a positive number", rejected.Message)
	assert.Equal(t, -3.0, rejected.Data.Amount)

	assert.Equal(t, []float64{0.5, 1.0}, fractions)
}

func TestProcessor_Process_ParseFailureFailsBatch(t *testing.T) {
	good := "type,amount,category,date,description\n" +
		"expense,10.00,Food,2024-01-01,Groceries\n"

	proc := importer.NewProcessor(nil)

	result, err := proc.Process([]importer.File{
		{Name: "good.csv", Reader: strings.NewReader(good)},
		{Name: "bad.xlsx", Reader: bytes.NewReader([]byte("garbage"))},
	})

	// Nothing from the readable file survives.
	assert.Nil(t, result)

	var parseErr *importer.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.xlsx", parseErr.File)
	assert.Contains(t, err.Error(), "bad.xlsx")
}

func TestProcessor_Process_NoFiles(t *testing.T) {
	proc := importer.NewProcessor(nil)

	result, err := proc.Process(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, result.Rejected)
}
