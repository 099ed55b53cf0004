// Package importer holds the client-side half of bulk ingestion: reading
// tabular files into candidate records, validating every row, and
// partitioning a batch into accepted transactions and rejected rows.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

// CandidateRecord holds the raw fields read from one data row, before
// validation. Row is the 1-based position in the source file counting the
// header, so the first data row is 2. Dropped rows do not shift it.
type CandidateRecord struct {
	Row         int
	Type        string
	Amount      float64
	Category    string
	Date        string
	Description string
}

// RowError describes one row that failed validation, with enough context to
// locate and fix it in the source file.
type RowError struct {
	File    string
	Row     int
	Message string
	Data    CandidateRecord
}

// BatchResult partitions the rows of one processed batch. Both slices follow
// source row order across the batch's files.
type BatchResult struct {
	Accepted []transaction.CreateParams
	Rejected []RowError
}

// ParseError reports a file that could not be decoded as tabular data.
// One unreadable file fails the whole batch.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing %s: %v", e.File, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Parser extracts candidate records from one uploaded file.
type Parser interface {
	Parse(r io.Reader) ([]CandidateRecord, error)
}

// ForFile picks a parser from the file extension. Workbook extensions get
// the XLSX parser; everything else is treated as CSV.
func ForFile(name string) Parser {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".xls":
		return NewXLSXParser()
	default:
		return NewCSVParser()
	}
}

// candidatesFromRows applies the shared row rules to raw cell rows: the
// first row is the header, and a data row becomes a candidate only when its
// first five cells are all populated. Shorter or gappy rows are dropped
// without a trace.
func candidatesFromRows(rows [][]string) []CandidateRecord {
	if len(rows) == 0 {
		return nil
	}

	var records []CandidateRecord

	for i, row := range rows[1:] {
		rec, ok := candidateFromRow(row)
		if !ok {
			continue
		}

		rec.Row = i + 2 // 1-based, counting the header

		records = append(records, rec)
	}

	return records
}

// candidateFromRow maps the first five cells positionally onto a candidate:
// type, amount, category, date, description. Type is lower-cased; amount is
// coerced to a number, with failures deferred to validation as 0.
func candidateFromRow(row []string) (CandidateRecord, bool) {
	if len(row) < 5 {
		return CandidateRecord{}, false
	}

	for _, cell := range row[:5] {
		if cell == "" {
			return CandidateRecord{}, false
		}
	}

	return CandidateRecord{
		Type:        strings.ToLower(strings.TrimSpace(row[0])),
		Amount:      coerceAmount(row[1]),
		Category:    strings.TrimSpace(row[2]),
		Date:        strings.TrimSpace(row[3]),
		Description: strings.TrimSpace(row[4]),
	}, true
}

// coerceAmount parses a cell as a float. Unparseable cells become 0 so the
// validator can report them against the row instead of aborting the file.
func coerceAmount(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}

	return v
}
