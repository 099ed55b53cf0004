package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads Office Open XML workbooks. Only the first sheet is
// consulted; the row rules are the same as for CSV.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return new(XLSXParser)
}

func (p *XLSXParser) Parse(r io.Reader) ([]CandidateRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	return candidatesFromRows(rows), nil
}
