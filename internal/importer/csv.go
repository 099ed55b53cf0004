package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KVinaykumar2002/reckon-snap/internal/encoding"
)

// CSVParser reads comma-separated files. Input bytes are normalized to
// UTF-8 first, so exports from spreadsheet tools that write legacy
// encodings still round-trip.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return new(CSVParser)
}

func (p *CSVParser) Parse(r io.Reader) ([]CandidateRecord, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("normalizing encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	return candidatesFromRows(rows), nil
}
