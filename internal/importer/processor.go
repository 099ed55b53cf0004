package importer

import "io"

// File is one upload to process: a display name (used for parser selection
// and error reporting) and its content.
type File struct {
	Name   string
	Reader io.Reader
}

// ProgressFunc receives the fraction of files completed, in (0, 1].
type ProgressFunc func(fraction float64)

// Processor runs a batch of files through parsing and validation. Files are
// handled strictly in order on the calling goroutine.
type Processor struct {
	progress ProgressFunc
}

// NewProcessor returns a processor that reports progress through fn after
// each file completes. fn may be nil.
func NewProcessor(fn ProgressFunc) *Processor {
	return &Processor{progress: fn}
}

// Process parses and validates every file, accumulating accepted records and
// rejected rows in source order. Any file the parser cannot decode fails the
// whole batch: the result is nil and the error is a *ParseError naming the
// file, with nothing from earlier files kept.
func (p *Processor) Process(files []File) (*BatchResult, error) {
	result := new(BatchResult)

	for i, f := range files {
		records, err := ForFile(f.Name).Parse(f.Reader)
		if err != nil {
			return nil, &ParseError{File: f.Name, Err: err}
		}

		for _, rec := range records {
			params, rowErr := Validate(rec)
			if rowErr != nil {
				rowErr.File = f.Name
				result.Rejected = append(result.Rejected, *rowErr)

				continue
			}

			result.Accepted = append(result.Accepted, params)
		}

		p.report(i+1, len(files))
	}

	return result, nil
}

func (p *Processor) report(done, total int) {
	if p.progress == nil {
		return
	}

	p.progress(float64(done) / float64(total))
}
