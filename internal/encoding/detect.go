// Package encoding normalizes uploaded text to UTF-8. Spreadsheet exports
// arrive in whatever charset the producing tool favored, while the CSV
// parser always reads UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen bounds how much of the input is buffered for detection.
const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r with whatever decoding its content needs to come out
// as UTF-8. A UTF-8 BOM is stripped, UTF-16 BOMs select the matching decoder,
// already-valid UTF-8 passes through, and everything else goes through
// charset detection with Windows-1252 as the last resort.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing input: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if dec := legacyDecoder(head); dec != nil {
		return transform.NewReader(br, dec), nil
	}

	return br, nil
}

// legacyDecoder picks a decoder for content that did not validate as UTF-8.
// A nil return means pass the bytes through untouched: the sniff window can
// split a multi-byte rune, making real UTF-8 look invalid.
func legacyDecoder(head []byte) transform.Transformer {
	detector := chardet.NewTextDetector()

	result, err := detector.DetectBest(head)
	if err != nil {
		return charmap.Windows1252.NewDecoder()
	}

	switch result.Charset {
	case "UTF-8":
		return nil
	case "ISO-8859-9":
		return charmap.ISO8859_9.NewDecoder()
	default:
		// Windows-1252 is a superset of ISO-8859-1 and the usual suspect
		// for spreadsheet exports.
		return charmap.Windows1252.NewDecoder()
	}
}
