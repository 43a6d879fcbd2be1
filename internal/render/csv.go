package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/leengari/gcharts/internal/table"
)

// CSVOptions configures CSV
type CSVOptions struct {
	Options
	// Separator defaults to a comma
	Separator rune
}

// CSV encodes the model as UTF-8 comma (or Separator) separated values
// with a header row of labels. Records end in CRLF. A field is quoted when
// it contains the separator, a quote or a line break, and also when it
// starts with a space or tab, following encoding/csv.
func CSV(m *table.Model, opts CSVOptions) (string, error) {
	b, err := writeCSV(m, opts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TSVExcel encodes the model as tab separated values in UTF-16 little endian
// with a byte order mark, which spreadsheet imports expect
func TSVExcel(m *table.Model, opts Options) ([]byte, error) {
	b, err := writeCSV(m, CSVOptions{Options: opts, Separator: '\t'})
	if err != nil {
		return nil, err
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("encode utf-16: %w", err)
	}
	return out, nil
}

func writeCSV(m *table.Model, opts CSVOptions) ([]byte, error) {
	p, err := prepare(m, opts.Options)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if opts.Separator != 0 {
		w.Comma = opts.Separator
	}
	w.UseCRLF = true

	record := make([]string, len(p.cols))
	for i, col := range p.cols {
		record[i] = col.Label
	}
	if err := w.Write(record); err != nil {
		return nil, err
	}

	for _, cells := range p.rows {
		for i, c := range cells {
			record[i] = c.display()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
