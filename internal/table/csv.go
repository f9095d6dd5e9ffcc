package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
)

const utf8BOM = "\ufeff"

// ReadCSV parses a comma separated upload whose first record is the header.
func ReadCSV(r io.Reader) (*MetricsTable, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	// row widths are checked by New so the error names the data row
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &wcetErrors.ParseError{ErrorMsg: csvErr.Err.Error(), Row: csvErr.Line - 1}
		}
		return nil, &wcetErrors.ParseError{ErrorMsg: err.Error()}
	}
	if len(records) == 0 {
		return nil, &wcetErrors.ParseError{ErrorMsg: "file is empty"}
	}
	header := records[0]
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &wcetErrors.ParseError{ErrorMsg: "header contains an empty column name"}
		}
		header[i] = name
	}
	if len(records) == 1 {
		return nil, &wcetErrors.ParseError{ErrorMsg: "file has a header but no data rows"}
	}
	return New(header, records[1:])
}

// WriteCSV writes the header and rows of t.
func WriteCSV(w io.Writer, t *MetricsTable) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.Records()); err != nil {
		return err
	}
	return writer.Error()
}
