// Package dataset turns uploaded tabular files into a compact text digest
// that fits inside a quantitative-analysis prompt.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

const (
	// maxSampleRows keeps the digest small enough to embed in a prompt.
	maxSampleRows = 20
	maxColumns    = 40
)

// Profile reads a CSV or Excel upload and returns a text digest: column
// names, row count and a handful of sample rows.
func Profile(r io.Reader, filename string) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return profileCSV(r)
	case strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm"):
		return profileXLSX(r)
	default:
		return "", domain.WrapError(domain.ErrMalformed, "dataset",
			fmt.Errorf("unsupported dataset format %q, expected .csv or .xlsx", filename))
	}
}

func profileCSV(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.WrapError(domain.ErrMalformed, "dataset", fmt.Errorf("parse csv: %w", err))
		}
		rows = append(rows, record)
	}
	return digest(rows)
}

func profileXLSX(r io.Reader) (string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return "", domain.WrapError(domain.ErrMalformed, "dataset", fmt.Errorf("open workbook: %w", err))
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return "", domain.WrapError(domain.ErrMalformed, "dataset", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return "", domain.WrapError(domain.ErrMalformed, "dataset", fmt.Errorf("read sheet %s: %w", sheets[0], err))
	}
	return digest(rows)
}

func digest(rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", domain.WrapError(domain.ErrMalformed, "dataset", fmt.Errorf("dataset is empty"))
	}

	header := rows[0]
	if len(header) > maxColumns {
		header = header[:maxColumns]
	}
	dataRows := rows[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "Columns (%d): %s\n", len(header), strings.Join(header, ", "))
	fmt.Fprintf(&b, "Data rows: %d\n", len(dataRows))

	sample := dataRows
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}
	if len(sample) > 0 {
		b.WriteString("Sample rows:\n")
		for _, row := range sample {
			if len(row) > maxColumns {
				row = row[:maxColumns]
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(row, " | "))
		}
	}
	return strings.TrimSpace(b.String()), nil
}
