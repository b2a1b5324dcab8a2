// Package marketdata loads daily price series from external sources.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"meanrev-lab/internal/domain"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadCSV reads a daily close series from a CSV file with columns date,close.
// A header row is detected and skipped. Rows must be parseable; validation of
// ordering and values is left to domain.ValidateSeries.
func LoadCSV(path, symbol string) ([]domain.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	bars, err := ReadBars(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return bars, nil
}

// ReadBars parses date,close records from r.
func ReadBars(r io.Reader, symbol string) ([]domain.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var bars []domain.PriceBar
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		line++

		if line == 1 && isHeader(record) {
			continue
		}

		date, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		close, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse close %q: %w", line, record[1], err)
		}

		bars = append(bars, domain.PriceBar{
			Symbol: symbol,
			Date:   date,
			Close:  close,
		})
	}

	if err := domain.ValidateSeries(bars); err != nil {
		return nil, err
	}

	return bars, nil
}

// isHeader reports whether the first record looks like a column header.
func isHeader(record []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	return err != nil
}

// parseDate normalizes the date column to UTC midnight.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: unsupported format", s)
}
