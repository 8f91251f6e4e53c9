// Package importfile decodes term import files into raw entries
package importfile

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"

	"controlledlists/internal/domain"
)

// PreviewSize is the number of rows shown before importing
const PreviewSize = 5

// ErrInvalidFormat is returned when a file holds no usable rows
var ErrInvalidFormat = errors.New("invalid file format: expected value, label and description columns")

// Format of an import file
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

// FormatFor picks the format from the file extension; anything but .json is CSV
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// ParseFile reads and decodes the file at path
func ParseFile(path string) ([]domain.ImportEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, FormatFor(path))
}

// Parse decodes rows. Unknown columns or keys are ignored; rows without a
// value are dropped and a blank label defaults to the value.
func Parse(in io.Reader, format Format) ([]domain.ImportEntry, error) {
	var (
		rows []map[string]any
		err  error
	)
	switch format {
	case FormatJSON:
		rows, err = decodeJSON(in)
	default:
		rows, err = decodeCSV(in)
	}
	if err != nil {
		return nil, err
	}

	var entries []domain.ImportEntry
	for _, row := range rows {
		var e domain.ImportEntry
		if err := mapstructure.WeakDecode(row, &e); err != nil {
			continue
		}
		e.Value = strings.TrimSpace(e.Value)
		e.Label = strings.TrimSpace(e.Label)
		e.Description = strings.TrimSpace(e.Description)
		if e.Label == "" {
			e.Label = e.Value
		}
		if e.Value == "" || e.Label == "" {
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, ErrInvalidFormat
	}
	return entries, nil
}

func decodeJSON(in io.Reader) ([]map[string]any, error) {
	var raw any
	if err := json.NewDecoder(in).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, ErrInvalidFormat
	}
	var rows []map[string]any
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, lowerKeys(m))
		}
	}
	return rows, nil
}

func decodeCSV(in io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrInvalidFormat
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Preview returns the first PreviewSize entries and how many are left
func Preview(entries []domain.ImportEntry) ([]domain.ImportEntry, int) {
	if len(entries) <= PreviewSize {
		return entries, 0
	}
	return entries[:PreviewSize], len(entries) - PreviewSize
}
