// Package importer loads the ingredient catalog from CSV or JSON files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodgram-backend/logging"
	"foodgram-backend/models"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultBatchSize = 500

type Record struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type Result struct {
	Read     int
	Inserted int64
	Skipped  int64
}

// ReadFile picks the format from the file extension.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}

// ReadCSV reads headerless "name,unit" rows.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("csv line %d: expected name and unit, got %d fields", line, len(row))
		}
		records = append(records, Record{Name: row[0], MeasurementUnit: row[1]})
	}
	return normalize(records), nil
}

func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return normalize(records), nil
}

// Load inserts records in batches. Rows whose (name, unit) pair is already
// in the catalog are left alone, so the import can be rerun safely.
func Load(ctx context.Context, db *gorm.DB, records []Record, batchSize int) (Result, error) {
	result := Result{Read: len(records)}
	if len(records) == 0 {
		return result, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	rows := make([]models.Ingredient, len(records))
	for i, rec := range records {
		rows[i] = models.Ingredient{Name: rec.Name, MeasurementUnit: rec.MeasurementUnit}
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, batchSize)
	if res.Error != nil {
		return result, fmt.Errorf("insert ingredients: %w", res.Error)
	}

	result.Inserted = res.RowsAffected
	result.Skipped = int64(result.Read) - result.Inserted
	logging.Info().
		Int("read", result.Read).
		Int64("inserted", result.Inserted).
		Int64("skipped", result.Skipped).
		Msg("ingredient catalog imported")
	return result, nil
}

// normalize trims fields, drops blank rows and keeps the first occurrence
// of each (name, unit) pair.
func normalize(records []Record) []Record {
	seen := make(map[Record]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		rec.Name = strings.TrimSpace(rec.Name)
		rec.MeasurementUnit = strings.TrimSpace(rec.MeasurementUnit)
		if rec.Name == "" || rec.MeasurementUnit == "" || seen[rec] {
			continue
		}
		seen[rec] = true
		out = append(out, rec)
	}
	return out
}
