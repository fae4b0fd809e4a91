// Package csvfile loads RawRecords from Storm Events bulk CSV files,
// transparently decompressing the NOAA ".csv.bz2" distribution format.
package csvfile

import (
	"compress/bzip2"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Column names of the Storm Events bulk CSV consumed by the pipeline.
const (
	colBeginDate     = "BGN_DATE"
	colEventType     = "EVTYPE"
	colFatalities    = "FATALITIES"
	colInjuries      = "INJURIES"
	colPropDamage    = "PROPDMG"
	colPropDamageExp = "PROPDMGEXP"
	colCropDamage    = "CROPDMG"
	colCropDamageExp = "CROPDMGEXP"
)

var requiredColumns = []string{
	colBeginDate,
	colEventType,
	colFatalities,
	colInjuries,
	colPropDamage,
	colPropDamageExp,
	colCropDamage,
	colCropDamageExp,
}

// Reader reads the full raw table from a CSV file on disk.
// It implements pipeline.RecordSource.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given path (.csv or .csv.bz2).
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ReadAll loads every data row into memory. The archive has far more columns
// than the pipeline uses; unknown columns are ignored and rows shorter than
// the header are skipped, matching how the raw archive is actually shaped.
// Missing required columns or a headerless/empty file are fatal.
func (r *Reader) ReadAll(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open source table: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(r.path, ".bz2") {
		src = bzip2.NewReader(f)
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // legacy rows have ragged widths

	header, err := reader.Read()
	if err == io.EOF {
		return nil, domain.ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, col)
		}
	}

	var rows []domain.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, domain.RawRecord{
			BeginDate:     get(row, colIdx, colBeginDate),
			EventType:     get(row, colIdx, colEventType),
			Fatalities:    domain.ParseCount(get(row, colIdx, colFatalities)),
			Injuries:      domain.ParseCount(get(row, colIdx, colInjuries)),
			PropDamage:    domain.ParseFloatOrZero(get(row, colIdx, colPropDamage)),
			PropDamageExp: get(row, colIdx, colPropDamageExp),
			CropDamage:    domain.ParseFloatOrZero(get(row, colIdx, colCropDamage)),
			CropDamageExp: get(row, colIdx, colCropDamageExp),
		})
	}

	if len(rows) == 0 {
		return nil, domain.ErrEmptyTable
	}

	r.logger.Info("source table read", "path", r.path, "rows", len(rows))
	return rows, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
