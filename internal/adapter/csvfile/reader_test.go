package csvfile

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReader_ReadAll(t *testing.T) {
	r := NewReader(filepath.Join("testdata", "storm_events_sample.csv"), discardLogger())

	rows, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 8)

	first := rows[0]
	assert.Equal(t, "4/18/1950 0:00:00", first.BeginDate)
	assert.Equal(t, "TORNADO", first.EventType)
	assert.Equal(t, 0, first.Fatalities)
	assert.Equal(t, 15, first.Injuries)
	assert.Equal(t, 25.0, first.PropDamage)
	assert.Equal(t, "K", first.PropDamageExp)
	assert.Zero(t, first.CropDamage)
	assert.Empty(t, first.CropDamageExp)

	bridgeCreek := rows[3]
	assert.Equal(t, "TORNADO", bridgeCreek.EventType)
	assert.Equal(t, 36, bridgeCreek.Fatalities)
	assert.Equal(t, 583, bridgeCreek.Injuries)
	assert.Equal(t, "B", bridgeCreek.PropDamageExp)

	unknownExp := rows[7]
	assert.Equal(t, "HAIL", unknownExp.EventType)
	assert.Equal(t, "?", unknownExp.PropDamageExp)
}

func TestReader_ReadAll_Bzip2(t *testing.T) {
	plain := NewReader(filepath.Join("testdata", "storm_events_sample.csv"), discardLogger())
	compressed := NewReader(filepath.Join("testdata", "storm_events_sample.csv.bz2"), discardLogger())

	plainRows, err := plain.ReadAll(context.Background())
	require.NoError(t, err)
	compressedRows, err := compressed.ReadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, plainRows, compressedRows)
}

func TestReader_ReadAll_MissingColumn(t *testing.T) {
	r := NewReader(filepath.Join("testdata", "missing_column.csv"), discardLogger())

	_, err := r.ReadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
	assert.Contains(t, err.Error(), "PROPDMGEXP")
}

func TestReader_ReadAll_EmptyTable(t *testing.T) {
	r := NewReader(filepath.Join("testdata", "header_only.csv"), discardLogger())

	_, err := r.ReadAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyTable)
}

func TestReader_ReadAll_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join("testdata", "does_not_exist.csv"), discardLogger())

	_, err := r.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open source table")
}

func TestReader_ReadAll_CancelledContext(t *testing.T) {
	r := NewReader(filepath.Join("testdata", "storm_events_sample.csv"), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
