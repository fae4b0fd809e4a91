package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	rows []domain.RawRecord
	err  error
}

func (m *mockSource) ReadAll(_ context.Context) ([]domain.RawRecord, error) {
	return m.rows, m.err
}

type mockSink struct {
	published []domain.CleanRecord
	err       error
}

func (m *mockSink) PublishRecords(_ context.Context, records []domain.CleanRecord) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, records...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func rawRow(date, eventType string, fatalities, injuries int, propDmg float64, propExp string) domain.RawRecord {
	return domain.RawRecord{
		BeginDate:     date,
		EventType:     eventType,
		Fatalities:    fatalities,
		Injuries:      injuries,
		PropDamage:    propDmg,
		PropDamageExp: propExp,
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	fixedTime := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixedTime))
	t.Cleanup(func() { domain.SetClock(nil) })

	src := &mockSource{rows: []domain.RawRecord{
		rawRow("4/27/2011 0:00:00", "TORNADO", 3, 50, 2.5, "M"),
		rawRow("4/27/2011 0:00:00", "TSTM WIND", 0, 0, 0, ""), // zero impact, dropped
		rawRow("6/9/2005 0:00:00", "FLOOD/FLASH FLOOD", 0, 1, 10, "K"),
	}}
	metrics := newTestMetrics()

	p := pipeline.New(src, domain.NormalizerFunc(domain.NormalizeEventType), nil, discardLogger(), metrics)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 2, report.RowsKept)
	assert.Equal(t, fixedTime, report.GeneratedAt)

	// Surviving rows keep input order.
	require.Len(t, report.Records, 2)
	assert.Equal(t, "Tornado", report.Records[0].EventType)
	assert.Equal(t, "Flood", report.Records[1].EventType)
	assert.InDelta(t, 2_500_000, report.Records[0].PropertyDamage, 1e-6)

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.RowsRead))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.RowsKept))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RowsDropped))
}

func TestPipeline_Run_EmptyTable(t *testing.T) {
	p := pipeline.New(&mockSource{}, domain.NormalizerFunc(domain.NormalizeEventType), nil, discardLogger(), newTestMetrics())

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyTable)
}

func TestPipeline_Run_SourceError(t *testing.T) {
	src := &mockSource{err: errors.New("disk gone")}
	p := pipeline.New(src, domain.NormalizerFunc(domain.NormalizeEventType), nil, discardLogger(), newTestMetrics())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load raw table")
}

func TestPipeline_Run_MalformedDateAborts(t *testing.T) {
	src := &mockSource{rows: []domain.RawRecord{
		rawRow("4/27/2011 0:00:00", "TORNADO", 1, 0, 0, ""),
		rawRow("2011-04-27", "HAIL", 1, 0, 0, ""), // wrong format
	}}
	p := pipeline.New(src, domain.NormalizerFunc(domain.NormalizeEventType), nil, discardLogger(), newTestMetrics())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedDate)
	assert.Contains(t, err.Error(), "row 3") // header-inclusive row number
}

func TestPipeline_Run_PublishesToSink(t *testing.T) {
	src := &mockSource{rows: []domain.RawRecord{
		rawRow("4/27/2011 0:00:00", "TORNADO", 1, 0, 0, ""),
	}}
	sink := &mockSink{}
	metrics := newTestMetrics()
	p := pipeline.New(src, domain.NormalizerFunc(domain.NormalizeEventType), sink, discardLogger(), metrics)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.published, 1)
	assert.Equal(t, "Tornado", sink.published[0].EventType)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RecordsPublished))
}

func TestPipeline_Run_SinkErrorFailsRun(t *testing.T) {
	src := &mockSource{rows: []domain.RawRecord{
		rawRow("4/27/2011 0:00:00", "TORNADO", 1, 0, 0, ""),
	}}
	sink := &mockSink{err: errors.New("broker down")}
	p := pipeline.New(src, domain.NormalizerFunc(domain.NormalizeEventType), sink, discardLogger(), newTestMetrics())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish clean records")
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	src := &mockSource{rows: []domain.RawRecord{
		rawRow("4/27/2011 0:00:00", "TORNADO", 3, 50, 2.5, "M"),
		rawRow("6/9/2005 0:00:00", "HEAT", 10, 0, 0, ""),
	}}

	run := func() *domain.Report {
		p := pipeline.New(src, domain.NormalizerFunc(domain.NormalizeEventType), nil, discardLogger(), newTestMetrics())
		report, err := p.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("pipeline not idempotent (-first +second):\n%s", diff)
	}
}
