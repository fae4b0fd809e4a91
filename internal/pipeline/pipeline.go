package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// RecordSource supplies the full raw table. The bulk load is the only
// blocking operation in the run, so it carries the context.
type RecordSource interface {
	ReadAll(ctx context.Context) ([]domain.RawRecord, error)
}

// Sink receives the clean table after a successful run. Optional.
type Sink interface {
	PublishRecords(ctx context.Context, records []domain.CleanRecord) error
}

// Pipeline runs the single-pass batch transform: raw table in, report out.
// It owns the clean table for the process lifetime; nothing mutates records
// after the run.
type Pipeline struct {
	source     RecordSource
	normalizer domain.Normalizer
	sink       Sink
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline. Pass a nil sink to skip publishing.
func New(source RecordSource, normalizer domain.Normalizer, sink Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:     source,
		normalizer: normalizer,
		sink:       sink,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes one load-clean-aggregate cycle and returns the report.
// Fail fast, no retries: the transform is deterministic, so any error means
// the input (not the run) is broken. A malformed begin date aborts the whole
// run with the offending row number.
func (p *Pipeline) Run(ctx context.Context) (*domain.Report, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	raws, err := p.source.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load raw table: %w", err)
	}
	if len(raws) == 0 {
		return nil, domain.ErrEmptyTable
	}
	p.logger.Info("raw table loaded", "rows", len(raws))

	records := make([]domain.CleanRecord, 0, len(raws))
	for i := range raws {
		rec, ok, err := domain.BuildCleanRecord(raws[i], p.normalizer)
		p.metrics.RowsRead.Inc()
		if err != nil {
			// Row numbers are 1-based and count the header, matching what
			// an operator sees when opening the CSV.
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if !ok {
			p.metrics.RowsDropped.Inc()
			continue
		}
		p.metrics.RowsKept.Inc()
		records = append(records, rec)
	}

	report := domain.BuildReport(records, len(raws))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("clean table built",
		"rows_read", report.RowsRead,
		"rows_kept", report.RowsKept,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if p.sink != nil {
		if err := p.sink.PublishRecords(ctx, records); err != nil {
			return nil, fmt.Errorf("publish clean records: %w", err)
		}
		p.metrics.RecordsPublished.Add(float64(len(records)))
		p.logger.Info("clean records published", "count", len(records))
	}

	return report, nil
}
