// Command report runs the storm impact batch pipeline: it loads the Storm
// Events bulk CSV (from a local path or a URL with a download cache), cleans
// and normalizes it, and writes ranked health and economic impact summaries.
//
// Usage:
//
//	go run ./cmd/report \
//	  -input StormData.csv.bz2 \
//	  -json-out report.json \
//	  -clean-out clean_records.ndjson \
//	  -xlsx-out storm_impact.xlsx
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvfile"
	"github.com/couchcryptid/storm-impact-report/internal/adapter/fetch"
	kafkaadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-impact-report/internal/adapter/xlsx"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

func main() {
	input := flag.String("input", "", "path or URL of the Storm Events CSV (.csv or .csv.bz2)")
	jsonOut := flag.String("json-out", "", "write the summary report as JSON to this path (default stdout)")
	cleanOut := flag.String("clean-out", "", "write the clean table as NDJSON to this path")
	xlsxOut := flag.String("xlsx-out", "", "write the summary workbook to this path")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, metrics, *input, *jsonOut, *cleanOut, *xlsxOut); err != nil {
		logger.Error("report run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics,
	input, jsonOut, cleanOut, xlsxOut string) error {

	path := input
	if isRemote(input) {
		fetched, err := fetch.New(cfg.FetchTimeout, logger).Fetch(ctx, input, cfg.DataCacheDir)
		if err != nil {
			return err
		}
		path = fetched
	}

	source := csvfile.NewReader(path, logger)
	normalizer := pipeline.NewCachedNormalizer(
		domain.NormalizerFunc(domain.NormalizeEventType),
		cfg.NormalizerCacheSize,
		metrics,
	)

	var sink pipeline.Sink
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sink = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	}

	report, err := pipeline.New(source, normalizer, sink, logger, metrics).Run(ctx)
	if err != nil {
		return err
	}

	if err := writeReportJSON(report, jsonOut); err != nil {
		return fmt.Errorf("write report JSON: %w", err)
	}
	if cleanOut != "" {
		if err := writeCleanNDJSON(report.Records, cleanOut); err != nil {
			return fmt.Errorf("write clean table: %w", err)
		}
		logger.Info("clean table written", "path", cleanOut, "records", len(report.Records))
	}
	if xlsxOut != "" {
		if err := xlsx.WriteReport(report, xlsxOut); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		logger.Info("workbook written", "path", xlsxOut)
	}

	logger.Info("report complete",
		"rows_read", report.RowsRead,
		"rows_kept", report.RowsKept,
		"generated_at", report.GeneratedAt,
	)
	return nil
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// writeReportJSON writes the summary report to path, or stdout when path is empty.
func writeReportJSON(report *domain.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// writeCleanNDJSON streams the clean table one JSON object per line, the
// shape the downstream histogramming consumer expects.
func writeCleanNDJSON(records []domain.CleanRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
