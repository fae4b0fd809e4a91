// Package xlsx writes the ranked summary tables to an Excel workbook for
// analysts who want the numbers without running the charting pipeline.
package xlsx

import (
	"fmt"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	excelize "github.com/xuri/excelize/v2"
)

const (
	sheetRunInfo    = "Run Info"
	sheetFatalities = "Fatalities"
	sheetInjuries   = "Injuries"
	sheetDamage     = "Economic Damage"
)

// WriteReport saves the report's summary tables as a workbook at path.
func WriteReport(report *domain.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRunInfo); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if err := writeRunInfo(f, report); err != nil {
		return err
	}

	tables := []struct {
		sheet string
		rows  []domain.SummaryRow
	}{
		{sheetFatalities, report.TopFatalities},
		{sheetInjuries, report.TopInjuries},
		{sheetDamage, report.TopDamage},
	}
	for _, tbl := range tables {
		if err := writeSummarySheet(f, tbl.sheet, tbl.rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRunInfo(f *excelize.File, report *domain.Report) error {
	info := [][2]any{
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{"Rows Read", report.RowsRead},
		{"Rows Kept", report.RowsKept},
	}
	for i, kv := range info {
		if err := setCell(f, sheetRunInfo, 1, i+1, kv[0]); err != nil {
			return err
		}
		if err := setCell(f, sheetRunInfo, 2, i+1, kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, rows []domain.SummaryRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	headers := []string{"Rank", "Event Type", "Metric", "Value"}
	for col, h := range headers {
		if err := setCell(f, sheet, col+1, 1, h); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []any{i + 1, row.EventType, row.Metric, row.Value}
		for col, v := range values {
			if err := setCell(f, sheet, col+1, i+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}
