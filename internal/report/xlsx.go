package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const XLSXFile = "dashboard.xlsx"

const (
	resultsSheet  = "Results"
	overviewSheet = "Overview"
	failedSheet   = "Skipped files"
)

var resultsHeader = []any{"File", "Run", "Group", "Samples", "Avg RT (ms)", "Success (%)", "Throughput (req/s)", "Supplementary"}

func writeXLSX(path string, d *Dashboard) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	if err = f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err = writeResultsSheet(f, d); err != nil {
		return err
	}

	if _, err = f.NewSheet(overviewSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	overview := [][]any{
		{"Title", d.Title},
		{"Generated", d.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Test runs", d.Stats.Runs},
		{"Rows", d.Stats.Rows},
		{"Mean avg RT (ms)", d.Stats.MeanAvgElapsed},
		{"Mean success (%)", d.Stats.MeanSuccessRate},
		{"Mean throughput (req/s)", d.Stats.MeanThroughput},
	}
	if err = setRows(f, overviewSheet, 1, overview); err != nil {
		return err
	}

	if len(d.Failed) > 0 {
		if _, err = f.NewSheet(failedSheet); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		rows := [][]any{{"File", "Reason"}}
		for _, failure := range d.Failed {
			rows = append(rows, []any{failure.File, failure.Reason})
		}
		if err = setRows(f, failedSheet, 1, rows); err != nil {
			return err
		}
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func writeResultsSheet(f *excelize.File, d *Dashboard) error {
	rows := make([][]any, 0, len(d.Rows)+1)
	rows = append(rows, resultsHeader)
	for i := range d.Rows {
		row := &d.Rows[i]
		rows = append(rows, []any{
			row.File,
			row.RunLabel,
			string(row.Group),
			row.Count,
			row.AvgElapsed,
			row.SuccessRate,
			row.Throughput,
			row.Supplementary,
		})
	}
	if err := setRows(f, resultsSheet, 1, rows); err != nil {
		return err
	}

	if err := f.SetColWidth(resultsSheet, "A", "A", 36); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(resultsSheet, "B", "H", 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err = f.SetCellStyle(resultsSheet, "A1", "H1", header); err != nil {
		return fmt.Errorf("failed to apply style: %w", err)
	}

	if len(d.Rows) == 0 {
		return nil
	}

	// two decimals, matching the HTML table
	fixed, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(7, len(d.Rows)+1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(resultsSheet, "E2", last, fixed); err != nil {
		return fmt.Errorf("failed to apply style: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, startRow int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, startRow+i, err)
		}
	}
	return nil
}
