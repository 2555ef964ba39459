package report

import (
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"cv-analyzer/internal/shared/telemetry"
)

// Row is one analysis in the spreadsheet export.
type Row struct {
	AnalysisID      string
	Name            string
	Email           string
	TargetRole      string
	ExperienceLevel string
	Status          string
	OverallScore    *int
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// SheetName is the single worksheet in the export.
const SheetName = "Analyses"

var exportHeaders = []string{
	"Analysis ID", "Name", "Email", "Target Role", "Experience Level",
	"Status", "Overall Score", "Created At", "Completed At",
}

// XLSX renders rows as a workbook.
func XLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			telemetry.Warn("report.xlsx_close_failed", map[string]any{"error": err})
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	if err := writeHeader(f, exportHeaders); err != nil {
		return nil, errors.Wrap(err, "write xlsx header")
	}
	for i, r := range rows {
		values := []any{
			r.AnalysisID, r.Name, r.Email, r.TargetRole, r.ExperienceLevel, r.Status,
			nil, r.CreatedAt.UTC().Format(time.RFC3339), nil,
		}
		if r.OverallScore != nil {
			values[6] = *r.OverallScore
		}
		if r.CompletedAt != nil {
			values[8] = r.CompletedAt.UTC().Format(time.RFC3339)
		}
		if err := writeRow(f, i+2, values); err != nil {
			return nil, errors.Wrapf(err, "write xlsx row %d", i+2)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx")
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", last, 22); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", style); err != nil {
		return err
	}
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, 1, values)
}

func writeRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}
