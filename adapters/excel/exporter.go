package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gazecenter/internal/errors"
)

// SummarySheet is the name of the sheet holding one row per analysis
const SummarySheet = "Summaries"

// SummaryHeaders is the header row of the summary sheet
var SummaryHeaders = []string{
	"Label", "Scope", "Radius (deg)", "Radius (px)",
	"Total", "Inside", "Outside", "Inside ratio", "Outside ratio",
	"Mean distance (px)", "Median distance (deg)", "Outliers",
}

// SummaryRow is one exported analysis
type SummaryRow struct {
	Label             string
	Scope             string
	RadiusDeg         float64
	RadiusPx          float64
	Total             int
	Inside            int
	Outside           int
	InsideRatio       float64
	OutsideRatio      float64
	MeanDistancePx    float64
	MedianDistanceDeg float64
	Outliers          int
}

func (r SummaryRow) values() []interface{} {
	return []interface{}{
		r.Label, r.Scope, r.RadiusDeg, r.RadiusPx,
		r.Total, r.Inside, r.Outside, r.InsideRatio, r.OutsideRatio,
		r.MeanDistancePx, r.MedianDistanceDeg, r.Outliers,
	}
}

// ExportSummaries writes rows as an XLSX workbook to w
func ExportSummaries(w io.Writer, rows []SummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, "failed to name summary sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	ratioStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return errors.Wrap(err, "failed to create ratio style")
	}

	for i, h := range SummaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SummarySheet, cell, h); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(SummaryHeaders), 1)
	if err := f.SetCellStyle(SummarySheet, "A1", last, headerStyle); err != nil {
		return errors.Wrap(err, "failed to style header")
	}

	for r, row := range rows {
		rowIdx := r + 2
		for c, v := range row.values() {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(SummarySheet, cell, v); err != nil {
				return errors.Wrap(err, fmt.Sprintf("failed to write row %d", rowIdx))
			}
		}
	}
	if len(rows) > 0 {
		end := len(rows) + 1
		if err := f.SetCellStyle(SummarySheet, "H2", fmt.Sprintf("I%d", end), ratioStyle); err != nil {
			return errors.Wrap(err, "failed to style ratios")
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return errors.Wrap(err, "failed to size label column")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}
