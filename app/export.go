package app

import (
	"context"
	"io"
	"sort"

	"gazecenter/adapters/excel"
	"gazecenter/domain/core"
	"gazecenter/internal/errors"
)

// SummaryRows flattens analyses into spreadsheet rows
func SummaryRows(analyses []*Analysis) []excel.SummaryRow {
	rows := make([]excel.SummaryRow, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, excel.SummaryRow{
			Label:             a.Label,
			Scope:             a.Scope,
			RadiusDeg:         a.Region.RadiusDeg,
			RadiusPx:          a.Region.RadiusPx,
			Total:             a.Summary.Total,
			Inside:            a.Summary.Inside,
			Outside:           a.Summary.Outside,
			InsideRatio:       a.Summary.InsideRatio,
			OutsideRatio:      a.Summary.OutsideRatio,
			MeanDistancePx:    a.Distances.Pixels.Mean,
			MedianDistanceDeg: a.Distances.Degrees.Median,
			Outliers:          a.Distances.Outliers,
		})
	}
	return rows
}

// Export analyzes every participant and the aggregate at radiusDeg and writes
// the workbook to w. A participant that fails to load fails the export.
func (s *AnalysisService) Export(ctx context.Context, w io.Writer, radiusDeg float64) error {
	analyses, failures, err := s.AnalyzeAll(ctx, radiusDeg)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return firstFailure(failures)
	}
	return excel.ExportSummaries(w, SummaryRows(analyses))
}

// FailedIDs returns the participants of a failure map in name order
func FailedIDs(failures map[core.ParticipantID]error) []core.ParticipantID {
	ids := make([]core.ParticipantID, 0, len(failures))
	for id := range failures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// firstFailure picks the failure of the first participant in name order
func firstFailure(failures map[core.ParticipantID]error) error {
	ids := FailedIDs(failures)
	return errors.Wrapf(failures[ids[0]], "%d participant(s) failed to load", len(ids))
}
