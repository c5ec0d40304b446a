package services

import (
	"bytes"
	"fmt"
	"time"

	"muafin_web_go/models"

	"github.com/xuri/excelize/v2"
)

const submissionSheet = "Submissions"

var submissionHeaders = []string{
	"Created At (UTC)",
	"Outcome",
	"Request Type",
	"Source Page",
	"Language",
	"Client (hashed)",
	"User Agent",
	"Duration (ms)",
	"Error",
}

// ExportSubmissionAttempts renders attempts as an .xlsx workbook with a
// summary sheet counting outcomes.
func ExportSubmissionAttempts(attempts []models.SubmissionAttempt) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", submissionSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range submissionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(submissionSheet, cell, header)
		f.SetCellStyle(submissionSheet, cell, cell, headerStyle)
	}

	counts := make(map[models.SubmissionOutcome]int)
	for i, a := range attempts {
		row := i + 2
		values := []interface{}{
			a.CreatedAt.UTC().Format(time.RFC3339),
			string(a.Outcome),
			a.RequestType,
			a.SourcePage,
			a.Language,
			a.IPHash,
			a.UserAgent,
			a.DurationMS,
			a.ErrorDetail,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(submissionSheet, cell, v)
		}
		counts[a.Outcome]++
	}

	summary := "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	f.SetCellValue(summary, "A1", "Outcome")
	f.SetCellValue(summary, "B1", "Count")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)

	outcomes := []models.SubmissionOutcome{
		models.OutcomeSuccess,
		models.OutcomeValidationError,
		models.OutcomeSubmissionError,
		models.OutcomeRejected,
	}
	for i, outcome := range outcomes {
		row := i + 2
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), string(outcome))
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), counts[outcome])
	}
	f.SetCellValue(summary, fmt.Sprintf("A%d", len(outcomes)+2), "total")
	f.SetCellValue(summary, fmt.Sprintf("B%d", len(outcomes)+2), len(attempts))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
