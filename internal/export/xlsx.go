// Package export renders batch results to an XLSX workbook for review by
// registry staff.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KhanhD1nh/compare-gcn/constants"
	"github.com/KhanhD1nh/compare-gcn/internal/core"
)

const sheet = "GCN Comparison Results"

// Column headers match the original tool's spreadsheet so downstream review
// workflows keep working.
var headers = []string{"Số thứ tự", "Tên tệp GCN", "Dự đoán", "Kết quả"}

// ResultsXLSX returns an XLSX workbook (as bytes) listing one row per
// processing result, in batch order, with the verdict column color-coded:
// green for matches, amber for results needing correction.
func ResultsXLSX(results []core.Result, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	matchStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
		Font:      &excelize.Font{Bold: true, Color: "006100"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("match style: %w", err)
	}
	mismatchStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFEB9C"}},
		Font:      &excelize.Font{Bold: true, Color: "9C6500"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("mismatch style: %w", err)
	}
	centerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("center style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for rowIdx, r := range results {
		row := rowIdx + 2
		display := constants.DisplayVerdict(r.Verdict)
		values := []any{r.SequenceIndex, r.FileName, r.RecognizedID, display}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
			if n := len(fmt.Sprintf("%v", v)); n > widths[col] {
				widths[col] = n
			}
		}

		indexCell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellStyle(sheet, indexCell, indexCell, centerStyle)

		verdictCell, _ := excelize.CoordinatesToCellName(4, row)
		switch r.Verdict {
		case constants.VerdictMatch:
			_ = f.SetCellStyle(sheet, verdictCell, verdictCell, matchStyle)
		case constants.VerdictMismatch:
			_ = f.SetCellStyle(sheet, verdictCell, verdictCell, mismatchStyle)
		default:
			_ = f.SetCellStyle(sheet, verdictCell, verdictCell, centerStyle)
		}
	}

	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		w := float64(widths[i] + 2)
		if w > 50 {
			w = 50
		}
		_ = f.SetColWidth(sheet, colName, colName, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(results),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
