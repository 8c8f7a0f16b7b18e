package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/period"
)

// WriteKPIReport renders an employee's KPI summary for one period as a
// single-page A4 PDF.
func WriteKPIReport(w io.Writer, summary kpi.Summary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "KPI report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employee: %s", summary.EmployeeName)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Label(summary.Period)))
	pdf.Ln(10)

	if summary.Empty() {
		pdf.Cell(0, 8, "KPI not set for this period")
		return pdf.Output(w)
	}

	widths := []float64{70, 20, 30, 30, 30}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range []string{"Indicator", "Weight", "Target", "Actual", "Achievement"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range summary.Rows {
		cells := []string{
			row.IndicatorName,
			fmt.Sprintf("%.2f", row.Weight),
			valueCell(row.TargetValue, row.Unit),
			valueCell(row.ActualValue, row.Unit),
			row.Display,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Total score: %s", summary.ScoreDisplay)))
	return pdf.Output(w)
}

func valueCell(v *float64, unit string) string {
	if v == nil {
		return kpi.Dash
	}
	if unit == "" {
		return fmt.Sprintf("%g", *v)
	}
	return fmt.Sprintf("%g %s", *v, unit)
}
