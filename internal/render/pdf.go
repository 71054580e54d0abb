package render

import (
	"bytes"

	"attendance.service/internal/core/model"
	"github.com/go-pdf/fpdf"
)

var pdfColumnWidths = []float64{28, 60, 70, 40, 26, 26}

// renderPDF lays the rows out as a bordered table, one page-wide header row
// repeated nowhere (short reports; long ones just flow across pages).
func renderPDF(rows []model.AttendanceRow) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Attendance Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 10)
	for i, col := range columns {
		pdf.CellFormat(pdfColumnWidths[i], 8, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		cells := []string{row.Date, row.Employee, row.Email, row.Identifier, row.ClockIn, row.ClockOut}
		for i, cell := range cells {
			pdf.CellFormat(pdfColumnWidths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
