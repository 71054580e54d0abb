// Package render turns ordered attendance rows into report documents. It is
// a pure function of its input: no storage, no job state.
package render

import (
	"fmt"

	"attendance.service/internal/core/model"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// columns is the fixed header order every format renders.
var columns = []string{"Date", "Employee", "Email", "Identifier", "Clock In", "Clock Out"}

// Renderer is the document-renderer contract consumed by the report worker.
type Renderer interface {
	Render(rows []model.AttendanceRow, format model.ReportFormat) (buf []byte, contentType string, err error)
}

// DocumentRenderer renders PDF via fpdf and spreadsheets via excelize.
type DocumentRenderer struct{}

func NewDocumentRenderer() *DocumentRenderer {
	return &DocumentRenderer{}
}

func (r *DocumentRenderer) Render(rows []model.AttendanceRow, format model.ReportFormat) ([]byte, string, error) {
	switch format {
	case model.FormatPDF:
		buf, err := renderPDF(rows)
		return buf, ContentTypePDF, err
	case model.FormatExcel:
		buf, err := renderExcel(rows)
		return buf, ContentTypeXLSX, err
	default:
		return nil, "", fmt.Errorf("unsupported report format %q", format)
	}
}
