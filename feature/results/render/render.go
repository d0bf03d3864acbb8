package render

import (
	"bytes"
	"fmt"
	"time"

	"document-manager/feature/results/models"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Report text.
const (
	Title  = "Medical Appointment Report"
	Footer = "Thank you for choosing our clinic. We wish you continued good health and look forward to serving you again."

	AppointmentDateLayout = "02 January 2006, 15:04"
	BirthDateLayout       = "01/02/2006"
)

const (
	marginMM    = 15
	fontFamily  = "Go"
	labelSizePt = 10
	valueSizePt = 12
	lineMM      = 6
)

// Renderer turns an appointment result into a document.
type Renderer interface {
	Render(result models.AppointmentResult) ([]byte, error)
}

// RenderError reports a failure inside the PDF encoder.
type RenderError struct {
	ResultID string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render report %s: %v", e.ResultID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Permanent reports that redelivery cannot help: rendering is deterministic.
func (e *RenderError) Permanent() bool { return true }

// Field is one labelled line of the report.
type Field struct {
	Label string
	Value string
}

// Fields lists the report body in print order.
func Fields(r models.AppointmentResult) []Field {
	return []Field{
		{"Appointment Date", r.Date.Format(AppointmentDateLayout)},
		{"Patient Name", r.PatientFullName},
		{"Date of Birth", r.PatientBirthDate.Format(BirthDateLayout)},
		{"Doctor's Name", r.DoctorFullName},
		{"Specialization", r.SpecializationName},
		{"Service Provided", r.ServiceName},
		{"Patient Complaints", r.Complaints},
		{"Conclusions", r.Conclusion},
		{"Recommendations", r.Recommendations},
	}
}

// PDFRenderer renders A4 reports with fpdf. It holds no state and is safe
// for concurrent use.
type PDFRenderer struct{}

// NewPDFRenderer returns a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces the report. Output depends only on the input: document
// dates are pinned to the appointment date.
func (PDFRenderer) Render(r models.AppointmentResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	stamp := r.Date.Time
	if stamp.IsZero() {
		stamp = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetProducer("document-manager", false)

	// Embedded Go fonts cover Latin, Greek and Cyrillic names.
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	if err := pdf.Error(); err != nil {
		return nil, &RenderError{ResultID: r.ResultID.String(), Err: err}
	}

	pdf.SetTitle(Title, true)
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM+lineMM*3)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-(marginMM + lineMM*2))
		pdf.SetFont(fontFamily, "I", labelSizePt)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, lineMM-1, Footer, "T", "C", false)
	})

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, Title, "B", 1, "C", false, 0, "")
	pdf.Ln(lineMM)

	for _, f := range Fields(r) {
		pdf.SetFont(fontFamily, "B", labelSizePt)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(0, lineMM, f.Label+":", "", 1, "L", false, 0, "")

		pdf.SetFont(fontFamily, "", valueSizePt)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, lineMM, f.Value, "", "L", false)
		pdf.Ln(lineMM / 2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{ResultID: r.ResultID.String(), Err: err}
	}
	return buf.Bytes(), nil
}
