package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/jask/trainlog/internal/database/repository"
	"github.com/jask/trainlog/internal/signature"
)

const (
	sheetRowHeight = 20.0
	sheetHeadH     = 8.0
)

var sheetColumns = []struct {
	title string
	width float64
}{
	{"#", 10},
	{"Name", 55},
	{"ID number", 35},
	{"Signed at", 35},
	{"Signature", 55},
}

// ReportService renders printable attendance sheets.
type ReportService struct {
	Register   *RegisterService
	DateFormat string
}

// WriteAttendanceSheet renders an A4 PDF for one training: a header with the
// training details and one row per signer with the signature image.
func (s *ReportService) WriteAttendanceSheet(ctx context.Context, w io.Writer, trainingID string) error {
	t, err := s.Register.GetTraining(ctx, trainingID)
	if err != nil {
		return err
	}
	signers, err := s.Register.ListAttendance(ctx, trainingID)
	if err != nil {
		return err
	}
	dateFormat := s.DateFormat
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Attendance - "+t.Name), false)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Training attendance sheet"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	details := [][2]string{
		{"Training", t.Name},
		{"Type", t.Type},
		{"Date", t.Date.Format(dateFormat)},
		{"Hours", strconv.FormatFloat(t.Hours, 'f', -1, 64)},
		{"Attendee", t.Attendee},
	}
	for _, d := range details {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(30, 6, tr(d[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr(d[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writeSheetHeader(pdf, tr)
	if len(signers) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 10, tr("No attendance recorded yet."), "1", 1, "C", false, 0, "")
	}

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, a := range signers {
		if pdf.GetY()+sheetRowHeight > pageH-bottom {
			pdf.AddPage()
			writeSheetHeader(pdf, tr)
		}
		writeSheetRow(pdf, tr, i+1, a, dateFormat)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render attendance sheet: %w", err)
	}
	return pdf.Output(w)
}

func writeSheetHeader(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range sheetColumns {
		pdf.CellFormat(c.width, sheetHeadH, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
}

func writeSheetRow(pdf *gofpdf.Fpdf, tr func(string) string, n int, a repository.Attendance, dateFormat string) {
	cells := []string{
		strconv.Itoa(n),
		a.Name,
		a.IDNumber,
		a.SignedAt.Local().Format(dateFormat + " 15:04"),
	}
	for i, text := range cells {
		pdf.CellFormat(sheetColumns[i].width, sheetRowHeight, tr(text), "1", 0, "L", false, 0, "")
	}
	sigCol := sheetColumns[len(sheetColumns)-1]
	x, y := pdf.GetXY()
	pdf.CellFormat(sigCol.width, sheetRowHeight, "", "1", 1, "L", false, 0, "")

	art, err := signature.ParseDataURI(a.Signature)
	if err != nil || art.Height == 0 {
		return
	}
	name := "sig-" + a.ID
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(art.PNG))
	h := sheetRowHeight - 2
	w := h * float64(art.Width) / float64(art.Height)
	if w > sigCol.width-2 {
		w = sigCol.width - 2
		h = w * float64(art.Height) / float64(art.Width)
	}
	pdf.ImageOptions(name, x+1, y+1, w, h, false, opts, 0, "")
}
