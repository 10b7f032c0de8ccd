package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"troskovi/internal/logger"
)

const (
	// Go fonts cover Latin Extended-A, so Serbian names print as typed.
	pdfFont      = "go"
	pdfRowHeight = 7.0
	photoSize    = 25.0
	photoPixels  = 240
)

type pdfRenderer struct {
	opts options
}

func (r *pdfRenderer) Format() Format { return FormatPDF }

func (r *pdfRenderer) Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.compress)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(doc.Title, true)
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.AddPage()

	if doc.PhotoPath != "" {
		if err := drawPhoto(pdf, doc.PhotoPath); err != nil {
			logger.Named("report").Warnw("Skipping person photo", "path", doc.PhotoPath, "error", err)
		}
	}

	pdf.SetFont(pdfFont, "B", 20)
	pdf.SetTextColor(0x2c, 0x3e, 0x50)
	pdf.CellFormat(0, 12, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, line := range doc.Info {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	for _, t := range doc.Tables() {
		pdf.Ln(6)
		drawTable(pdf, t)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTable(pdf *fpdf.Fpdf, t *Table) {
	pdf.SetFont(pdfFont, "B", 13)
	pdf.SetTextColor(0x34, 0x49, 0x5e)
	pdf.CellFormat(0, 8, t.Title, "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "B", 11)
	pdf.SetFillColor(hexRGB(t.HeaderColor))
	pdf.SetTextColor(255, 255, 255)
	drawRow(pdf, t, t.Header, true)

	pdf.SetFont(pdfFont, "", 10)
	pdf.SetTextColor(0, 0, 0)
	bodyFill := t.BodyColor != ""
	if bodyFill {
		pdf.SetFillColor(hexRGB(t.BodyColor))
	}
	for _, row := range t.Rows {
		drawRow(pdf, t, row, bodyFill)
	}

	if t.Total != nil {
		pdf.SetFont(pdfFont, "B", 10)
		totalFill := t.TotalColor != ""
		if totalFill {
			pdf.SetFillColor(hexRGB(t.TotalColor))
		}
		drawRow(pdf, t, t.Total, totalFill)
	}
}

func drawRow(pdf *fpdf.Fpdf, t *Table, cells []string, fill bool) {
	for i, cell := range cells {
		align := "L"
		if i >= len(cells)-t.NumericCols {
			align = "R"
		}
		pdf.CellFormat(t.Widths[i], pdfRowHeight, cell, "1", 0, align, fill, 0, "")
	}
	pdf.Ln(-1)
}

// drawPhoto places a square thumbnail in the top right corner.
func drawPhoto(pdf *fpdf.Fpdf, path string) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	thumb := imaging.Fill(img, photoPixels, photoPixels, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("photo", opts, &buf)
	if err := pdf.Error(); err != nil {
		return err
	}

	pageW, _ := pdf.GetPageSize()
	_, top, right, _ := pdf.GetMargins()
	pdf.ImageOptions("photo", pageW-right-photoSize, top, photoSize, photoSize, false, opts, 0, "")
	return pdf.Error()
}

// hexRGB parses #rrggbb; anything else is black.
func hexRGB(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int((v >> 16) & 0xff), int((v >> 8) & 0xff), int(v & 0xff)
}
