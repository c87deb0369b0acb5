package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
)

// ChartSeat is a positioned seat with its occupant, if any.
type ChartSeat struct {
	Label   string
	X       float64
	Y       float64
	Student string
}

// ChartPage is a room layout ready for rendering.
type ChartPage struct {
	Title string
	Seats []ChartSeat
}

const (
	seatBoxW = 28.0
	seatBoxH = 14.0
)

// ChartPDFExporter draws a seating chart onto an A4 landscape page, scaling
// canvas coordinates to fit the printable area.
type ChartPDFExporter struct{}

// NewChartPDFExporter constructs a PDF exporter.
func NewChartPDFExporter() *ChartPDFExporter {
	return &ChartPDFExporter{}
}

// Render creates a one-page PDF with every seat drawn at its room position.
func (e *ChartPDFExporter) Render(page ChartPage) ([]byte, error) {
	if len(page.Seats) == 0 {
		return nil, fmt.Errorf("pdf requires at least one seat")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if page.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, page.Title, "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range page.Seats {
		minX = math.Min(minX, s.X)
		minY = math.Min(minY, s.Y)
		maxX = math.Max(maxX, s.X)
		maxY = math.Max(maxY, s.Y)
	}

	// Printable region below the title.
	originX, originY := 12.0, 32.0
	availW, availH := 297.0-2*12.0-seatBoxW, 210.0-originY-15.0-seatBoxH

	scaleX, scaleY := 1.0, 1.0
	if maxX > minX {
		scaleX = availW / (maxX - minX)
	}
	if maxY > minY {
		scaleY = availH / (maxY - minY)
	}

	pdf.SetDrawColor(60, 60, 60)
	for _, s := range page.Seats {
		x := originX + (s.X-minX)*scaleX
		y := originY + (s.Y-minY)*scaleY

		fill := s.Student != ""
		if fill {
			pdf.SetFillColor(222, 235, 247)
		}
		pdf.Rect(x, y, seatBoxW, seatBoxH, boxStyle(fill))

		pdf.SetXY(x, y+1.5)
		pdf.SetFont("Arial", "", 7)
		pdf.CellFormat(seatBoxW, 4, s.Label, "", 2, "C", false, 0, "")
		pdf.SetFont("Arial", "B", 8)
		pdf.SetX(x)
		pdf.CellFormat(seatBoxW, 5, s.Student, "", 0, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func boxStyle(fill bool) string {
	if fill {
		return "FD"
	}
	return "D"
}
