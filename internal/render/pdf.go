package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pdfFontFamily = "Helvetica"

// RenderPDF replays a laid-out page stream into a PDF byte slice. All
// positioning decisions were made by the layout pass; this sink only
// translates primitives, so preview and file export cannot diverge.
func RenderPDF(pages []Page) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(0.2)

	imageCount := 0
	for _, page := range pages {
		pdf.AddPage()
		for _, ins := range page {
			switch v := ins.(type) {
			case Text:
				drawText(pdf, v)
			case Image:
				imageCount++
				drawImage(pdf, v, fmt.Sprintf("logo-%d", imageCount))
			case Rect:
				drawRect(pdf, v)
			case Polyline:
				drawPolyline(pdf, v)
			}
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf assembly failed: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(pdf *gofpdf.Fpdf, t Text) {
	pdf.SetFont(pdfFontFamily, t.Style, t.Size)
	pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)
	setAlpha(pdf, t.Alpha)

	x := t.X
	switch t.Align {
	case "R":
		x -= pdf.GetStringWidth(t.Content)
	case "C":
		x -= pdf.GetStringWidth(t.Content) / 2
	}

	if t.Angle != 0 {
		pdf.TransformBegin()
		pdf.TransformRotate(t.Angle, t.X, t.Y)
		pdf.Text(x, t.Y, t.Content)
		pdf.TransformEnd()
	} else {
		pdf.Text(x, t.Y, t.Content)
	}
	resetAlpha(pdf, t.Alpha)
}

func drawImage(pdf *gofpdf.Fpdf, img Image, name string) {
	opts := gofpdf.ImageOptions{ImageType: img.Format, ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	pdf.ImageOptions(name, img.X, img.Y, img.W, img.H, false, opts, 0, "")
}

func drawRect(pdf *gofpdf.Fpdf, r Rect) {
	pdf.SetFillColor(r.Fill.R, r.Fill.G, r.Fill.B)
	setAlpha(pdf, r.Alpha)
	pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	resetAlpha(pdf, r.Alpha)
}

func drawPolyline(pdf *gofpdf.Fpdf, p Polyline) {
	if len(p.Points) < 2 {
		return
	}
	setAlpha(pdf, p.Alpha)
	if p.Fill != nil {
		pdf.SetFillColor(p.Fill.R, p.Fill.G, p.Fill.B)
		pts := make([]gofpdf.PointType, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
		}
		pdf.Polygon(pts, "F")
	}
	if p.Stroke != nil {
		pdf.SetDrawColor(p.Stroke.R, p.Stroke.G, p.Stroke.B)
		if p.StrokeWidth > 0 {
			pdf.SetLineWidth(p.StrokeWidth)
		}
		for i := 1; i < len(p.Points); i++ {
			pdf.Line(p.Points[i-1].X, p.Points[i-1].Y, p.Points[i].X, p.Points[i].Y)
		}
		if p.Closed {
			last := p.Points[len(p.Points)-1]
			pdf.Line(last.X, last.Y, p.Points[0].X, p.Points[0].Y)
		}
	}
	resetAlpha(pdf, p.Alpha)
}

func setAlpha(pdf *gofpdf.Fpdf, alpha float64) {
	if alpha > 0 && alpha < 1 {
		pdf.SetAlpha(alpha, "Normal")
	}
}

func resetAlpha(pdf *gofpdf.Fpdf, alpha float64) {
	if alpha > 0 && alpha < 1 {
		pdf.SetAlpha(1, "Normal")
	}
}
