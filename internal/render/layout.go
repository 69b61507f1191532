package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ihsaan797/InvoiceME/internal/billing"
	"github.com/ihsaan797/InvoiceME/internal/models"
)

// Table geometry. The four columns always fill the printable width
// (PageWidth - 2*Margin = 170mm).
const (
	colDescW = 60.0
	colQtyW  = 20.0
	colUnitW = 45.0
	colTotW  = 45.0

	tableHeadH  = 12.0
	cellPad     = 4.0
	cellLineH   = 5.0
	noteLineH   = 4.0
	addrWrapW   = 75.0
	logoBoxW    = 45.0
	logoBoxH    = 20.0
	noLogoShift = 10.0

	// Content never descends into the bottom band reserved for the wave
	// footer; the waves rise at most 25mm above the page edge.
	footerReserve = 30.0
)

// ptToMM converts a font size in points to millimetres.
const ptToMM = 0.352778

// LayoutPages maps a document and the business profile onto fixed-size
// pages of draw instructions. The layout is a single top-to-bottom flow with
// manual cursor advancement; only the item table and the trailing blocks can
// spill onto additional pages. Footers (waves, branding, "Page X of N") are
// stamped in a deferred pass once the page count is known.
//
// The function is deterministic: the same (doc, profile, logo) triple always
// produces an identical instruction stream.
func LayoutPages(doc models.Document, profile models.BusinessProfile, logo *Logo) []Page {
	l := &layouter{doc: doc, profile: profile, logo: logo}
	l.newPage()
	l.header()
	l.billTo()
	l.itemTable()
	l.summary()
	l.textBlocks()
	l.stampFooters()
	return l.pages
}

type layouter struct {
	doc     models.Document
	profile models.BusinessProfile
	logo    *Logo

	pages []Page
	y     float64
}

func (l *layouter) emit(ins Instruction) {
	last := len(l.pages) - 1
	l.pages[last] = append(l.pages[last], ins)
}

// newPage starts a fresh page with the thin accent bar across the top and
// resets the cursor to the margin.
func (l *layouter) newPage() {
	l.pages = append(l.pages, Page{})
	l.emit(Rect{X: 0, Y: 0, W: PageWidth, H: 2, Fill: accentColor})
	l.y = Margin
}

func (l *layouter) contentBottom() float64 {
	return PageHeight - footerReserve
}

func (l *layouter) header() {
	rightX := PageWidth - Margin

	if l.logo != nil && l.logo.Width > 0 && l.logo.Height > 0 {
		w, h := fitBox(float64(l.logo.Width), float64(l.logo.Height), logoBoxW, logoBoxH)
		l.emit(Image{X: Margin, Y: l.y, W: w, H: h, Format: l.logo.Format, Data: l.logo.Data})
		l.y += h + 5
	} else {
		l.y += noLogoShift
	}

	// Right column: kind, number, dates.
	metaY := Margin
	if l.y-20 > metaY {
		metaY = l.y - 20
	}
	l.emit(Text{X: rightX, Y: metaY + 5, Content: strings.ToUpper(string(l.doc.Kind)), Size: 28, Style: "B", Align: "R", Color: accentColor})
	l.emit(Text{X: rightX, Y: metaY + 12, Content: "NO: " + l.doc.Number, Size: 10, Style: "B", Align: "R", Color: inkColor})
	l.emit(Text{X: rightX, Y: metaY + 18, Content: "Issue Date: " + billing.FormatDisplayDate(l.doc.Date), Size: 9, Align: "R", Color: mutedColor})
	l.emit(Text{X: rightX, Y: metaY + 23, Content: "Due Date: " + billing.FormatDisplayDate(l.doc.DueDate), Size: 9, Align: "R", Color: mutedColor})

	// Left column: business identity.
	l.emit(Text{X: Margin, Y: l.y + 5, Content: strings.ToUpper(l.profile.Name), Size: 18, Style: "B", Color: inkColor})
	addressLines := wrapText(l.profile.Address, addrWrapW, 9)
	for i, line := range addressLines {
		l.emit(Text{X: Margin, Y: l.y + 12 + float64(i)*cellLineH, Content: line, Size: 9, Color: mutedColor})
	}
	contactY := l.y + 12 + float64(len(addressLines))*cellLineH
	l.emit(Text{X: Margin, Y: contactY, Content: "Email: " + l.profile.Email, Size: 9, Color: mutedColor})
	l.emit(Text{X: Margin, Y: contactY + 5, Content: "Phone: " + l.profile.Phone, Size: 9, Color: mutedColor})
	l.emit(Text{X: Margin, Y: contactY + 10, Content: "TIN: " + l.profile.TinNumber, Size: 9, Style: "B", Color: inkColor})

	headerEndRight := metaY + 30
	headerEndLeft := contactY + 10
	l.y = headerEndLeft
	if headerEndRight > l.y {
		l.y = headerEndRight
	}
	l.y += 10
	l.emit(Polyline{
		Points:      []Point{{Margin, l.y}, {PageWidth - Margin, l.y}},
		Stroke:      &hairline,
		StrokeWidth: 0.2,
	})
}

func (l *layouter) billTo() {
	l.y += 10
	l.emit(Text{X: Margin, Y: l.y, Content: "BILL TO", Size: 10, Style: "B", Color: inkColor})
	l.emit(Text{X: Margin, Y: l.y + 7, Content: l.doc.ClientName, Size: 12, Style: "B", Color: inkColor})
	if l.doc.ClientEmail != "" {
		l.emit(Text{X: Margin, Y: l.y + 13, Content: l.doc.ClientEmail, Size: 9, Color: mutedColor})
	}
}

// tableHeaderRow paints the column caption band at the given y and returns
// the y just below it.
func (l *layouter) tableHeaderRow(y float64) float64 {
	xDesc := Margin
	xQty := Margin + colDescW
	xUnit := xQty + colQtyW
	xTot := xUnit + colUnitW

	l.emit(Rect{X: Margin, Y: y, W: PageWidth - 2*Margin, H: tableHeadH, Fill: headerFill})
	baseline := y + 7.5
	l.emit(Text{X: xDesc + cellPad, Y: baseline, Content: "DESCRIPTION", Size: 9, Style: "B", Color: inkColor})
	l.emit(Text{X: xQty + colQtyW/2, Y: baseline, Content: "QTY", Size: 9, Style: "B", Align: "C", Color: inkColor})
	l.emit(Text{X: xUnit + colUnitW - cellPad, Y: baseline, Content: "UNIT PRICE", Size: 9, Style: "B", Align: "R", Color: inkColor})
	l.emit(Text{X: xTot + colTotW - cellPad, Y: baseline, Content: "TOTAL", Size: 9, Style: "B", Align: "R", Color: inkColor})
	return y + tableHeadH
}

// itemTable lays out one row per line item in sequence. A row that does not
// fit on the current page moves whole to a fresh page, with the caption band
// repeated above it; rows are never split.
func (l *layouter) itemTable() {
	xQty := Margin + colDescW
	xUnit := xQty + colQtyW
	xTot := xUnit + colUnitW

	y := l.tableHeaderRow(l.y + 25)
	for _, item := range l.doc.Items {
		descLines := wrapText(item.Description, colDescW-2*cellPad, 9)
		if len(descLines) == 0 {
			descLines = []string{""}
		}
		rowH := float64(len(descLines))*cellLineH + 6

		if y+rowH > l.contentBottom() {
			l.newPage()
			y = l.tableHeaderRow(Margin)
		}

		baseline := y + 7
		for i, line := range descLines {
			l.emit(Text{X: Margin + cellPad, Y: baseline + float64(i)*cellLineH, Content: line, Size: 9, Color: inkColor})
		}
		l.emit(Text{X: xQty + colQtyW/2, Y: baseline, Content: formatQuantity(item.Quantity), Size: 9, Align: "C", Color: inkColor})
		l.emit(Text{X: xUnit + colUnitW - cellPad, Y: baseline, Content: billing.FormatMoney(l.profile.Currency, item.UnitPrice), Size: 9, Align: "R", Color: inkColor})
		l.emit(Text{X: xTot + colTotW - cellPad, Y: baseline, Content: billing.FormatMoney(l.profile.Currency, billing.LineTotal(item)), Size: 9, Style: "B", Align: "R", Color: inkColor})

		l.emit(Polyline{
			Points:      []Point{{Margin, y + rowH}, {PageWidth - Margin, y + rowH}},
			Stroke:      &hairline,
			StrokeWidth: 0.2,
		})
		y += rowH
	}
	l.y = y
}

// summary draws the right-aligned totals block directly under wherever the
// table finished, preceded by the PAID watermark when applicable so the
// label sits behind the figures.
func (l *layouter) summary() {
	const summaryH = 27.0
	summaryY := l.y + 15
	if summaryY+summaryH > l.contentBottom() {
		l.newPage()
		summaryY = Margin + 10
	}

	if l.doc.Status == models.StatusPaid {
		l.emit(Text{
			X:       PageWidth * 0.7,
			Y:       summaryY + 15,
			Content: "PAID",
			Size:    65,
			Style:   "B",
			Align:   "C",
			Color:   paidColor,
			Alpha:   0.12,
			Angle:   12,
		})
	}

	totals := billing.ComputeTotals(l.doc.Items, l.profile.TaxPercentage)
	labelX := PageWidth - Margin - 90
	valueX := PageWidth - Margin

	l.emit(Text{X: labelX, Y: summaryY, Content: "Subtotal:", Size: 9, Color: mutedColor})
	l.emit(Text{X: valueX, Y: summaryY, Content: billing.FormatMoney(l.profile.Currency, totals.Subtotal), Size: 9, Align: "R", Color: mutedColor})

	taxLabel := fmt.Sprintf("Tax (%s%%):", strconv.FormatFloat(l.profile.TaxPercentage, 'f', -1, 64))
	l.emit(Text{X: labelX, Y: summaryY + 8, Content: taxLabel, Size: 9, Color: mutedColor})
	l.emit(Text{X: valueX, Y: summaryY + 8, Content: billing.FormatMoney(l.profile.Currency, totals.TaxAmount), Size: 9, Align: "R", Color: mutedColor})

	l.emit(Text{X: labelX, Y: summaryY + 22, Content: "TOTAL AMOUNT:", Size: 10, Style: "B", Color: inkColor})
	l.emit(Text{X: valueX, Y: summaryY + 22, Content: billing.FormatMoney(l.profile.Currency, totals.Total), Size: 16, Style: "B", Align: "R", Color: accentColor})

	l.y = summaryY + 45
}

// textBlocks prints the notes/terms and payment instruction bands, each only
// when non-empty.
func (l *layouter) textBlocks() {
	if strings.TrimSpace(l.doc.Notes) != "" {
		l.textBlock("NOTES & TERMS", l.doc.Notes)
	}
	if strings.TrimSpace(l.profile.PaymentDetails) != "" {
		l.textBlock("PAYMENT DETAILS", l.profile.PaymentDetails)
	}
}

func (l *layouter) textBlock(title, body string) {
	lines := wrapText(body, PageWidth-2*Margin, 8)
	blockH := 5 + float64(len(lines))*noteLineH
	if l.y+blockH > l.contentBottom() {
		l.newPage()
		l.y = Margin + 10
	}
	l.emit(Text{X: Margin, Y: l.y, Content: title, Size: 9, Style: "B", Color: inkColor})
	for i, line := range lines {
		l.emit(Text{X: Margin, Y: l.y + 5 + float64(i)*noteLineH, Content: line, Size: 8, Color: mutedColor})
	}
	l.y += blockH + 12
}

// stampFooters paints the decorative waves, the branding line and the page
// counter onto every page. It runs last because "Page X of N" needs the
// final page count.
func (l *layouter) stampFooters() {
	total := len(l.pages)
	brand := l.profile.PoweredByText
	if brand == "" {
		brand = l.profile.Name
	}
	for i := range l.pages {
		page := l.pages[i]
		page = append(page, Polyline{Points: primaryWave(), Closed: true, Fill: &lightBlue, Alpha: 0.25})
		page = append(page, Polyline{Points: secondaryWave(), Closed: true, Fill: &accentColor, Alpha: 0.15})
		page = append(page, Text{X: Margin, Y: PageHeight - 12, Content: strings.ToUpper(brand), Size: 8, Style: "B", Color: inkColor})
		page = append(page, Text{X: Margin, Y: PageHeight - 8, Content: "TIN: " + l.profile.TinNumber + "  |  " + l.profile.Email, Size: 7, Color: mutedColor})
		page = append(page, Text{X: PageWidth - Margin, Y: PageHeight - 12, Content: fmt.Sprintf("Page %d of %d", i+1, total), Size: 8, Style: "B", Align: "R", Color: deepBlue})
		l.pages[i] = page
	}
}

// primaryWave and secondaryWave trace the two overlapping footer shapes:
// up the left edge, a cubic sweep across the page, then down the right edge,
// closed along the bottom. The curves are pre-sampled into fixed polylines
// so the output stays a plain point list.
func primaryWave() []Point {
	pts := []Point{{0, PageHeight}, {0, PageHeight - 15}}
	pts = append(pts, sampleCubic(
		Point{0, PageHeight - 15},
		Point{PageWidth * 0.25, PageHeight - 35},
		Point{PageWidth * 0.75, PageHeight - 5},
		Point{PageWidth, PageHeight - 25},
	)...)
	return append(pts, Point{PageWidth, PageHeight})
}

func secondaryWave() []Point {
	pts := []Point{{0, PageHeight}, {0, PageHeight - 25}}
	pts = append(pts, sampleCubic(
		Point{0, PageHeight - 25},
		Point{PageWidth * 0.35, PageHeight - 5},
		Point{PageWidth * 0.65, PageHeight - 40},
		Point{PageWidth, PageHeight - 10},
	)...)
	return append(pts, Point{PageWidth, PageHeight})
}

const curveSteps = 16

func sampleCubic(p0, c1, c2, p1 Point) []Point {
	pts := make([]Point, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		x := u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X
		y := u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y
		pts = append(pts, Point{x, y})
	}
	return pts
}

// fitBox scales (w, h) to fit within (maxW, maxH) preserving aspect ratio.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	ratio := maxW / w
	if r := maxH / h; r < ratio {
		ratio = r
	}
	return w * ratio, h * ratio
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// wrapText breaks a string into lines no wider than maxWidth, honouring
// embedded newlines and greedily packing words. Width is estimated from a
// fixed average glyph width so the result never depends on font metrics and
// stays identical across runs and platforms.
func wrapText(s string, maxWidth, size float64) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	charW := size * ptToMM * 0.5
	maxChars := int(maxWidth / charW)
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) <= maxChars {
				line += " " + word
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}
