package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsaan797/InvoiceME/internal/models"
)

func testProfile() models.BusinessProfile {
	return models.BusinessProfile{
		ID:              "business",
		Name:            "Sandpix Maldives",
		Email:           "info@sandpix.example.com",
		Phone:           "+960 797 0000",
		Address:         "Blue House, HDh. Nellaidhoo, Maldives",
		TinNumber:       "1106645GST501",
		Currency:        "MVR",
		TaxPercentage:   8,
		InvoicePrefix:   "INV",
		QuotationPrefix: "QT",
		PaymentDetails:  "Bank: BML\nAccount: 7730000000001",
	}
}

func testDocument(items []models.LineItem) models.Document {
	return models.Document{
		Base:        models.Base{ID: "doc-1"},
		Kind:        models.KindInvoice,
		Number:      "INV-4821",
		Date:        "2026-08-01",
		DueDate:     "2026-08-08",
		ClientName:  "Island Resorts Pvt Ltd",
		ClientEmail: "accounts@island.example.com",
		Items:       items,
		Status:      models.StatusSent,
		Notes:       "1. Please pay within 7 days.",
	}
}

func testLogo(t *testing.T, w, h int) *Logo {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	logo, err := DecodeLogo(buf.Bytes())
	require.NoError(t, err)
	return logo
}

func pageTexts(p Page) []string {
	var out []string
	for _, ins := range p {
		if t, ok := ins.(Text); ok {
			out = append(out, t.Content)
		}
	}
	return out
}

func containsText(p Page, s string) bool {
	for _, c := range pageTexts(p) {
		if c == s {
			return true
		}
	}
	return false
}

func TestLayoutPages_Deterministic(t *testing.T) {
	doc := testDocument([]models.LineItem{
		{ID: "a", Description: "Drone photography session", Quantity: 2, UnitPrice: 50},
		{ID: "b", Description: "Photo album", Quantity: 1, UnitPrice: 25.50},
	})
	profile := testProfile()
	logo := testLogo(t, 100, 50)

	first := LayoutPages(doc, profile, logo)
	second := LayoutPages(doc, profile, logo)
	assert.True(t, reflect.DeepEqual(first, second), "two layout passes must produce identical instructions")
}

func TestLayoutPages_SinglePageContent(t *testing.T) {
	doc := testDocument([]models.LineItem{
		{ID: "a", Description: "Prints", Quantity: 2, UnitPrice: 50},
		{ID: "b", Description: "Frame", Quantity: 1, UnitPrice: 25.50},
	})
	pages := LayoutPages(doc, testProfile(), nil)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.True(t, containsText(page, "INVOICE"))
	assert.True(t, containsText(page, "NO: INV-4821"))
	assert.True(t, containsText(page, "Issue Date: 01-08-2026"))
	assert.True(t, containsText(page, "Due Date: 08-08-2026"))
	assert.True(t, containsText(page, "BILL TO"))
	assert.True(t, containsText(page, "Island Resorts Pvt Ltd"))

	// Spec example: 2x50.00 + 1x25.50 at 8% tax.
	assert.True(t, containsText(page, "MVR 125.50"))
	assert.True(t, containsText(page, "MVR 10.04"))
	assert.True(t, containsText(page, "MVR 135.54"))
	assert.True(t, containsText(page, "Tax (8%):"))

	assert.True(t, containsText(page, "NOTES & TERMS"))
	assert.True(t, containsText(page, "PAYMENT DETAILS"))
	assert.True(t, containsText(page, "Page 1 of 1"))
}

func TestLayoutPages_EmptyDocument(t *testing.T) {
	doc := testDocument(nil)
	doc.Notes = ""
	pages := LayoutPages(doc, testProfile(), nil)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.True(t, containsText(page, "DESCRIPTION"), "table caption renders even with zero rows")
	assert.True(t, containsText(page, "MVR 0.00"))
}

func TestLayoutPages_PaginationRepeatsTableHeader(t *testing.T) {
	var items []models.LineItem
	for i := 0; i < 30; i++ {
		items = append(items, models.LineItem{
			ID:          fmt.Sprintf("item-%02d", i),
			Description: fmt.Sprintf("Service line %02d", i),
			Quantity:    1,
			UnitPrice:   10,
		})
	}
	pages := LayoutPages(testDocument(items), testProfile(), nil)
	require.Greater(t, len(pages), 1, "30 rows must not fit on one page")

	// Every page with data rows repeats the caption band; row order is the
	// item order; the totals block appears exactly once, after the last row.
	var seen []string
	totalBlocks := 0
	for _, page := range pages {
		hasRow := false
		for _, c := range pageTexts(page) {
			if strings.HasPrefix(c, "Service line ") {
				hasRow = true
				seen = append(seen, c)
			}
			if c == "TOTAL AMOUNT:" {
				totalBlocks++
			}
		}
		if hasRow {
			assert.True(t, containsText(page, "DESCRIPTION"))
		}
	}
	require.Len(t, seen, 30)
	for i, c := range seen {
		assert.Equal(t, fmt.Sprintf("Service line %02d", i), c)
	}
	assert.Equal(t, 1, totalBlocks)

	// The deferred footer pass numbers every page against the final count.
	for i, page := range pages {
		assert.True(t, containsText(page, fmt.Sprintf("Page %d of %d", i+1, len(pages))))
	}
}

func TestLayoutPages_PaidWatermark(t *testing.T) {
	doc := testDocument([]models.LineItem{{ID: "a", Description: "Prints", Quantity: 1, UnitPrice: 10}})

	pages := LayoutPages(doc, testProfile(), nil)
	assert.False(t, containsText(pages[0], "PAID"))

	doc.Status = models.StatusPaid
	pages = LayoutPages(doc, testProfile(), nil)
	require.True(t, containsText(pages[0], "PAID"))
	for _, ins := range pages[0] {
		if txt, ok := ins.(Text); ok && txt.Content == "PAID" {
			assert.Equal(t, 12.0, txt.Angle)
			assert.InDelta(t, 0.12, txt.Alpha, 1e-9)
			assert.Equal(t, 65.0, txt.Size)
		}
	}
}

func TestLayoutPages_LogoAspectFit(t *testing.T) {
	doc := testDocument(nil)
	logo := testLogo(t, 400, 100) // wide: width-bound to 45x11.25

	pages := LayoutPages(doc, testProfile(), logo)
	var img *Image
	for _, ins := range pages[0] {
		if v, ok := ins.(Image); ok {
			img = &v
			break
		}
	}
	require.NotNil(t, img)
	assert.InDelta(t, 45.0, img.W, 1e-9)
	assert.InDelta(t, 11.25, img.H, 1e-9)

	// A missing logo simply drops the image; nothing else fails.
	pages = LayoutPages(doc, testProfile(), nil)
	for _, ins := range pages[0] {
		_, ok := ins.(Image)
		assert.False(t, ok)
	}
}

func TestLayoutPages_FooterWavesStayInBottomBand(t *testing.T) {
	pages := LayoutPages(testDocument(nil), testProfile(), nil)
	waves := 0
	for _, ins := range pages[0] {
		p, ok := ins.(Polyline)
		if !ok || p.Fill == nil {
			continue
		}
		waves++
		for _, pt := range p.Points {
			assert.GreaterOrEqual(t, pt.Y, PageHeight-40.0)
			assert.LessOrEqual(t, pt.Y, PageHeight)
		}
	}
	assert.Equal(t, 2, waves)
}

func TestDecodeLogo_RejectsGarbage(t *testing.T) {
	_, err := DecodeLogo([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	doc := testDocument([]models.LineItem{
		{ID: "a", Description: "Prints", Quantity: 2, UnitPrice: 50},
	})
	doc.Status = models.StatusPaid
	pages := LayoutPages(doc, testProfile(), testLogo(t, 64, 64))

	out, err := RenderPDF(pages)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 1000)
}
