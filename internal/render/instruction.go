package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Page geometry: A4 portrait, millimetres.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 20.0
)

// RGB is a 0-255 colour triple.
type RGB struct {
	R, G, B int
}

var (
	accentColor = RGB{37, 99, 235}
	lightBlue   = RGB{191, 219, 254}
	deepBlue    = RGB{30, 58, 138}
	inkColor    = RGB{15, 23, 42}
	mutedColor  = RGB{100, 116, 139}
	paidColor   = RGB{16, 185, 129}
	hairline    = RGB{241, 245, 249}
	headerFill  = RGB{248, 250, 252}
)

// Instruction is one absolutely-positioned draw primitive. A Page is the
// ordered list of primitives to paint, back to front; the same stream feeds
// both the preview and the file export sink.
type Instruction interface {
	isInstruction()
}

// Page is one fixed-size output page.
type Page []Instruction

// Text draws a single run of text. Y is the text baseline. Alpha of 0 is
// treated as fully opaque so that zero values don't vanish.
type Text struct {
	X, Y    float64
	Content string
	Size    float64 // points
	Style   string  // "" or "B"
	Align   string  // "L", "C" or "R" relative to X
	Color   RGB
	Alpha   float64
	Angle   float64 // degrees counter-clockwise, rotating around (X, Y)
}

// Image places a raster image scaled into the given box.
type Image struct {
	X, Y, W, H float64
	Format     string // "png", "jpeg" or "gif"
	Data       []byte
}

// Rect draws a filled rectangle.
type Rect struct {
	X, Y, W, H float64
	Fill       RGB
	Alpha      float64
}

// Polyline draws a multi-point path: stroked when Stroke is set, filled (and
// implicitly closed) when Fill is set. The decorative footer waves and the
// table hairlines are both expressed with this one primitive.
type Polyline struct {
	Points      []Point
	Closed      bool
	Fill        *RGB
	Stroke      *RGB
	StrokeWidth float64
	Alpha       float64
}

// Point is one vertex of a Polyline in page coordinates.
type Point struct {
	X, Y float64
}

func (Text) isInstruction()     {}
func (Image) isInstruction()    {}
func (Rect) isInstruction()     {}
func (Polyline) isInstruction() {}

// Logo is a decoded business logo ready for placement: raw encoded bytes for
// the export sink plus the intrinsic pixel size for aspect-fit scaling.
type Logo struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// DecodeLogo validates an uploaded raster and captures its dimensions. An
// error here never aborts layout; callers pass a nil Logo and the header
// renders without an image.
func DecodeLogo(data []byte) (*Logo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("undecodable logo image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("logo image has invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return &Logo{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
