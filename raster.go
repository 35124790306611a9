package pixelizer

import (
	"image"
	"image/color"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Raster is a float image. Pix holds interleaved, non-premultiplied RGBA in
// [0,1], row-major, len = W*H*4. It satisfies image.Image so a rendered
// grid can be handed to any encoder.
type Raster struct {
	W, H int
	Pix  []float64
}

// NewRaster returns an opaque black raster.
func NewRaster(w, h int) *Raster {
	r := &Raster{W: w, H: h, Pix: make([]float64, w*h*4)}
	for i := 3; i < len(r.Pix); i += 4 {
		r.Pix[i] = 1
	}
	return r
}

// RasterFromImage copies img into a Raster anchored at the origin.
func RasterFromImage(img image.Image) *Raster {
	if src, ok := img.(*Raster); ok {
		return &Raster{W: src.W, H: src.H, Pix: slices.Clone(src.Pix)}
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	r := &Raster{W: w, H: h, Pix: make([]float64, w*h*4)}
	for y := range h {
		for x := range w {
			c := nrgba64At(img, bounds.Min.X+x, bounds.Min.Y+y)
			off := r.offset(x, y)
			r.Pix[off] = float64(c.R) / 65535.0
			r.Pix[off+1] = float64(c.G) / 65535.0
			r.Pix[off+2] = float64(c.B) / 65535.0
			r.Pix[off+3] = float64(c.A) / 65535.0
		}
	}
	return r
}

// nrgba64At reads straight-alpha pixels without the premultiplied round trip
// where the image type allows it, so transparent pixels keep their color.
func nrgba64At(img image.Image, x, y int) color.NRGBA64 {
	switch src := img.(type) {
	case *image.NRGBA:
		c := src.NRGBAAt(x, y)
		return color.NRGBA64{R: uint16(c.R) * 257, G: uint16(c.G) * 257, B: uint16(c.B) * 257, A: uint16(c.A) * 257}
	case *image.NRGBA64:
		return src.NRGBA64At(x, y)
	}
	return color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
}

func (r *Raster) offset(x, y int) int {
	return (y*r.W + x) * 4
}

// Empty reports whether the raster has no pixels.
func (r *Raster) Empty() bool {
	return r == nil || r.W <= 0 || r.H <= 0 || len(r.Pix) < r.W*r.H*4
}

// RGB returns the color channels at (x,y).
func (r *Raster) RGB(x, y int) colorful.Color {
	off := r.offset(x, y)
	return colorful.Color{R: r.Pix[off], G: r.Pix[off+1], B: r.Pix[off+2]}
}

// Alpha returns the alpha channel at (x,y).
func (r *Raster) Alpha(x, y int) float64 {
	return r.Pix[r.offset(x, y)+3]
}

// SetRGB writes an opaque color at (x,y).
func (r *Raster) SetRGB(x, y int, c colorful.Color) {
	r.SetRGBA(x, y, c, 1)
}

func (r *Raster) SetRGBA(x, y int, c colorful.Color, a float64) {
	off := r.offset(x, y)
	r.Pix[off] = c.R
	r.Pix[off+1] = c.G
	r.Pix[off+2] = c.B
	r.Pix[off+3] = a
}

func (r *Raster) ColorModel() color.Model {
	return color.NRGBA64Model
}

func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.W, r.H)
}

func (r *Raster) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= r.W || y >= r.H {
		return color.NRGBA64{}
	}
	off := r.offset(x, y)
	return color.NRGBA64{
		R: to16(r.Pix[off]),
		G: to16(r.Pix[off+1]),
		B: to16(r.Pix[off+2]),
		A: to16(r.Pix[off+3]),
	}
}

// NRGBA64 converts the raster into a standard library image.
func (r *Raster) NRGBA64() *image.NRGBA64 {
	out := image.NewNRGBA64(r.Bounds())
	for y := range r.H {
		for x := range r.W {
			out.SetNRGBA64(x, y, r.At(x, y).(color.NRGBA64))
		}
	}
	return out
}

func to16(v float64) uint16 {
	return uint16(clamp01(v)*65535.0 + 0.5)
}
