package pixelizer

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// Axis names the grid dimension the caller edited last. FitDimensions keeps
// it and derives the other one from the source aspect ratio.
type Axis int

const (
	AxisNone Axis = iota
	AxisWidth
	AxisHeight
	// AxisAuto keeps the larger of the two requested dimensions.
	AxisAuto
)

func (a Axis) String() string {
	switch a {
	case AxisWidth:
		return "width"
	case AxisHeight:
		return "height"
	case AxisAuto:
		return "auto"
	default:
		return "none"
	}
}

// FitDimensions clamps w and h to at least 1 and, unless primary is AxisNone,
// recomputes the secondary dimension so the grid follows the aspect ratio of
// an image of the given size. The derived value is floored and never below 1.
func FitDimensions(size image.Point, w, h int, primary Axis) (int, int) {
	w = max(w, 1)
	h = max(h, 1)
	if size.X <= 0 || size.Y <= 0 {
		return w, h
	}
	if primary == AxisAuto {
		primary = AxisHeight
		if w >= h {
			primary = AxisWidth
		}
	}
	ratio := float64(size.X) / float64(size.Y)
	switch primary {
	case AxisWidth:
		h = max(int(float64(w)*(1.0/ratio)), 1)
	case AxisHeight:
		w = max(int(float64(h)*ratio), 1)
	}
	return w, h
}

// Pixelize averages src into a w×h grid.
func Pixelize(src image.Image, w, h int) (*Grid, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrInput)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: source image is empty", ErrInput)
	}
	return PixelizeRaster(RasterFromImage(src), w, h)
}

// PixelizeRaster splits src into w×h blocks of floor(W/w)×floor(H/h) pixels
// and stores the mean r,g,b of each block as the cell color. Pixels left over
// along the right and bottom edges are not sampled. Alpha is ignored.
func PixelizeRaster(src *Raster, w, h int) (*Grid, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrPrecondition, w, h)
	}
	if src.Empty() {
		return nil, fmt.Errorf("%w: source image is empty", ErrInput)
	}
	bw, bh := src.W/w, src.H/h
	if bw == 0 || bh == 0 {
		return nil, fmt.Errorf("%w: %dx%d grid does not fit a %dx%d image", ErrInput, w, h, src.W, src.H)
	}

	n := float64(bw * bh)
	colors := make([]colorful.Color, w*h)
	for gy := range h {
		for gx := range w {
			var r, g, b float64
			for y := gy * bh; y < gy*bh+bh; y++ {
				for x := gx * bw; x < gx*bw+bw; x++ {
					off := src.offset(x, y)
					r += src.Pix[off]
					g += src.Pix[off+1]
					b += src.Pix[off+2]
				}
			}
			colors[gy*w+gx] = colorful.Color{R: r / n, G: g / n, B: b / n}
		}
	}
	return NewGrid(w, h, colors)
}
