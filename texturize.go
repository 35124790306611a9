package pixelizer

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Mode selects how Render turns cells into pixels.
type Mode int

const (
	// ModeBlock paints every cell as a solid PixelSize×PixelSize square.
	ModeBlock Mode = iota
	// ModeResample renders one pixel per cell and scales that to Width×Height.
	ModeResample
)

func (m Mode) String() string {
	if m == ModeResample {
		return "resample"
	}
	return "block"
}

// Filter is the resampling kernel used by ModeResample.
type Filter int

const (
	FilterBilinear Filter = iota
	FilterNearest
	FilterCatmullRom
	FilterLanczos
	FilterBox
)

func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterCatmullRom:
		return "catmullrom"
	case FilterLanczos:
		return "lanczos"
	case FilterBox:
		return "box"
	default:
		return "bilinear"
	}
}

func ParseFilter(s string) (Filter, error) {
	for f := FilterBilinear; f <= FilterBox; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown filter %q", ErrPrecondition, s)
}

type RenderOptions struct {
	Mode Mode
	// Side of the square painted per cell in ModeBlock.
	PixelSize int
	// Output size in ModeResample.
	Width, Height int
	Filter        Filter
}

// Render builds an opaque image from the current colors of g.
func Render(g *Grid, opt RenderOptions) (*Raster, error) {
	if g.empty() {
		return nil, fmt.Errorf("%w: grid has no cells", ErrInput)
	}
	switch opt.Mode {
	case ModeBlock:
		if opt.PixelSize < 1 {
			return nil, fmt.Errorf("%w: pixel size %d", ErrPrecondition, opt.PixelSize)
		}
		return renderBlocks(g, opt.PixelSize), nil
	case ModeResample:
		if opt.Width < 1 || opt.Height < 1 {
			return nil, fmt.Errorf("%w: output size %dx%d", ErrPrecondition, opt.Width, opt.Height)
		}
		base := renderBlocks(g, 1)
		switch opt.Filter {
		case FilterBilinear:
			return resampleBilinear(base, opt.Width, opt.Height), nil
		case FilterNearest:
			return resampleWith(draw.NearestNeighbor, base, opt.Width, opt.Height), nil
		case FilterCatmullRom:
			return resampleWith(draw.CatmullRom, base, opt.Width, opt.Height), nil
		case FilterLanczos:
			return resampleGift(gift.LanczosResampling, base, opt.Width, opt.Height), nil
		case FilterBox:
			return resampleGift(gift.BoxResampling, base, opt.Width, opt.Height), nil
		}
		return nil, fmt.Errorf("%w: unknown filter %d", ErrPrecondition, int(opt.Filter))
	}
	return nil, fmt.Errorf("%w: unknown render mode %d", ErrPrecondition, int(opt.Mode))
}

func renderBlocks(g *Grid, ps int) *Raster {
	out := NewRaster(g.w*ps, g.h*ps)
	for _, c := range g.cells {
		for y := c.Y * ps; y < c.Y*ps+ps; y++ {
			for x := c.X * ps; x < c.X*ps+ps; x++ {
				out.SetRGB(x, y, c.Current)
			}
		}
	}
	return out
}

// resampleBilinear samples src at pixel centers with edge clamping, so the
// outermost output pixels of an upscale copy the source corners exactly.
func resampleBilinear(src *Raster, w, h int) *Raster {
	out := NewRaster(w, h)
	sx := float64(src.W) / float64(w)
	sy := float64(src.H) / float64(h)
	for y := range h {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		ty := fy - float64(y0)
		y1 := clampInt(y0+1, 0, src.H-1)
		y0 = clampInt(y0, 0, src.H-1)
		for x := range w {
			fx := (float64(x)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			tx := fx - float64(x0)
			x1 := clampInt(x0+1, 0, src.W-1)
			x0 = clampInt(x0, 0, src.W-1)

			o00 := src.offset(x0, y0)
			o10 := src.offset(x1, y0)
			o01 := src.offset(x0, y1)
			o11 := src.offset(x1, y1)
			off := out.offset(x, y)
			for ch := range 4 {
				top := src.Pix[o00+ch]*(1-tx) + src.Pix[o10+ch]*tx
				bottom := src.Pix[o01+ch]*(1-tx) + src.Pix[o11+ch]*tx
				out.Pix[off+ch] = top*(1-ty) + bottom*ty
			}
		}
	}
	return out
}

func resampleWith(scaler draw.Scaler, src *Raster, w, h int) *Raster {
	dst := image.NewNRGBA64(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), src.NRGBA64(), src.Bounds(), draw.Src, nil)
	return RasterFromImage(dst)
}

// resampleGift runs a separable gift kernel on the calling goroutine.
func resampleGift(r gift.Resampling, src *Raster, w, h int) *Raster {
	g := gift.New(gift.Resize(w, h, r))
	g.SetParallelization(false)
	dst := image.NewNRGBA64(g.Bounds(src.Bounds()))
	g.Draw(dst, src.NRGBA64())
	return RasterFromImage(dst)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
