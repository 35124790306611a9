package pixelizer

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV returns hue, saturation and value of c, all in [0,1].
// Hue is colorful's degrees scaled down by 360.
func HSV(c colorful.Color) (h, s, v float64) {
	h, s, v = c.Hsv()
	return h / 360.0, s, v
}

// FromHSV builds a color from hue, saturation and value in [0,1].
// Hue wraps, so 1.0 is the same as 0.0.
func FromHSV(h, s, v float64) colorful.Color {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	return colorful.Hsv(h*360.0, clamp01(s), clamp01(v))
}

func Hue(c colorful.Color) float64 {
	h, _, _ := HSV(c)
	return h
}

func Saturation(c colorful.Color) float64 {
	_, s, _ := HSV(c)
	return s
}

func Value(c colorful.Color) float64 {
	_, _, v := HSV(c)
	return v
}

func WithHue(c colorful.Color, h float64) colorful.Color {
	_, s, v := HSV(c)
	return FromHSV(h, s, v)
}

func WithSaturation(c colorful.Color, s float64) colorful.Color {
	h, _, v := HSV(c)
	return FromHSV(h, s, v)
}

func WithValue(c colorful.Color, v float64) colorful.Color {
	h, s, _ := HSV(c)
	return FromHSV(h, s, v)
}

// Complement mirrors every channel around the color's own channel range
// (max+min-c), which keeps value and saturation and rotates hue by 180°.
func Complement(c colorful.Color) colorful.Color {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	return colorful.Color{R: hi + lo - c.R, G: hi + lo - c.G, B: hi + lo - c.B}
}

// Invert returns 1-c per channel.
func Invert(c colorful.Color) colorful.Color {
	return colorful.Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B}
}

// DistanceRGB is the euclidean distance in r,g,b.
func DistanceRGB(a, b colorful.Color) float64 {
	return a.DistanceRgb(b)
}

// DistanceHue compares normalized hues by plain subtraction. Hues near 0 and
// near 1 read as far apart even though they are neighbours on the wheel.
func DistanceHue(a, b colorful.Color) float64 {
	return math.Abs(Hue(a) - Hue(b))
}

func DistanceSaturation(a, b colorful.Color) float64 {
	return math.Abs(Saturation(a) - Saturation(b))
}

func DistanceValue(a, b colorful.Color) float64 {
	return math.Abs(Value(a) - Value(b))
}

// Add sums two colors channel-wise and clamps the result to [0,1].
func Add(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}.Clamped()
}

func Subtract(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R - b.R, G: a.G - b.G, B: a.B - b.B}
}

func Scale(c colorful.Color, f float64) colorful.Color {
	return colorful.Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Brightness is the plain mean of the three channels.
func Brightness(c colorful.Color) float64 {
	return (c.R + c.G + c.B) / 3.0
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
