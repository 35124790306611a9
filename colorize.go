package pixelizer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// MaxGroupColors bounds the palette size accepted in color-group mode.
// Matching enumerates all n! assignments, so even this limit is far beyond
// what finishes in practice; keep group palettes small.
const MaxGroupColors = 20

// Metric selects how the distance between two colors is measured.
type Metric int

const (
	MetricRGB Metric = iota
	MetricHue
	MetricSaturation
	MetricValue
)

func (m Metric) String() string {
	switch m {
	case MetricRGB:
		return "rgb"
	case MetricHue:
		return "hue"
	case MetricSaturation:
		return "saturation"
	case MetricValue:
		return "value"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

func (m Metric) valid() bool {
	return m >= MetricRGB && m <= MetricValue
}

// Distance measures a against b with the metric.
func (m Metric) Distance(a, b colorful.Color) float64 {
	switch m {
	case MetricHue:
		return DistanceHue(a, b)
	case MetricSaturation:
		return DistanceSaturation(a, b)
	case MetricValue:
		return DistanceValue(a, b)
	default:
		return DistanceRGB(a, b)
	}
}

// ParseMetric accepts the names returned by Metric.String.
func ParseMetric(s string) (Metric, error) {
	for m := MetricRGB; m <= MetricValue; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown metric %q", ErrPrecondition, s)
}

// Style decides what a cell keeps from its own color when it adopts a
// palette color.
type Style int

const (
	// StyleReplace takes the palette color as is.
	StyleReplace Style = iota
	// StylePreserveSaturation takes hue and value from the palette color.
	StylePreserveSaturation
	// StylePreserveValue takes hue and saturation from the palette color.
	StylePreserveValue
	// StylePreserveBrightness scales the palette color by the cell's mean
	// channel brightness.
	StylePreserveBrightness
)

func (s Style) String() string {
	switch s {
	case StyleReplace:
		return "replace"
	case StylePreserveSaturation:
		return "saturation"
	case StylePreserveValue:
		return "value"
	case StylePreserveBrightness:
		return "brightness"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

func (s Style) valid() bool {
	return s >= StyleReplace && s <= StylePreserveBrightness
}

func ParseStyle(s string) (Style, error) {
	for st := StyleReplace; st <= StylePreserveBrightness; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown style %q", ErrPrecondition, s)
}

type ColorizeOptions struct {
	Metric Metric
	Style  Style
	// Number of bands the preserved component is snapped to.
	// 0 keeps it continuous. Ignored by StyleReplace.
	RampCount int
	// Cluster the grid into len(palette) groups and map groups to palette
	// colors with the assignment of least total distance.
	UseGroups bool
	// Random source for group clustering. Required when UseGroups is set.
	Rand *rand.Rand
}

// ColorizeResult describes the group matching of a Colorize call. Both
// fields are nil when groups were not used.
type ColorizeResult struct {
	// Group centroids in cluster order.
	Groups Palette
	// Mapping[i] is the palette index assigned to group i.
	Mapping []int
}

// Colorize moves the current color of every cell onto the palette. The
// closest palette color is searched from the cell's current color with
// opt.Metric; the first color with the smallest distance wins. Every
// argument is checked before any cell changes, so on error the grid is
// untouched.
func Colorize(g *Grid, p Palette, opt ColorizeOptions) (ColorizeResult, error) {
	var res ColorizeResult
	if g.empty() {
		return res, fmt.Errorf("%w: grid has no cells", ErrInput)
	}
	if len(p) == 0 {
		return res, fmt.Errorf("%w: palette is empty", ErrPrecondition)
	}
	if !opt.Metric.valid() {
		return res, fmt.Errorf("%w: unknown metric %d", ErrPrecondition, int(opt.Metric))
	}
	if !opt.Style.valid() {
		return res, fmt.Errorf("%w: unknown style %d", ErrPrecondition, int(opt.Style))
	}
	if opt.RampCount < 0 {
		return res, fmt.Errorf("%w: ramp count %d", ErrPrecondition, opt.RampCount)
	}

	target := p
	if opt.UseGroups {
		if len(p) > MaxGroupColors {
			return res, fmt.Errorf("%w: %d colors exceed the group limit of %d", ErrPrecondition, len(p), MaxGroupColors)
		}
		groups, err := ExtractPalette(g, len(p), opt.Rand)
		if err != nil {
			return res, err
		}
		mapping, _, err := MatchGroups(groups, p, opt.Metric)
		if err != nil {
			return res, err
		}
		res.Groups = groups
		res.Mapping = mapping
		target = groups
	}

	for i := range g.cells {
		cur := g.cells[i].Current
		idx := Closest(cur, target, opt.Metric)
		matched := target[idx]
		if opt.UseGroups {
			matched = p[res.Mapping[idx]]
		}
		g.cells[i].Current = applyStyle(cur, matched, opt.Style, opt.RampCount)
	}
	return res, nil
}

// Closest returns the index of the palette color nearest to c. Ties go to
// the lowest index. p must not be empty.
func Closest(c colorful.Color, p Palette, m Metric) int {
	best := 0
	bestD := math.Inf(1)
	for i, pc := range p {
		d := m.Distance(c, pc)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// MatchGroups finds the one-to-one assignment of groups to palette colors
// with the smallest summed distance. It checks every permutation, which is
// exact but O(n!). The returned mapping sends group i to palette index
// mapping[i]; among equal totals the first permutation found is kept.
func MatchGroups(groups, p Palette, m Metric) ([]int, float64, error) {
	n := len(p)
	if n == 0 || len(groups) != n {
		return nil, 0, fmt.Errorf("%w: %d groups for %d palette colors", ErrPrecondition, len(groups), n)
	}
	if n > MaxGroupColors {
		return nil, 0, fmt.Errorf("%w: %d colors exceed the group limit of %d", ErrPrecondition, n, MaxGroupColors)
	}

	cost := mat.NewDense(n, n, nil)
	for i := range n {
		for j := range n {
			cost.Set(i, j, m.Distance(groups[i], p[j]))
		}
	}

	best := make([]int, n)
	bestTotal := math.Inf(1)
	perm := make([]int, n)
	gen := combin.NewPermutationGenerator(n, n)
	for gen.Next() {
		gen.Permutation(perm)
		total := 0.0
		for i, j := range perm {
			total += cost.At(i, j)
			if total >= bestTotal {
				break
			}
		}
		if total < bestTotal {
			bestTotal = total
			copy(best, perm)
		}
	}
	return best, bestTotal, nil
}

func applyStyle(cur, matched colorful.Color, style Style, ramp int) colorful.Color {
	switch style {
	case StylePreserveSaturation:
		h, _, v := HSV(matched)
		return FromHSV(h, quantize(Saturation(cur), ramp), v)
	case StylePreserveValue:
		h, s, _ := HSV(matched)
		return FromHSV(h, s, quantize(Value(cur), ramp))
	case StylePreserveBrightness:
		return Scale(matched, quantize(Brightness(cur), ramp))
	default:
		return matched
	}
}

// quantize snaps x in [0,1] to the nearest of n equal steps.
func quantize(x float64, n int) float64 {
	if n <= 0 {
		return x
	}
	return math.RoundToEven(x*float64(n)) / float64(n)
}
