package pixelizer

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
)

// Iterations is the fixed number of k-means rounds run by ExtractPalette.
const Iterations = 10

// Palette is an ordered list of colors. The index of a color is its identity
// when palette entries are matched against color groups.
type Palette []colorful.Color

func (p Palette) Clone() Palette {
	return slices.Clone(p)
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Clamped().Hex()
	}
	return out
}

func (p Palette) String() string {
	return strings.Join(p.Hex(), " ")
}

// ParsePalette reads "#rgb" or "#rrggbb" colors. Blank entries are skipped.
func ParsePalette(hex []string) (Palette, error) {
	p := make(Palette, 0, len(hex))
	for _, s := range hex {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// SortByBrightness orders colors from darkest to brightest by relative
// luminance.
func (p Palette) SortByBrightness() {
	slices.SortStableFunc(p, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// ExtractPalette clusters the original colors of g into k colors.
//
// Centroids start as k original colors drawn with replacement from rng, then
// exactly Iterations rounds of assign/recenter run with no convergence test.
// A centroid that attracts no cells keeps its previous value. The returned
// palette is in centroid order, so the same grid and the same rng seed give
// the same palette.
func ExtractPalette(g *Grid, k int, rng *rand.Rand) (Palette, error) {
	if g.empty() {
		return nil, fmt.Errorf("%w: grid has no cells", ErrInput)
	}
	if k < 1 || k > g.Len() {
		return nil, fmt.Errorf("%w: palette size %d must be within 1..%d", ErrPrecondition, k, g.Len())
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: no random source", ErrPrecondition)
	}

	dataset := make(clusters.Observations, g.Len())
	for i, c := range g.cells {
		dataset[i] = clusters.Coordinates{c.original.R, c.original.G, c.original.B}
	}

	cc := make(clusters.Clusters, k)
	for i := range cc {
		seed := dataset[rng.IntN(len(dataset))].Coordinates()
		cc[i].Center = slices.Clone(seed)
	}

	for range Iterations {
		cc.Reset()
		for _, o := range dataset {
			ci := cc.Nearest(o)
			cc[ci].Append(o)
		}
		cc.Recenter()
	}

	out := make(Palette, k)
	for i, c := range cc {
		out[i] = colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
	}
	return out, nil
}
