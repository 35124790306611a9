package pixelizer

import (
	"fmt"
	"image"
	"log"
	"math/rand/v2"
)

type Options struct {
	// Grid columns and rows.
	// Ideal start: 32-128 columns; every cell must cover at least one source pixel.
	Width, Height int
	// Dimension kept when the other one is derived from the source aspect
	// ratio. AxisNone uses Width and Height as given.
	Primary Axis
	// Colors extracted from the grid when the builder has no palette.
	// Ideal start: 4-16. 0 skips extraction and colorization.
	PaletteSize int
	// Seed for palette extraction and color groups. Same seed, same result.
	Seed uint64
	// Metric, style, ramp and group settings for the colorize stage.
	// Rand is ignored; the builder supplies its own seeded source.
	Colorize ColorizeOptions
}

func DefaultOptions() Options {
	return Options{
		Width:       64,
		Height:      64,
		Primary:     AxisWidth,
		PaletteSize: 8,
		Seed:        1,
		Colorize: ColorizeOptions{
			Metric: MetricRGB,
			Style:  StyleReplace,
		},
	}
}

// OptionsFromSize picks a grid width that gives cells of a few source pixels
// on common inputs; the height follows the aspect ratio.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	pixels := size.X * size.Y
	targetStep := 8
	if pixels > 512*512 {
		targetStep = 16
	}
	if pixels > 1920*1080 {
		targetStep = 32
	}
	opt.Width = max(8, min(256, size.X/targetStep))
	opt.Width, opt.Height = FitDimensions(size, opt.Width, opt.Height, AxisWidth)
	return opt
}

// Stage names a pipeline step reported to Builder.OnChange.
type Stage string

const (
	StagePixelize   Stage = "pixelize"
	StagePalette    Stage = "palette"
	StageColorize   Stage = "colorize"
	StageReset      Stage = "reset"
	StageComplement Stage = "complement"
	StageInvert     Stage = "invert"
	StageRender     Stage = "render"
)

// Event is passed to Builder.OnChange after a stage finished.
type Event struct {
	Stage   Stage
	Grid    *Grid
	Palette Palette
}

// Builder drives pixelize, palette extraction, colorize and render over one
// source image. It owns its grid and palette and is not safe for concurrent
// use.
type Builder struct {
	InputImage image.Image
	Grid       *Grid
	Palette    Palette
	// Group matching of the last colorize stage.
	Groups ColorizeResult
	// OnChange, if set, is called after every stage.
	OnChange func(Event)
	// Logger receives progress lines. nil silences the builder.
	Logger *log.Logger

	supplied Palette
}

// NewBuilder returns a builder for input. palette may be nil, in which case
// Build extracts one.
func NewBuilder(input image.Image, palette Palette) *Builder {
	return &Builder{
		InputImage: input,
		Palette:    palette.Clone(),
		Logger:     log.Default(),
		supplied:   palette.Clone(),
	}
}

// Build runs pixelize, extracts a palette of opt.PaletteSize colors unless
// one was supplied, and colorizes the grid. Every call starts over from the
// input image, so a palette extracted by an earlier Build is not reused.
func (b *Builder) Build(opt Options) error {
	b.Groups = ColorizeResult{}
	b.Palette = b.supplied.Clone()
	if err := b.Pixelize(opt); err != nil {
		return err
	}
	if len(b.Palette) == 0 && opt.PaletteSize == 0 {
		b.Palette = nil
		b.logf("no palette requested, keeping pixelized colors")
		return nil
	}
	rng := rand.New(rand.NewPCG(opt.Seed, opt.Seed))
	if len(b.Palette) == 0 {
		if err := b.ExtractPalette(opt.PaletteSize, rng); err != nil {
			return err
		}
	}
	co := opt.Colorize
	co.Rand = rng
	return b.Colorize(co)
}

// SetPalette replaces the supplied palette used by later Build calls. An
// empty palette makes Build extract one again.
func (b *Builder) SetPalette(p Palette) {
	b.supplied = p.Clone()
	b.Palette = p.Clone()
}

// Pixelize replaces the grid with a new one built from the input image.
func (b *Builder) Pixelize(opt Options) error {
	if b.InputImage == nil {
		return fmt.Errorf("%w: no source image", ErrInput)
	}
	w, h := opt.Width, opt.Height
	if opt.Primary != AxisNone {
		w, h = FitDimensions(b.InputImage.Bounds().Size(), w, h, opt.Primary)
	}
	g, err := Pixelize(b.InputImage, w, h)
	if err != nil {
		return err
	}
	b.Grid = g
	b.logf("pixelized %dx%d image into %dx%d grid", b.InputImage.Bounds().Dx(), b.InputImage.Bounds().Dy(), w, h)
	b.notify(StagePixelize)
	return nil
}

// ExtractPalette replaces the palette with k colors clustered from the grid.
func (b *Builder) ExtractPalette(k int, rng *rand.Rand) error {
	p, err := ExtractPalette(b.Grid, k, rng)
	if err != nil {
		return err
	}
	b.Palette = p
	b.logf("extracted palette %s", p)
	b.notify(StagePalette)
	return nil
}

func (b *Builder) Colorize(opt ColorizeOptions) error {
	res, err := Colorize(b.Grid, b.Palette, opt)
	if err != nil {
		return err
	}
	b.Groups = res
	if res.Mapping != nil {
		b.logf("colorized %d cells (%s, %s) through groups %v", b.Grid.Len(), opt.Metric, opt.Style, res.Mapping)
	} else {
		b.logf("colorized %d cells (%s, %s)", b.Grid.Len(), opt.Metric, opt.Style)
	}
	b.notify(StageColorize)
	return nil
}

// Reset restores the grid's original colors.
func (b *Builder) Reset() error {
	if b.Grid.empty() {
		return fmt.Errorf("%w: pixelize first", ErrInput)
	}
	b.Grid.ResetAll()
	b.notify(StageReset)
	return nil
}

func (b *Builder) Complement() error {
	if b.Grid.empty() {
		return fmt.Errorf("%w: pixelize first", ErrInput)
	}
	b.Grid.ComplementAll()
	b.notify(StageComplement)
	return nil
}

func (b *Builder) Invert() error {
	if b.Grid.empty() {
		return fmt.Errorf("%w: pixelize first", ErrInput)
	}
	b.Grid.InvertAll()
	b.notify(StageInvert)
	return nil
}

// Render texturizes the current grid.
func (b *Builder) Render(opt RenderOptions) (*Raster, error) {
	out, err := Render(b.Grid, opt)
	if err != nil {
		return nil, err
	}
	b.logf("rendered %dx%d image (%s)", out.W, out.H, opt.Mode)
	b.notify(StageRender)
	return out, nil
}

func (b *Builder) notify(s Stage) {
	if b.OnChange != nil {
		b.OnChange(Event{Stage: s, Grid: b.Grid, Palette: b.Palette})
	}
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}
