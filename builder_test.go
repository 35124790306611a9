package pixelizer

import (
	"errors"
	"image"
	"image/color"
	"slices"
	"testing"
)

func TestFlatColorRoundTrip(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 255, A: 255})

	g, err := Pixelize(src, 2, 2)
	if err != nil {
		t.Fatalf("Pixelize: %v", err)
	}
	p, err := ExtractPalette(g, 1, seeded(1))
	if err != nil {
		t.Fatalf("ExtractPalette: %v", err)
	}
	if !slices.Equal(p, Palette{red}) {
		t.Fatalf("Expected [red], got %v", p)
	}
	if _, err := Colorize(g, p, ColorizeOptions{Metric: MetricRGB, Style: StyleReplace}); err != nil {
		t.Fatalf("Colorize: %v", err)
	}
	out, err := Render(g, RenderOptions{Mode: ModeBlock, PixelSize: 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.W != 4 || out.H != 4 {
		t.Fatalf("Expected 4x4 image, got %dx%d", out.W, out.H)
	}
	for y := range 4 {
		for x := range 4 {
			if out.RGB(x, y) != red || out.Alpha(x, y) != 1 {
				t.Errorf("Pixel (%d,%d) is not opaque red", x, y)
			}
		}
	}
}

func TestBuilderStages(t *testing.T) {
	src := solidImage(8, 4, color.NRGBA{R: 255, A: 255})
	b := NewBuilder(src, nil)
	b.Logger = nil

	var stages []Stage
	b.OnChange = func(e Event) {
		stages = append(stages, e.Stage)
		if e.Grid != b.Grid {
			t.Errorf("Event should carry the builder grid")
		}
	}

	opt := DefaultOptions()
	opt.Width, opt.Height, opt.Primary = 4, 99, AxisWidth
	opt.PaletteSize = 1
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Grid.Width() != 4 || b.Grid.Height() != 2 {
		t.Errorf("Expected 4x2 grid, got %dx%d", b.Grid.Width(), b.Grid.Height())
	}
	if !slices.Equal(b.Palette, Palette{red}) {
		t.Errorf("Expected [red], got %v", b.Palette)
	}
	out, err := b.Render(RenderOptions{Mode: ModeResample, Width: 16, Height: 8})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Errorf("Unexpected bounds %v", out.Bounds())
	}
	want := []Stage{StagePixelize, StagePalette, StageColorize, StageRender}
	if !slices.Equal(stages, want) {
		t.Errorf("Expected stages %v, got %v", want, stages)
	}
}

func TestBuilderSuppliedPaletteAndGroups(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := range 2 {
		for x := range 4 {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 2 {
				c = color.NRGBA{B: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	pal := Palette{blue, red}
	b := NewBuilder(src, pal)
	b.Logger = nil

	opt := DefaultOptions()
	opt.Width, opt.Height, opt.Primary = 4, 2, AxisNone
	opt.Colorize.UseGroups = true
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !slices.Equal(b.Palette, pal) {
		t.Errorf("Supplied palette should be kept, got %v", b.Palette)
	}
	if len(b.Groups.Mapping) != 2 {
		t.Errorf("Expected a group mapping, got %v", b.Groups.Mapping)
	}
	if b.Grid.Current(0, 0) != red || b.Grid.Current(3, 1) != blue {
		t.Errorf("Groups should map back onto matching colors, got %v %v", b.Grid.Current(0, 0), b.Grid.Current(3, 1))
	}

	if err := b.Invert(); err != nil {
		t.Fatal(err)
	}
	if err := b.Reset(); err != nil {
		t.Fatal(err)
	}
	if b.Grid.Current(0, 0) != red {
		t.Errorf("Reset should restore the original color, got %v", b.Grid.Current(0, 0))
	}
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / (w - 1)), G: uint8(y * 255 / (h - 1)), B: 64, A: 255})
		}
	}
	return img
}

func TestBuilderRebuildExtractsAgain(t *testing.T) {
	b := NewBuilder(gradientImage(8, 8), nil)
	b.Logger = nil
	opt := DefaultOptions()
	opt.Width, opt.Height, opt.Primary = 4, 4, AxisNone

	opt.PaletteSize = 2
	opt.Colorize.UseGroups = true
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(b.Palette) != 2 || len(b.Groups.Mapping) != 2 {
		t.Fatalf("Expected 2 colors and a group mapping, got %v %v", b.Palette, b.Groups.Mapping)
	}

	opt.PaletteSize = 5
	opt.Colorize.UseGroups = false
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(b.Palette) != 5 {
		t.Errorf("Expected a fresh 5 color palette, got %d colors", len(b.Palette))
	}
	if b.Groups.Mapping != nil || b.Groups.Groups != nil {
		t.Errorf("Groups of the previous build should be cleared, got %v", b.Groups)
	}

	opt.PaletteSize = 0
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Palette != nil {
		t.Errorf("Expected no palette, got %v", b.Palette)
	}
}

func TestBuilderSetPalette(t *testing.T) {
	b := NewBuilder(gradientImage(8, 8), nil)
	b.Logger = nil
	opt := DefaultOptions()
	opt.Width, opt.Height, opt.Primary = 4, 4, AxisNone
	opt.PaletteSize = 3

	b.SetPalette(Palette{black, white})
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !slices.Equal(b.Palette, Palette{black, white}) {
		t.Errorf("Supplied palette should win over PaletteSize, got %v", b.Palette)
	}

	b.SetPalette(nil)
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(b.Palette) != 3 {
		t.Errorf("Expected an extracted 3 color palette, got %v", b.Palette)
	}
}

func TestBuilderBulkStages(t *testing.T) {
	b := NewBuilder(solidImage(2, 2, color.NRGBA{R: 255, A: 255}), nil)
	b.Logger = nil
	opt := DefaultOptions()
	opt.Width, opt.Height, opt.PaletteSize = 2, 2, 0
	if err := b.Build(opt); err != nil {
		t.Fatal(err)
	}

	var stages []Stage
	b.OnChange = func(e Event) { stages = append(stages, e.Stage) }
	if err := b.Complement(); err != nil {
		t.Fatal(err)
	}
	if err := b.Invert(); err != nil {
		t.Fatal(err)
	}
	if err := b.Reset(); err != nil {
		t.Fatal(err)
	}
	want := []Stage{StageComplement, StageInvert, StageReset}
	if !slices.Equal(stages, want) {
		t.Errorf("Expected stages %v, got %v", want, stages)
	}
}

func TestBuilderWithoutPalette(t *testing.T) {
	b := NewBuilder(solidImage(2, 2, color.NRGBA{G: 255, A: 255}), nil)
	b.Logger = nil
	opt := DefaultOptions()
	opt.Width, opt.Height = 2, 2
	opt.PaletteSize = 0
	if err := b.Build(opt); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Palette != nil || b.Grid.Current(1, 1) != green {
		t.Errorf("Expected untouched pixelized grid, got palette %v", b.Palette)
	}
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder(nil, nil)
	b.Logger = nil
	if err := b.Build(DefaultOptions()); !errors.Is(err, ErrInput) {
		t.Errorf("Expected ErrInput, got %v", err)
	}
	if err := b.Reset(); !errors.Is(err, ErrInput) {
		t.Errorf("Expected ErrInput before pixelizing, got %v", err)
	}
	if _, err := b.Render(RenderOptions{PixelSize: 1}); !errors.Is(err, ErrInput) {
		t.Errorf("Expected ErrInput, got %v", err)
	}
}

func TestOptionsFromSize(t *testing.T) {
	opt := OptionsFromSize(image.Pt(400, 200))
	if opt.Width != 50 || opt.Height != 25 {
		t.Errorf("Expected 50x25 grid, got %dx%d", opt.Width, opt.Height)
	}
	opt = OptionsFromSize(image.Pt(40, 40))
	if opt.Width != 8 || opt.Height != 8 {
		t.Errorf("Expected the 8 cell minimum, got %dx%d", opt.Width, opt.Height)
	}
	if OptionsFromSize(image.Point{}) != DefaultOptions() {
		t.Error("Empty size should fall back to defaults")
	}
}
