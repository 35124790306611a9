package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/setanarut/pixelizer"
	"github.com/setanarut/pixelizer/utils"
)

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file (required)")
	outputFile := flag.String("output", "out.png",
		"Path to save the rendered image (.png, .jpg, .gif, .qoi)")
	width := flag.Int("width", 0,
		"Grid width in cells (0 derives it from the image size)")
	height := flag.Int("height", 0,
		"Grid height in cells (0 follows the aspect ratio)")
	keepRatio := flag.Bool("ratio", true,
		"Derive the secondary grid dimension from the image aspect ratio")
	colors := flag.Int("colors", 8,
		"Palette size extracted from the grid (0 keeps pixelized colors)")
	paletteFile := flag.String("palette", "",
		"Palette file with one hex color per line (overrides -colors)")
	paletteFrom := flag.String("palette-from", "",
		"Read the palette straight from the image: dominantcolor or kmeans\n"+
			"(kmeans is not seeded and ignores -seed, so it varies between runs)")
	seed := flag.Uint64("seed", 1,
		"Seed for palette extraction and color groups")
	metric := flag.String("metric", "rgb",
		"Color distance: rgb, hue, saturation, value")
	style := flag.String("style", "replace",
		"Colorize style: replace, saturation, value, brightness")
	ramp := flag.Int("ramp", 0,
		"Bands for the preserved component (0 disables)")
	groups := flag.Bool("groups", false,
		"Match palette colors to color groups (palette size <= 20, slow above ~10)")
	op := flag.String("op", "",
		"Bulk operation after colorizing: complement, invert or reset")
	pixelSize := flag.Int("pixel", 8,
		"Output pixels per cell")
	outSize := flag.String("size", "",
		"Resample the output to WxH instead of using -pixel")
	filter := flag.String("filter", "bilinear",
		"Resample filter: bilinear, nearest, catmullrom, lanczos, box")
	paletteOut := flag.String("palette-out", "",
		"Write the palette as hex lines (.txt) or as a swatch image")
	snapshotOut := flag.String("snapshot", "",
		"Write the grid and palette as a compressed snapshot")
	quiet := flag.Bool("quiet", false,
		"Suppress progress output")
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Please specify an input file using the -input flag")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(config{
		input: *inputFile, output: *outputFile,
		width: *width, height: *height, keepRatio: *keepRatio,
		colors: *colors, paletteFile: *paletteFile, paletteFrom: *paletteFrom, seed: *seed,
		metric: *metric, style: *style, ramp: *ramp, groups: *groups, op: *op,
		pixelSize: *pixelSize, outSize: *outSize, filter: *filter,
		paletteOut: *paletteOut, snapshotOut: *snapshotOut, quiet: *quiet,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "pixelize:", err)
		os.Exit(1)
	}
}

type config struct {
	input, output           string
	width, height           int
	keepRatio               bool
	colors                  int
	paletteFile             string
	paletteFrom             string
	seed                    uint64
	metric, style           string
	ramp                    int
	groups                  bool
	op                      string
	pixelSize               int
	outSize, filter         string
	paletteOut, snapshotOut string
	quiet                   bool
}

func run(cfg config) error {
	img, err := utils.ReadImage(cfg.input)
	if err != nil {
		return err
	}

	opt := pixelizer.OptionsFromSize(img.Bounds().Size())
	opt.PaletteSize = cfg.colors
	opt.Seed = cfg.seed
	switch {
	case cfg.width > 0 && cfg.height > 0 && !cfg.keepRatio:
		opt.Width, opt.Height, opt.Primary = cfg.width, cfg.height, pixelizer.AxisNone
	case cfg.width > 0:
		opt.Width, opt.Primary = cfg.width, pixelizer.AxisWidth
	case cfg.height > 0:
		opt.Height, opt.Primary = cfg.height, pixelizer.AxisHeight
	}
	if opt.Colorize.Metric, err = pixelizer.ParseMetric(cfg.metric); err != nil {
		return err
	}
	if opt.Colorize.Style, err = pixelizer.ParseStyle(cfg.style); err != nil {
		return err
	}
	opt.Colorize.RampCount = cfg.ramp
	opt.Colorize.UseGroups = cfg.groups

	var palette pixelizer.Palette
	switch {
	case cfg.paletteFile != "":
		if palette, err = utils.ReadPalette(cfg.paletteFile); err != nil {
			return err
		}
	case cfg.paletteFrom != "":
		method, err := utils.ParsePaletteMethod(cfg.paletteFrom)
		if err != nil {
			return err
		}
		palette = utils.ExtractPalette(img, max(cfg.colors, 1), method)
		palette.SortByBrightness()
	}

	builder := pixelizer.NewBuilder(img, palette)
	if cfg.quiet {
		builder.Logger = nil
	}
	if err := builder.Build(opt); err != nil {
		return err
	}

	switch cfg.op {
	case "":
	case "complement":
		err = builder.Complement()
	case "invert":
		err = builder.Invert()
	case "reset":
		err = builder.Reset()
	default:
		err = fmt.Errorf("%w: unknown operation %q", pixelizer.ErrPrecondition, cfg.op)
	}
	if err != nil {
		return err
	}

	ro := pixelizer.RenderOptions{Mode: pixelizer.ModeBlock, PixelSize: cfg.pixelSize}
	if cfg.outSize != "" {
		ro.Mode = pixelizer.ModeResample
		if _, err := fmt.Sscanf(strings.ToLower(cfg.outSize), "%dx%d", &ro.Width, &ro.Height); err != nil {
			return fmt.Errorf("%w: size %q is not WxH", pixelizer.ErrPrecondition, cfg.outSize)
		}
		if ro.Filter, err = pixelizer.ParseFilter(cfg.filter); err != nil {
			return err
		}
	}
	out, err := builder.Render(ro)
	if err != nil {
		return err
	}
	if err := utils.SaveImage(out, cfg.output); err != nil {
		return err
	}

	if cfg.paletteOut != "" && len(builder.Palette) > 0 {
		if strings.HasSuffix(strings.ToLower(cfg.paletteOut), ".txt") {
			err = utils.WritePalette(builder.Palette, cfg.paletteOut)
		} else {
			err = utils.SavePalette(builder.Palette, 64, cfg.paletteOut)
		}
		if err != nil {
			return err
		}
	}
	if cfg.snapshotOut != "" {
		if err := utils.WriteSnapshot(utils.Snapshot{Grid: builder.Grid, Palette: builder.Palette}, cfg.snapshotOut); err != nil {
			return err
		}
	}
	if !cfg.quiet {
		log.Printf("saved %s", cfg.output)
	}
	return nil
}
