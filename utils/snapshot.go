package utils

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/pixelizer"
)

const snapshotMagic = "PXG1"

var ErrInvalidMagic = errors.New("snapshot: invalid magic")

// Snapshot is a grid together with the palette it was colorized with.
type Snapshot struct {
	Grid    *pixelizer.Grid
	Palette pixelizer.Palette
}

type snapshotJSON struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Original [][3]float64 `json:"original"`
	Current  [][3]float64 `json:"current"`
	Palette  [][3]float64 `json:"palette,omitempty"`
}

func toTriples(cs []colorful.Color) [][3]float64 {
	out := make([][3]float64, len(cs))
	for i, c := range cs {
		out[i] = [3]float64{c.R, c.G, c.B}
	}
	return out
}

func fromTriples(ts [][3]float64) []colorful.Color {
	out := make([]colorful.Color, len(ts))
	for i, t := range ts {
		out[i] = colorful.Color{R: t[0], G: t[1], B: t[2]}
	}
	return out
}

// EncodeSnapshot writes a magic header followed by a zstd frame holding the
// grid (row-major original and current colors) and palette as JSON.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	if s.Grid == nil || s.Grid.Len() == 0 {
		return fmt.Errorf("%w: grid has no cells", pixelizer.ErrInput)
	}
	doc := snapshotJSON{
		Width:    s.Grid.Width(),
		Height:   s.Grid.Height(),
		Original: toTriples(s.Grid.OriginalColors()),
		Current:  toTriples(s.Grid.CurrentColors()),
		Palette:  toTriples(s.Palette),
	}
	if _, err := io.WriteString(w, snapshotMagic); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(doc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// DecodeSnapshot reads data produced by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return s, err
	}
	if string(magic) != snapshotMagic {
		return s, ErrInvalidMagic
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return s, err
	}
	defer dec.Close()

	var doc snapshotJSON
	if err := json.NewDecoder(dec).Decode(&doc); err != nil {
		return s, fmt.Errorf("snapshot: %w", err)
	}
	if len(doc.Current) != len(doc.Original) {
		return s, fmt.Errorf("%w: %d current colors for %d cells", pixelizer.ErrInput, len(doc.Current), len(doc.Original))
	}
	g, err := pixelizer.NewGrid(doc.Width, doc.Height, fromTriples(doc.Original))
	if err != nil {
		return s, err
	}
	for i, c := range fromTriples(doc.Current) {
		g.SetCurrent(i%doc.Width, i/doc.Width, c)
	}
	s.Grid = g
	if len(doc.Palette) > 0 {
		s.Palette = fromTriples(doc.Palette)
	}
	return s, nil
}

func WriteSnapshot(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := EncodeSnapshot(bw, s); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func ReadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return DecodeSnapshot(bufio.NewReader(f))
}
