package matrix

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Upsampler fills a higher resolution grid from a raw one by bilinear sampling.
// Output cell (r, c) samples the raw grid at (r*(rows-1)/(newRows-1), c*(cols-1)/(newCols-1)),
// so corners of both grids coincide.
type Upsampler struct {
	rows int
	cols int
	// Sampling positions, precomputed once
	xs  []float64
	ys  []float64
	out *Grid
}

// NewUpsampler prepares sampling of rows x cols frames into newRows x newCols ones
func NewUpsampler(rows, cols, newRows, newCols int) (*Upsampler, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrDimensions, "raw grid %dx%d", rows, cols)
	}
	out, err := NewGrid(newRows, newCols)
	if err != nil {
		return nil, errors.Wrap(err, "upsampled grid")
	}
	return &Upsampler{
		rows: rows,
		cols: cols,
		xs:   samplingPositions(newRows, rows),
		ys:   samplingPositions(newCols, cols),
		out:  out,
	}, nil
}

// samplingPositions spreads n positions evenly over [0, size-1]
func samplingPositions(n, size int) []float64 {
	positions := make([]float64, n)
	if n < 2 {
		return positions
	}
	last := float64(size - 1)
	floats.Span(positions, 0, last)
	// Span may overshoot the last position by an ulp, which would sample outside the grid
	for i := range positions {
		positions[i] = math.Min(positions[i], last)
	}
	return positions
}

// Output returns the upsampled grid. It is overwritten by every Upsample call
func (upsampler *Upsampler) Output() *Grid {
	return upsampler.out
}

// Upsample interpolates raw into the output grid and returns it
func (upsampler *Upsampler) Upsample(raw *Grid) (*Grid, error) {
	if raw.Rows != upsampler.rows || raw.Cols != upsampler.cols {
		return nil, errors.Wrapf(ErrFrameSize, "got %dx%d grid, expected %dx%d", raw.Rows, raw.Cols, upsampler.rows, upsampler.cols)
	}
	out := upsampler.out
	for r, x := range upsampler.xs {
		row := out.Values[r*out.Cols : (r+1)*out.Cols]
		for c, y := range upsampler.ys {
			row[c] = toIntensity(BilinearSample(raw, x, y))
		}
	}
	return out, nil
}

// toIntensity rounds and saturates to the 8-bit range
func toIntensity(value float64) uint8 {
	value = math.Round(value)
	if value <= 0 {
		return 0
	}
	if value >= math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(value)
}
