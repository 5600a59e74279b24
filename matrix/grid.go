package matrix

import "github.com/pkg/errors"

// Grid is a row-major matrix of 8-bit intensities
type Grid struct {
	Rows   int
	Cols   int
	Values []uint8
}

// NewGrid returns zeroed grid
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrDimensions, "%dx%d", rows, cols)
	}
	return &Grid{
		Rows:   rows,
		Cols:   cols,
		Values: make([]uint8, rows*cols),
	}, nil
}

// Len is number of cells
func (grid *Grid) Len() int {
	return grid.Rows * grid.Cols
}

// Index returns position of (row, col) in Values
func (grid *Grid) Index(row, col int) int {
	return row*grid.Cols + col
}

func (grid *Grid) At(row, col int) uint8 {
	return grid.Values[grid.Index(row, col)]
}

func (grid *Grid) Set(row, col int, value uint8) {
	grid.Values[grid.Index(row, col)] = value
}

// Load copies a raw frame into the grid. Frame must hold exactly Rows*Cols bytes
func (grid *Grid) Load(frame []byte) error {
	if len(frame) != grid.Len() {
		return errors.Wrapf(ErrFrameSize, "got %d bytes, expected %d", len(frame), grid.Len())
	}
	copy(grid.Values, frame)
	return nil
}

// Bytes returns underlying values. The slice is reused on the next frame
func (grid *Grid) Bytes() []byte {
	return grid.Values
}
