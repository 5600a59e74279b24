package matrix

import "github.com/pkg/errors"

// Threshold clears bitmap, then raises flag i for every cell of grid strictly above level.
// Returns number of raised flags.
func Threshold(grid *Grid, level uint8, bitmap Bitmap) (int, error) {
	if bitmap.Cells() < grid.Len() {
		return 0, errors.Wrapf(ErrBitmapSize, "%d cells for %dx%d grid", bitmap.Cells(), grid.Rows, grid.Cols)
	}
	bitmap.Clear()
	active := 0
	for i, value := range grid.Values {
		if value > level {
			bitmap.Set(i)
			active++
		}
	}
	return active, nil
}
