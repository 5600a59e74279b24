package matrix

// BilinearSample returns intensity of grid at fractional position (x, y).
// x is the row coordinate and y the column one. Four neighbors around (floor(x), floor(y))
// are blended by fractional parts; on the last row or column the missing neighbor is the edge cell itself.
// Positions outside [0, Rows-1] x [0, Cols-1] give 0.
func BilinearSample(grid *Grid, x, y float64) float64 {
	// Negated comparison so NaN falls outside too
	if !(x >= 0 && y >= 0 && x <= float64(grid.Rows-1) && y <= float64(grid.Cols-1)) {
		return 0
	}
	x0 := int(x)
	y0 := int(y)
	x1 := min(x0+1, grid.Rows-1)
	y1 := min(y0+1, grid.Cols-1)

	f00 := float64(grid.At(x0, y0))
	f01 := float64(grid.At(x0, y1))
	f10 := float64(grid.At(x1, y0))
	f11 := float64(grid.At(x1, y1))

	b1 := f00
	b2 := f10 - f00
	b3 := f01 - f00
	b4 := f00 - f01 - f10 + f11

	xdiff := x - float64(x0)
	ydiff := y - float64(y0)
	return b1 + b2*xdiff + b3*ydiff + b4*xdiff*ydiff
}
