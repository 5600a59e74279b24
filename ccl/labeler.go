// Package ccl groups active cells of a thresholded frame into connected regions.
package ccl

import (
	"github.com/eTextile/matrix-go/blobs"
	"github.com/eTextile/matrix-go/matrix"
	"github.com/pkg/errors"
)

// ErrGridMismatch is returned when a frame does not match labeler dimensions
var ErrGridMismatch = errors.New("grid does not match labeler")

// Labeler finds 4-connected regions of active cells.
// Buffers are allocated once, so labeling a frame does not allocate.
type Labeler struct {
	rows     int
	cols     int
	maxBlobs int

	// Cells already assigned to a region
	visited matrix.Bitmap
	// Expansion queue, each cell enters it at most once per frame
	queue      []int
	detections []blobs.Detection
	// Regions skipped on last frame because maxBlobs was reached
	overflow int
}

// NewLabeler creates labeler for rows x cols frames reporting at most maxBlobs regions per frame
func NewLabeler(rows, cols, maxBlobs int) *Labeler {
	cells := rows * cols
	if maxBlobs < 0 {
		maxBlobs = 0
	}
	return &Labeler{
		rows:       rows,
		cols:       cols,
		maxBlobs:   maxBlobs,
		visited:    matrix.NewBitmap(cells),
		queue:      make([]int, 0, cells),
		detections: make([]blobs.Detection, 0, maxBlobs),
	}
}

// Overflow returns number of regions dropped on the last frame
func (labeler *Labeler) Overflow() int {
	return labeler.overflow
}

// Label scans active cells in row-major order and returns one detection per region.
// Centroid X (row) and Y (column) are weighted by intensity, Z is the region's peak intensity.
// Box spans the rows and columns the region covers, a single cell is a 1x1 box.
// Returned slice is reused by the next call.
func (labeler *Labeler) Label(grid *matrix.Grid, active matrix.Bitmap) ([]blobs.Detection, error) {
	if grid.Rows != labeler.rows || grid.Cols != labeler.cols {
		return nil, errors.Wrapf(ErrGridMismatch, "got %dx%d, expected %dx%d", grid.Rows, grid.Cols, labeler.rows, labeler.cols)
	}
	if active.Cells() < grid.Len() {
		return nil, errors.Wrapf(matrix.ErrBitmapSize, "%d cells for %dx%d grid", active.Cells(), grid.Rows, grid.Cols)
	}
	labeler.visited.Clear()
	labeler.detections = labeler.detections[:0]
	labeler.overflow = 0

	for seed := 0; seed < grid.Len(); seed++ {
		if !active.IsSet(seed) || labeler.visited.IsSet(seed) {
			continue
		}
		if len(labeler.detections) == labeler.maxBlobs {
			// Region is still consumed so it is counted once
			labeler.expand(grid, active, seed)
			labeler.overflow++
			continue
		}
		labeler.detections = append(labeler.detections, labeler.expand(grid, active, seed))
	}
	return labeler.detections, nil
}

// expand collects region containing seed with a breadth-first walk
func (labeler *Labeler) expand(grid *matrix.Grid, active matrix.Bitmap, seed int) blobs.Detection {
	queue := labeler.queue[:0]
	queue = append(queue, seed)
	labeler.visited.Set(seed)

	var sumW, sumX, sumY, sumRows, sumCols float64
	var peak uint8
	minRow, minCol := grid.Rows, grid.Cols
	maxRow, maxCol := 0, 0
	for j := 0; j < len(queue); j++ {
		idx := queue[j]
		row, col := idx/grid.Cols, idx%grid.Cols
		value := grid.Values[idx]
		w := float64(value)
		sumW += w
		sumX += w * float64(row)
		sumY += w * float64(col)
		sumRows += float64(row)
		sumCols += float64(col)
		if value > peak {
			peak = value
		}
		minRow, maxRow = min(minRow, row), max(maxRow, row)
		minCol, maxCol = min(minCol, col), max(maxCol, col)

		if row > 0 {
			queue = labeler.visit(active, queue, idx-grid.Cols)
		}
		if row < grid.Rows-1 {
			queue = labeler.visit(active, queue, idx+grid.Cols)
		}
		if col > 0 {
			queue = labeler.visit(active, queue, idx-1)
		}
		if col < grid.Cols-1 {
			queue = labeler.visit(active, queue, idx+1)
		}
	}
	labeler.queue = queue

	n := float64(len(queue))
	centroid := blobs.NewPoint(sumRows/n, sumCols/n, float64(peak))
	if sumW > 0 {
		centroid.X = sumX / sumW
		centroid.Y = sumY / sumW
	}
	return blobs.Detection{
		Centroid:   centroid,
		Box:        blobs.NewRectangle(float64(minRow), float64(minCol), float64(maxRow-minRow+1), float64(maxCol-minCol+1)),
		PixelCount: uint32(len(queue)),
	}
}

func (labeler *Labeler) visit(active matrix.Bitmap, queue []int, idx int) []int {
	if active.IsSet(idx) && !labeler.visited.IsSet(idx) {
		labeler.visited.Set(idx)
		queue = append(queue, idx)
	}
	return queue
}
