package blobs

import (
	"math"
)

// Point is a centroid: X and Y are grid coordinates, Z is a derived magnitude
type Point struct {
	X float64
	Y float64
	Z float64
}

func NewPoint(x, y, z float64) Point {
	return Point{
		X: x,
		Y: y,
		Z: z,
	}
}

// euclideanDistance is planar distance, Z is ignored
func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

// Rectangle is the bounding box of a region in grid cells.
// X and Y are the first row and column covered, Width spans rows and Height spans columns
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRectangle(x, y, width, height float64) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Translate returns r moved by (dx, dy)
func (r Rectangle) Translate(dx, dy float64) Rectangle {
	r.X += dx
	r.Y += dy
	return r
}

// iou returns intersection over union of two boxes, 0 when they do not overlap
func iou(r1, r2 Rectangle) float64 {
	xA := math.Max(r1.X, r2.X)
	yA := math.Max(r1.Y, r2.Y)
	xB := math.Min(r1.X+r1.Width, r2.X+r2.Width)
	yB := math.Min(r1.Y+r1.Height, r2.Y+r2.Height)

	interArea := math.Max(0, xB-xA) * math.Max(0, yB-yA)
	if interArea == 0 {
		return 0.0
	}
	r1Area := r1.Width * r1.Height
	r2Area := r2.Width * r2.Height
	return interArea / (r1Area + r2Area - interArea)
}
