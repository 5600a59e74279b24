package matrix

import "github.com/pkg/errors"

var (
	// ErrFrameSize is returned when a frame does not match grid dimensions
	ErrFrameSize = errors.New("frame size mismatch")
	// ErrBitmapSize is returned when a bitmap can not hold every cell of a grid
	ErrBitmapSize = errors.New("bitmap too small")
	// ErrDimensions is returned for non-positive grid dimensions
	ErrDimensions = errors.New("invalid grid dimensions")
)
