package matrix

import (
	"testing"

	"github.com/pkg/errors"
)

func TestGridLayout(t *testing.T) {
	grid, err := NewGrid(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if grid.Index(2, 1) != 9 {
		t.Errorf("Wrong index: %d, expected: 9", grid.Index(2, 1))
	}
	grid.Set(2, 1, 77)
	if grid.Values[9] != 77 || grid.At(2, 1) != 77 {
		t.Errorf("Wrong cell: %d, expected: 77", grid.Values[9])
	}
	// Row-major: last cell of a row is followed by first cell of the next one
	if grid.Index(0, 3)+1 != grid.Index(1, 0) {
		t.Errorf("Rows are not contiguous: %d, %d", grid.Index(0, 3), grid.Index(1, 0))
	}
	if _, err := NewGrid(0, 4); errors.Cause(err) != ErrDimensions {
		t.Errorf("Wrong error: %v, expected: %v", err, ErrDimensions)
	}
}
