package matrix

import "testing"

func TestBitmapSetGet(t *testing.T) {
	cells := 64 * 64
	bitmap := NewBitmap(cells)
	if len(bitmap) != cells/8 {
		t.Fatalf("Wrong size: %d, expected: %d", len(bitmap), cells/8)
	}
	indices := []int{0, 7, 8, 9, 1000, cells - 1}
	for _, i := range indices {
		bitmap.Set(i)
	}
	for i := 0; i < cells; i++ {
		expected := uint8(0)
		for _, j := range indices {
			if i == j {
				expected = 1
			}
		}
		if got := bitmap.Get(i); got != expected {
			t.Errorf("Wrong flag of cell %d: %d, expected: %d", i, got, expected)
		}
	}
	if bitmap.Count() != len(indices) {
		t.Errorf("Wrong count: %d, expected: %d", bitmap.Count(), len(indices))
	}
	bitmap.Clear()
	for i := 0; i < cells; i++ {
		if bitmap.IsSet(i) {
			t.Fatalf("Cell %d still set after clear", i)
		}
	}
}

func TestBitmapLayout(t *testing.T) {
	bitmap := NewBitmap(16)
	bitmap.Set(3)
	bitmap.Set(8)
	bitmap.Set(15)
	if bitmap[0] != 0x08 || bitmap[1] != 0x81 {
		t.Errorf("Wrong layout: %08b %08b", bitmap[0], bitmap[1])
	}
	if NewBitmap(9).Cells() != 16 {
		t.Errorf("Wrong capacity: %d, expected: 16", NewBitmap(9).Cells())
	}
}
