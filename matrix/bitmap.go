package matrix

// Bitmap packs one activity flag per cell, 8 cells per byte.
// Cell i is bit i%8 of byte i/8. Indices are not bounds checked.
type Bitmap []byte

// NewBitmap returns zeroed bitmap able to hold cells flags
func NewBitmap(cells int) Bitmap {
	if cells < 0 {
		cells = 0
	}
	return make(Bitmap, (cells+7)/8)
}

// Set raises flag of cell index
func (bitmap Bitmap) Set(index int) {
	bitmap[index>>3] |= 1 << uint(index&7)
}

// Get returns flag of cell index: 0 or 1
func (bitmap Bitmap) Get(index int) uint8 {
	return (bitmap[index>>3] >> uint(index&7)) & 1
}

// IsSet is Get as a bool
func (bitmap Bitmap) IsSet(index int) bool {
	return bitmap.Get(index) == 1
}

// Clear zeroes the whole buffer
func (bitmap Bitmap) Clear() {
	clear(bitmap)
}

// Cells is the number of flags bitmap can hold
func (bitmap Bitmap) Cells() int {
	return len(bitmap) * 8
}

// Count returns number of raised flags
func (bitmap Bitmap) Count() int {
	n := 0
	for _, b := range bitmap {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}
