package matrix

import (
	"testing"

	"github.com/pkg/errors"
)

func TestUpsampleSmallGrid(t *testing.T) {
	raw, _ := NewGrid(2, 2)
	raw.Load([]byte{0, 100, 200, 250})
	upsampler, err := NewUpsampler(2, 2, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	out, err := upsampler.Upsample(raw)
	if err != nil {
		t.Fatal(err)
	}
	correct := []uint8{
		0, 50, 100,
		100, 138, 175,
		200, 225, 250,
	}
	for i := range correct {
		if out.Values[i] != correct[i] {
			t.Errorf("Wrong value of cell %d: %d, correct answer: %d", i, out.Values[i], correct[i])
		}
	}
	if out != upsampler.Output() {
		t.Error("Upsample should fill the preallocated output grid")
	}
}

func TestUpsampleKeepsCorners(t *testing.T) {
	raw, _ := NewGrid(16, 16)
	for i := range raw.Values {
		raw.Values[i] = uint8(i % 251)
	}
	upsampler, err := NewUpsampler(16, 16, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	out, err := upsampler.Upsample(raw)
	if err != nil {
		t.Fatal(err)
	}
	corners := [][4]int{
		{0, 0, 0, 0},
		{0, 15, 0, 63},
		{15, 0, 63, 0},
		{15, 15, 63, 63},
	}
	for _, c := range corners {
		if out.At(c[2], c[3]) != raw.At(c[0], c[1]) {
			t.Errorf("Wrong corner (%d, %d): %d, correct answer: %d", c[2], c[3], out.At(c[2], c[3]), raw.At(c[0], c[1]))
		}
	}
}

func TestUpsampleWrongFrame(t *testing.T) {
	upsampler, _ := NewUpsampler(16, 16, 64, 64)
	raw, _ := NewGrid(8, 8)
	if _, err := upsampler.Upsample(raw); errors.Cause(err) != ErrFrameSize {
		t.Errorf("Wrong error: %v, expected: %v", err, ErrFrameSize)
	}
	if _, err := NewUpsampler(0, 16, 64, 64); errors.Cause(err) != ErrDimensions {
		t.Errorf("Wrong error: %v, expected: %v", err, ErrDimensions)
	}
}
