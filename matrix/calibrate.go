package matrix

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Calibrator learns the idle level of every raw cell and removes it from later frames.
//
// A calibration round averages a number of consecutive frames into the baseline.
// Until the first round ends the baseline is zero and Apply leaves frames untouched.
type Calibrator struct {
	cells     int
	remaining int
	fed       int
	sum       []float64
	baseline  []float64
	scratch   []float64
}

// NewCalibrator creates calibrator for frames of cells values and starts a round of cycles frames
func NewCalibrator(cells, cycles int) *Calibrator {
	calibrator := &Calibrator{
		cells:    cells,
		sum:      make([]float64, cells),
		baseline: make([]float64, cells),
		scratch:  make([]float64, cells),
	}
	calibrator.Start(cycles)
	return calibrator
}

// Start begins a new calibration round. Non-positive cycles cancels the running one and keeps current baseline
func (calibrator *Calibrator) Start(cycles int) {
	if cycles < 0 {
		cycles = 0
	}
	calibrator.remaining = cycles
	calibrator.fed = 0
	clear(calibrator.sum)
}

// Calibrating reports whether a round is in progress
func (calibrator *Calibrator) Calibrating() bool {
	return calibrator.remaining > 0
}

// Feed accumulates raw frame into the running round.
// Returns true when this frame completed the round and a new baseline is in place.
func (calibrator *Calibrator) Feed(raw *Grid) (bool, error) {
	if !calibrator.Calibrating() {
		return false, nil
	}
	if err := calibrator.load(raw); err != nil {
		return false, err
	}
	floats.Add(calibrator.sum, calibrator.scratch)
	calibrator.fed++
	calibrator.remaining--
	if calibrator.remaining > 0 {
		return false, nil
	}
	floats.ScaleTo(calibrator.baseline, 1/float64(calibrator.fed), calibrator.sum)
	return true, nil
}

// Apply subtracts baseline from raw in place, saturating at zero
func (calibrator *Calibrator) Apply(raw *Grid) error {
	if err := calibrator.load(raw); err != nil {
		return err
	}
	floats.Sub(calibrator.scratch, calibrator.baseline)
	for i, value := range calibrator.scratch {
		raw.Values[i] = toIntensity(math.Max(value, 0))
	}
	return nil
}

// Baseline returns per-cell idle level. The slice is owned by calibrator
func (calibrator *Calibrator) Baseline() []float64 {
	return calibrator.baseline
}

func (calibrator *Calibrator) load(raw *Grid) error {
	if raw.Len() != calibrator.cells {
		return errors.Wrapf(ErrFrameSize, "got %d cells, expected %d", raw.Len(), calibrator.cells)
	}
	for i, value := range raw.Values {
		calibrator.scratch[i] = float64(value)
	}
	return nil
}
