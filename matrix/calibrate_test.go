package matrix

import (
	"testing"

	"github.com/pkg/errors"
)

func TestCalibrator(t *testing.T) {
	calibrator := NewCalibrator(3, 2)
	frame, _ := NewGrid(1, 3)

	frame.Load([]byte{10, 0, 100})
	done, err := calibrator.Feed(frame)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("Round finished too early")
	}
	frame.Load([]byte{20, 0, 101})
	done, err = calibrator.Feed(frame)
	if err != nil {
		t.Fatal(err)
	}
	if !done || calibrator.Calibrating() {
		t.Fatal("Round should be finished")
	}
	baseline := calibrator.Baseline()
	correct := []float64{15, 0, 100.5}
	for i := range correct {
		if baseline[i] != correct[i] {
			t.Errorf("Wrong baseline of cell %d: %v, correct answer: %v", i, baseline[i], correct[i])
		}
	}

	frame.Load([]byte{12, 40, 255})
	if err := calibrator.Apply(frame); err != nil {
		t.Fatal(err)
	}
	// 154.5 rounds half away from zero
	corrected := []uint8{0, 40, 155}
	for i := range corrected {
		if frame.Values[i] != corrected[i] {
			t.Errorf("Wrong value of cell %d: %d, correct answer: %d", i, frame.Values[i], corrected[i])
		}
	}

	if done, _ := calibrator.Feed(frame); done {
		t.Error("Feed outside of a round should be ignored")
	}
}

func TestCalibratorIdentityBeforeRound(t *testing.T) {
	calibrator := NewCalibrator(2, 0)
	frame, _ := NewGrid(1, 2)
	frame.Load([]byte{7, 9})
	if err := calibrator.Apply(frame); err != nil {
		t.Fatal(err)
	}
	if frame.Values[0] != 7 || frame.Values[1] != 9 {
		t.Errorf("Frame changed without baseline: %v", frame.Values)
	}
	wrong, _ := NewGrid(2, 2)
	if err := calibrator.Apply(wrong); errors.Cause(err) != ErrFrameSize {
		t.Errorf("Wrong error: %v, expected: %v", err, ErrFrameSize)
	}
}
