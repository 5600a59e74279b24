// Package sensor runs the acquisition cycle of the matrix sensor and serves the host link.
package sensor

import (
	"github.com/eTextile/matrix-go/blobs"
	"github.com/eTextile/matrix-go/ccl"
	"github.com/eTextile/matrix-go/configuration"
	"github.com/eTextile/matrix-go/matrix"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Pipeline turns raw frames into tracked blobs:
// calibrate -> upsample -> threshold -> label -> track.
// It is not safe for concurrent use; Device drives it from a single goroutine.
type Pipeline struct {
	raw        *matrix.Grid
	calibrator *matrix.Calibrator
	upsampler  *matrix.Upsampler
	active     matrix.Bitmap
	labeler    *ccl.Labeler
	tracker    *blobs.Tracker
	threshold  uint8

	// Frames seen, calibration included
	frames uint64
}

// NewPipeline allocates every buffer of the acquisition cycle. Extra options go to the tracker
func NewPipeline(c configuration.Configuration, options ...blobs.TrackerOption) (*Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	raw, err := matrix.NewGrid(c.Rows, c.Cols)
	if err != nil {
		return nil, err
	}
	upsampler, err := matrix.NewUpsampler(c.Rows, c.Cols, c.NewRows, c.NewCols)
	if err != nil {
		return nil, err
	}
	trackerOptions := append(c.TrackerOptions(), options...)
	pipeline := &Pipeline{
		raw:        raw,
		calibrator: matrix.NewCalibrator(raw.Len(), c.CalibrationCycles),
		upsampler:  upsampler,
		active:     matrix.NewBitmap(c.NewRows * c.NewCols),
		labeler:    ccl.NewLabeler(c.NewRows, c.NewCols, c.MaxBlobs),
		tracker:    blobs.NewTracker(c.MaxBlobs, c.MinDistance, c.MaxNoMatch, trackerOptions...),
		threshold:  uint8(c.Threshold),
	}
	return pipeline, nil
}

// Process runs one acquisition cycle over a raw frame (one byte per cell, row-major).
// Frames consumed by calibration are not tracked.
func (pipeline *Pipeline) Process(frame []byte) error {
	if err := pipeline.raw.Load(frame); err != nil {
		return err
	}
	pipeline.frames++
	if pipeline.calibrator.Calibrating() {
		done, err := pipeline.calibrator.Feed(pipeline.raw)
		if err != nil {
			return errors.Wrap(err, "calibration")
		}
		if done {
			glog.Infof("Calibration done after frame %d", pipeline.frames)
		}
		return nil
	}
	if err := pipeline.calibrator.Apply(pipeline.raw); err != nil {
		return err
	}
	upsampled, err := pipeline.upsampler.Upsample(pipeline.raw)
	if err != nil {
		return err
	}
	if _, err := matrix.Threshold(upsampled, pipeline.threshold, pipeline.active); err != nil {
		return err
	}
	detections, err := pipeline.labeler.Label(upsampled, pipeline.active)
	if err != nil {
		return err
	}
	if n := pipeline.labeler.Overflow(); n > 0 {
		glog.V(1).Infof("%d regions over the limit on frame %d", n, pipeline.frames)
	}
	return pipeline.tracker.Match(detections)
}

// Calibrate restarts baseline learning over cycles frames. Tracked blobs are forgotten
func (pipeline *Pipeline) Calibrate(cycles int) {
	pipeline.calibrator.Start(cycles)
	pipeline.tracker.Reset()
}

func (pipeline *Pipeline) Calibrating() bool {
	return pipeline.calibrator.Calibrating()
}

func (pipeline *Pipeline) SetThreshold(threshold uint8) {
	pipeline.threshold = threshold
}

func (pipeline *Pipeline) Threshold() uint8 {
	return pipeline.threshold
}

// Raw returns last raw frame with baseline removed
func (pipeline *Pipeline) Raw() *matrix.Grid {
	return pipeline.raw
}

// Interpolated returns last upsampled frame
func (pipeline *Pipeline) Interpolated() *matrix.Grid {
	return pipeline.upsampler.Output()
}

// Active returns last activity bitmap
func (pipeline *Pipeline) Active() matrix.Bitmap {
	return pipeline.active
}

func (pipeline *Pipeline) Tracker() *blobs.Tracker {
	return pipeline.tracker
}
