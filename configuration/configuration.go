package configuration

import (
	"github.com/eTextile/matrix-go/blobs"
	"github.com/pkg/errors"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("invalid configuration")

type Configuration struct {
	Source   string `usage:"serial port streaming raw frames (empty: first port found)"`
	Host     string `usage:"serial port of the host visualizer (empty: no host link)"`
	BaudRate int    `usage:"serial baud rate"`

	Rows    int `usage:"raw grid rows"`
	Cols    int `usage:"raw grid columns"`
	NewRows int `usage:"upsampled grid rows"`
	NewCols int `usage:"upsampled grid columns"`

	Threshold         int `usage:"activity threshold, cells strictly above are active"`
	CalibrationCycles int `usage:"frames averaged into the baseline at startup"`

	MaxBlobs     int     `usage:"blob slots"`
	MinPixels    int     `usage:"smallest region becoming a blob"`
	MinDistance  float64 `usage:"largest centroid move between two frames (upsampled cells)"`
	MaxNoMatch   int     `usage:"frames a blob may be missing before it is dropped"`
	Matching     string  `usage:"association algorithm: greedy, hungarian or iou"`
	IoUThreshold float64 `usage:"lowest box overlap score accepted by iou matching"`
	Smoothing    bool    `usage:"Kalman smoothing of centroids"`
	FrameRate    float64 `usage:"expected frames per second"`

	Broker string `usage:"MQTT broker URL, e.g. mqtt://localhost:1883/etextile (empty: disabled)"`
	QoS    int    `usage:"MQTT QoS of snapshots"`

	LogVerbosity int  `usage:"glog verbosity, 2 traces pool events"`
	LogToStderr  bool `usage:"log to stderr instead of files"`
	ListPorts    bool `usage:"list serial ports and exit"`
	ShowConfig   bool `usage:"print config"`
	Version      bool `usage:"show version and exit"`
}

// Default matches the 16x16 eTextile matrix
func Default() Configuration {
	return Configuration{
		BaudRate:          230400,
		Rows:              16,
		Cols:              16,
		NewRows:           64,
		NewCols:           64,
		Threshold:         10,
		CalibrationCycles: 10,
		MaxBlobs:          40,
		MinPixels:         1,
		MinDistance:       8.0,
		MaxNoMatch:        3,
		Matching:          blobs.MatchingAlgorithmGreedy.String(),
		IoUThreshold:      0.0,
		Smoothing:         true,
		FrameRate:         200,
		QoS:               0,
		LogToStderr:       true,
	}
}

// Validate checks values which can not be corrected silently
func (c Configuration) Validate() error {
	switch {
	case c.Rows < 2 || c.Cols < 2:
		return errors.Wrapf(ErrInvalid, "raw grid %dx%d, need at least 2x2", c.Rows, c.Cols)
	case c.NewRows < c.Rows || c.NewCols < c.Cols:
		return errors.Wrapf(ErrInvalid, "upsampled grid %dx%d smaller than raw %dx%d", c.NewRows, c.NewCols, c.Rows, c.Cols)
	case c.Threshold < 0 || c.Threshold > 255:
		return errors.Wrapf(ErrInvalid, "threshold %d out of [0, 255]", c.Threshold)
	case c.CalibrationCycles < 0:
		return errors.Wrapf(ErrInvalid, "calibration cycles %d", c.CalibrationCycles)
	case c.MaxBlobs <= 0:
		return errors.Wrapf(ErrInvalid, "max blobs %d", c.MaxBlobs)
	case c.MinPixels < 0:
		return errors.Wrapf(ErrInvalid, "min pixels %d", c.MinPixels)
	case c.MinDistance <= 0:
		return errors.Wrapf(ErrInvalid, "min distance %v", c.MinDistance)
	case c.MaxNoMatch < 0:
		return errors.Wrapf(ErrInvalid, "max no match %d", c.MaxNoMatch)
	case blobs.ParseMatchingAlgorithm(c.Matching).String() != c.Matching:
		return errors.Wrapf(ErrInvalid, "matching %q", c.Matching)
	case c.IoUThreshold < 0 || c.IoUThreshold >= 1:
		return errors.Wrapf(ErrInvalid, "IoU threshold %v out of [0, 1)", c.IoUThreshold)
	case c.FrameRate <= 0:
		return errors.Wrapf(ErrInvalid, "frame rate %v", c.FrameRate)
	case c.QoS < 0 || c.QoS > 2:
		return errors.Wrapf(ErrInvalid, "QoS %d", c.QoS)
	}
	return nil
}

// TrackerOptions builds tracker options out of configuration
func (c Configuration) TrackerOptions() []blobs.TrackerOption {
	return []blobs.TrackerOption{
		blobs.WithMatchingAlgorithm(blobs.ParseMatchingAlgorithm(c.Matching)),
		blobs.WithIoUThreshold(c.IoUThreshold),
		blobs.WithMinPixels(uint32(c.MinPixels)),
		blobs.WithSmoothing(c.Smoothing),
		blobs.WithTimeStep(1 / c.FrameRate),
	}
}
