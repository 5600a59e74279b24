// Package serialport opens the USB serial links of the sensor.
package serialport

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// ErrInvalidOptions is returned for unsupported serial parameters
var ErrInvalidOptions = errors.New("invalid serial options")

// Port is the minimal serial port used by the device loop, so tests can run on pipes
type Port interface {
	io.ReadWriter
	io.Closer
}

// Opener opens a port at path. Open is the real one
type Opener func(path string, options Options) (Port, error)

// Options are serial connection parameters
type Options struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
}

// DefaultOptions matches the Teensy firmware link
func DefaultOptions() Options {
	return Options{
		BaudRate: 230400,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
	}
}

// Normalize validates options and fills unset values with defaults
func (o Options) Normalize() (Options, error) {
	defaults := DefaultOptions()
	opts := o
	if opts.BaudRate <= 0 {
		opts.BaudRate = defaults.BaudRate
	}
	if opts.DataBits == 0 {
		opts.DataBits = defaults.DataBits
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, errors.Wrapf(ErrInvalidOptions, "data bits %d: must be between 5 and 8", opts.DataBits)
	}
	if opts.StopBits == 0 {
		opts.StopBits = defaults.StopBits
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, errors.Wrapf(ErrInvalidOptions, "stop bits %d: supported values are 1 or 2", opts.StopBits)
	}
	switch strings.ToUpper(strings.TrimSpace(opts.Parity)) {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, errors.Wrapf(ErrInvalidOptions, "parity %q: expected N, E or O", opts.Parity)
	}
	return opts, nil
}

// Mode converts options into go.bug.st/serial mode
func (o Options) Mode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// Open opens serial port at path
func Open(path string, options Options) (Port, error) {
	mode, err := options.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open serial port %s", path)
	}
	return port, nil
}

// List returns names of serial ports present on the system
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "Can't list serial ports")
	}
	return ports, nil
}
