package serialport

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestOptionsDefaults(t *testing.T) {
	opts, err := Options{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	mode, err := Options{}.Mode()
	require.NoError(t, err)
	assert.Equal(t, 230400, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
}

func TestOptionsExplicit(t *testing.T) {
	mode, err := Options{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "even"}.Mode()
	require.NoError(t, err)
	assert.Equal(t, 9600, mode.BaudRate)
	assert.Equal(t, 7, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)

	mode, err = Options{Parity: " o "}.Mode()
	require.NoError(t, err)
	assert.Equal(t, serial.OddParity, mode.Parity)
}

func TestOptionsInvalid(t *testing.T) {
	invalid := []Options{
		{DataBits: 9},
		{DataBits: 4},
		{StopBits: 3},
		{Parity: "mark"},
	}
	for _, opts := range invalid {
		_, err := opts.Mode()
		assert.Equal(t, ErrInvalidOptions, errors.Cause(err), "%+v", opts)
	}
	_, err := Open("/dev/null-does-not-exist", Options{DataBits: 9})
	assert.Equal(t, ErrInvalidOptions, errors.Cause(err))
}
