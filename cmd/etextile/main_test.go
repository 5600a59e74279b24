package main

import (
	"context"
	"io"
	"testing"

	"github.com/eTextile/matrix-go/configuration"
	"github.com/eTextile/matrix-go/serialport"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipePort never delivers data and swallows writes
type pipePort struct {
	*io.PipeReader
	closed bool
}

func (p *pipePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *pipePort) Close() error {
	p.closed = true
	return p.PipeReader.Close()
}

func TestRunStopsOnCancel(t *testing.T) {
	c := configuration.Default()
	c.Source = "source"
	c.Host = "host"

	opened := map[string]*pipePort{}
	open := func(path string, options serialport.Options) (serialport.Port, error) {
		assert.Equal(t, c.BaudRate, options.BaudRate)
		r, _ := io.Pipe()
		port := &pipePort{PipeReader: r}
		opened[path] = port
		return port, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, run(ctx, c, open))
	require.Len(t, opened, 2)
	assert.True(t, opened["source"].closed)
	assert.True(t, opened["host"].closed)
}

func TestRunOpenError(t *testing.T) {
	c := configuration.Default()
	c.Source = "source"
	failure := errors.New("busy")
	open := func(string, serialport.Options) (serialport.Port, error) {
		return nil, failure
	}
	err := run(context.Background(), c, open)
	assert.Equal(t, failure, errors.Cause(err))

	c.MaxBlobs = 0
	assert.Error(t, run(context.Background(), c, open))
}
