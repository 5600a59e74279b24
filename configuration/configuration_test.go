package configuration

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.Equal(t, 16, c.Rows)
	assert.Equal(t, 64, c.NewCols)
	assert.Equal(t, 40, c.MaxBlobs)
	assert.Equal(t, 10, c.Threshold)
	assert.Equal(t, 10, c.CalibrationCycles)
	assert.Len(t, c.TrackerOptions(), 5)
}

func TestValidate(t *testing.T) {
	broken := []func(*Configuration){
		func(c *Configuration) { c.Rows = 1 },
		func(c *Configuration) { c.NewCols = 8 },
		func(c *Configuration) { c.Threshold = 256 },
		func(c *Configuration) { c.MaxBlobs = 0 },
		func(c *Configuration) { c.MinDistance = 0 },
		func(c *Configuration) { c.Matching = "nearest" },
		func(c *Configuration) { c.IoUThreshold = 1 },
		func(c *Configuration) { c.FrameRate = 0 },
		func(c *Configuration) { c.QoS = 3 },
	}
	for i, breakIt := range broken {
		c := Default()
		breakIt(&c)
		assert.Equal(t, ErrInvalid, errors.Cause(c.Validate()), "case %d", i)
	}
}

func TestValidateMatching(t *testing.T) {
	for _, name := range []string{"greedy", "hungarian", "iou"} {
		c := Default()
		c.Matching = name
		assert.NoError(t, c.Validate(), name)
	}
}
