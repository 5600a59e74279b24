package sensor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/eTextile/matrix-go/publish"
	"github.com/eTextile/matrix-go/wire"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// duplex is the device side of the host link: reads what test writes and the other way round
type duplex struct {
	*io.PipeReader
	*io.PipeWriter
}

func (d duplex) Close() error {
	d.PipeReader.Close()
	return d.PipeWriter.Close()
}

// recorder copies every published snapshot into a channel
type recorder struct {
	snapshots chan publish.Snapshot
}

func (r *recorder) Publish(snapshot *publish.Snapshot) error {
	copied := *snapshot
	copied.Blobs = append([]publish.BlobState(nil), snapshot.Blobs...)
	r.snapshots <- copied
	return nil
}

func (r *recorder) Close() error { return nil }

type harness struct {
	source    *io.PipeWriter
	hostIn    *wire.Encoder
	hostOut   *wire.Decoder
	published chan publish.Snapshot
	done      chan error
	cancel    context.CancelFunc
}

func startDevice(t *testing.T, session uuid.UUID) *harness {
	t.Helper()
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	sourceR, sourceW := io.Pipe()
	commandsR, commandsW := io.Pipe()
	answersR, answersW := io.Pipe()
	rec := &recorder{snapshots: make(chan publish.Snapshot, 8)}
	device := NewDevice(pipeline, sourceR, duplex{commandsR, answersW}, rec, session)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		source:    sourceW,
		hostIn:    wire.NewEncoder(commandsW),
		hostOut:   wire.NewDecoder(answersR, 0),
		published: rec.snapshots,
		done:      make(chan error, 1),
		cancel:    cancel,
	}
	go func() {
		h.done <- device.Run(ctx)
	}()
	t.Cleanup(cancel)
	return h
}

func (h *harness) sendFrame(t *testing.T, frame []byte) publish.Snapshot {
	t.Helper()
	require.NoError(t, wire.NewEncoder(h.source).WriteMessage(wire.RawFrameMessage(frame)))
	select {
	case snapshot := <-h.published:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("No snapshot published")
	}
	return publish.Snapshot{}
}

func (h *harness) request(t *testing.T, address string) []byte {
	t.Helper()
	require.NoError(t, h.hostIn.WriteMessage(wire.RequestMessage(address)))
	payload, err := h.hostOut.Next()
	require.NoError(t, err)
	return append([]byte(nil), payload...)
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	return nil
}

func TestDeviceServesHost(t *testing.T) {
	session := uuid.New()
	h := startDevice(t, session)

	snapshot := h.sendFrame(t, pressAt(1, 1, 0, 200))
	expected := publish.Snapshot{
		Session: session,
		Frame:   1,
		Blobs:   []publish.BlobState{{ID: 0, Alive: true, X: 2, Y: 2, Z: 200, W: 3, H: 3, Pixels: 9}},
	}
	if diff := cmp.Diff(expected, snapshot); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	msg, err := wire.ParseMessage(h.request(t, wire.AddressBlob))
	require.NoError(t, err)
	report, err := wire.ParseBlobReport(msg)
	require.NoError(t, err)
	assert.Equal(t, wire.BlobReport{ID: 0, Alive: 1, X: 2, Y: 2, W: 3, H: 3, D: 200}, report)

	msg, err = wire.ParseMessage(h.request(t, wire.AddressRaw))
	require.NoError(t, err)
	raw, err := wire.ParseFrame(msg)
	require.NoError(t, err)
	assert.Equal(t, pressAt(1, 1, 0, 200), raw)

	msg, err = wire.ParseMessage(h.request(t, wire.AddressInterpolated))
	require.NoError(t, err)
	interpolated, err := wire.ParseFrame(msg)
	require.NoError(t, err)
	require.Len(t, interpolated, 49)
	assert.Equal(t, byte(200), interpolated[2*7+2])

	// Requests are served in order, so the raw answer proves threshold is applied
	require.NoError(t, h.hostIn.WriteMessage(wire.ThresholdMessage(150)))
	h.request(t, wire.AddressRaw)
	snapshot = h.sendFrame(t, pressAt(1, 1, 0, 200))
	require.Len(t, snapshot.Blobs, 1)
	assert.Equal(t, uint32(1), snapshot.Blobs[0].Pixels)

	h.cancel()
	assert.NoError(t, h.wait(t))
}

func TestDeviceSkipsBadFrames(t *testing.T) {
	h := startDevice(t, uuid.New())

	// Wrong size frame and a frame that is not OSC are dropped
	require.NoError(t, wire.NewEncoder(h.source).WriteMessage(wire.RawFrameMessage([]byte{1, 2, 3})))
	require.NoError(t, wire.NewEncoder(h.source).Encode([]byte("garbage")))

	snapshot := h.sendFrame(t, pressAt(0, 0, 0, 0))
	assert.Equal(t, uint64(1), snapshot.Frame)
	assert.Empty(t, snapshot.Blobs)

	h.cancel()
	assert.NoError(t, h.wait(t))
}

func TestDeviceStopsOnSourceError(t *testing.T) {
	h := startDevice(t, uuid.New())
	h.source.Close()
	err := h.wait(t)
	require.Error(t, err)
	assert.Equal(t, io.EOF, errors.Cause(err))
}
