package sensor

import (
	"context"
	"io"

	"github.com/eTextile/matrix-go/publish"
	"github.com/eTextile/matrix-go/wire"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Device connects a Pipeline to its links:
// raw frames come from source as SLIP-framed /r messages, host requests come from host,
// a snapshot of the tracker goes to publisher after every frame.
type Device struct {
	pipeline  *Pipeline
	source    io.ReadCloser
	host      io.ReadWriteCloser
	encoder   *wire.Encoder
	publisher publish.Publisher
	snapshot  publish.Snapshot
	maxFrame  int
}

// NewDevice takes ownership of links: Run closes them on return. host may be nil
func NewDevice(pipeline *Pipeline, source io.ReadCloser, host io.ReadWriteCloser, publisher publish.Publisher, session uuid.UUID) *Device {
	if publisher == nil {
		publisher = publish.Discard{}
	}
	device := &Device{
		pipeline:  pipeline,
		source:    source,
		host:      host,
		publisher: publisher,
		snapshot:  publish.Snapshot{Session: session},
		maxFrame:  wire.DefaultMaxFrame,
	}
	if host != nil {
		device.encoder = wire.NewEncoder(host)
	}
	return device
}

// Run processes frames and serves host requests until ctx is done or the frame source fails.
// Cancellation is not an error.
func (device *Device) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	frames := make(chan []byte)
	commands := make(chan wire.Command)

	group.Go(func() error {
		return device.readFrames(ctx, frames)
	})
	if device.host != nil {
		group.Go(func() error {
			return device.readCommands(ctx, commands)
		})
	}
	group.Go(func() error {
		// Unblocks readers
		<-ctx.Done()
		device.closeLinks()
		return nil
	})
	group.Go(func() error {
		return device.loop(ctx, frames, commands)
	})

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loop is the only goroutine touching the pipeline
func (device *Device) loop(ctx context.Context, frames <-chan []byte, commands <-chan wire.Command) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-frames:
			if err := device.pipeline.Process(frame); err != nil {
				glog.Warningf("Frame dropped: %v", err)
				continue
			}
			if device.pipeline.Calibrating() {
				continue
			}
			tracker := device.pipeline.Tracker()
			device.snapshot.Fill(tracker.Frame(), tracker.Active())
			if err := device.publisher.Publish(&device.snapshot); err != nil {
				glog.Warningf("Snapshot not published: %v", err)
			}
		case command := <-commands:
			if err := device.serve(command); err != nil {
				return errors.Wrapf(err, "Can't answer %s request", command.Kind)
			}
		}
	}
}

// serve applies or answers a host request
func (device *Device) serve(command wire.Command) error {
	glog.V(1).Infof("Host request: %s %d", command.Kind, command.Value)
	switch command.Kind {
	case wire.CommandRaw:
		return device.encoder.WriteMessage(wire.RawFrameMessage(device.pipeline.Raw().Bytes()))
	case wire.CommandInterpolated:
		return device.encoder.WriteMessage(wire.InterpolatedFrameMessage(device.pipeline.Interpolated().Bytes()))
	case wire.CommandBlobs:
		for _, blob := range device.pipeline.Tracker().Active() {
			if err := device.encoder.WriteMessage(wire.BlobMessage(wire.NewBlobReport(blob))); err != nil {
				return err
			}
		}
		return nil
	case wire.CommandCalibrate:
		glog.Infof("Calibration over %d frames requested", command.Value)
		device.pipeline.Calibrate(command.Value)
		return nil
	case wire.CommandThreshold:
		device.pipeline.SetThreshold(uint8(min(command.Value, 255)))
		glog.Infof("Threshold set to %d", device.pipeline.Threshold())
		return nil
	default:
		return errors.Wrapf(wire.ErrUnknownCommand, "kind %d", command.Kind)
	}
}

func (device *Device) readFrames(ctx context.Context, frames chan<- []byte) error {
	decoder := wire.NewDecoder(device.source, device.maxFrame)
	for {
		payload, err := decoder.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, wire.ErrMalformedFrame) || errors.Is(err, wire.ErrFrameTooLong) {
				glog.Warningf("Frame source: %v", err)
				continue
			}
			return errors.Wrap(err, "frame source")
		}
		msg, err := wire.ParseMessage(payload)
		if err != nil {
			glog.Warningf("Frame source: %v", err)
			continue
		}
		// Parsing copies the frame out of decoder's buffer
		frame, err := wire.ParseFrame(msg)
		if err != nil {
			glog.Warningf("Frame source: %v", err)
			continue
		}
		select {
		case frames <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (device *Device) readCommands(ctx context.Context, commands chan<- wire.Command) error {
	decoder := wire.NewDecoder(device.host, 0)
	for {
		payload, err := decoder.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, wire.ErrMalformedFrame) || errors.Is(err, wire.ErrFrameTooLong) {
				glog.Warningf("Host link: %v", err)
				continue
			}
			if err == io.EOF {
				// Host went away, frames are still processed and published
				glog.Infof("Host link closed")
				return nil
			}
			return errors.Wrap(err, "host link")
		}
		command, err := wire.DecodeCommand(payload)
		if err != nil {
			glog.Warningf("Host link: %v", err)
			continue
		}
		select {
		case commands <- command:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (device *Device) closeLinks() {
	if err := device.source.Close(); err != nil {
		glog.Warningf("Can't close frame source: %v", err)
	}
	if device.host != nil {
		if err := device.host.Close(); err != nil {
			glog.Warningf("Can't close host link: %v", err)
		}
	}
	if err := device.publisher.Close(); err != nil {
		glog.Warningf("Can't close publisher: %v", err)
	}
}
