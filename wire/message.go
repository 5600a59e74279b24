package wire

import (
	"math"

	"github.com/eTextile/matrix-go/blobs"
	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"
)

// OSC addresses
const (
	AddressRaw          = "/r"
	AddressInterpolated = "/i"
	AddressBlob         = "/b"
	AddressCalibrate    = "/c"
	AddressThreshold    = "/t"
)

// BlobReport is the payload unit sent for every active blob.
// Arguments go on the wire in field order: id, alive, centroid, then box width, height and depth
type BlobReport struct {
	ID    int32
	Alive int32
	X     int32
	Y     int32
	W     int32
	H     int32
	// Depth is the blob's peak intensity
	D int32
}

// NewBlobReport rounds blob's centroid and box to integer grid units
func NewBlobReport(blob *blobs.Blob) BlobReport {
	alive := int32(0)
	if blob.Alive() {
		alive = 1
	}
	return BlobReport{
		ID:    int32(blob.ID),
		Alive: alive,
		X:     int32(math.Round(blob.Centroid.X)),
		Y:     int32(math.Round(blob.Centroid.Y)),
		W:     int32(math.Round(blob.Box.Width)),
		H:     int32(math.Round(blob.Box.Height)),
		D:     int32(math.Round(blob.Centroid.Z)),
	}
}

func RawFrameMessage(frame []byte) *osc.Message {
	return osc.NewMessage(AddressRaw, frame)
}

func InterpolatedFrameMessage(frame []byte) *osc.Message {
	return osc.NewMessage(AddressInterpolated, frame)
}

func BlobMessage(report BlobReport) *osc.Message {
	return osc.NewMessage(AddressBlob, report.ID, report.Alive, report.X, report.Y, report.W, report.H, report.D)
}

// RequestMessage asks the device for /r, /i or /b
func RequestMessage(address string) *osc.Message {
	return osc.NewMessage(address)
}

func CalibrateMessage(cycles int) *osc.Message {
	return osc.NewMessage(AddressCalibrate, int32(cycles))
}

func ThresholdMessage(threshold int) *osc.Message {
	return osc.NewMessage(AddressThreshold, int32(threshold))
}

// WriteMessage marshals msg and writes it as one SLIP frame
func (encoder *Encoder) WriteMessage(msg *osc.Message) error {
	payload, err := msg.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "Can't marshal %s", msg.Address)
	}
	return encoder.Encode(payload)
}

// ParseMessage decodes payload of one SLIP frame
func ParseMessage(payload []byte) (*osc.Message, error) {
	if len(payload) == 0 {
		return nil, errors.Wrap(ErrNotMessage, "empty payload")
	}
	packet, err := osc.ParsePacket(string(payload))
	if err != nil {
		return nil, errors.Wrap(ErrNotMessage, err.Error())
	}
	msg, ok := packet.(*osc.Message)
	if !ok {
		return nil, errors.Wrapf(ErrNotMessage, "got %T", packet)
	}
	return msg, nil
}

// ParseBlobReport decodes a /b message
func ParseBlobReport(msg *osc.Message) (BlobReport, error) {
	if msg.Address != AddressBlob {
		return BlobReport{}, errors.Wrapf(ErrUnknownCommand, "address %s", msg.Address)
	}
	values := make([]int32, 7)
	if len(msg.Arguments) != len(values) {
		return BlobReport{}, errors.Wrapf(ErrBadArgument, "%d arguments, expected %d", len(msg.Arguments), len(values))
	}
	for i, arg := range msg.Arguments {
		v, err := intArgument(arg)
		if err != nil {
			return BlobReport{}, errors.Wrapf(err, "argument %d", i)
		}
		values[i] = v
	}
	return BlobReport{ID: values[0], Alive: values[1], X: values[2], Y: values[3], W: values[4], H: values[5], D: values[6]}, nil
}

// ParseFrame returns blob argument of a /r or /i message
func ParseFrame(msg *osc.Message) ([]byte, error) {
	if msg.Address != AddressRaw && msg.Address != AddressInterpolated {
		return nil, errors.Wrapf(ErrUnknownCommand, "address %s", msg.Address)
	}
	if len(msg.Arguments) != 1 {
		return nil, errors.Wrapf(ErrBadArgument, "%d arguments, expected 1", len(msg.Arguments))
	}
	frame, ok := msg.Arguments[0].([]byte)
	if !ok {
		return nil, errors.Wrapf(ErrBadArgument, "got %T, expected blob", msg.Arguments[0])
	}
	return frame, nil
}

func intArgument(arg interface{}) (int32, error) {
	switch v := arg.(type) {
	case int32:
		return v, nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, errors.Wrapf(ErrBadArgument, "%d overflows int32", v)
		}
		return int32(v), nil
	case float32:
		return int32(v), nil
	case float64:
		return int32(v), nil
	default:
		return 0, errors.Wrapf(ErrBadArgument, "got %T, expected int32", arg)
	}
}
