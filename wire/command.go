package wire

import (
	"github.com/pkg/errors"
)

// CommandKind is for type of host request
type CommandKind uint8

const (
	// CommandRaw - send raw frame
	CommandRaw CommandKind = iota
	// CommandInterpolated - send upsampled frame
	CommandInterpolated
	// CommandBlobs - send active blobs
	CommandBlobs
	// CommandCalibrate - run baseline calibration over Value frames
	CommandCalibrate
	// CommandThreshold - set activity threshold to Value
	CommandThreshold
)

func (kind CommandKind) String() string {
	switch kind {
	case CommandRaw:
		return "raw"
	case CommandInterpolated:
		return "interpolated"
	case CommandBlobs:
		return "blobs"
	case CommandCalibrate:
		return "calibrate"
	case CommandThreshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// Command is a decoded host request
type Command struct {
	Kind  CommandKind
	Value int
}

// DecodeCommand parses payload of one SLIP frame received from the host
func DecodeCommand(payload []byte) (Command, error) {
	msg, err := ParseMessage(payload)
	if err != nil {
		return Command{}, err
	}
	switch msg.Address {
	case AddressRaw:
		return Command{Kind: CommandRaw}, nil
	case AddressInterpolated:
		return Command{Kind: CommandInterpolated}, nil
	case AddressBlob:
		return Command{Kind: CommandBlobs}, nil
	case AddressCalibrate, AddressThreshold:
		kind := CommandCalibrate
		if msg.Address == AddressThreshold {
			kind = CommandThreshold
		}
		if len(msg.Arguments) == 0 {
			return Command{}, errors.Wrapf(ErrBadArgument, "%s without value", msg.Address)
		}
		value, err := intArgument(msg.Arguments[0])
		if err != nil {
			return Command{}, errors.Wrap(err, msg.Address)
		}
		if value < 0 {
			return Command{}, errors.Wrapf(ErrBadArgument, "%s %d", msg.Address, value)
		}
		return Command{Kind: kind, Value: int(value)}, nil
	default:
		return Command{}, errors.Wrapf(ErrUnknownCommand, "address %s", msg.Address)
	}
}
