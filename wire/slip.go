package wire

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// RFC 1055 special characters
const (
	slipEnd    byte = 0xC0
	slipEsc    byte = 0xDB
	slipEscEnd byte = 0xDC
	slipEscEsc byte = 0xDD
)

// DefaultMaxFrame bounds decoded frames. Large enough for a 64x64 upsampled frame message
const DefaultMaxFrame = 8192

// AppendSLIP appends payload to dst as one frame delimited by END on both sides
func AppendSLIP(dst, payload []byte) []byte {
	dst = append(dst, slipEnd)
	for _, b := range payload {
		switch b {
		case slipEnd:
			dst = append(dst, slipEsc, slipEscEnd)
		case slipEsc:
			dst = append(dst, slipEsc, slipEscEsc)
		default:
			dst = append(dst, b)
		}
	}
	return append(dst, slipEnd)
}

// Decoder splits a byte stream into SLIP frames
type Decoder struct {
	r        *bufio.Reader
	buf      []byte
	maxFrame int
}

// NewDecoder reads frames from r. Frames longer than maxFrame bytes are rejected
func NewDecoder(r io.Reader, maxFrame int) *Decoder {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	return &Decoder{
		r:        bufio.NewReader(r),
		buf:      make([]byte, 0, maxFrame),
		maxFrame: maxFrame,
	}
}

// Next returns payload of the next non-empty frame. The slice is reused by the next call.
// A broken frame is skipped up to its END and reported with ErrMalformedFrame or ErrFrameTooLong,
// so the caller may keep reading.
func (decoder *Decoder) Next() ([]byte, error) {
	decoder.buf = decoder.buf[:0]
	var broken error
	for {
		b, err := decoder.r.ReadByte()
		if err != nil {
			return nil, decoder.eof(err, broken)
		}
		switch b {
		case slipEnd:
			if broken != nil {
				return nil, broken
			}
			if len(decoder.buf) > 0 {
				return decoder.buf, nil
			}
			continue
		case slipEsc:
			b, err = decoder.r.ReadByte()
			if err != nil {
				return nil, decoder.eof(err, broken)
			}
			switch b {
			case slipEscEnd:
				b = slipEnd
			case slipEscEsc:
				b = slipEsc
			case slipEnd:
				return nil, errors.Wrap(ErrMalformedFrame, "escape before END")
			default:
				if broken == nil {
					broken = errors.Wrapf(ErrMalformedFrame, "invalid escape 0x%02X", b)
				}
				continue
			}
		}
		if broken != nil {
			continue
		}
		if len(decoder.buf) >= decoder.maxFrame {
			broken = errors.Wrapf(ErrFrameTooLong, "limit is %d bytes", decoder.maxFrame)
			continue
		}
		decoder.buf = append(decoder.buf, b)
	}
}

func (decoder *Decoder) eof(err, broken error) error {
	if err == io.EOF && (len(decoder.buf) > 0 || broken != nil) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Encoder writes SLIP frames
type Encoder struct {
	w   io.Writer
	buf []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes payload as one frame with a single Write call
func (encoder *Encoder) Encode(payload []byte) error {
	encoder.buf = AppendSLIP(encoder.buf[:0], payload)
	_, err := encoder.w.Write(encoder.buf)
	return err
}
