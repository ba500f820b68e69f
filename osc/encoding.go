package osc

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	bit32Size = 4

	// MaxPacketSize is the largest datagram the server reads and the client sends.
	MaxPacketSize = 65535
)

var (
	// ErrTruncated is returned when a field declares more bytes than the buffer holds.
	ErrTruncated = errors.New("osc: truncated packet")
	// ErrMissingTypeTags is returned when the type tag string doesn't start with ','.
	ErrMissingTypeTags = errors.New("osc: type tag string must start with ','")
	// ErrUnknownTypeTag is returned for any tag other than 'i', 'f' or 's'.
	ErrUnknownTypeTag = errors.New("osc: unsupported type tag")
	// ErrInvalidString is returned when the address or a string argument isn't valid UTF-8.
	ErrInvalidString = errors.New("osc: invalid UTF-8 string")
	// ErrBundleUnsupported is returned for "#bundle" packets.
	ErrBundleUnsupported = errors.New("osc: bundles are not supported")
)

////
// De/Encoding functions
////

// parsePaddedString reads a null-terminated, 4 byte padded string from data and returns
// the string and the number of bytes it occupies, padding included.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, errors.Wrap(ErrTruncated, "parsePaddedString: missing terminator")
	}

	n := pos + 1 + padBytesNeeded(pos+1)
	if n > len(data) {
		return "", 0, errors.Wrapf(ErrTruncated, "parsePaddedString: need %d bytes, have %d", n, len(data))
	}

	if !utf8.Valid(data[:pos]) {
		return "", 0, ErrInvalidString
	}

	return string(data[:pos]), n, nil
}

// writePaddedString writes a string with its terminator and padding bytes to the buffer.
// Returns the number of written bytes.
func writePaddedString(str string, b *bytes.Buffer) int {
	n, _ := b.WriteString(str)
	b.WriteByte(0)
	n++

	pad := padBytesNeeded(n)
	for i := 0; i < pad; i++ {
		b.WriteByte(0)
	}

	return n + pad
}

// parseInt32 reads a big-endian int32 from the start of data.
func parseInt32(data []byte) (int32, error) {
	if len(data) < bit32Size {
		return 0, errors.Wrapf(ErrTruncated, "parseInt32: have %d bytes", len(data))
	}
	return int32(binary.BigEndian.Uint32(data[:bit32Size])), nil
}

// parseFloat32 reads a big-endian IEEE-754 float32 from the start of data.
func parseFloat32(data []byte) (float32, error) {
	if len(data) < bit32Size {
		return 0, errors.Wrapf(ErrTruncated, "parseFloat32: have %d bytes", len(data))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(data[:bit32Size])), nil
}

func writeInt32(v int32, b *bytes.Buffer) {
	var buf [bit32Size]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	b.Write(buf[:])
}

func writeFloat32(v float32, b *bytes.Buffer) {
	var buf [bit32Size]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	b.Write(buf[:])
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
