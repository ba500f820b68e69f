package osc

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const bundleTagString = "#bundle"

var bufPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// Message represents a single OSC message. An OSC message consists of an OSC
// address and zero or more arguments, each an int32, float32 or string.
type Message struct {
	Address   string
	Arguments []interface{}
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return errors.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", errors.New("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	strBuf.WriteString(m.Address)
	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case string:
			fmt.Fprintf(strBuf, " %q", arg)
		default:
			fmt.Fprintf(strBuf, " %v", arg)
		}
	}

	return strBuf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The byte buffer
// has the following format:
// 1. OSC Address
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	typetags, err := m.TypeTags()
	if err != nil {
		return nil, errors.Wrap(err, "MarshalBinary")
	}

	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	writePaddedString(m.Address, data)
	writePaddedString(typetags, data)

	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case int32:
			writeInt32(t, data)
		case float32:
			writeFloat32(t, data)
		case string:
			writePaddedString(t, data)
		}
	}

	if data.Len() > MaxPacketSize {
		return nil, errors.Errorf("MarshalBinary: packet too large: %d", data.Len())
	}

	return append([]byte(nil), data.Bytes()...), nil
}

// Decode parses one OSC message from a datagram. The returned address has surrounding
// whitespace trimmed. Any error means the datagram must be dropped; no partial message
// is ever returned.
func Decode(data []byte) (*Message, error) {
	m, _, err := decode(data)
	return m, err
}

// decode returns the message and the number of bytes it occupied in data.
// Bytes after the last declared argument are ignored.
func decode(data []byte) (*Message, int, error) {
	if len(data) == 0 {
		return nil, 0, errors.Wrap(ErrTruncated, "decode: empty packet")
	}

	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return nil, 0, errors.Wrap(err, "decode: address")
	}
	if addr == bundleTagString {
		return nil, 0, ErrBundleUnsupported
	}

	// Then the type tag string, which is required even for argument-less messages
	if n >= len(data) {
		return nil, 0, errors.Wrap(ErrTruncated, "decode: missing type tags")
	}
	if data[n] != ',' {
		return nil, 0, errors.Wrapf(ErrMissingTypeTags, "decode: got %q", data[n])
	}
	typetags, tn, err := parsePaddedString(data[n:])
	if err != nil {
		return nil, 0, errors.Wrap(err, "decode: type tags")
	}
	n += tn

	// Validate every tag before reading anything, since an unknown tag has an unknown width
	tags := typetags[1:]
	for i := 0; i < len(tags); i++ {
		switch TypeTag(tags[i]) {
		case TypeInt32, TypeFloat32, TypeString:
		default:
			return nil, 0, errors.Wrapf(ErrUnknownTypeTag, "decode: %q at position %d", tags[i], i)
		}
	}

	m := &Message{Address: strings.TrimSpace(addr)}
	if len(tags) > 0 {
		m.Arguments = make([]interface{}, 0, len(tags))
	}

	for i := 0; i < len(tags); i++ {
		switch TypeTag(tags[i]) {
		case TypeInt32:
			v, err := parseInt32(data[n:])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "decode: argument %d", i)
			}
			m.Arguments = append(m.Arguments, v)
			n += bit32Size

		case TypeFloat32:
			v, err := parseFloat32(data[n:])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "decode: argument %d", i)
			}
			m.Arguments = append(m.Arguments, v)
			n += bit32Size

		case TypeString:
			s, sn, err := parsePaddedString(data[n:])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "decode: argument %d", i)
			}
			m.Arguments = append(m.Arguments, s)
			n += sn
		}
	}

	return m, n, nil
}
