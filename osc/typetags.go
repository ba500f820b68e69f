package osc

import (
	"github.com/pkg/errors"
)

type TypeTag byte

const (
	TypeString  TypeTag = 's'
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeInvalid TypeTag = 0
)

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported.
func ToTypeTag(arg interface{}) TypeTag {
	switch arg.(type) {
	case int32:
		return TypeInt32
	case float32:
		return TypeFloat32
	case string:
		return TypeString
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tag string (including the leading ',') for the given arguments.
func GetTypeTag(args []interface{}) (string, error) {
	tt := make([]byte, 1, len(args)+1)
	tt[0] = ','
	for _, arg := range args {
		t := ToTypeTag(arg)
		if t == TypeInvalid {
			return "", errors.Errorf("GetTypeTag: unsupported type: %T", arg)
		}
		tt = append(tt, byte(t))
	}
	return string(tt), nil
}
