package remote

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Envelope is the JSON wire form of an action sent to downstream consumers.
type Envelope struct {
	Type Kind       `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data Action     `json:"data,omitempty"`
}

// MarshalAction wraps a in an Envelope stamped with at. A zero at omits the timestamp.
func MarshalAction(a Action, at time.Time) ([]byte, error) {
	if a == nil {
		return nil, errors.New("marshal action: nil action")
	}
	env := Envelope{Type: a.Kind(), Data: a}
	if !at.IsZero() {
		env.Ts = &at
	}
	b, err := json.Marshal(env)
	return b, errors.Wrapf(err, "marshal %s", a.Kind())
}
