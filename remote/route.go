package remote

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/chabad360/improtron-osc/osc"
)

// OSC addresses understood by Route. Matching is exact and case sensitive.
const (
	AddrSoundPlay     = "/sound/play"
	AddrSoundStop     = "/sound/stop"
	AddrSoundSeek     = "/sound/seek"
	AddrSoundFade     = "/sound/fade"
	AddrSoundPlaylist = "/sound/playlist"
	AddrSoundStinger  = "/sound/stinger"
	AddrMediaShow     = "/media/show"
	AddrSpinboxChange = "/spinbox/change"
	AddrButtonPress   = "/button/press"
	AddrSfxPlay       = "/soundfx/play"
	AddrSfxStop       = "/soundfx/stop"
)

var (
	// ErrUnhandledAddress means no command is bound to the message's address.
	ErrUnhandledAddress = errors.New("unhandled address")
	// ErrMissingArgument means the message has fewer arguments than the command needs.
	ErrMissingArgument = errors.New("missing argument")
	// ErrNotNumeric means an argument that must be a number could not be read as one.
	ErrNotNumeric = errors.New("argument is not numeric")
)

// Route maps a decoded message to its Action. It has no side effects.
func Route(msg *osc.Message) (Action, error) {
	args := msg.Arguments

	switch msg.Address {
	case AddrSoundPlay:
		if len(args) < 1 {
			return nil, missing(msg, 1)
		}
		return SoundPlay{TagQuery: argString(args[0])}, nil

	case AddrSoundStop:
		return SoundStop{}, nil

	case AddrSoundSeek:
		if len(args) < 2 {
			return nil, missing(msg, 2)
		}
		secs, err := argFloat(args[0])
		if err != nil {
			return nil, errors.Wrapf(err, "%s seek position", msg.Address)
		}
		return SoundSeek{SeekSeconds: secs, TagQuery: joinArgs(args[1:])}, nil

	case AddrSoundFade:
		if len(args) < 1 {
			return nil, missing(msg, 1)
		}
		secs, err := argFloat(args[0])
		if err != nil {
			return nil, errors.Wrapf(err, "%s fade time", msg.Address)
		}
		return SoundFade{FadeSeconds: secs}, nil

	case AddrSoundPlaylist:
		if len(args) < 1 {
			return nil, missing(msg, 1)
		}
		return SoundPlaylist{PlaylistName: argString(args[0])}, nil

	case AddrSoundStinger:
		if len(args) < 1 {
			return nil, missing(msg, 1)
		}
		return SoundStinger{TagQuery: argString(args[0])}, nil

	case AddrMediaShow:
		if len(args) < 1 {
			return nil, missing(msg, 1)
		}
		return MediaShow{
			Monitor:  strings.ToLower(argString(args[0])),
			TagQuery: joinArgs(args[1:]),
		}, nil

	case AddrSpinboxChange:
		if len(args) < 2 {
			return nil, missing(msg, 2)
		}
		delta, err := argFloat(args[1])
		if err != nil {
			return nil, errors.Wrapf(err, "%s delta", msg.Address)
		}
		return SpinboxChange{ControlID: argString(args[0]), Delta: delta}, nil

	case AddrButtonPress:
		var id string
		if len(args) > 0 {
			id = argString(args[0])
		}
		return ButtonPress{ControlID: id}, nil

	case AddrSfxPlay:
		if len(args) < 1 {
			return nil, missing(msg, 1)
		}
		// An empty tag query is the "stop all" sentinel.
		q := argString(args[0])
		if q == "" {
			return SfxStopAll{}, nil
		}
		return SfxPlay{TagQuery: q}, nil

	case AddrSfxStop:
		return SfxStopAll{}, nil

	default:
		return nil, errors.Wrap(ErrUnhandledAddress, msg.Address)
	}
}

// Level is the log level a Route error is reported at.
func Level(err error) slog.Level {
	switch {
	case errors.Is(err, ErrUnhandledAddress):
		return slog.LevelInfo
	case errors.Is(err, ErrMissingArgument):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func missing(msg *osc.Message, want int) error {
	return errors.Wrapf(ErrMissingArgument, "%s needs %d argument(s), got %d", msg.Address, want, len(msg.Arguments))
}

// argString renders an argument as text. Numbers use their shortest decimal form.
func argString(arg interface{}) string {
	switch v := arg.(type) {
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	default:
		return ""
	}
}

// argFloat reads an argument as a number. Senders that only speak strings may
// send "1.5" with an 's' tag, so strings are parsed too.
func argFloat(arg interface{}) (float64, error) {
	var f float64
	switch v := arg.(type) {
	case int32:
		return float64(v), nil
	case float32:
		f = float64(v)
	case string:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.Wrapf(ErrNotNumeric, "%q", v)
		}
	default:
		return 0, errors.Wrapf(ErrNotNumeric, "%T", arg)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrNotNumeric, "%v is not finite", f)
	}
	return f, nil
}

func joinArgs(args []interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = argString(a)
	}
	return strings.Join(parts, " ")
}
