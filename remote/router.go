package remote

import (
	"context"
	"log/slog"

	"github.com/chabad360/improtron-osc/osc"
)

// Sink consumes dispatched actions. Emit is called synchronously on the listener's
// goroutine, so it must return quickly and hand real work to its own goroutine.
type Sink interface {
	Emit(a Action)
}

// SinkFunc implements the Sink interface.
type SinkFunc func(a Action)

// Emit calls f(a).
func (f SinkFunc) Emit(a Action) {
	f(a)
}

// Fanout emits every action to each sink in order.
type Fanout []Sink

// Emit implements Sink.
func (f Fanout) Emit(a Action) {
	for _, s := range f {
		s.Emit(a)
	}
}

// Hooks has one optional callback per action. Actions without a hook are ignored.
type Hooks struct {
	SoundPlay     func(SoundPlay)
	SoundStop     func(SoundStop)
	SoundSeek     func(SoundSeek)
	SoundFade     func(SoundFade)
	SoundPlaylist func(SoundPlaylist)
	SoundStinger  func(SoundStinger)
	MediaShow     func(MediaShow)
	SpinboxChange func(SpinboxChange)
	ButtonPress   func(ButtonPress)
	SfxPlay       func(SfxPlay)
	SfxStopAll    func(SfxStopAll)
}

// Emit implements Sink. A nil *Hooks ignores every action.
func (h *Hooks) Emit(a Action) {
	if h == nil {
		return
	}
	switch a := a.(type) {
	case SoundPlay:
		call(h.SoundPlay, a)
	case SoundStop:
		call(h.SoundStop, a)
	case SoundSeek:
		call(h.SoundSeek, a)
	case SoundFade:
		call(h.SoundFade, a)
	case SoundPlaylist:
		call(h.SoundPlaylist, a)
	case SoundStinger:
		call(h.SoundStinger, a)
	case MediaShow:
		call(h.MediaShow, a)
	case SpinboxChange:
		call(h.SpinboxChange, a)
	case ButtonPress:
		call(h.ButtonPress, a)
	case SfxPlay:
		call(h.SfxPlay, a)
	case SfxStopAll:
		call(h.SfxStopAll, a)
	}
}

func call[T Action](fn func(T), a T) {
	if fn != nil {
		fn(a)
	}
}

// Router routes decoded messages and emits the resulting actions to Sink.
// It implements osc.Handler.
type Router struct {
	logger *slog.Logger
	sink   Sink
}

var _ osc.Handler = (*Router)(nil)

// NewRouter returns a Router emitting to sink. A nil logger uses slog.Default().
func NewRouter(logger *slog.Logger, sink Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{logger: logger, sink: sink}
}

// HandleMessage routes msg and emits its action. Invalid messages are logged and dropped.
func (r *Router) HandleMessage(msg *osc.Message) {
	a, err := Route(msg)
	if err != nil {
		r.logger.Log(context.Background(), Level(err), "osc command dropped",
			"address", msg.Address, "message", msg.String(), "error", err.Error())
		return
	}

	r.logger.Debug("osc command", "address", msg.Address, "action", string(a.Kind()))
	if r.sink != nil {
		r.sink.Emit(a)
	}
}
