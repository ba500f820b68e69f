// Package hub fans dispatched actions out to WebSocket subscribers, such as the
// display and sound processes or a mirror of the touch panel.
//
// Frames are JSON text messages with an envelope: {type, ts, data}. Subscribers are
// read-only; anything they send is discarded. A subscriber whose queue fills up is
// dropped rather than allowed to stall the cue path.
package hub

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/chabad360/improtron-osc/remote"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// Config sizes the hub's queues. Zero values use the defaults.
type Config struct {
	// SendBuf is the per-subscriber frame queue.
	SendBuf int
	// BroadcastBuf is the queue between Emit and the fan-out loop.
	BroadcastBuf int
}

// Hub publishes actions to every connected subscriber. The subscriber set is owned
// by the Run goroutine; everything else talks to it over channels.
type Hub struct {
	logger *slog.Logger

	frames chan []byte
	joins  chan *subscriber
	leaves chan *subscriber
	done   chan struct{}

	subs  map[*subscriber]struct{}
	count atomic.Int64

	sendBuf int
	now     func() time.Time
}

var _ remote.Sink = (*Hub)(nil)

// New constructs a hub. Call Run(ctx) to start it.
func New(logger *slog.Logger, cfg Config) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SendBuf <= 0 {
		cfg.SendBuf = 32
	}
	if cfg.BroadcastBuf <= 0 {
		cfg.BroadcastBuf = 128
	}

	return &Hub{
		logger:  logger,
		frames:  make(chan []byte, cfg.BroadcastBuf),
		joins:   make(chan *subscriber),
		leaves:  make(chan *subscriber),
		done:    make(chan struct{}),
		subs:    make(map[*subscriber]struct{}),
		sendBuf: cfg.SendBuf,
		now:     time.Now,
	}
}

// Run fans frames out until ctx is canceled, then drops every subscriber.
// Joins and leaves attempted after Run returns are refused.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Info("events hub running")

	for {
		select {
		case <-ctx.Done():
			for s := range h.subs {
				h.drop(s, "shutdown")
			}
			h.logger.Info("events hub stopped")
			return

		case s := <-h.joins:
			h.subs[s] = struct{}{}
			h.count.Store(int64(len(h.subs)))
			h.logger.Info("events subscriber joined", "remote_addr", s.remoteAddr, "subscribers", len(h.subs))

		case s := <-h.leaves:
			h.drop(s, "disconnected")

		case frame := <-h.frames:
			for s := range h.subs {
				select {
				case s.out <- frame:
				default:
					h.drop(s, "slow")
				}
			}
		}
	}
}

// Emit implements remote.Sink. It encodes the action and queues it without
// blocking; when the queue is full the action is dropped with a warning.
func (h *Hub) Emit(a remote.Action) {
	frame, err := remote.MarshalAction(a, h.now())
	if err != nil {
		h.logger.Error("events encode failed", "error", err)
		return
	}
	select {
	case h.frames <- frame:
	default:
		h.logger.Warn("events queue full, dropping action", "action", string(a.Kind()))
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// drop removes s and closes its queue, which tells its writer to hang up.
// Only called from Run, so each queue is closed at most once.
func (h *Hub) drop(s *subscriber, reason string) {
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	h.count.Store(int64(len(h.subs)))
	close(s.out)
	if s.conn != nil {
		_ = s.conn.Close()
	}
	h.logger.Info("events subscriber dropped", "remote_addr", s.remoteAddr, "reason", reason, "subscribers", len(h.subs))
}

// join hands s to Run. It reports false once Run has returned.
func (h *Hub) join(s *subscriber) bool {
	select {
	case h.joins <- s:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(s *subscriber) {
	select {
	case h.leaves <- s:
	case <-h.done:
	}
}

// subscriber is one WebSocket connection.
type subscriber struct {
	conn       *websocket.Conn
	out        chan []byte
	remoteAddr string
}

// Register serves the event feed on mux at path. ctx bounds every connection's writer.
func (h *Hub) Register(ctx context.Context, mux *http.ServeMux, path string) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("events upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
			return
		}

		s := &subscriber{conn: conn, out: make(chan []byte, h.sendBuf), remoteAddr: r.RemoteAddr}
		if !h.join(s) {
			_ = conn.Close()
			return
		}

		go h.write(ctx, s)
		go h.read(s)
	})
}

// write sends queued frames and keepalive pings until the queue is closed or a write fails.
func (h *Hub) write(ctx context.Context, s *subscriber) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return

		case frame, ok := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			err = s.conn.WriteMessage(websocket.TextMessage, frame)

		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = s.conn.WriteMessage(websocket.PingMessage, nil)
		}

		if err != nil {
			h.logHangup(s, "write", err)
			return
		}
	}
}

// read discards inbound frames so control frames and disconnects are noticed.
func (h *Hub) read(s *subscriber) {
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			h.logHangup(s, "read", err)
			h.leave(s)
			return
		}
	}
}

func (h *Hub) logHangup(s *subscriber, op string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		h.logger.Debug("events subscriber closed", "remote_addr", s.remoteAddr, "op", op, "code", ce.Code, "reason", ce.Text)
		return
	}
	h.logger.Debug("events subscriber hung up", "remote_addr", s.remoteAddr, "op", op, "error", err)
}
