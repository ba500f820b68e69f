package osc

import (
	"context"
	"log/slog"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Handler receives every successfully decoded Message.
type Handler interface {
	HandleMessage(msg *Message)
}

// HandlerFunc implements the Handler interface.
type HandlerFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message.
func (f HandlerFunc) HandleMessage(msg *Message) {
	f(msg)
}

// State is the lifecycle stage of a Server.
type State int

const (
	StateUnbound State = iota
	StateBound
	StateListening
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateListening:
		return "listening"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrServerClosed is returned by Listen after Close, and by Serve once a closed
// server has already served.
var ErrServerClosed = errors.New("osc: server closed")

// Server listens on Addr for OSC datagrams and hands each decoded message to Handler.
// Datagrams are processed one at a time, in the order the socket delivers them.
type Server struct {
	Addr        string
	Handler     Handler
	Logger      *slog.Logger
	ReadTimeout time.Duration

	mu     sync.Mutex
	conn   net.PacketConn
	state  State
	served bool
}

// ListenAndServe binds Addr and serves until ctx is done or Close is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Listen binds the UDP socket.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return ErrServerClosed
	case StateBound, StateListening:
		return errors.New("osc: server already bound")
	}

	c, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "binding %s", s.Addr)
	}
	s.conn = c
	s.state = StateBound
	return nil
}

// Serve reads datagrams until ctx is done or Close is called. A clean shutdown returns nil,
// including a Close that lands between Listen and Serve. Serve on a server that has
// already served returns ErrServerClosed.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		served := s.served || s.conn == nil
		s.served = true
		s.mu.Unlock()
		if served {
			return ErrServerClosed
		}
		return nil
	case StateUnbound:
		s.mu.Unlock()
		return errors.New("osc: server not bound")
	case StateListening:
		s.mu.Unlock()
		return errors.New("osc: server already serving")
	}
	s.state = StateListening
	s.served = true
	c := s.conn
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	log := s.logger()
	log.Info("osc listening", "addr", c.LocalAddr().String())

	buf := make([]byte, MaxPacketSize)
	var tempDelay time.Duration
	for {
		if s.ReadTimeout != 0 {
			if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil && !s.closed() {
				log.Error("osc set read deadline failed", "error", err)
			}
		}

		n, addr, err := c.ReadFrom(buf)
		if err != nil {
			if s.closed() {
				log.Info("osc listener closed")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			var te interface{ Temporary() bool }
			if errors.As(err, &te) && te.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				log.Warn("osc read error, retrying", "error", err, "delay", tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			log.Error("osc read failed", "error", err)
			_ = s.Close()
			return errors.Wrap(err, "reading datagram")
		}
		tempDelay = 0

		if s.closed() {
			return nil
		}
		s.serve(buf[:n], addr)
	}
}

// serve decodes and handles one datagram. It never panics.
func (s *Server) serve(data []byte, a net.Addr) {
	log := s.logger()
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error("osc panic handling message", "remote_addr", addrString(a), "panic", err, "stack", string(buf))
		}
	}()

	msg, err := Decode(data)
	if err != nil {
		log.Warn("osc dropping undecodable datagram", "remote_addr", addrString(a), "bytes", len(data), "error", err)
		return
	}

	log.Debug("osc message", "remote_addr", addrString(a), "message", msg.String())
	if s.Handler != nil {
		s.Handler.HandleMessage(msg)
	}
}

// Close closes the socket. No datagram is handled after Close returns; a datagram
// already being handled runs to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// State reports the server's lifecycle stage.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LocalAddr returns the bound address, or nil before Listen.
func (s *Server) LocalAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *Server) closed() bool {
	return s.State() == StateClosed
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
