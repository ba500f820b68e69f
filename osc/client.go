package osc

import (
	"net"

	"github.com/pkg/errors"
)

// Client fires cues at a listener, the way a control surface or the send
// command does. Each Message goes out as its own datagram; nothing is bundled
// and nothing is acknowledged.
type Client struct {
	conn *net.UDPConn
}

// Dial resolves addr (host:port) and connects a UDP socket to it. No packet is
// sent, so a listener that isn't running only shows up as a failed Send, if at all.
func Dial(addr string) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", addr)
	}

	conn, err := net.DialUDP("udp", nil, a)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return &Client{conn: conn}, nil
}

// Send encodes msg and writes it in one datagram.
func (c *Client) Send(msg *Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := c.conn.Write(data); err != nil {
		return errors.Wrapf(err, "sending %s to %s", msg.Address, c.conn.RemoteAddr())
	}
	return nil
}

// Close releases the socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
