// Package protocol implements the length-prefixed message framing shared by
// the server and the client: each frame is a 4-byte big-endian payload length
// followed by that many bytes of UTF-8 text.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
)

// DefaultMaxPayload is the default maximum frame payload size in bytes
const DefaultMaxPayload = 1024

var (
	// ErrFrameTooLarge is returned when a length prefix exceeds the
	// configured maximum. The connection must be closed afterwards.
	ErrFrameTooLarge = errors.New("frame exceeds maximum payload size")

	// ErrPayloadTooLarge is returned when attempting to send an oversized payload
	ErrPayloadTooLarge = errors.New("payload exceeds maximum frame size")
)

// WriteFrame writes one framed message to w
func WriteFrame(w io.Writer, payload []byte, maxPayload int) error {
	if len(payload) > maxPayload {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), maxPayload)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one framed message from r. A length prefix larger than
// maxPayload is a protocol error; the caller must close the connection.
func ReadFrame(r io.Reader, maxPayload int) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > uint32(maxPayload) {
		return nil, fmt.Errorf("%w: declared %d > %d", ErrFrameTooLarge, length, maxPayload)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Conn wraps a stream connection with framed string send/receive.
// Sends are serialized so a shutdown broadcast cannot interleave with a
// session's own writes; reads have a single consumer and are not locked.
type Conn struct {
	conn       net.Conn
	maxPayload int

	writeMu sync.Mutex
}

// NewConn wraps conn. maxPayload <= 0 selects DefaultMaxPayload.
func NewConn(conn net.Conn, maxPayload int) *Conn {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	return &Conn{conn: conn, maxPayload: maxPayload}
}

// Send writes one framed message
func (c *Conn) Send(msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteFrame(c.conn, []byte(msg), c.maxPayload)
}

// Receive reads one framed message. Trailing newline artifacts from
// line-oriented clients are stripped before the payload is interpreted.
func (c *Conn) Receive() (string, error) {
	payload, err := ReadFrame(c.conn, c.maxPayload)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(payload), "\r\n"), nil
}

// Close closes the underlying connection
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
