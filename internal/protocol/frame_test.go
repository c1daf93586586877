package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFrame(t *testing.T) {
	var buf bytes.Buffer

	err := WriteFrame(&buf, []byte("hello"), DefaultMaxPayload)
	require.NoError(t, err)

	payload, err := ReadFrame(&buf, DefaultMaxPayload)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(payload))
}

func TestWriteFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer

	err := WriteFrame(&buf, nil, DefaultMaxPayload)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Len())

	payload, err := ReadFrame(&buf, DefaultMaxPayload)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer

	err := WriteFrame(&buf, make([]byte, 17), 16)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, buf.Len(), "nothing should be written for rejected payloads")
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 4096)
	buf.Write(header[:])
	buf.Write(make([]byte, 4096))

	_, err := ReadFrame(&buf, DefaultMaxPayload)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadFrameTruncatedHeader(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, 0x00})

	_, err := ReadFrame(buf, DefaultMaxPayload)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 10)
	buf.Write(header[:])
	buf.WriteString("short")

	_, err := ReadFrame(&buf, DefaultMaxPayload)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestConnRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := NewConn(client, DefaultMaxPayload)
	s := NewConn(server, DefaultMaxPayload)

	go func() {
		_ = c.Send("ping")
	}()

	msg, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, "ping", msg)
}

func TestConnReceiveTrimsTrailingNewline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := NewConn(client, DefaultMaxPayload)
	s := NewConn(server, DefaultMaxPayload)

	go func() {
		_ = c.Send("alice\r\n")
	}()

	msg, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, "alice", msg)
}

func TestConnReceivePreservesInteriorWhitespace(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := NewConn(client, DefaultMaxPayload)
	s := NewConn(server, DefaultMaxPayload)

	go func() {
		_ = c.Send("show score\n")
	}()

	msg, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, "show score", msg)
}

func TestConnReceiveClosedPeer(t *testing.T) {
	client, server := net.Pipe()
	s := NewConn(server, DefaultMaxPayload)

	require.NoError(t, client.Close())

	_, err := s.Receive()
	require.Error(t, err)
}
