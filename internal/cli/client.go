package cli

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/triviad/triviad/internal/protocol"
)

// Client is a framed TCP client for the quiz protocol
type Client struct {
	conn *protocol.Conn
}

// Dial connects to the quiz server
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &Client{conn: protocol.NewConn(conn, protocol.DefaultMaxPayload)}, nil
}

// Send transmits one framed message
func (c *Client) Send(msg string) error {
	return c.conn.Send(msg)
}

// Receive reads one framed message
func (c *Client) Receive() (string, error) {
	return c.conn.Receive()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// opsGet fetches a plain-text page from the operator HTTP server
func opsGet(baseURL, path string) (string, error) {
	url := strings.TrimSuffix(baseURL, "/") + path

	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}
