// Package client wraps an accepted game connection with the identifying
// state the server tracks for it.
package client

import (
	"net"
	"strings"

	"github.com/google/uuid"
)

// Client represents one connected player for the lifetime of their TCP
// connection. A Client is owned by the single goroutine running its session;
// nothing else touches it after creation.
type Client struct {
	connection net.Conn
	ipAddr     string
	port       string

	// ID uniquely identifies the session for logging and persistence.
	ID uuid.UUID

	// TeamName is set once the handshake has been accepted.
	TeamName string
}

func NewClient(connection net.Conn) *Client {
	addr := connection.RemoteAddr().String()
	ipAddr, port := addr, ""
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		ipAddr, port = addr[:i], addr[i+1:]
	}

	return &Client{
		connection: connection,
		ipAddr:     ipAddr,
		port:       port,
		ID:         uuid.New(),
	}
}

func (c *Client) IPAddr() string { return c.ipAddr }
func (c *Client) Port() string   { return c.port }

// RemoteAddr returns the full peer address, which keys the session registry.
func (c *Client) RemoteAddr() string { return c.connection.RemoteAddr().String() }

// Read consumes the available bytes directly from the client's TCP connection.
func (c *Client) Read(b []byte) (int, error) {
	return c.connection.Read(b)
}

// Write directly sends data to the client over its TCP connection.
func (c *Client) Write(b []byte) (int, error) {
	return c.connection.Write(b)
}

// Close the TCP connection.
func (c *Client) Close() error {
	return c.connection.Close()
}
