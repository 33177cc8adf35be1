package internal

import (
	"context"

	"github.com/pitboss/pitboss/internal/core/client"
)

// Backend is an interface for a server that handles a specific set of client
// interactions as part of the game flow.
type Backend interface {
	// Identifier returns a uniquely identifying string.
	Identifier() string

	// Init is called before a Backend is started as a hook for the Backend to
	// perform any necessary initialization before it can accept clients.
	Init(ctx context.Context) error

	// Handle owns a connection for its entire lifetime: the protocol is
	// strictly request/response, so one call runs the whole conversation and
	// returns when the session completes or the connection fails.
	Handle(ctx context.Context, c *client.Client) error
}
