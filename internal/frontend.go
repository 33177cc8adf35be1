package internal

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pitboss/pitboss/internal/core"
	"github.com/pitboss/pitboss/internal/core/client"
)

// frontend implements the concurrent client connection logic.
//
// Connections are accepted on a TCP socket and handed to a Backend instance
// in their own goroutine, abstracting the lower level connection details away
// from the Backends.
type frontend struct {
	Address string
	Backend Backend
	Config  *core.Config
	Logger  *logrus.Logger

	registry *sessionRegistry
}

// Start initializes the server backend and opens a TCP socket for the
// specified server. A blocking loop for accepting client connections is spun
// off in its own goroutine and added to the WaitGroup. Context cancellations
// will stop the server.
func (f *frontend) Start(ctx context.Context, wg *sync.WaitGroup) error {
	if err := f.Backend.Init(ctx); err != nil {
		return fmt.Errorf("error initializing %s server: %v", f.Backend.Identifier(), err)
	}

	socket, err := f.createSocket()
	if err != nil {
		return fmt.Errorf("error creating socket on %s: %v", f.Address, err)
	}

	wg.Add(1)
	go f.startBlockingLoop(ctx, socket, wg)

	return nil
}

// createSocket opens a TCP socket to listen for client connections on the
// Address provided to the frontend.
func (f *frontend) createSocket() (*net.TCPListener, error) {
	hostAddr, err := net.ResolveTCPAddr("tcp", f.Address)
	if err != nil {
		return nil, fmt.Errorf("error resolving address %s", err.Error())
	}

	socket, err := net.ListenTCP("tcp", hostAddr)
	if err != nil {
		return nil, fmt.Errorf("error listening on socket: %s", err.Error())
	}

	return socket, nil
}

// startBlockingLoop implements a connection handling loop that's purely
// responsible for accepting new connections and spinning off goroutines for
// the Backend to handle them.
func (f *frontend) startBlockingLoop(ctx context.Context, socket *net.TCPListener, wg *sync.WaitGroup) {
	defer wg.Done()
	defer socket.Close()

	f.Logger.Infof("[%s] waiting for connections on %v", f.Backend.Identifier(), f.Address)

	connections := make(chan *net.TCPConn)
	go func() {
		for {
			// Poll until we can accept more clients.
			for f.Config.MaxConnections > 0 && f.registry.size() >= f.Config.MaxConnections {
				time.Sleep(10 * time.Second)
			}

			connection, err := socket.AcceptTCP()
			if err != nil {
				f.Logger.Warnf("failed to accept connection: %s", err.Error())
				continue
			}

			connections <- connection
		}
	}()

	clientWg := &sync.WaitGroup{}
handleLoop:
	for {
		select {
		case <-ctx.Done():
			break handleLoop
		case connection := <-connections:
			clientWg.Add(1)
			go f.acceptClient(ctx, connection, clientWg)
		}
	}

	f.Logger.Infof("[%v] shutting down (waiting for sessions to close)", f.Backend.Identifier())
	clientWg.Wait()
	f.Logger.Infof("[%v] exited", f.Backend.Identifier())
}

// acceptClient takes a connection, registers the new session, and hands the
// connection to the Backend for the duration of the session.
func (f *frontend) acceptClient(ctx context.Context, connection *net.TCPConn, wg *sync.WaitGroup) {
	defer wg.Done()

	c := client.NewClient(connection)
	f.registry.add(c)
	defer f.closeConnectionAndRecover(f.Backend.Identifier(), c)

	f.Logger.Infof("[%s] accepted connection from %s (session %s)",
		f.Backend.Identifier(), c.RemoteAddr(), c.ID)

	if err := f.Backend.Handle(ctx, c); err != nil {
		f.Logger.Warnf("[%s] session %s ended with error: %s", f.Backend.Identifier(), c.ID, err)
	}
}

// closeConnectionAndRecover is the failsafe that catches any panics,
// disconnects the client, and removes the session from the registry
// regardless of the state of the connection.
func (f *frontend) closeConnectionAndRecover(serverName string, c *client.Client) {
	if err := recover(); err != nil {
		f.Logger.Errorf("error in client communication with %s: error=%s, trace: %s",
			c.RemoteAddr(), err, debug.Stack())
	}

	if err := c.Close(); err != nil {
		f.Logger.Warnf("failed to close client connection: %s", err)
	}

	f.registry.remove(c)

	f.Logger.Infof("[%s] disconnected client %s", serverName, c.RemoteAddr())
}
