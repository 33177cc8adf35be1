// Package discovery implements the UDP side of the protocol: servers
// periodically broadcast an offer announcing their TCP endpoint, and clients
// listen on the well-known port until a valid offer arrives.
package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pitboss/pitboss/internal/packets"
)

// Broadcaster periodically announces a game server on the local subnet. It
// runs as an independent background worker for the lifetime of the server;
// there is no acknowledgment and no backoff.
type Broadcaster struct {
	// ServerName is the display name carried in each offer.
	ServerName string
	// TCPPort is the game port advertised to clients.
	TCPPort uint16
	// Port is the well-known UDP port offers are broadcast to.
	Port int
	// Interval is the delay between consecutive offers.
	Interval time.Duration

	Logger *logrus.Logger
}

// Start opens the broadcast socket and spins off the offer loop in its own
// goroutine, added to the WaitGroup. Context cancellation stops the loop.
func (b *Broadcaster) Start(ctx context.Context, wg *sync.WaitGroup) error {
	broadcastAddr := &net.UDPAddr{IP: net.IPv4bcast, Port: b.Port}
	conn, err := net.DialUDP("udp4", nil, broadcastAddr)
	if err != nil {
		return fmt.Errorf("error creating broadcast socket: %w", err)
	}

	wg.Add(1)
	go b.broadcastLoop(ctx, conn, wg)

	return nil
}

func (b *Broadcaster) broadcastLoop(ctx context.Context, conn *net.UDPConn, wg *sync.WaitGroup) {
	defer wg.Done()
	defer conn.Close()

	b.Logger.Infof("[DISCOVERY] broadcasting offers for %q on port %d", b.ServerName, b.Port)

	offer := packets.EncodeOffer(b.TCPPort, b.ServerName)
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		if _, err := conn.Write(offer); err != nil {
			// A rejected datagram (say, no network) is not fatal; keep
			// announcing until someone can hear us.
			b.Logger.Warnf("[DISCOVERY] failed to send offer: %s", err)
		}

		select {
		case <-ctx.Done():
			b.Logger.Infof("[DISCOVERY] exited")
			return
		case <-ticker.C:
		}
	}
}
