package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pitboss/pitboss/internal/packets"
)

// ServerInfo describes a discovered game server.
type ServerInfo struct {
	// IP the offer arrived from.
	IP net.IP
	// TCPPort is the advertised game port.
	TCPPort uint16
	// Name is the server's display name.
	Name string
}

// Addr returns the TCP address of the discovered game server.
func (s ServerInfo) Addr() string {
	return fmt.Sprintf("%s:%d", s.IP, s.TCPPort)
}

// Listen binds the well-known discovery port and blocks until the first valid
// offer datagram arrives, returning the advertising server's details.
// Datagrams that don't decode as offers are discarded. Cancelling the context
// unblocks the call.
func Listen(ctx context.Context, port int) (*ServerInfo, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("error binding discovery port %d: %w", port, err)
	}
	defer conn.Close()

	buf := make([]byte, packets.HeaderSize+packets.OfferPayloadSize)
	for {
		// Wake up periodically to notice a cancelled context; UDP reads
		// otherwise block indefinitely.
		if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
			return nil, fmt.Errorf("error setting read deadline: %w", err)
		}

		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
					continue
				}
			}
			return nil, fmt.Errorf("error reading discovery datagram: %w", err)
		}

		offer, err := packets.DecodeOffer(buf[:n])
		if err != nil {
			continue
		}

		return &ServerInfo{
			IP:      addr.IP,
			TCPPort: offer.TCPPort,
			Name:    offer.ServerName,
		}, nil
	}
}
