// Package packets implements the binary wire protocol spoken between the
// game server and its clients. Every message is a frame: a 4-byte magic
// cookie, a 1-byte type, and a fixed-size payload whose length is determined
// by the type (and, for payload frames, by the protocol phase). All integer
// fields are big-endian.
package packets

import (
	"encoding/binary"
	"fmt"

	"github.com/pitboss/pitboss/internal/core/bytes"
	"github.com/pitboss/pitboss/internal/game"
)

// Magic is the cookie prefacing every frame, used to detect stream misalignment.
const Magic uint32 = 0xABCDDCBA

// Frame types. PayloadType is overloaded: it carries cards, player responses,
// and round results, disambiguated only by where the exchange stands.
const (
	OfferType      = 0x02
	RequestType    = 0x03
	PayloadType    = 0x04
	ValidationType = 0x05
)

const (
	// HeaderSize is the length of the magic cookie plus the type byte.
	HeaderSize = 5

	ServerNameSize = 32
	TeamNameSize   = 32

	OfferPayloadSize      = 2 + ServerNameSize
	RequestPayloadSize    = 1 + TeamNameSize
	CardPayloadSize       = 3
	ResponsePayloadSize   = 5
	ResultPayloadSize     = 1
	ValidationPayloadSize = 1
)

// Validation codes.
const (
	ValidationInvalid = 0x00
	ValidationValid   = 0x01
)

// Player actions as they appear on the wire. The response payload is exactly
// five bytes, which is where "Hittt" gets its spelling. Servers match them
// case-insensitively.
const (
	ActionHit   = "Hittt"
	ActionStand = "Stand"
)

// Offer is a decoded discovery announcement.
type Offer struct {
	TCPPort    uint16
	ServerName string
}

// Request is a decoded game request.
type Request struct {
	RoundCount uint8
	TeamName   string
}

func appendHeader(buf []byte, frameType byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, Magic)
	return append(buf, frameType)
}

// EncodeOffer builds the UDP discovery datagram advertising the server's TCP
// port and display name.
func EncodeOffer(tcpPort uint16, serverName string) []byte {
	buf := appendHeader(make([]byte, 0, HeaderSize+OfferPayloadSize), OfferType)
	buf = binary.BigEndian.AppendUint16(buf, tcpPort)
	return append(buf, bytes.PadString(serverName, ServerNameSize)...)
}

// DecodeOffer validates and decodes a discovery datagram. Datagrams that are
// too short, carry the wrong cookie, or aren't offers are rejected so the
// listener can skip unrelated broadcast traffic.
func DecodeOffer(datagram []byte) (*Offer, error) {
	if len(datagram) < HeaderSize+OfferPayloadSize {
		return nil, fmt.Errorf("offer datagram too short: %d bytes", len(datagram))
	}
	if magic := binary.BigEndian.Uint32(datagram[:4]); magic != Magic {
		return nil, fmt.Errorf("%w: %#08x", ErrBadMagic, magic)
	}
	if datagram[4] != OfferType {
		return nil, fmt.Errorf("%w: %#02x", ErrUnexpectedType, datagram[4])
	}
	return &Offer{
		TCPPort:    binary.BigEndian.Uint16(datagram[5:7]),
		ServerName: string(bytes.StripPadding(datagram[7 : 7+ServerNameSize])),
	}, nil
}

// EncodeRequest builds the game request frame sent by a client after
// connecting: requested round count followed by the fixed-width team name.
func EncodeRequest(roundCount uint8, teamName string) []byte {
	buf := appendHeader(make([]byte, 0, HeaderSize+RequestPayloadSize), RequestType)
	buf = append(buf, roundCount)
	return append(buf, bytes.PadString(teamName, TeamNameSize)...)
}

// ParseRequest decodes a request payload previously read with ReadFrame.
func ParseRequest(payload []byte) Request {
	return Request{
		RoundCount: payload[0],
		TeamName:   string(bytes.StripPadding(payload[1 : 1+TeamNameSize])),
	}
}

// EncodeCard builds a card payload frame. The card occupies two bytes of the
// nominally three-byte field; the third byte is reserved and written as zero
// for wire compatibility.
func EncodeCard(c game.Card) []byte {
	buf := appendHeader(make([]byte, 0, HeaderSize+CardPayloadSize), PayloadType)
	return append(buf, byte(c.Rank), byte(c.Suit), 0)
}

// ParseCard decodes a card payload. The reserved third byte is ignored.
// Out-of-range indexes are an error; callers are expected to fail the session
// rather than play an undefined card.
func ParseCard(payload []byte) (game.Card, error) {
	return game.NewCard(payload[0], payload[1])
}

// EncodeResponse builds a player action frame. Actions longer than the
// payload are truncated, shorter ones NUL-padded.
func EncodeResponse(action string) []byte {
	buf := appendHeader(make([]byte, 0, HeaderSize+ResponsePayloadSize), PayloadType)
	return append(buf, bytes.PadString(action, ResponsePayloadSize)...)
}

// ParseResponse decodes a player action payload with padding stripped.
func ParseResponse(payload []byte) string {
	return string(bytes.StripPadding(payload))
}

// EncodeResult builds a round result frame.
func EncodeResult(outcome game.Outcome) []byte {
	buf := appendHeader(make([]byte, 0, HeaderSize+ResultPayloadSize), PayloadType)
	return append(buf, byte(outcome))
}

// ParseResult decodes a round result payload.
func ParseResult(payload []byte) game.Outcome {
	return game.Outcome(payload[0])
}

// EncodeValidation builds a validation frame answering a request or response.
func EncodeValidation(code byte) []byte {
	buf := appendHeader(make([]byte, 0, HeaderSize+ValidationPayloadSize), ValidationType)
	return append(buf, code)
}

// ParseValidation reports whether a validation payload accepts the message it
// answers.
func ParseValidation(payload []byte) bool {
	return payload[0] == ValidationValid
}
