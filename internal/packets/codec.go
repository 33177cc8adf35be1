package packets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrBadMagic indicates a frame whose cookie doesn't match Magic.
	ErrBadMagic = errors.New("bad magic cookie")
	// ErrUnexpectedType indicates a frame whose type doesn't match the
	// protocol phase the caller is in.
	ErrUnexpectedType = errors.New("unexpected frame type")
)

// ReadFrame reads one frame of the expected type from the stream and returns
// its payload. The payload size must be supplied by the caller since payload
// frames are not self-describing; both endpoints have to agree on where the
// exchange stands.
//
// Frames with a bad cookie or the wrong type are discarded and reading
// continues on the same stream. That resynchronization is best-effort: it
// recovers from a stray frame but a truly corrupted stream can stay
// misaligned forever.
func ReadFrame(r io.Reader, wantType byte, payloadSize int) ([]byte, error) {
	buf := make([]byte, HeaderSize+payloadSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading frame: %w", err)
		}
		if magic := binary.BigEndian.Uint32(buf[:4]); magic != Magic {
			continue
		}
		if buf[4] != wantType {
			continue
		}
		payload := make([]byte, payloadSize)
		copy(payload, buf[HeaderSize:])
		return payload, nil
	}
}

// WriteFrame writes an encoded frame to the stream in full.
func WriteFrame(w io.Writer, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
