package base

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
)

const (
	// frameHeaderSize is the size of the length prefix in front of every record
	frameHeaderSize = 4

	// DefaultMaxFrameSize is used when no limit is configured
	DefaultMaxFrameSize = 64 * 1024 * 1024
)

// ErrFrameTooLarge is returned when a peer announces a record above the configured limit
var ErrFrameTooLarge = errors.New("transport: frame too large")

// writeFrame writes a frame to w with the format:
// - 4 bytes: record length (uint32, big endian)
// - N bytes: one encoded record
func writeFrame(w io.Writer, record []byte) error {
	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header, uint32(len(record)))

	b := net.Buffers{header, record}
	_, err := b.WriteTo(w)
	return err
}

// readFrame reads one frame from r. header must have room for frameHeaderSize bytes.
func readFrame(r io.Reader, header []byte, maxSize int) ([]byte, error) {
	if _, err := io.ReadFull(r, header[:frameHeaderSize]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[:frameHeaderSize])
	if length == 0 {
		return nil, fmt.Errorf("%w: empty frame", codec.ErrMalformedStream)
	}
	if maxSize > 0 && uint64(length) > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrFrameTooLarge, length, maxSize)
	}

	record := make([]byte, length)
	if _, err := io.ReadFull(r, record); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return record, nil
}
