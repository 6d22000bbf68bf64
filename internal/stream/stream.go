// Package stream decodes the multiplexed output stream produced by the
// container runtime when a command runs without a TTY.
//
// The runtime interleaves stdout and stderr over a single connection by
// framing every chunk with a fixed 8 byte header: one byte with the stream
// id, three reserved bytes and a big-endian uint32 with the payload size,
// followed by exactly that many payload bytes. With a TTY the runtime sends
// raw bytes and this package must be bypassed.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	headerSize = 8
	sizeOffset = 4

	streamStdin  byte = 0 // stdin echo, dropped
	streamStdout byte = 1
	streamStderr byte = 2
)

// Copy demultiplexes src into dstout and dsterr until EOF, returning the
// number of payload bytes written. Frames with an unknown stream id are
// dropped. It reads with io.ReadFull semantics, so frames split across
// multiple underlying reads are reassembled transparently.
//
// A source that ends cleanly at a frame boundary returns a nil error. A
// source that ends in the middle of a header or payload returns an error
// wrapping io.ErrUnexpectedEOF.
func Copy(dstout, dsterr io.Writer, src io.Reader) (written int64, err error) {
	header := make([]byte, headerSize)
	var payload []byte

	for {
		_, err := io.ReadFull(src, header)
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return written, fmt.Errorf("stream ended inside a frame header: %w", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return written, fmt.Errorf("could not read frame header: %w", err)
		}

		size := int(binary.BigEndian.Uint32(header[sizeOffset:headerSize]))
		if cap(payload) < size {
			payload = make([]byte, size)
		}
		payload = payload[:size]

		if _, err := io.ReadFull(src, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return written, fmt.Errorf("stream ended inside a %d byte frame payload: %w", size, io.ErrUnexpectedEOF)
			}
			return written, fmt.Errorf("could not read frame payload: %w", err)
		}

		var dst io.Writer
		switch header[0] {
		case streamStdout:
			dst = dstout
		case streamStderr:
			dst = dsterr
		default:
			// Unknown stream ids (stdin echo included) are dropped.
			continue
		}

		n, err := dst.Write(payload)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("could not write frame payload: %w", err)
		}
	}
}
