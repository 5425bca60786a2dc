// Package transport implements the smart-HTTP git protocol used by
// clone: pkt-line framing, side-band channel demultiplexing, and the
// reference-discovery / upload-pack exchange over net/http.
package transport

import (
	"bufio"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/xerrors"
)

// FlushPkt is the special zero-length pkt-line that terminates a
// section of the protocol.
var FlushPkt = []byte("0000")

// ErrProtocol is returned when the remote sends data that doesn't
// follow the expected pkt-line/smart-HTTP framing.
var ErrProtocol = errors.New("protocol error")

// maxPktLineSize is the largest payload a single pkt-line may carry,
// length prefix included.
const maxPktLineSize = 65516 + 4

// encodePktLine frames payload as a single pkt-line: a 4-hex-digit
// length (including the 4 length bytes themselves) followed by the
// payload verbatim.
func encodePktLine(payload []byte) ([]byte, error) {
	size := len(payload) + 4
	if size > maxPktLineSize {
		return nil, xerrors.Errorf("payload too large (%d bytes): %w", len(payload), ErrProtocol)
	}
	out := make([]byte, 0, size)
	out = append(out, []byte(hex.EncodeToString([]byte{byte(size >> 8), byte(size)}))...)
	out = append(out, payload...)
	return out, nil
}

// readPktLine reads a single pkt-line from r, returning its payload.
// A flush pkt (`0000`) returns a nil payload and ok=false.
func readPktLine(r io.Reader) (payload []byte, ok bool, err error) {
	var lenHex [4]byte
	if _, err := io.ReadFull(r, lenHex[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, false, io.EOF
		}
		return nil, false, xerrors.Errorf("could not read pkt-line length: %w", err)
	}

	var lenBytes [2]byte
	if _, err := hex.Decode(lenBytes[:], lenHex[:]); err != nil {
		return nil, false, xerrors.Errorf("invalid pkt-line length %q: %w", lenHex, ErrProtocol)
	}
	size := int(lenBytes[0])<<8 | int(lenBytes[1])
	if size == 0 {
		return nil, false, nil
	}
	if size < 4 {
		return nil, false, xerrors.Errorf("pkt-line length %d is too small: %w", size, ErrProtocol)
	}

	payload = make([]byte, size-4)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, false, xerrors.Errorf("could not read pkt-line payload: %w", err)
	}
	return payload, true, nil
}

// readPktLines reads pkt-lines from r until a flush packet or EOF,
// returning every non-flush payload in order.
func readPktLines(r *bufio.Reader) ([][]byte, error) {
	var lines [][]byte
	for {
		payload, ok, err := readPktLine(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return nil, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, payload)
	}
}
