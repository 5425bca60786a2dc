package transport

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/xerrors"
)

// Side-band channel indicators, prefixed onto each pkt-line payload
// during an upload-pack response once the server has advertised the
// side-band-64k capability.
const (
	sidebandPackData = 1
	sidebandProgress = 2
	sidebandError    = 3
)

// ErrRemote is returned when the remote reports a fatal error over
// the side-band error channel.
var ErrRemote = xerrors.New("remote error")

// demuxPackData reads a side-band framed upload-pack response from r
// and returns the concatenated pack-data channel: pack data pkt-lines
// are concatenated, progress messages are discarded, and a fatal error
// channel payload is surfaced as ErrRemote.
func demuxPackData(r *bufio.Reader) ([]byte, error) {
	pack := new(bytes.Buffer)

	for {
		payload, ok, err := readPktLine(r)
		if err != nil {
			if err == io.EOF { //nolint:errorlint // readPktLine returns io.EOF verbatim
				break
			}
			return nil, err
		}
		if !ok {
			break
		}
		if len(payload) == 0 {
			continue
		}

		switch channel := payload[0]; channel {
		case sidebandPackData:
			pack.Write(payload[1:])
		case sidebandProgress:
			// discarded
		case sidebandError:
			return nil, xerrors.Errorf("%s: %w", string(payload[1:]), ErrRemote)
		default:
			return nil, xerrors.Errorf("unknown side-band channel %d: %w", channel, ErrProtocol)
		}
	}
	return pack.Bytes(), nil
}
