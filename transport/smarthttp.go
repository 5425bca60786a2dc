package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/colinmarc/gitgo/ginternals"
	"golang.org/x/xerrors"
)

// sideBand64k is the capability a server advertises when it will
// multiplex its upload-pack response across the three side-band
// channels.
const sideBand64k = "side-band-64k"

// Ref is a single reference advertised by a remote during discovery.
type Ref struct {
	Name string
	ID   ginternals.Oid
}

// RefList is the result of a reference-discovery request: every ref
// the remote advertised, and the capabilities it supports.
type RefList struct {
	Refs         []Ref
	Capabilities map[string]struct{}
}

// ByName looks up an advertised ref by its full name ("HEAD",
// "refs/heads/main", ...).
func (l *RefList) ByName(name string) (Ref, bool) {
	for _, r := range l.Refs {
		if r.Name == name {
			return r, true
		}
	}
	return Ref{}, false
}

// Discover performs the reference-discovery half of the smart-HTTP
// handshake: GET <url>/info/refs?service=git-upload-pack.
func Discover(ctx context.Context, client *http.Client, url string) (*RefList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/info/refs?service=git-upload-pack", nil)
	if err != nil {
		return nil, xerrors.Errorf("could not build discovery request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("discovery request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, xerrors.Errorf("discovery request returned status %d: %w", resp.StatusCode, ErrProtocol)
	}

	br := bufio.NewReader(resp.Body)
	lines, err := readPktLines(br)
	if err != nil {
		return nil, xerrors.Errorf("could not read discovery response: %w", err)
	}
	if len(lines) == 0 {
		return nil, xerrors.Errorf("empty discovery response: %w", ErrProtocol)
	}

	// The first line is the service announcement ("# service=...");
	// skip it if present. It is its own section, terminated by a flush
	// pkt, so the refs follow in the next section.
	if bytes.HasPrefix(lines[0], []byte("# service=")) {
		lines = lines[1:]
		if len(lines) == 0 {
			lines, err = readPktLines(br)
			if err != nil {
				return nil, xerrors.Errorf("could not read discovery response: %w", err)
			}
		}
	}

	refs := &RefList{Capabilities: map[string]struct{}{}}
	for i, line := range lines {
		text := strings.TrimSuffix(string(line), "\n")
		if i == 0 {
			// The first ref line carries the server's capabilities after
			// a NUL byte.
			if idx := strings.IndexByte(text, 0); idx >= 0 {
				for _, cap := range strings.Fields(text[idx+1:]) {
					refs.Capabilities[cap] = struct{}{}
				}
				text = text[:idx]
			}
		}

		sha, name, ok := strings.Cut(text, " ")
		if !ok {
			continue
		}
		oid, err := ginternals.NewOidFromStr(sha)
		if err != nil {
			return nil, xerrors.Errorf("invalid ref line %q: %w", text, err)
		}
		refs.Refs = append(refs.Refs, Ref{Name: name, ID: oid})
	}

	return refs, nil
}

// UploadPack performs the want/done half of the smart-HTTP handshake:
// POST <url>/git-upload-pack requesting the given wants, and returns
// the raw pack bytes extracted from the (possibly side-band framed)
// response.
func UploadPack(ctx context.Context, client *http.Client, url string, wants []ginternals.Oid, capabilities map[string]struct{}) ([]byte, error) {
	body := new(bytes.Buffer)
	for i, want := range wants {
		line := "want " + want.String()
		if i == 0 {
			if _, ok := capabilities[sideBand64k]; ok {
				line += " " + sideBand64k
			}
		}
		line += "\n"
		pkt, err := encodePktLine([]byte(line))
		if err != nil {
			return nil, xerrors.Errorf("could not encode want line: %w", err)
		}
		body.Write(pkt)
	}
	body.Write(FlushPkt)

	donePkt, err := encodePktLine([]byte("done\n"))
	if err != nil {
		return nil, xerrors.Errorf("could not encode done line: %w", err)
	}
	body.Write(donePkt)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/git-upload-pack", body)
	if err != nil {
		return nil, xerrors.Errorf("could not build upload-pack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-git-upload-pack-request")

	resp, err := client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("upload-pack request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, xerrors.Errorf("upload-pack request returned status %d: %w", resp.StatusCode, ErrProtocol)
	}

	r := bufio.NewReader(resp.Body)

	// Since this client never advertises multi_ack, the server replies
	// with exactly one acknowledgement pkt-line (NAK, since we never
	// have any "have" lines) before the pack section.
	if err := skipAck(r); err != nil {
		return nil, xerrors.Errorf("could not read upload-pack acknowledgement: %w", err)
	}

	// Without side-band-64k, the remaining bytes are the raw pack
	// stream, not further pkt-line framed.
	if _, sideband := capabilities[sideBand64k]; !sideband {
		pack, err := io.ReadAll(r)
		if err != nil {
			return nil, xerrors.Errorf("could not read pack data: %w", err)
		}
		return pack, nil
	}

	pack, err := demuxPackData(r)
	if err != nil {
		return nil, xerrors.Errorf("could not read pack data: %w", err)
	}
	return pack, nil
}

// skipAck consumes the single NAK/ACK pkt-line preceding the pack
// section of an upload-pack response.
func skipAck(r *bufio.Reader) error {
	payload, ok, err := readPktLine(r)
	if err != nil {
		return err
	}
	if !ok {
		return xerrors.Errorf("expected an acknowledgement line, got a flush pkt: %w", ErrProtocol)
	}
	text := string(bytes.TrimSpace(payload))
	if text != "NAK" && !strings.HasPrefix(text, "ACK") {
		return xerrors.Errorf("unexpected acknowledgement line %q: %w", text, ErrProtocol)
	}
	return nil
}
