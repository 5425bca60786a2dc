package gitgo

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPackBuilder assembles raw, non-deltified pack bytes for a single
// test fixture. Packing is out of scope for the module itself; this
// only exists to drive Clone against a server without a network.
type testPackBuilder struct {
	buf   bytes.Buffer
	count uint32
}

func newTestPackBuilder() *testPackBuilder {
	pb := &testPackBuilder{}
	pb.buf.WriteString("PACK")
	binary.Write(&pb.buf, binary.BigEndian, uint32(2))  //nolint:errcheck
	binary.Write(&pb.buf, binary.BigEndian, uint32(0)) //nolint:errcheck // patched in bytes()
	return pb
}

func (pb *testPackBuilder) addObject(typ object.Type, content []byte) {
	first := byte(typ) << 4
	rest := uint64(len(content)) >> 4
	if rest > 0 {
		first |= 0b_1000_0000
	}
	first |= byte(len(content)) & 0b_0000_1111
	pb.buf.WriteByte(first)
	for rest > 0 {
		b := byte(rest & 0b_0111_1111)
		rest >>= 7
		if rest > 0 {
			b |= 0b_1000_0000
		}
		pb.buf.WriteByte(b)
	}

	w := zlib.NewWriter(&pb.buf)
	if _, err := w.Write(content); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	pb.count++
}

func (pb *testPackBuilder) bytes() []byte {
	data := pb.buf.Bytes()
	binary.BigEndian.PutUint32(data[8:12], pb.count)
	return append(append([]byte{}, data...), make([]byte, ginternals.OidSize)...)
}

func pktLine(t *testing.T, payload string) []byte {
	t.Helper()
	size := len(payload) + 4
	return []byte(hexLen(size) + payload)
}

func hexLen(n int) string {
	const hex = "0123456789abcdef"
	b := []byte{hex[(n>>12)&0xf], hex[(n>>8)&0xf], hex[(n>>4)&0xf], hex[n&0xf]}
	return string(b)
}

func TestClone(t *testing.T) {
	t.Parallel()

	blob := object.New(object.TypeBlob, []byte("hello\n"))
	tree := object.NewTree([]object.TreeEntry{
		{Path: "file.txt", ID: blob.ID(), Mode: object.ModeFile},
	})
	sig := object.NewSignature("tester", "tester@example.com", time.Unix(0, 0))
	commit := object.NewCommit(tree.ID(), sig, &object.CommitOptions{Message: "init"})

	pb := newTestPackBuilder()
	pb.addObject(object.TypeBlob, blob.Bytes())
	pb.addObject(object.TypeTree, tree.ToObject().Bytes())
	pb.addObject(object.TypeCommit, commit.ToObject().Bytes())
	packBytes := pb.bytes()

	commitOid := commit.ID()

	mux := http.NewServeMux()
	mux.HandleFunc("/info/refs", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pktLine(t, "# service=git-upload-pack\n"))           //nolint:errcheck
		w.Write([]byte("0000"))                                      //nolint:errcheck
		w.Write(pktLine(t, commitOid.String()+" HEAD\x00\n"))        //nolint:errcheck
		w.Write(pktLine(t, commitOid.String()+" refs/heads/main\n")) //nolint:errcheck
		w.Write([]byte("0000"))                                      //nolint:errcheck
	})
	mux.HandleFunc("/git-upload-pack", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pktLine(t, "NAK\n")) //nolint:errcheck
		w.Write(packBytes)           //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "repo")

	r, err := Clone(context.Background(), srv.URL, dest)
	require.NoError(t, err)

	head, err := r.GetReference(ginternals.Head)
	require.NoError(t, err)
	assert.Equal(t, commitOid, head.Target())

	content, err := os.ReadFile(filepath.Join(dest, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))

	o, err := r.GetObject(commitOid)
	require.NoError(t, err)
	assert.Equal(t, object.TypeCommit, o.Type())
}
