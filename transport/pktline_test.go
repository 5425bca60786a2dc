package transport

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePktLine(t *testing.T) {
	t.Parallel()

	encoded, err := encodePktLine([]byte("want deadbeef\n"))
	require.NoError(t, err)
	assert.Equal(t, "0012want deadbeef\n", string(encoded))

	payload, ok, err := readPktLine(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "want deadbeef\n", string(payload))
}

func TestReadFlushPkt(t *testing.T) {
	t.Parallel()

	payload, ok, err := readPktLine(bytes.NewReader(FlushPkt))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestReadPktLines(t *testing.T) {
	t.Parallel()

	a, err := encodePktLine([]byte("first\n"))
	require.NoError(t, err)
	b, err := encodePktLine([]byte("second\n"))
	require.NoError(t, err)

	stream := append(append(append([]byte{}, a...), b...), FlushPkt...)
	lines, err := readPktLines(bufio.NewReader(bytes.NewReader(stream)))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "first\n", string(lines[0]))
	assert.Equal(t, "second\n", string(lines[1]))
}

func TestEncodePktLineTooLarge(t *testing.T) {
	t.Parallel()

	_, err := encodePktLine(make([]byte, maxPktLineSize))
	assert.ErrorIs(t, err, ErrProtocol)
}
