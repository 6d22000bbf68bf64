package stream_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/internal/stream"
)

// frame builds a single wire frame for the given stream id and payload.
func frame(id byte, payload string) []byte {
	header := make([]byte, 8)
	header[0] = id
	binary.BigEndian.PutUint32(header[4:8], uint32(len(payload)))
	return append(header, payload...)
}

func TestCopy(t *testing.T) {
	tests := map[string]struct {
		input     []byte
		expStdout string
		expStderr string
		expErr    bool
	}{
		"An empty stream should decode to nothing": {
			input: nil,
		},

		"A single stdout frame should land on stdout only": {
			input:     frame(1, "hi\n"),
			expStdout: "hi\n",
		},

		"A single stderr frame should land on stderr only": {
			input:     frame(2, "oops\n"),
			expStderr: "oops\n",
		},

		"Alternating frames should keep channels uncontaminated": {
			input: bytes.Join([][]byte{
				frame(1, "out1"),
				frame(2, "err1"),
				frame(1, "out2"),
				frame(2, "err2"),
			}, nil),
			expStdout: "out1out2",
			expStderr: "err1err2",
		},

		"Zero length payload frames should be valid": {
			input:     bytes.Join([][]byte{frame(1, ""), frame(2, "e")}, nil),
			expStderr: "e",
		},

		"Stdin echo frames should be dropped": {
			input: bytes.Join([][]byte{
				frame(0, "echoed input"),
				frame(1, "real output"),
			}, nil),
			expStdout: "real output",
		},

		"Unknown stream ids should be dropped": {
			input: bytes.Join([][]byte{
				frame(7, "junk"),
				frame(2, "kept"),
			}, nil),
			expStderr: "kept",
		},

		"A stream ending inside a header should fail": {
			input:     frame(1, "ok")[:4],
			expErr:    true,
			expStdout: "",
		},

		"A stream ending inside a payload should fail": {
			input:     append(frame(1, "full"), frame(2, "truncated")[:12]...),
			expStdout: "full",
			expErr:    true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			var stdout, stderr bytes.Buffer
			written, err := stream.Copy(&stdout, &stderr, bytes.NewReader(test.input))

			if test.expErr {
				assert.Error(err)
				assert.ErrorIs(err, io.ErrUnexpectedEOF)
			} else {
				assert.NoError(err)
				assert.Equal(int64(len(test.expStdout)+len(test.expStderr)), written)
			}
			assert.Equal(test.expStdout, stdout.String())
			assert.Equal(test.expStderr, stderr.String())
		})
	}
}

func TestCopyPartialReads(t *testing.T) {
	assert := assert.New(t)

	// One byte at a time forces every frame to arrive split across reads.
	input := bytes.Join([][]byte{
		frame(1, "hello "),
		frame(2, "warn"),
		frame(1, "world"),
	}, nil)
	src := iotest.OneByteReader(bytes.NewReader(input))

	var stdout, stderr bytes.Buffer
	written, err := stream.Copy(&stdout, &stderr, src)

	assert.NoError(err)
	assert.Equal(int64(15), written)
	assert.Equal("hello world", stdout.String())
	assert.Equal("warn", stderr.String())
}

func TestCopyLargePayload(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	payload := bytes.Repeat([]byte("x"), 64*1024)
	input := frame(1, string(payload))

	var stdout, stderr bytes.Buffer
	written, err := stream.Copy(&stdout, &stderr, bytes.NewReader(input))

	require.NoError(err)
	assert.Equal(int64(len(payload)), written)
	assert.Equal(payload, stdout.Bytes())
	assert.Empty(stderr.String())
}

func TestCopyReadError(t *testing.T) {
	assert := assert.New(t)

	src := io.MultiReader(
		bytes.NewReader(frame(1, "before failure")),
		iotest.ErrReader(io.ErrClosedPipe),
	)

	var stdout, stderr bytes.Buffer
	_, err := stream.Copy(&stdout, &stderr, src)

	assert.ErrorIs(err, io.ErrClosedPipe)
	assert.Equal("before failure", stdout.String())
}
