package downloader

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressGzip(t *testing.T) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	_, err := writer.Write([]byte("hello gzip"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	out, compressed, err := DecompressBody(buf.Bytes(), "gzip")
	require.NoError(t, err)
	assert.True(t, compressed)
	assert.Equal(t, "hello gzip", string(out))
}

func TestDecompressBrotli(t *testing.T) {
	var buf bytes.Buffer
	writer := brotli.NewWriter(&buf)
	_, err := writer.Write([]byte("hello brotli"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	out, compressed, err := DecompressBody(buf.Bytes(), "br")
	require.NoError(t, err)
	assert.True(t, compressed)
	assert.Equal(t, "hello brotli", string(out))
}

func TestDecompressPlain(t *testing.T) {
	out, compressed, err := DecompressBody([]byte("plain text"), "")
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, "plain text", string(out))
}
