package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = bytes.Repeat([]byte("IFCWALL;IFCSLAB;IFCDOOR;"), 64)

func gzipBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zlibBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(b, nil)
}

func lz4Bytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecompressors(t *testing.T) {
	tests := []struct {
		name string
		d    Decompressor
		src  []byte
	}{
		{"gzip", Gzip{}, gzipBytes(t, fixture)},
		{"zlib", Zlib{}, zlibBytes(t, fixture)},
		{"zstd", Zstd{}, zstdBytes(t, fixture)},
		{"lz4", LZ4{}, lz4Bytes(t, fixture)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.d.Decompress(tt.src)
			require.NoError(t, err)
			assert.Equal(t, fixture, out)

			// Auto must pick the same format from the header alone.
			out, err = Auto{}.Decompress(tt.src)
			require.NoError(t, err)
			assert.Equal(t, fixture, out)
		})
	}
}

func TestGzip_Corrupt(t *testing.T) {
	src := gzipBytes(t, fixture)
	src = src[:len(src)/2]

	_, err := Gzip{}.Decompress(src)
	require.Error(t, err)

	var de *DecompressionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "gzip", de.Format)
}

func TestGzip_NotCompressed(t *testing.T) {
	_, err := Gzip{}.Decompress([]byte("plain text"))
	var de *DecompressionError
	assert.True(t, errors.As(err, &de))
}

func TestAuto_Unknown(t *testing.T) {
	_, err := Auto{}.Decompress([]byte("plain text"))
	var de *DecompressionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "auto", de.Format)
}

func TestMaxSize(t *testing.T) {
	src := gzipBytes(t, fixture)

	_, err := Gzip{MaxSize: 16}.Decompress(src)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	out, err := Gzip{MaxSize: int64(len(fixture))}.Decompress(src)
	require.NoError(t, err)
	assert.Len(t, out, len(fixture))
}

func TestDecompressorByName(t *testing.T) {
	d, ok := DecompressorByName("deflate")
	require.True(t, ok)
	assert.Equal(t, "zlib", d.Name())

	_, ok = DecompressorByName("brotli")
	assert.False(t, ok)
}
