package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Decompressor turns compressed asset bytes into raw bytes.
// Implementations must be pure: no side effects, safe for concurrent use.
type Decompressor interface {
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// ErrPayloadTooLarge is returned when decompressed output exceeds the configured limit.
var ErrPayloadTooLarge = errors.New("decompressed payload exceeds size limit")

// DecompressionError indicates a malformed or corrupt compressed payload.
//
// The original underlying error can be accessed via errors.Unwrap.
type DecompressionError struct {
	Format string
	cause  error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%s decompression failed: %v", e.Format, e.cause)
}

func (e *DecompressionError) Unwrap() error { return e.cause }

func newDecompressionError(format string, err error) error {
	return &DecompressionError{Format: format, cause: err}
}

// readAllLimited drains r, failing once more than limit bytes are produced.
// A limit <= 0 disables the check.
func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return out, nil
}

// Gzip decompresses RFC 1952 streams. This is the format asset servers ship.
type Gzip struct {
	// MaxSize bounds the decompressed size. 0 means unlimited.
	MaxSize int64
}

// Decompress implements Decompressor.
func (g Gzip) Decompress(src []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, newDecompressionError(g.Name(), err)
	}
	defer func() { _ = zr.Close() }()

	out, err := readAllLimited(zr, g.MaxSize)
	if err != nil {
		return nil, newDecompressionError(g.Name(), err)
	}
	return out, nil
}

// Name implements Decompressor.
func (Gzip) Name() string { return "gzip" }

// Zlib decompresses RFC 1950 streams (the default output of deflate libraries).
type Zlib struct {
	MaxSize int64
}

// Decompress implements Decompressor.
func (z Zlib) Decompress(src []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, newDecompressionError(z.Name(), err)
	}
	defer func() { _ = zr.Close() }()

	out, err := readAllLimited(zr, z.MaxSize)
	if err != nil {
		return nil, newDecompressionError(z.Name(), err)
	}
	return out, nil
}

// Name implements Decompressor.
func (Zlib) Name() string { return "zlib" }

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Zstd decompresses Zstandard frames.
type Zstd struct {
	MaxSize int64
}

// Decompress implements Decompressor.
func (z Zstd) Decompress(src []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, newDecompressionError(z.Name(), err)
	}
	defer putZstdDecoder(dec)

	if err := dec.Reset(bytes.NewReader(src)); err != nil {
		return nil, newDecompressionError(z.Name(), err)
	}
	out, err := readAllLimited(dec, z.MaxSize)
	if err != nil {
		return nil, newDecompressionError(z.Name(), err)
	}
	return out, nil
}

// Name implements Decompressor.
func (Zstd) Name() string { return "zstd" }

// LZ4 decompresses LZ4 frames.
type LZ4 struct {
	MaxSize int64
}

// Decompress implements Decompressor.
func (l LZ4) Decompress(src []byte) ([]byte, error) {
	out, err := readAllLimited(lz4.NewReader(bytes.NewReader(src)), l.MaxSize)
	if err != nil {
		return nil, newDecompressionError(l.Name(), err)
	}
	return out, nil
}

// Name implements Decompressor.
func (LZ4) Name() string { return "lz4" }

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Auto sniffs the stream header and dispatches to the matching decompressor.
// Unknown headers fail with a DecompressionError.
type Auto struct {
	MaxSize int64
}

// Decompress implements Decompressor.
func (a Auto) Decompress(src []byte) ([]byte, error) {
	d, err := a.Detect(src)
	if err != nil {
		return nil, err
	}
	return d.Decompress(src)
}

// Detect returns the decompressor matching the stream header of src.
func (a Auto) Detect(src []byte) (Decompressor, error) {
	switch {
	case bytes.HasPrefix(src, gzipMagic):
		return Gzip{MaxSize: a.MaxSize}, nil
	case bytes.HasPrefix(src, zstdMagic):
		return Zstd{MaxSize: a.MaxSize}, nil
	case bytes.HasPrefix(src, lz4Magic):
		return LZ4{MaxSize: a.MaxSize}, nil
	case isZlibHeader(src):
		return Zlib{MaxSize: a.MaxSize}, nil
	default:
		return nil, newDecompressionError(a.Name(), errors.New("unrecognized stream header"))
	}
}

// Name implements Decompressor.
func (Auto) Name() string { return "auto" }

// isZlibHeader checks CMF/FLG per RFC 1950 section 2.2.
func isZlibHeader(src []byte) bool {
	if len(src) < 2 {
		return false
	}
	cmf, flg := src[0], src[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// DecompressorByName returns a built-in decompressor by its stable name.
// Content-Encoding values ("gzip", "deflate", "zstd") are accepted as well.
func DecompressorByName(name string) (Decompressor, bool) {
	switch name {
	case "gzip", "x-gzip":
		return Gzip{}, true
	case "zlib", "deflate":
		return Zlib{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	case "auto", "":
		return Auto{}, true
	default:
		return nil, false
	}
}
