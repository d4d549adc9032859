// Package codec centralizes payload encoding and decompression.
//
// Two concerns live here: the Decompressor primitive the loader applies to
// fetched asset bytes, and the Codec used to encode the fragment files the
// reference engine understands.
package codec

// Codec encodes and decodes fragment files.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured. It tolerates fields it
// does not know, so files written by newer tools still load.
var Default Codec = GoJSON{}
