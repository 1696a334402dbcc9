package compress

import (
	"fmt"

	"github.com/SDICurie/main/format"
)

// Compressor compresses a payload. Implementations must be deterministic:
// the same input always produces the same output, byte-for-byte, since the
// build idempotence property (spec §8) depends on it.
type Compressor interface {
	// Compress compresses data and returns the compressed result; data is
	// never modified. The returned slice is owned by the caller, except
	// that NoOpCodec returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress decompresses data, previously produced by the matching
	// Compressor, and returns the original bytes exactly.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression. It is the concrete shape
// of the external compression collaborator referenced by spec §4.2.
type Codec interface {
	Compressor
	Decompressor
}

// New is a factory function that returns a Codec for the given compression
// type.
func New(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("compress: unsupported compression type: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// Get retrieves a shared Codec instance for the specified compression
// type. Unlike New, the returned Codec is a package-level singleton;
// callers that need per-call buffer isolation should use New instead.
func Get(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compress: unsupported compression type: %s", compressionType)
}
