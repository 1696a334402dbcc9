// Package compress implements the entropy-compression adapter (component B):
// a byte-in/byte-out contract around an external compressor, used both to
// shrink full-package component payloads and, inside chunkdiff, to compress
// whole "to" chunks and bsdiff patches so the smaller of the two can be
// chosen per chunk.
//
// # Contract
//
// Every Codec must satisfy:
//
//	Compress(x) is deterministic: same input, same output, byte-for-byte.
//	Decompress(Compress(x)) == x.
//
// Three real algorithms are provided plus a no-op codec used in tests:
//
//   - S2Codec (format.CompressionS2): the default, balanced speed/ratio,
//     backed by github.com/klauspost/compress/s2.
//   - ZstdCodec (format.CompressionZstd): best ratio, backed by
//     github.com/klauspost/compress/zstd.
//   - LZ4Codec (format.CompressionLZ4): fastest decompression, backed by
//     github.com/pierrec/lz4/v4.
//   - NoOpCodec (format.CompressionNone): returns input unchanged; used by
//     tests that need a deterministic, trivially invertible compressor.
//
// Failures from any backend should be reported to callers as
// errs.ErrExternalFailure per spec §4.2; this package itself only returns
// the underlying library error, leaving the wrap into the shared error
// taxonomy to the caller (fwpkg, chunkdiff).
package compress
