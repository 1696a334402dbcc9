// Package chunkdiff implements the chunked differential encoder
// (component D): it splits a pair of decompressed images into fixed-size
// chunks, computes a binary patch for each mismatched chunk, and picks
// per-chunk among three representations — KEEP, COMPRESSED, or
// COMPRESSED_PATCH — so the total diff-stream size is minimized. A
// parallel JSON Manifest records each chunk's CRCs, sizes and type.
//
// # Algorithm
//
// Both inputs are memory-mapped and partitioned into Config.ChunkSize
// chunks (the last chunk of either may be shorter). Each chunk index is
// classified independently — in parallel, bounded by Config.Threads — as:
//
//	KEEP:             from chunk == to chunk, byte-wise; no payload.
//	COMPRESSED:       compress(to chunk) is no larger than compress(patch).
//	COMPRESSED_PATCH:  compress(bsdiff(from chunk, to chunk)) is smaller.
//
// Classification results are written to per-chunk temp files (named with
// a fresh UUID and the chunk id, per spec §5) and then concatenated, in
// ascending id order, into the final diff stream — deterministic
// regardless of which worker finishes first.
package chunkdiff
