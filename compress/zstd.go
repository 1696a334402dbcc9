package compress

// ZstdCodec provides Zstandard compression: best compression ratio of the
// three backends, at the cost of slower compression than S2 or LZ4. Best
// suited for the whole-image fallback comparison in chunkdiff (spec §4.3
// step 7), where a single extra pass over the "to" buffer is cheap
// relative to the per-chunk work already done.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
