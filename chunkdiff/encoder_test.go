package chunkdiff

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SDICurie/main/codec"
	"github.com/SDICurie/main/errs"
)

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}

	return out
}

func TestEncoder_Encode_KeepAndNonKeepChunks(t *testing.T) {
	dir := t.TempDir()

	// Three chunks: first unchanged (KEEP candidate), second and third
	// mutated so bsdiff has something to do.
	from := append(append(repeat(0xAA, 4096), repeat(0xBB, 4096)...), repeat(0xCC, 4096)...)
	to := append(append(repeat(0xAA, 4096), repeat(0x11, 4096)...), repeat(0xCC, 2048)...)

	fromPath := writeTempFile(t, dir, "from.bin", from)
	toPath := writeTempFile(t, dir, "to.bin", to)
	outPath := filepath.Join(dir, "out.diff")
	manifestPath := filepath.Join(dir, "out.json")

	cfg, err := NewConfig(filepath.Join(dir, "tmp"), WithThreads(2))
	require.NoError(t, err)

	enc := NewEncoder(cfg)
	_, manifest, err := enc.Encode(context.Background(), fromPath, toPath, outPath, manifestPath)
	require.NoError(t, err)

	require.Len(t, manifest.Chunks, 3)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)

	offset := 0
	for id := 0; id < 3; id++ {
		hdr, err := codec.ParseChunkHeader(out[offset : offset+codec.ChunkHeaderSize])
		require.NoError(t, err)
		require.EqualValues(t, id, hdr.Id)

		if id == 0 {
			require.Equal(t, codec.ChunkKeep, hdr.Type)
			require.Zero(t, hdr.Size)
		} else {
			require.NotEqual(t, codec.ChunkKeep, hdr.Type)
			require.Positive(t, hdr.Size)
		}

		offset += codec.ChunkHeaderSize + int(hdr.Size)
	}
	require.Equal(t, len(out), offset)

	manifestBytes, err := os.ReadFile(manifestPath)
	require.NoError(t, err)

	var decoded Manifest
	require.NoError(t, json.Unmarshal(manifestBytes, &decoded))
	require.Equal(t, manifest.Size, decoded.Size)
	require.Len(t, decoded.Chunks, 3)
}

func TestEncoder_Encode_IdenticalInputsRejected(t *testing.T) {
	dir := t.TempDir()
	buf := repeat(0x42, 4096)

	fromPath := writeTempFile(t, dir, "from.bin", buf)
	toPath := writeTempFile(t, dir, "to.bin", buf)

	cfg, err := NewConfig(filepath.Join(dir, "tmp"))
	require.NoError(t, err)

	enc := NewEncoder(cfg)
	_, _, err = enc.Encode(context.Background(), fromPath, toPath, filepath.Join(dir, "out.diff"), "")

	kind, ok := errs.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errs.KindIdenticalInputs, kind)
}

func TestEncoder_Encode_SmallChunkSizeStillSucceedsUnderLimit(t *testing.T) {
	dir := t.TempDir()

	from := repeat(0x00, 16)
	to := repeat(0x01, 16)

	fromPath := writeTempFile(t, dir, "from.bin", from)
	toPath := writeTempFile(t, dir, "to.bin", to)

	// 16 one-byte chunks is comfortably under MaxChunks; this exercises
	// the chunk-count guard's non-rejecting path with a tiny fixture.
	cfg, err := NewConfig(filepath.Join(dir, "tmp"), WithChunkSize(1))
	require.NoError(t, err)

	enc := NewEncoder(cfg)
	_, _, err = enc.Encode(context.Background(), fromPath, toPath, filepath.Join(dir, "out.diff"), "")
	require.NoError(t, err)
}

// flatCodec always "compresses" to a fixed-size blob, regardless of
// input. It exists only to force compress(to) below the assembled diff
// stream's size deterministically, without depending on a real
// compressor's ratio on a particular fixture.
type flatCodec struct{}

func (flatCodec) Compress(data []byte) ([]byte, error) {
	return []byte{0x01, 0x02, 0x03, 0x04}, nil
}

func (flatCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func TestEncoder_Encode_WholeFileCompressionBeatsDiffStream(t *testing.T) {
	dir := t.TempDir()

	from := append(repeat(0xAA, 4096), repeat(0xBB, 4096)...)
	to := append(repeat(0x11, 4096), repeat(0x22, 4096)...)

	fromPath := writeTempFile(t, dir, "from.bin", from)
	toPath := writeTempFile(t, dir, "to.bin", to)
	outPath := filepath.Join(dir, "out.diff")
	manifestPath := filepath.Join(dir, "out.json")

	cfg, err := NewConfig(filepath.Join(dir, "tmp"), WithCompressor(flatCodec{}))
	require.NoError(t, err)

	enc := NewEncoder(cfg)
	usePatch, manifest, err := enc.Encode(context.Background(), fromPath, toPath, outPath, manifestPath)
	require.NoError(t, err)
	require.False(t, usePatch)

	// Overridden fields describe the compressed whole file, not the
	// diff stream that was actually assembled on disk.
	require.Equal(t, filepath.Base(toPath), manifest.Name)
	require.Equal(t, manifest.SizeCompressed, manifest.Size)
	require.Equal(t, 0, manifest.GainVsCompressed)
	require.Equal(t, manifest.SizeOriginal-manifest.SizeCompressed, manifest.GainVsOriginal)
	require.Equal(t, "1.00000", manifest.RatioVsCompressed)

	// size_patch and the chunk breakdown still describe the diff stream
	// that was computed, not the fallback.
	require.NotEqual(t, manifest.Size, manifest.SizePatch)
	require.Len(t, manifest.Chunks, 2)

	manifestBytes, err := os.ReadFile(manifestPath)
	require.NoError(t, err)

	var decoded Manifest
	require.NoError(t, json.Unmarshal(manifestBytes, &decoded))
	require.Equal(t, manifest.Name, decoded.Name)
	require.Equal(t, manifest.Size, decoded.Size)
}

func TestEncoder_Encode_CRCsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	from := repeat(0x00, 8192)
	to := append(repeat(0x00, 4096), repeat(0xFF, 4096)...)

	fromPath := writeTempFile(t, dir, "from.bin", from)
	toPath := writeTempFile(t, dir, "to.bin", to)
	outPath := filepath.Join(dir, "out.diff")

	cfg, err := NewConfig(filepath.Join(dir, "tmp"))
	require.NoError(t, err)

	enc := NewEncoder(cfg)
	_, _, err = enc.Encode(context.Background(), fromPath, toPath, outPath, "")
	require.NoError(t, err)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)

	offset := 0
	for id := 0; id < 2; id++ {
		hdr, err := codec.ParseChunkHeader(out[offset : offset+codec.ChunkHeaderSize])
		require.NoError(t, err)

		fromChunk := sliceChunk(from, cfg.ChunkSize, id)
		toChunk := sliceChunk(to, cfg.ChunkSize, id)
		require.EqualValues(t, codec.CRC32(fromChunk), uint32(hdr.FromCRC))
		require.EqualValues(t, codec.CRC32(toChunk), uint32(hdr.ToCRC))
		require.Equal(t, codec.HeaderCRC(hdr), uint32(hdr.CRC))

		offset += codec.ChunkHeaderSize + int(hdr.Size)
	}
}
