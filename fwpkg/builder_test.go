package fwpkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SDICurie/main/codec"
	"github.com/SDICurie/main/compress"
)

func writeComponentFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func TestBuilder_Build_RawRoundTrip(t *testing.T) {
	dir := t.TempDir()

	arc := writeComponentFile(t, dir, "arc.bin", []byte("arc-image-bytes"))
	qrk := writeComponentFile(t, dir, "qrk.bin", []byte("qrk-image-bytes-longer"))

	cfg := BuilderConfig{
		Identity:        Identity{Chip: "curie"},
		OutputDirectory: dir,
		OutFile:         "full.ota",
		DescriptionFile: "full.json",
		Platform:        1,
		Version:         2,
	}

	components := []ComponentSpec{
		{Magic: [3]byte{'A', 'R', 'C'}, Type: 0, SourcePath: arc},
		{Magic: [3]byte{'Q', 'R', 'K'}, Type: 1, SourcePath: qrk},
	}

	b := NewBuilder(cfg, components)
	metrics, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, len("arc-image-bytes")+len("qrk-image-bytes-longer"), metrics.Size)
	require.Zero(t, metrics.GainVsOriginal)

	parsed, err := NewParser().Parse(filepath.Join(dir, "full.ota"))
	require.NoError(t, err)
	require.Equal(t, []byte("arc-image-bytes"), parsed[[3]byte{'A', 'R', 'C'}])
	require.Equal(t, []byte("qrk-image-bytes-longer"), parsed[[3]byte{'Q', 'R', 'K'}])

	descJSON, err := os.ReadFile(filepath.Join(dir, "full.json"))
	require.NoError(t, err)
	require.Contains(t, string(descJSON), `"chip": "curie"`)
	require.Contains(t, string(descJSON), `"board": "curie-all-boards"`)
}

func TestBuilder_Build_CompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()

	raw := make([]byte, 4096)
	for i := range raw {
		raw[i] = byte(i % 7)
	}
	arc := writeComponentFile(t, dir, "arc.bin", raw)

	cfg := BuilderConfig{
		Identity:        Identity{Chip: "curie"},
		OutputDirectory: dir,
		OutFile:         "full.ota",
		Compression:     true,
		Compressor:      compress.NewS2Codec(),
	}

	components := []ComponentSpec{{Magic: [3]byte{'A', 'R', 'C'}, Type: 0, SourcePath: arc}}

	b := NewBuilder(cfg, components)
	metrics, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, len(raw), metrics.SizeOriginal)
	require.Zero(t, metrics.GainVsCompressed)

	parsed, err := NewParser().Parse(filepath.Join(dir, "full.ota"))
	require.NoError(t, err)

	compressed := parsed[[3]byte{'A', 'R', 'C'}]
	decompressed, err := compress.NewS2Codec().Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, raw, decompressed)
}

func TestBuilder_Build_PackageCheckConsistency(t *testing.T) {
	dir := t.TempDir()
	arc := writeComponentFile(t, dir, "arc.bin", []byte("x"))

	cfg := BuilderConfig{
		Identity:        Identity{Chip: "curie"},
		OutputDirectory: dir,
		OutFile:         "full.ota",
	}

	b := NewBuilder(cfg, []ComponentSpec{{Magic: [3]byte{'A', 'R', 'C'}, SourcePath: arc}})
	_, err := b.Build()
	require.NoError(t, err)
	require.Contains(t, b.LastCheck(), "check_package:")

	info, err := os.Stat(filepath.Join(dir, "full.ota"))
	require.NoError(t, err)
	require.EqualValues(t, codec.OuterHeaderSize+codec.DescriptorSize+1, info.Size())
}
