package compress

import (
	"bytes"
	"testing"

	"github.com/SDICurie/main/format"
	"github.com/stretchr/testify/require"
)

func allCodecs() map[string]Codec {
	return map[string]Codec{
		"noop": NewNoOpCodec(),
		"s2":   NewS2Codec(),
		"zstd": NewZstdCodec(),
		"lz4":  NewLZ4Codec(),
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		[]byte("a"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		make([]byte, 8192), // all zero, highly compressible
	}

	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				compressed, err := codec.Compress(in)
				require.NoError(t, err)

				out, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.True(t, bytes.Equal(in, out), "round trip changed %q into %q", in, out)
			}
		})
	}
}

func TestCodecs_Deterministic(t *testing.T) {
	data := []byte("deterministic compression output for the same input, every time")

	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			a, err := codec.Compress(data)
			require.NoError(t, err)
			b, err := codec.Compress(data)
			require.NoError(t, err)
			require.Equal(t, a, b)
		})
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		ct   format.CompressionType
		want Codec
	}{
		{format.CompressionNone, NewNoOpCodec()},
		{format.CompressionS2, NewS2Codec()},
		{format.CompressionZstd, NewZstdCodec()},
		{format.CompressionLZ4, NewLZ4Codec()},
	}

	for _, c := range cases {
		codec, err := New(c.ct)
		require.NoError(t, err)
		require.IsType(t, c.want, codec)
	}

	_, err := New(format.CompressionType(0xFF))
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	codec, err := Get(format.CompressionS2)
	require.NoError(t, err)
	require.IsType(t, S2Codec{}, codec)

	_, err = Get(format.CompressionType(0xFF))
	require.Error(t, err)
}
