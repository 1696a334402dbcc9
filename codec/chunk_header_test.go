package codec

import (
	"hash/crc32"
	"testing"

	"github.com/SDICurie/main/errs"
	"github.com/stretchr/testify/require"
)

func TestChunkHeader_RoundTrip(t *testing.T) {
	from := []byte{0x00, 0x00, 0x00, 0x00}
	to := []byte{0x11, 0x22, 0x33, 0x44}

	h := ChunkHeader{
		Version: SupportedChunkHeaderVersion,
		Type:    ChunkCompressed,
		Id:      7,
		Size:    128,
		FromLen: int32(len(from)),
		FromCRC: int32(crc32.ChecksumIEEE(from)),
		ToLen:   int32(len(to)),
		ToCRC:   int32(crc32.ChecksumIEEE(to)),
	}
	h.CRC = int32(HeaderCRC(h))

	data := SerializeChunkHeader(h)
	require.Len(t, data, ChunkHeaderSize)

	parsed, err := ParseChunkHeader(data)
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	// HeaderCRC recomputed from the parsed header (with CRC zeroed) must
	// match the CRC stored on the wire.
	require.Equal(t, uint32(h.CRC), HeaderCRC(parsed))
}

func TestChunkHeader_KeepHasNoPayload(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC}
	h := ChunkHeader{
		Version: SupportedChunkHeaderVersion,
		Type:    ChunkKeep,
		Id:      0,
		Size:    0,
		FromLen: int32(len(buf)),
		FromCRC: int32(crc32.ChecksumIEEE(buf)),
		ToLen:   int32(len(buf)),
		ToCRC:   int32(crc32.ChecksumIEEE(buf)),
	}
	h.CRC = int32(HeaderCRC(h))

	data := SerializeChunkHeader(h)
	require.Len(t, data, ChunkHeaderSize)
	require.Equal(t, int32(0), h.Size)
	require.Equal(t, h.FromCRC, h.ToCRC)
}

func TestChunkHeader_Parse_Errors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := ParseChunkHeader(make([]byte, 5))
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := make([]byte, ChunkHeaderSize)
		copy(data, "NOPE")
		_, err := ParseChunkHeader(data)
		require.ErrorIs(t, err, errs.ErrBadMagic)
	})
}

func TestCRC32_MatchesStdlib(t *testing.T) {
	data := []byte("the quick brown fox")
	require.Equal(t, crc32.ChecksumIEEE(data), CRC32(data))
}
