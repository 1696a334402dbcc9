package codec

import (
	"hash/crc32"

	"github.com/SDICurie/main/errs"
)

// ChunkHeaderMagic is the fixed 4-byte ASCII tag at the start of every
// diff-stream chunk.
const ChunkHeaderMagic = "C!K$"

// SupportedChunkHeaderVersion is the only chunk header version understood.
const SupportedChunkHeaderVersion uint8 = 1

// ChunkHeaderSize is the fixed on-disk size of ChunkHeader, in bytes.
const ChunkHeaderSize = 32

// Chunk representation types (spec.md §3.4).
const (
	ChunkKeep            uint8 = 1
	ChunkCompressed      uint8 = 2
	ChunkCompressedPatch uint8 = 3
)

// ChunkHeader is the 32-byte diff-stream chunk header (spec.md §3.4).
//
// Id, Size, CRC, FromLen, FromCRC, ToLen and ToCRC are declared as signed
// 32-bit (16-bit for Id) fields on the wire, but the CRC fields always
// hold the raw IEEE CRC-32 bit pattern: callers must interpret them
// bit-identically via uint32(h.CRC) etc., never arithmetically.
type ChunkHeader struct {
	Version uint8
	Type    uint8
	Id      int16
	Size    int32
	CRC     int32
	FromLen int32
	FromCRC int32
	ToLen   int32
	ToCRC   int32
}

// SerializeChunkHeader writes h as the fixed 32-byte wire layout.
func SerializeChunkHeader(h ChunkHeader) []byte {
	b := make([]byte, ChunkHeaderSize)
	copy(b[0:4], ChunkHeaderMagic)
	b[4] = h.Version
	b[5] = h.Type
	engine.PutUint16(b[6:8], uint16(h.Id))
	engine.PutUint32(b[8:12], uint32(h.Size))
	engine.PutUint32(b[12:16], uint32(h.CRC))
	engine.PutUint32(b[16:20], uint32(h.FromLen))
	engine.PutUint32(b[20:24], uint32(h.FromCRC))
	engine.PutUint32(b[24:28], uint32(h.ToLen))
	engine.PutUint32(b[28:32], uint32(h.ToCRC))

	return b
}

// ParseChunkHeader parses a single fixed 32-byte chunk header from data.
func ParseChunkHeader(data []byte) (ChunkHeader, error) {
	if len(data) < ChunkHeaderSize {
		return ChunkHeader{}, errs.New(errs.KindTruncated, "chunk header")
	}
	if string(data[0:4]) != ChunkHeaderMagic {
		return ChunkHeader{}, errs.New(errs.KindBadMagic, "chunk header")
	}

	h := ChunkHeader{
		Version: data[4],
		Type:    data[5],
		Id:      int16(engine.Uint16(data[6:8])),
		Size:    int32(engine.Uint32(data[8:12])),
		CRC:     int32(engine.Uint32(data[12:16])),
		FromLen: int32(engine.Uint32(data[16:20])),
		FromCRC: int32(engine.Uint32(data[20:24])),
		ToLen:   int32(engine.Uint32(data[24:28])),
		ToCRC:   int32(engine.Uint32(data[28:32])),
	}

	if h.Version != SupportedChunkHeaderVersion {
		return ChunkHeader{}, errs.New(errs.KindUnsupportedVersion, "chunk header")
	}

	return h, nil
}

// HeaderCRC computes the CRC-32 (IEEE) of a serialized chunk header with
// its CRC field zeroed, per spec.md §3.6: "CRC-32 over a buffer returns
// the same 32-bit value whether held as signed or unsigned; the
// serializer writes the raw 32-bit pattern."
func HeaderCRC(h ChunkHeader) uint32 {
	h.CRC = 0
	b := SerializeChunkHeader(h)

	return crc32.ChecksumIEEE(b)
}

// CRC32 returns the standard IEEE CRC-32 of data.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
