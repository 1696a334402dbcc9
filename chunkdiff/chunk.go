package chunkdiff

import (
	"bytes"
	"fmt"

	"github.com/SDICurie/main/codec"
	"github.com/SDICurie/main/errs"
)

// sliceChunk returns the id-th ChunkSize-wide slice of buf, or an empty
// slice if id is beyond buf's range. The last chunk of buf may be
// shorter than ChunkSize.
func sliceChunk(buf []byte, chunkSize, id int) []byte {
	start := id * chunkSize
	if start >= len(buf) {
		return buf[len(buf):]
	}

	end := start + chunkSize
	if end > len(buf) {
		end = len(buf)
	}

	return buf[start:end]
}

// chunkOutcome is the in-memory result of classifying one chunk, before
// it is staged to a temp file.
type chunkOutcome struct {
	header  codec.ChunkHeader
	payload []byte // nil for KEEP
}

// classifyChunk implements spec §4.3 step 4: decide whether chunk id is
// KEEP, COMPRESSED or COMPRESSED_PATCH, and builds its wire header.
func classifyChunk(cfg Config, id int, from, to []byte) (chunkOutcome, error) {
	fromCRC := codec.CRC32(from)
	toCRC := codec.CRC32(to)

	base := codec.ChunkHeader{
		Version: codec.SupportedChunkHeaderVersion,
		Id:      int16(id),
		FromLen: int32(len(from)),
		FromCRC: int32(fromCRC),
		ToLen:   int32(len(to)),
		ToCRC:   int32(toCRC),
	}

	if bytes.Equal(from, to) {
		base.Type = codec.ChunkKeep
		base.Size = 0
		base.CRC = int32(codec.HeaderCRC(base))

		return chunkOutcome{header: base}, nil
	}

	patch, err := cfg.Differ.Diff(from, to)
	if err != nil {
		return chunkOutcome{}, errs.Wrap(errs.KindExternalFailure, fmt.Sprintf("bsdiff chunk %d", id), err)
	}
	if len(patch) == 0 {
		return chunkOutcome{}, errs.New(errs.KindExternalFailure, fmt.Sprintf("bsdiff chunk %d produced an empty patch", id))
	}

	compressedTo, err := cfg.Compressor.Compress(to)
	if err != nil {
		return chunkOutcome{}, errs.Wrap(errs.KindExternalFailure, fmt.Sprintf("compress chunk %d (to)", id), err)
	}

	compressedPatch, err := cfg.Compressor.Compress(patch)
	if err != nil {
		return chunkOutcome{}, errs.Wrap(errs.KindExternalFailure, fmt.Sprintf("compress chunk %d (patch)", id), err)
	}

	if len(compressedTo) <= len(compressedPatch) {
		base.Type = codec.ChunkCompressed
		base.Size = int32(len(compressedTo))
		base.CRC = int32(codec.HeaderCRC(base))

		return chunkOutcome{header: base, payload: compressedTo}, nil
	}

	base.Type = codec.ChunkCompressedPatch
	base.Size = int32(len(compressedPatch))
	base.CRC = int32(codec.HeaderCRC(base))

	return chunkOutcome{header: base, payload: compressedPatch}, nil
}

// bytes returns the full header||payload wire representation of o.
func (o chunkOutcome) bytes() []byte {
	data := codec.SerializeChunkHeader(o.header)
	if o.payload != nil {
		data = append(data, o.payload...)
	}

	return data
}
