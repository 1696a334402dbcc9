// Package codec implements the bit-exact binary layout the bootloader
// parses: the 28-byte outer package header, the 16-byte component
// descriptor, and the 32-byte diff-stream chunk header. Every Serialize*
// function writes exactly the byte widths below with little-endian integer
// encoding and no padding; every Parse* function is its exact inverse.
package codec

import (
	"github.com/SDICurie/main/endian"
	"github.com/SDICurie/main/errs"
)

// OuterHeaderMagic is the fixed 3-byte ASCII tag at the start of every
// full or incremental package.
const OuterHeaderMagic = "OTA"

// SupportedHeaderVersion is the only header_version this implementation
// understands.
const SupportedHeaderVersion uint8 = 1

// OuterHeaderSize is the fixed on-disk size of OuterHeader, in bytes.
const OuterHeaderSize = 28

// OuterHeader is the 28-byte outer package header (spec.md §3.2).
type OuterHeader struct {
	HeaderVersion  uint8
	HeaderLength   uint16
	Platform       uint16
	CRC            uint32
	PayloadLength  uint32
	Version        uint32
	MinVersion     uint32
	AppMinVersion  uint32
}

var engine = endian.GetLittleEndianEngine()

// SerializeOuterHeader writes h as the fixed 28-byte wire layout.
func SerializeOuterHeader(h OuterHeader) []byte {
	b := make([]byte, OuterHeaderSize)
	copy(b[0:3], OuterHeaderMagic)
	b[3] = h.HeaderVersion
	engine.PutUint16(b[4:6], h.HeaderLength)
	engine.PutUint16(b[6:8], h.Platform)
	engine.PutUint32(b[8:12], h.CRC)
	engine.PutUint32(b[12:16], h.PayloadLength)
	engine.PutUint32(b[16:20], h.Version)
	engine.PutUint32(b[20:24], h.MinVersion)
	engine.PutUint32(b[24:28], h.AppMinVersion)

	return b
}

// ParseOuterHeader parses the fixed 28-byte outer header from data.
//
// Fails with errs.ErrTruncated if data is shorter than OuterHeaderSize,
// errs.ErrBadMagic if the leading 3 bytes are not "OTA", and
// errs.ErrUnsupportedVersion if header_version is not SupportedHeaderVersion.
func ParseOuterHeader(data []byte) (OuterHeader, error) {
	if len(data) < OuterHeaderSize {
		return OuterHeader{}, errs.New(errs.KindTruncated, "outer header")
	}
	if string(data[0:3]) != OuterHeaderMagic {
		return OuterHeader{}, errs.New(errs.KindBadMagic, "outer header")
	}

	h := OuterHeader{
		HeaderVersion: data[3],
		HeaderLength:  engine.Uint16(data[4:6]),
		Platform:      engine.Uint16(data[6:8]),
		CRC:           engine.Uint32(data[8:12]),
		PayloadLength: engine.Uint32(data[12:16]),
		Version:       engine.Uint32(data[16:20]),
		MinVersion:    engine.Uint32(data[20:24]),
		AppMinVersion: engine.Uint32(data[24:28]),
	}

	if h.HeaderVersion != SupportedHeaderVersion {
		return OuterHeader{}, errs.New(errs.KindUnsupportedVersion, "outer header")
	}

	return h, nil
}
