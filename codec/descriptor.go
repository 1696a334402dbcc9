package codec

import "github.com/SDICurie/main/errs"

// DescriptorSize is the fixed on-disk size of Descriptor, in bytes.
const DescriptorSize = 16

// MagicSize is the width of a component's ASCII tag.
const MagicSize = 3

// Descriptor is the 16-byte on-disk component descriptor (spec.md §3.3).
// It carries only the wire fields; Offset is always computed by the
// caller (fwpkg.Builder) while laying out the payload region, never an
// independent piece of state a caller can set directly.
type Descriptor struct {
	Magic   [MagicSize]byte
	Type    uint8
	Version uint32
	Offset  uint32
	Length  uint32
}

// SerializeDescriptor writes d as the fixed 16-byte wire layout.
func SerializeDescriptor(d Descriptor) []byte {
	b := make([]byte, DescriptorSize)
	copy(b[0:3], d.Magic[:])
	b[3] = d.Type
	engine.PutUint32(b[4:8], d.Version)
	engine.PutUint32(b[8:12], d.Offset)
	engine.PutUint32(b[12:16], d.Length)

	return b
}

// ParseDescriptor parses a single fixed 16-byte descriptor from data.
func ParseDescriptor(data []byte) (Descriptor, error) {
	if len(data) < DescriptorSize {
		return Descriptor{}, errs.New(errs.KindTruncated, "descriptor")
	}

	var d Descriptor
	copy(d.Magic[:], data[0:3])
	d.Type = data[3]
	d.Version = engine.Uint32(data[4:8])
	d.Offset = engine.Uint32(data[8:12])
	d.Length = engine.Uint32(data[12:16])

	return d, nil
}
