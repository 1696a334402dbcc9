package fwpkg

import (
	"os"

	"github.com/SDICurie/main/codec"
	"github.com/SDICurie/main/errs"
)

// Parser reverses Builder: given the path to an existing full package,
// it yields each component's raw on-disk payload (possibly still
// compressed) indexed by its 3-byte magic tag (spec §4.5).
type Parser struct{}

// NewParser creates a Parser. It holds no state; call sites typically
// use a zero value directly.
func NewParser() *Parser { return &Parser{} }

// Parse reads path and returns a map from component magic to raw
// payload bytes.
//
// Fails with errs.ErrBadMagic / errs.ErrTruncated / errs.ErrUnsupportedVersion
// (propagated from codec.ParseOuterHeader) and errs.ErrInconsistentHeader
// if header_length does not correspond to a whole number of descriptors.
func (p *Parser) Parse(path string) (map[[3]byte][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIo, path, err)
	}

	header, err := codec.ParseOuterHeader(data)
	if err != nil {
		return nil, err
	}

	descriptorBytes := int(header.HeaderLength) - codec.OuterHeaderSize
	if descriptorBytes < 0 || descriptorBytes%codec.DescriptorSize != 0 {
		return nil, errs.New(errs.KindInconsistentHeader, path)
	}
	binariesCount := descriptorBytes / codec.DescriptorSize

	if len(data) < int(header.HeaderLength) {
		return nil, errs.New(errs.KindTruncated, path)
	}

	result := make(map[[3]byte][]byte, binariesCount)

	for i := 0; i < binariesCount; i++ {
		start := codec.OuterHeaderSize + i*codec.DescriptorSize
		d, err := codec.ParseDescriptor(data[start : start+codec.DescriptorSize])
		if err != nil {
			return nil, err
		}

		payloadStart := int(header.HeaderLength) + int(d.Offset)
		payloadEnd := payloadStart + int(d.Length)
		if payloadEnd > len(data) {
			return nil, errs.New(errs.KindTruncated, path)
		}

		result[d.Magic] = data[payloadStart:payloadEnd]
	}

	return result, nil
}
