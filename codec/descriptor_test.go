package codec

import (
	"testing"

	"github.com/SDICurie/main/errs"
	"github.com/stretchr/testify/require"
)

func magic(s string) [MagicSize]byte {
	var m [MagicSize]byte
	copy(m[:], s)

	return m
}

func TestDescriptor_RoundTrip(t *testing.T) {
	d := Descriptor{
		Magic:   magic("ARC"),
		Type:    0,
		Version: 0,
		Offset:  4096,
		Length:  4096,
	}

	data := SerializeDescriptor(d)
	require.Len(t, data, DescriptorSize)

	parsed, err := ParseDescriptor(data)
	require.NoError(t, err)
	require.Equal(t, d, parsed)
}

func TestDescriptor_Parse_Truncated(t *testing.T) {
	_, err := ParseDescriptor(make([]byte, 4))
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrTruncated)
}
