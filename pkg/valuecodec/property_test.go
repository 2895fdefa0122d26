package valuecodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyRoundTrip(t *testing.T) {
	p := Property{KeyID: 3, Val: Float(2.5)}
	encoded := EncodeProperty(p)
	decoded, rest, err := DecodeProperty(encoded)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, p.KeyID, decoded.KeyID)
	require.True(t, p.Val.Equal(decoded.Val))
}

func TestLabelSetSortUnique(t *testing.T) {
	ls := SortUnique([]uint32{5, 1, 3, 1, 5, 2})
	require.Equal(t, []uint32{1, 2, 3, 5}, ls.IDs)
}

func TestLabelSetRoundTrip(t *testing.T) {
	ls := SortUnique([]uint32{9, 1, 4})
	buf := AppendLabelSet(nil, ls)
	decoded, rest, err := DecodeLabelSet(buf)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, ls.IDs, decoded.IDs)
}

func TestLabelSetWithAddedRemoved(t *testing.T) {
	ls := SortUnique([]uint32{1, 2, 3})
	added := ls.WithAdded(4, 0)
	require.Equal(t, []uint32{0, 1, 2, 3, 4}, added.IDs)

	removed := added.WithRemoved(0, 2)
	require.Equal(t, []uint32{1, 3, 4}, removed.IDs)
}

func TestLabelSetContains(t *testing.T) {
	ls := SortUnique([]uint32{1, 3, 5})
	require.True(t, ls.Contains(3))
	require.False(t, ls.Contains(4))
}

func TestLabelSetDecodeTruncated(t *testing.T) {
	_, _, err := DecodeLabelSet([]byte{0, 0, 0, 2, 0, 0, 0, 1})
	require.Error(t, err)
}
