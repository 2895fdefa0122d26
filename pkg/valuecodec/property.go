package valuecodec

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

// Property is a single keyId/value pair (spec §4.2): u32 keyId ‖ value.
type Property struct {
	KeyID uint32
	Val   Value
}

// AppendProperty appends the encoding of p to buf.
func AppendProperty(buf []byte, p Property) []byte {
	buf = binary.BigEndian.AppendUint32(buf, p.KeyID)
	return AppendValue(buf, p.Val)
}

// EncodeProperty returns the standalone encoding of p.
func EncodeProperty(p Property) []byte {
	buf := make([]byte, 0, 13)
	return AppendProperty(buf, p)
}

// DecodeProperty reads one Property from the front of data, returning it
// and the unconsumed remainder.
func DecodeProperty(data []byte) (Property, []byte, error) {
	if len(data) < 4 {
		return Property{}, nil, fmt.Errorf("property keyId: %w", storeerr.CorruptEncoding)
	}
	keyID := binary.BigEndian.Uint32(data[:4])
	val, rest, err := DecodeValue(data[4:])
	if err != nil {
		return Property{}, nil, err
	}
	return Property{KeyID: keyID, Val: val}, rest, nil
}

// LabelSet is a sorted, duplicate-free set of interned label ids (spec §3
// invariant 2). Encoding: u32 count ‖ count·u32 ids.
type LabelSet struct {
	IDs []uint32
}

// SortUnique returns a LabelSet with ids sorted ascending and de-duplicated.
// It does not mutate the input slice.
func SortUnique(ids []uint32) LabelSet {
	cp := append([]uint32(nil), ids...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:0]
	for i, id := range cp {
		if i == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return LabelSet{IDs: out}
}

// Contains reports whether id is present in the label set.
func (ls LabelSet) Contains(id uint32) bool {
	i := sort.Search(len(ls.IDs), func(i int) bool { return ls.IDs[i] >= id })
	return i < len(ls.IDs) && ls.IDs[i] == id
}

// WithAdded returns a new, sorted-unique LabelSet with ids merged in.
func (ls LabelSet) WithAdded(ids ...uint32) LabelSet {
	return SortUnique(append(append([]uint32(nil), ls.IDs...), ids...))
}

// WithRemoved returns a new LabelSet with the given ids removed.
func (ls LabelSet) WithRemoved(ids ...uint32) LabelSet {
	remove := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}
	out := make([]uint32, 0, len(ls.IDs))
	for _, id := range ls.IDs {
		if _, drop := remove[id]; !drop {
			out = append(out, id)
		}
	}
	return LabelSet{IDs: out}
}

// AppendLabelSet appends the encoding of ls to buf.
func AppendLabelSet(buf []byte, ls LabelSet) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(ls.IDs)))
	for _, id := range ls.IDs {
		buf = binary.BigEndian.AppendUint32(buf, id)
	}
	return buf
}

// DecodeLabelSet reads a LabelSet from the front of data.
func DecodeLabelSet(data []byte) (LabelSet, []byte, error) {
	if len(data) < 4 {
		return LabelSet{}, nil, fmt.Errorf("labelSet count: %w", storeerr.CorruptEncoding)
	}
	count := binary.BigEndian.Uint32(data[:4])
	rest := data[4:]
	if uint64(len(rest)) < uint64(count)*4 {
		return LabelSet{}, nil, fmt.Errorf("labelSet ids: %w", storeerr.CorruptEncoding)
	}
	ids := make([]uint32, count)
	for i := range ids {
		ids[i] = binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
	}
	return LabelSet{IDs: ids}, rest, nil
}
