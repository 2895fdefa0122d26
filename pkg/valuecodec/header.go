package valuecodec

import (
	"encoding/binary"
	"fmt"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

// NodeHeader is the nodes bucket value (spec §4.2):
// u64 id ‖ LabelSet ‖ u32 hotCount ‖ hotCount·Property.
//
// A NodeHeader owns its Labels and HotProps. Cold properties and vectors
// are never cached here — they live in sibling buckets keyed by node id
// (spec §9 "Header ownership").
type NodeHeader struct {
	ID       uint64
	Labels   LabelSet
	HotProps []Property
}

// EncodeNodeHeader returns the standalone binary encoding of h.
func EncodeNodeHeader(h NodeHeader) []byte {
	buf := make([]byte, 0, 8 + 4 + 4*len(h.Labels.IDs) + 16*len(h.HotProps))
	buf = binary.BigEndian.AppendUint64(buf, h.ID)
	buf = AppendLabelSet(buf, h.Labels)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(h.HotProps)))
	for _, p := range h.HotProps {
		buf = AppendProperty(buf, p)
	}
	return buf
}

// DecodeNodeHeader decodes a complete NodeHeader from data. Unlike the
// other decoders in this package, DecodeNodeHeader consumes the entire
// input: any bytes left over after the declared hot-property count is
// read are treated as corruption (spec §4.2), since a NodeHeader is
// always stored as a single bucket value, never concatenated with
// anything else.
func DecodeNodeHeader(data []byte) (NodeHeader, error) {
	if len(data) < 8 {
		return NodeHeader{}, fmt.Errorf("header id: %w", storeerr.CorruptEncoding)
	}
	id := binary.BigEndian.Uint64(data[:8])
	rest := data[8:]

	labels, rest, err := DecodeLabelSet(rest)
	if err != nil {
		return NodeHeader{}, err
	}

	if len(rest) < 4 {
		return NodeHeader{}, fmt.Errorf("header hotCount: %w", storeerr.CorruptEncoding)
	}
	hotCount := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]

	hotProps := make([]Property, hotCount)
	for i := range hotProps {
		var p Property
		p, rest, err = DecodeProperty(rest)
		if err != nil {
			return NodeHeader{}, err
		}
		hotProps[i] = p
	}

	if len(rest) != 0 {
		return NodeHeader{}, fmt.Errorf("%d trailing bytes: %w", len(rest), storeerr.CorruptEncoding)
	}

	return NodeHeader{ID: id, Labels: labels, HotProps: hotProps}, nil
}

// FindHotProp returns the hot property with the given key id, if present.
func (h NodeHeader) FindHotProp(keyID uint32) (Property, bool) {
	for _, p := range h.HotProps {
		if p.KeyID == keyID {
			return p, true
		}
	}
	return Property{}, false
}

// WithHotProp returns a copy of h.HotProps with keyID's value set to val,
// appending a new entry if keyID was not already present.
func WithHotProp(props []Property, keyID uint32, val Value) []Property {
	out := make([]Property, len(props))
	copy(out, props)
	for i, p := range out {
		if p.KeyID == keyID {
			out[i].Val = val
			return out
		}
	}
	return append(out, Property{KeyID: keyID, Val: val})
}

// WithoutHotProp returns a copy of props with any entry for keyID removed.
func WithoutHotProp(props []Property, keyID uint32) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if p.KeyID != keyID {
			out = append(out, p)
		}
	}
	return out
}
