// Package valuecodec implements the tag-prefixed binary codecs for
// property values, properties, label sets, and node headers (spec §4.2).
//
// Grounded on hupe1980-vecgo's metadata.Value/appendValue/parseValue
// pattern (a Kind byte followed by a kind-specific payload), adapted from
// that package's little-endian uvarint-length encoding to the fixed-width
// big-endian layout spec.md §4.2 and original_source/src/encode.hpp both
// specify, since on-disk format is compatibility-critical here (spec §6.1)
// and new tags may only be appended, never reordered.
package valuecodec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

// Kind identifies which variant a Value holds. The numeric values are the
// on-disk tag byte and are normative — new kinds may only be appended at
// the end of the tag space (spec §6.1).
type Kind byte

const (
	KindInt    Kind = 0
	KindFloat  Kind = 1
	KindBool   Kind = 2
	KindTextID Kind = 3
	KindBytes  Kind = 4
	KindNull   Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTextID:
		return "textId"
	case KindBytes:
		return "bytes"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("unknown(%d)", byte(k))
	}
}

// Value is the tagged-union property value described by spec §4.2. Exactly
// one of the typed fields is meaningful, selected by Kind; codecs never
// inspect fields outside the active Kind.
type Value struct {
	Kind   Kind
	I64    int64
	F64    float64
	B      bool
	TextID uint32
	Bytes  []byte
}

// Int returns an i64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns an f64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// Bool returns a bool Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// TextRef returns a Value referencing an interned text id.
func TextRef(id uint32) Value { return Value{Kind: KindTextID, TextID: id} }

// Bytes returns a raw-bytes Value. The slice is retained, not copied.
func Bytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// Null returns the null Value.
func Null() Value { return Value{Kind: KindNull} }

// Equal reports whether two values are the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.I64 == o.I64
	case KindFloat:
		return v.F64 == o.F64
	case KindBool:
		return v.B == o.B
	case KindTextID:
		return v.TextID == o.TextID
	case KindBytes:
		return bytesEqual(v.Bytes, o.Bytes)
	case KindNull:
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AppendValue appends the tag-prefixed encoding of v to buf and returns
// the extended slice.
func AppendValue(buf []byte, v Value) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case KindInt:
		buf = binary.BigEndian.AppendUint64(buf, uint64(v.I64))
	case KindFloat:
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v.F64))
	case KindBool:
		if v.B {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case KindTextID:
		buf = binary.BigEndian.AppendUint32(buf, v.TextID)
	case KindBytes:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.Bytes)))
		buf = append(buf, v.Bytes...)
	case KindNull:
		// no payload
	}
	return buf
}

// EncodeValue returns the standalone tag-prefixed encoding of v.
func EncodeValue(v Value) []byte {
	buf := make([]byte, 0, 9)
	return AppendValue(buf, v)
}

// DecodeValue reads one tag-prefixed Value from the front of data and
// returns it along with the unconsumed remainder. It fails with
// storeerr.CorruptEncoding on truncation or an unrecognized tag byte.
func DecodeValue(data []byte) (Value, []byte, error) {
	if len(data) < 1 {
		return Value{}, nil, fmt.Errorf("value tag byte: %w", storeerr.CorruptEncoding)
	}
	kind := Kind(data[0])
	rest := data[1:]
	switch kind {
	case KindInt:
		if len(rest) < 8 {
			return Value{}, nil, fmt.Errorf("int payload: %w", storeerr.CorruptEncoding)
		}
		return Value{Kind: KindInt, I64: int64(binary.BigEndian.Uint64(rest[:8]))}, rest[8:], nil
	case KindFloat:
		if len(rest) < 8 {
			return Value{}, nil, fmt.Errorf("float payload: %w", storeerr.CorruptEncoding)
		}
		return Value{Kind: KindFloat, F64: math.Float64frombits(binary.BigEndian.Uint64(rest[:8]))}, rest[8:], nil
	case KindBool:
		if len(rest) < 1 {
			return Value{}, nil, fmt.Errorf("bool payload: %w", storeerr.CorruptEncoding)
		}
		return Value{Kind: KindBool, B: rest[0] != 0}, rest[1:], nil
	case KindTextID:
		if len(rest) < 4 {
			return Value{}, nil, fmt.Errorf("textId payload: %w", storeerr.CorruptEncoding)
		}
		return Value{Kind: KindTextID, TextID: binary.BigEndian.Uint32(rest[:4])}, rest[4:], nil
	case KindBytes:
		if len(rest) < 4 {
			return Value{}, nil, fmt.Errorf("bytes length: %w", storeerr.CorruptEncoding)
		}
		n := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint64(len(rest)) < uint64(n) {
			return Value{}, nil, fmt.Errorf("bytes payload: %w", storeerr.CorruptEncoding)
		}
		return Value{Kind: KindBytes, Bytes: rest[:n:n]}, rest[n:], nil
	case KindNull:
		return Value{Kind: KindNull}, rest, nil
	default:
		return Value{}, nil, fmt.Errorf("tag %d: %w", kind, storeerr.CorruptEncoding)
	}
}
