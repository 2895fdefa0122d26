// Package keycodec implements the fixed-width, big-endian composite key
// layouts for every bucket the store touches (spec §4.1). Every key is a
// concatenation of fixed-width big-endian integers with no delimiters, so
// that byte-wise lexicographic order over the encoded key equals the
// logical tuple order — callers can range-scan with a plain []byte prefix
// comparison instead of decoding.
//
// Grounded on nornicdb's pkg/storage/badger.go key-encoding helpers
// (nodeKey, labelIndexKey, outgoingIndexKey, ...), generalized from that
// file's five ad-hoc string-concatenation keys to the fuller fixed-width
// binary.BigEndian layout original_source/src/encode.hpp specifies.
package keycodec

import "encoding/binary"

const (
	u32Width = 4
	u64Width = 8
)

// NodeKey encodes the nodes bucket key: u64 nodeId.
func NodeKey(nodeID uint64) []byte {
	b := make([]byte, 0, u64Width)
	b = binary.BigEndian.AppendUint64(b, nodeID)
	return b
}

// NodeColdPropKey encodes the nodeColdProps bucket key: u64 nodeId ‖ u32 propKeyId.
func NodeColdPropKey(nodeID uint64, propKeyID uint32) []byte {
	b := make([]byte, 0, u64Width + u32Width)
	b = binary.BigEndian.AppendUint64(b, nodeID)
	b = binary.BigEndian.AppendUint32(b, propKeyID)
	return b
}

// NodeColdPropPrefix encodes the lower bound for scanning all cold
// properties of a node: u64 nodeId ‖ u32(0).
func NodeColdPropPrefix(nodeID uint64) []byte {
	return NodeColdPropKey(nodeID, 0)
}

// DecodeNodeColdPropKey splits a nodeColdProps key back into (nodeID, propKeyID).
func DecodeNodeColdPropKey(key []byte) (nodeID uint64, propKeyID uint32, ok bool) {
	if len(key) != u64Width+u32Width {
		return 0, 0, false
	}
	return binary.BigEndian.Uint64(key[:u64Width]), binary.BigEndian.Uint32(key[u64Width:]), true
}

// NodeVectorKey encodes the nodeVectors bucket key: u64 nodeId ‖ u32 tagId.
func NodeVectorKey(nodeID uint64, tagID uint32) []byte {
	b := make([]byte, 0, u64Width + u32Width)
	b = binary.BigEndian.AppendUint64(b, nodeID)
	b = binary.BigEndian.AppendUint32(b, tagID)
	return b
}

// NodeVectorPrefix encodes the lower bound for scanning all vectors of a node.
func NodeVectorPrefix(nodeID uint64) []byte {
	return NodeVectorKey(nodeID, 0)
}

// DecodeNodeVectorKey splits a nodeVectors key back into (nodeID, tagID).
func DecodeNodeVectorKey(key []byte) (nodeID uint64, tagID uint32, ok bool) {
	if len(key) != u64Width+u32Width {
		return 0, 0, false
	}
	return binary.BigEndian.Uint64(key[:u64Width]), binary.BigEndian.Uint32(key[u64Width:]), true
}

// EdgeBySrcTypeKey encodes: u64 src ‖ u32 typeId ‖ u64 dst ‖ u64 edgeId.
func EdgeBySrcTypeKey(src uint64, typeID uint32, dst, edgeID uint64) []byte {
	b := make([]byte, 0, u64Width*3 + u32Width)
	b = binary.BigEndian.AppendUint64(b, src)
	b = binary.BigEndian.AppendUint32(b, typeID)
	b = binary.BigEndian.AppendUint64(b, dst)
	b = binary.BigEndian.AppendUint64(b, edgeID)
	return b
}

// EdgeBySrcPrefix encodes the lower bound for scanning all edges out of src:
// u64 src ‖ u32(0) ‖ u64(0) ‖ u64(0).
func EdgeBySrcPrefix(src uint64) []byte {
	return EdgeBySrcTypeKey(src, 0, 0, 0)
}

// DecodeEdgeBySrcTypeKey splits an edgesBySrcType key into its four fields.
func DecodeEdgeBySrcTypeKey(key []byte) (src uint64, typeID uint32, dst, edgeID uint64, ok bool) {
	if len(key) != u64Width*3+u32Width {
		return 0, 0, 0, 0, false
	}
	src = binary.BigEndian.Uint64(key[0:8])
	typeID = binary.BigEndian.Uint32(key[8:12])
	dst = binary.BigEndian.Uint64(key[12:20])
	edgeID = binary.BigEndian.Uint64(key[20:28])
	return src, typeID, dst, edgeID, true
}

// EdgeByDstTypeKey encodes: u64 dst ‖ u32 typeId ‖ u64 src ‖ u64 edgeId.
func EdgeByDstTypeKey(dst uint64, typeID uint32, src, edgeID uint64) []byte {
	b := make([]byte, 0, u64Width*3 + u32Width)
	b = binary.BigEndian.AppendUint64(b, dst)
	b = binary.BigEndian.AppendUint32(b, typeID)
	b = binary.BigEndian.AppendUint64(b, src)
	b = binary.BigEndian.AppendUint64(b, edgeID)
	return b
}

// EdgeByDstPrefix encodes the lower bound for scanning all edges into dst.
func EdgeByDstPrefix(dst uint64) []byte {
	return EdgeByDstTypeKey(dst, 0, 0, 0)
}

// DecodeEdgeByDstTypeKey splits an edgesByDstType key into its four fields.
func DecodeEdgeByDstTypeKey(key []byte) (dst uint64, typeID uint32, src, edgeID uint64, ok bool) {
	if len(key) != u64Width*3+u32Width {
		return 0, 0, 0, 0, false
	}
	dst = binary.BigEndian.Uint64(key[0:8])
	typeID = binary.BigEndian.Uint32(key[8:12])
	src = binary.BigEndian.Uint64(key[12:20])
	edgeID = binary.BigEndian.Uint64(key[20:28])
	return dst, typeID, src, edgeID, true
}

// EdgeByIDKey encodes the edgesById bucket key: u64 edgeId.
func EdgeByIDKey(edgeID uint64) []byte {
	b := make([]byte, 0, u64Width)
	b = binary.BigEndian.AppendUint64(b, edgeID)
	return b
}

// EdgePropKey encodes the edgeProps bucket key: u64 edgeId ‖ u32 propKeyId.
func EdgePropKey(edgeID uint64, propKeyID uint32) []byte {
	b := make([]byte, 0, u64Width + u32Width)
	b = binary.BigEndian.AppendUint64(b, edgeID)
	b = binary.BigEndian.AppendUint32(b, propKeyID)
	return b
}

// EdgePropPrefix encodes the lower bound for scanning all properties of an edge.
func EdgePropPrefix(edgeID uint64) []byte {
	return EdgePropKey(edgeID, 0)
}

// LabelIndexKey encodes the labelIndex bucket key: u32 labelId ‖ u64 nodeId.
func LabelIndexKey(labelID uint32, nodeID uint64) []byte {
	b := make([]byte, 0, u32Width + u64Width)
	b = binary.BigEndian.AppendUint32(b, labelID)
	b = binary.BigEndian.AppendUint64(b, nodeID)
	return b
}

// LabelIndexPrefix encodes the lower bound for scanning all nodes with a label.
func LabelIndexPrefix(labelID uint32) []byte {
	return LabelIndexKey(labelID, 0)
}

// DecodeLabelIndexKey splits a labelIndex key into (labelID, nodeID).
func DecodeLabelIndexKey(key []byte) (labelID uint32, nodeID uint64, ok bool) {
	if len(key) != u32Width+u64Width {
		return 0, 0, false
	}
	return binary.BigEndian.Uint32(key[:u32Width]), binary.BigEndian.Uint64(key[u32Width:]), true
}

// DictIDKey encodes a ⟨dict⟩Ids bucket key: u32 id.
func DictIDKey(id uint32) []byte {
	b := make([]byte, 0, u32Width)
	b = binary.BigEndian.AppendUint32(b, id)
	return b
}

// DictNameKey encodes a ⟨dict⟩ByName bucket key: the raw UTF-8 name bytes.
func DictNameKey(name string) []byte {
	return []byte(name)
}

// EncodeDictID encodes a u32 id as a 4-byte BE value (for *ByName rows).
func EncodeDictID(id uint32) []byte {
	b := make([]byte, 0, u32Width)
	b = binary.BigEndian.AppendUint32(b, id)
	return b
}

// DecodeDictID decodes a 4-byte BE u32 id.
func DecodeDictID(val []byte) (uint32, bool) {
	if len(val) != u32Width {
		return 0, false
	}
	return binary.BigEndian.Uint32(val), true
}

// VecTagMetaKey encodes the vecTagMeta bucket key: u32 tagId.
func VecTagMetaKey(tagID uint32) []byte {
	return DictIDKey(tagID)
}

// MetaKey encodes a meta bucket key from its ASCII label.
func MetaKey(label string) []byte {
	return []byte(label)
}

// EncodeU64 encodes a u64 as 8 big-endian bytes, for meta sequence
// counters (nodeSeq, edgeSeq) whose values outgrow a u32 dictionary id.
func EncodeU64(v uint64) []byte {
	b := make([]byte, 0, u64Width)
	b = binary.BigEndian.AppendUint64(b, v)
	return b
}

// DecodeU64 decodes 8 big-endian bytes back into a u64.
func DecodeU64(val []byte) (uint64, bool) {
	if len(val) != u64Width {
		return 0, false
	}
	return binary.BigEndian.Uint64(val), true
}

// Well-known meta bucket labels (spec §4.1).
const (
	MetaNodeSeq        = "nodeSeq"
	MetaEdgeSeq        = "edgeSeq"
	MetaSchemaVersion  = "schemaVersion"
	MetaLabelSeq       = "labelSeq"
	MetaRelTypeSeq     = "relTypeSeq"
	MetaPropKeySeq     = "propKeySeq"
	MetaVecTagSeq      = "vecTagSeq"
	MetaTextSeq        = "textSeq"
)
