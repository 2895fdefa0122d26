// Package adapters demonstrates the wire-name-to-interned-id
// translation step spec.md §2's data-flow diagram names, without
// standing up a real transport underneath it (spec.md §1 scopes
// transport surfaces out of this core).
//
// rpc.go shapes a capability whose method set maps 1:1 onto
// store.Store (spec.md §6.2): label/type/propKey/vecTag names arrive as
// strings and are resolved through intern.Interner before reaching
// Store — write paths with createIfMissing=true, read paths with
// createIfMissing=false, which the capability turns into an empty
// result rather than a hard error (spec.md §6.2).
package adapters

import (
	"fmt"
	"unicode/utf8"

	"github.com/stardust-db/stardust/pkg/batch"
	"github.com/stardust-db/stardust/pkg/intern"
	"github.com/stardust-db/stardust/pkg/store"
	"github.com/stardust-db/stardust/pkg/valuecodec"
)

// Capability is the RPC-shaped adapter spec.md §6.2 names. It holds no
// network state; a real capability-RPC transport would sit in front of
// it and marshal requests into these method calls.
type Capability struct {
	store *store.Store
	in    *intern.Interner
}

// NewCapability returns a Capability backed by s, using s's own Interner.
func NewCapability(s *store.Store) *Capability {
	return &Capability{store: s, in: s.Interner()}
}

// WireValue is a property value as it arrives on the wire: one of
// {i64, f64, bool, text, bytes, null}, named by Kind.
type WireValue struct {
	Kind  string
	I64   int64
	F64   float64
	Bool  bool
	Text  string
	Bytes []byte
}

// WireProperty pairs a wire-level property key name with its value.
type WireProperty struct {
	Key   string
	Value WireValue
}

// resolveValue applies spec §4.4's opportunistic text interning: a
// non-empty, valid-UTF-8 text or bytes value becomes a textId
// reference; an empty text value becomes an empty bytes value; every
// other value keeps its kind.
func (c *Capability) resolveValue(v WireValue, createIfMissing bool) (valuecodec.Value, error) {
	switch v.Kind {
	case "i64":
		return valuecodec.Int(v.I64), nil
	case "f64":
		return valuecodec.Float(v.F64), nil
	case "bool":
		return valuecodec.Bool(v.Bool), nil
	case "null":
		return valuecodec.Null(), nil
	case "bytes":
		if len(v.Bytes) > 0 && utf8.Valid(v.Bytes) {
			id, err := c.in.ResolveOrAllocate(intern.KindText, string(v.Bytes), createIfMissing)
			if err != nil {
				return valuecodec.Value{}, err
			}
			return valuecodec.TextRef(id), nil
		}
		return valuecodec.Bytes(v.Bytes), nil
	case "text":
		if v.Text == "" {
			return valuecodec.Bytes(nil), nil
		}
		id, err := c.in.ResolveOrAllocate(intern.KindText, v.Text, createIfMissing)
		if err != nil {
			return valuecodec.Value{}, err
		}
		return valuecodec.TextRef(id), nil
	default:
		return valuecodec.Value{}, fmt.Errorf("adapters: unknown wire value kind %q", v.Kind)
	}
}

// expandValue is resolveValue's inverse for readback: a textId expands
// back to its text (spec §4.4 "on readback, textId is expanded back to
// a text value on the wire").
func (c *Capability) expandValue(v valuecodec.Value) (WireValue, error) {
	switch v.Kind {
	case valuecodec.KindInt:
		return WireValue{Kind: "i64", I64: v.I64}, nil
	case valuecodec.KindFloat:
		return WireValue{Kind: "f64", F64: v.F64}, nil
	case valuecodec.KindBool:
		return WireValue{Kind: "bool", Bool: v.B}, nil
	case valuecodec.KindBytes:
		return WireValue{Kind: "bytes", Bytes: v.Bytes}, nil
	case valuecodec.KindNull:
		return WireValue{Kind: "null"}, nil
	case valuecodec.KindTextID:
		text, err := c.in.ResolveName(intern.KindText, v.TextID)
		if err != nil {
			return WireValue{}, err
		}
		return WireValue{Kind: "text", Text: text}, nil
	default:
		return WireValue{}, fmt.Errorf("adapters: unknown value kind %v", v.Kind)
	}
}

func (c *Capability) resolveProps(props []WireProperty, createIfMissing bool) ([]valuecodec.Property, error) {
	out := make([]valuecodec.Property, 0, len(props))
	for _, p := range props {
		keyID, err := c.in.ResolveOrAllocate(intern.KindPropKey, p.Key, createIfMissing)
		if err != nil {
			return nil, err
		}
		val, err := c.resolveValue(p.Value, createIfMissing)
		if err != nil {
			return nil, err
		}
		out = append(out, valuecodec.Property{KeyID: keyID, Val: val})
	}
	return out, nil
}

func (c *Capability) expandProps(props []valuecodec.Property) ([]WireProperty, error) {
	out := make([]WireProperty, 0, len(props))
	for _, p := range props {
		key, err := c.in.ResolveName(intern.KindPropKey, p.KeyID)
		if err != nil {
			return nil, err
		}
		val, err := c.expandValue(p.Val)
		if err != nil {
			return nil, err
		}
		out = append(out, WireProperty{Key: key, Value: val})
	}
	return out, nil
}

func (c *Capability) resolveLabels(names []string, createIfMissing bool) ([]uint32, error) {
	ids := make([]uint32, 0, len(names))
	for _, name := range names {
		id, err := c.in.ResolveOrAllocate(intern.KindLabel, name, createIfMissing)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateNode translates wire-level names to interned ids (allocating on
// demand) and delegates to store.Store.CreateNode.
func (c *Capability) CreateNode(labels []string, hotProps, coldProps []WireProperty, vectors map[string][]byte) (uint64, error) {
	labelIDs, err := c.resolveLabels(labels, true)
	if err != nil {
		return 0, err
	}
	hot, err := c.resolveProps(hotProps, true)
	if err != nil {
		return 0, err
	}
	cold, err := c.resolveProps(coldProps, true)
	if err != nil {
		return 0, err
	}
	vecs := make([]store.VectorInput, 0, len(vectors))
	for tagName, data := range vectors {
		tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, tagName, true)
		if err != nil {
			return 0, err
		}
		vecs = append(vecs, store.VectorInput{TagID: tagID, Data: data})
	}

	header, err := c.store.CreateNode(labelIDs, hot, cold, vecs)
	if err != nil {
		return 0, err
	}
	return header.ID, nil
}

// UpsertNodeProps resolves wire names and delegates to store.Store.UpsertNodeProps.
func (c *Capability) UpsertNodeProps(id uint64, setHot, setCold []WireProperty, unset []string) error {
	hot, err := c.resolveProps(setHot, true)
	if err != nil {
		return err
	}
	cold, err := c.resolveProps(setCold, true)
	if err != nil {
		return err
	}
	unsetIDs, err := c.resolveKeyIDs(unset, false)
	if err != nil {
		return err
	}
	return c.store.UpsertNodeProps(id, hot, cold, unsetIDs)
}

func (c *Capability) resolveKeyIDs(names []string, createIfMissing bool) ([]uint32, error) {
	ids := make([]uint32, 0, len(names))
	for _, name := range names {
		id, err := c.in.ResolveOrAllocate(intern.KindPropKey, name, createIfMissing)
		if err == nil {
			ids = append(ids, id)
			continue
		}
		if createIfMissing {
			return nil, err
		}
		// read path: an unknown name simply contributes nothing.
	}
	return ids, nil
}

// SetNodeLabels resolves wire label names and delegates.
func (c *Capability) SetNodeLabels(id uint64, add, remove []string) error {
	addIDs, err := c.resolveLabels(add, true)
	if err != nil {
		return err
	}
	removeIDs, err := c.resolveLabels(remove, false)
	if err != nil {
		return err
	}
	return c.store.SetNodeLabels(id, addIDs, removeIDs)
}

// UpsertVector resolves the tag name (allocating on demand) and delegates.
func (c *Capability) UpsertVector(id uint64, tag string, data []byte) error {
	tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, tag, true)
	if err != nil {
		return err
	}
	return c.store.UpsertVector(id, tagID, data)
}

// DeleteVector resolves the tag name on a read path (unknown tag is a no-op).
func (c *Capability) DeleteVector(id uint64, tag string) error {
	tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, tag, false)
	if err != nil {
		return nil
	}
	return c.store.DeleteVector(id, tagID)
}

// AddEdge resolves the relationship type name and edge property names,
// both on the write path, and delegates.
func (c *Capability) AddEdge(src, dst uint64, relType string, props []WireProperty) (uint64, error) {
	typeID, err := c.in.ResolveOrAllocate(intern.KindRelType, relType, true)
	if err != nil {
		return 0, err
	}
	resolved, err := c.resolveProps(props, true)
	if err != nil {
		return 0, err
	}
	return c.store.AddEdge(src, dst, typeID, resolved)
}

// UpdateEdgeProps resolves wire names and delegates.
func (c *Capability) UpdateEdgeProps(edgeID uint64, set []WireProperty, unset []string) error {
	resolved, err := c.resolveProps(set, true)
	if err != nil {
		return err
	}
	unsetIDs, err := c.resolveKeyIDs(unset, false)
	if err != nil {
		return err
	}
	return c.store.UpdateEdgeProps(edgeID, resolved, unsetIDs)
}

// AdjacencyRow is ListAdjacency's wire-level row: the neighbor's id and
// the relationship type name (resolved back from its interned id).
type AdjacencyRow struct {
	NeighborID uint64
	EdgeID     uint64
	Type       string
	Direction  string
}

// ListAdjacency delegates to store.Store.ListAdjacency and expands each
// row's typeId back to its name.
func (c *Capability) ListAdjacency(node uint64, direction string, limit int) ([]AdjacencyRow, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}
	rows, err := c.store.ListAdjacency(node, dir, limit)
	if err != nil {
		return nil, err
	}
	out := make([]AdjacencyRow, len(rows))
	for i, r := range rows {
		typeName, err := c.in.ResolveName(intern.KindRelType, r.TypeID)
		if err != nil {
			return nil, err
		}
		out[i] = AdjacencyRow{NeighborID: r.NeighborID, EdgeID: r.EdgeID, Type: typeName, Direction: r.Direction.String()}
	}
	return out, nil
}

func parseDirection(s string) (store.Direction, error) {
	switch s {
	case "out":
		return store.DirOut, nil
	case "in":
		return store.DirIn, nil
	case "both":
		return store.DirBoth, nil
	default:
		return 0, fmt.Errorf("adapters: unknown direction %q", s)
	}
}

// KNNHit is KNN's wire-level row.
type KNNHit struct {
	NodeID uint64
	Score  float64
}

// KNN resolves tag on the read path — an unknown tag yields an empty
// result rather than an error, matching spec §6.2's read-path rule.
func (c *Capability) KNN(tag string, query []byte, k int) ([]KNNHit, error) {
	tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, tag, false)
	if err != nil {
		return nil, nil
	}
	hits, err := c.store.KNN(tagID, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]KNNHit, len(hits))
	for i, h := range hits {
		out[i] = KNNHit{NodeID: h.NodeID, Score: h.Score}
	}
	return out, nil
}

// GetNode returns the node's labels (resolved back to names) and hot properties.
func (c *Capability) GetNode(id uint64) ([]string, []WireProperty, error) {
	header, err := c.store.GetNode(id)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, len(header.Labels.IDs))
	for i, labelID := range header.Labels.IDs {
		name, err := c.in.ResolveName(intern.KindLabel, labelID)
		if err != nil {
			return nil, nil, err
		}
		labels[i] = name
	}
	hot, err := c.expandProps(header.HotProps)
	if err != nil {
		return nil, nil, err
	}
	return labels, hot, nil
}

// GetNodeProps resolves requested key names on the read path and
// delegates; unknown names contribute nothing to the request, and a
// request naming only unknown keys yields an empty result.
func (c *Capability) GetNodeProps(id uint64, keys []string) ([]WireProperty, error) {
	keyIDs, err := c.resolveKeyIDs(keys, false)
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 && len(keyIDs) == 0 {
		return nil, nil
	}
	props, err := c.store.GetNodeProps(id, keyIDs)
	if err != nil {
		return nil, err
	}
	return c.expandProps(props)
}

// VectorResult is GetVectors's wire-level row.
type VectorResult struct {
	Tag  string
	Dim  uint32
	Data []byte
}

// GetVectors resolves requested tag names on the read path (unknown
// tags contribute nothing) and delegates.
func (c *Capability) GetVectors(id uint64, tags []string) ([]VectorResult, error) {
	var tagIDs []uint32
	for _, tag := range tags {
		id, err := c.in.ResolveOrAllocate(intern.KindVecTag, tag, false)
		if err != nil {
			continue
		}
		tagIDs = append(tagIDs, id)
	}
	if len(tags) > 0 && len(tagIDs) == 0 {
		return nil, nil
	}
	vecs, err := c.store.GetVectors(id, tagIDs)
	if err != nil {
		return nil, err
	}
	out := make([]VectorResult, len(vecs))
	for i, v := range vecs {
		name, err := c.in.ResolveName(intern.KindVecTag, v.TagID)
		if err != nil {
			return nil, err
		}
		out[i] = VectorResult{Tag: name, Dim: v.Dim, Data: v.Data}
	}
	return out, nil
}

// GetEdge returns the edge's endpoints, its relationship type name, and its properties.
func (c *Capability) GetEdge(edgeID uint64) (src, dst uint64, relType string, props []WireProperty, err error) {
	header, err := c.store.GetEdgeHeader(edgeID)
	if err != nil {
		return 0, 0, "", nil, err
	}
	typeName, err := c.in.ResolveName(intern.KindRelType, header.TypeID)
	if err != nil {
		return 0, 0, "", nil, err
	}
	rawProps, err := c.store.GetEdgeProps(edgeID, nil)
	if err != nil {
		return 0, 0, "", nil, err
	}
	wireProps, err := c.expandProps(rawProps)
	if err != nil {
		return 0, 0, "", nil, err
	}
	return header.Src, header.Dst, typeName, wireProps, nil
}

// GetEdgeProps resolves requested key names on the read path and delegates.
func (c *Capability) GetEdgeProps(edgeID uint64, keys []string) ([]WireProperty, error) {
	keyIDs, err := c.resolveKeyIDs(keys, false)
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 && len(keyIDs) == 0 {
		return nil, nil
	}
	props, err := c.store.GetEdgeProps(edgeID, keyIDs)
	if err != nil {
		return nil, err
	}
	return c.expandProps(props)
}

// ScanNodesByLabel resolves the label name on the read path — an
// unknown label yields an empty result.
func (c *Capability) ScanNodesByLabel(label string, limit int) ([]uint64, error) {
	labelID, err := c.in.ResolveOrAllocate(intern.KindLabel, label, false)
	if err != nil {
		return nil, nil
	}
	return c.store.ScanNodesByLabel(labelID, limit)
}

// Degree parses direction and delegates.
func (c *Capability) Degree(node uint64, direction string) (int, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return 0, err
	}
	return c.store.Degree(node, dir)
}

// DeleteNode delegates directly; no wire names to resolve.
func (c *Capability) DeleteNode(id uint64) error {
	return c.store.DeleteNode(id)
}

// DeleteEdge delegates directly; no wire names to resolve.
func (c *Capability) DeleteEdge(edgeID uint64) error {
	return c.store.DeleteEdge(edgeID)
}

// WriteBatchOp is one entry in a wire-level batch request.
type WriteBatchOp struct {
	Op        string
	Labels    []string
	HotProps  []WireProperty
	ColdProps []WireProperty
	Vectors   map[string][]byte

	NodeID uint64
	EdgeID uint64
	Tag    string
	Data   []byte

	SetHot, SetCold []WireProperty
	Unset           []string

	Add, Remove []string

	Src, Dst uint64
	RelType  string
	Props    []WireProperty
}

// WriteBatchResult mirrors batch.Result at the wire level.
type WriteBatchResult struct {
	NodeID uint64
	EdgeID uint64
	Err    error
}

// WriteBatch translates each wire op to a batch.Op and dispatches
// through pkg/batch, preserving the engine's per-op-transaction,
// non-atomic batch semantics (spec §4.7).
func (c *Capability) WriteBatch(ops []WriteBatchOp) ([]WriteBatchResult, error) {
	resolved := make([]batch.Op, len(ops))
	for i, op := range ops {
		b, err := c.resolveBatchOp(op)
		if err != nil {
			return nil, err
		}
		resolved[i] = b
	}

	results := batch.Run(c.store, resolved)
	out := make([]WriteBatchResult, len(results))
	for i, r := range results {
		out[i] = WriteBatchResult{NodeID: r.NodeID, EdgeID: r.EdgeID, Err: r.Err}
	}
	return out, nil
}

func (c *Capability) resolveBatchOp(op WriteBatchOp) (batch.Op, error) {
	switch op.Op {
	case "createNode":
		labelIDs, err := c.resolveLabels(op.Labels, true)
		if err != nil {
			return batch.Op{}, err
		}
		hot, err := c.resolveProps(op.HotProps, true)
		if err != nil {
			return batch.Op{}, err
		}
		cold, err := c.resolveProps(op.ColdProps, true)
		if err != nil {
			return batch.Op{}, err
		}
		vecs := make([]store.VectorInput, 0, len(op.Vectors))
		for tagName, data := range op.Vectors {
			tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, tagName, true)
			if err != nil {
				return batch.Op{}, err
			}
			vecs = append(vecs, store.VectorInput{TagID: tagID, Data: data})
		}
		return batch.Op{Kind: batch.OpCreateNode, Labels: labelIDs, HotProps: hot, ColdProps: cold, Vectors: vecs}, nil

	case "upsertNodeProps":
		hot, err := c.resolveProps(op.SetHot, true)
		if err != nil {
			return batch.Op{}, err
		}
		cold, err := c.resolveProps(op.SetCold, true)
		if err != nil {
			return batch.Op{}, err
		}
		unset, err := c.resolveKeyIDs(op.Unset, false)
		if err != nil {
			return batch.Op{}, err
		}
		return batch.Op{Kind: batch.OpUpsertNodeProps, NodeID: op.NodeID, SetHot: hot, SetCold: cold, Unset: unset}, nil

	case "setNodeLabels":
		add, err := c.resolveLabels(op.Add, true)
		if err != nil {
			return batch.Op{}, err
		}
		remove, err := c.resolveLabels(op.Remove, false)
		if err != nil {
			return batch.Op{}, err
		}
		return batch.Op{Kind: batch.OpSetNodeLabels, NodeID: op.NodeID, AddLabels: add, RemoveLabels: remove}, nil

	case "upsertVector":
		tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, op.Tag, true)
		if err != nil {
			return batch.Op{}, err
		}
		return batch.Op{Kind: batch.OpUpsertVector, NodeID: op.NodeID, TagID: tagID, Data: op.Data}, nil

	case "deleteVector":
		tagID, err := c.in.ResolveOrAllocate(intern.KindVecTag, op.Tag, false)
		if err != nil {
			return batch.Op{Kind: batch.OpDeleteVector, NodeID: op.NodeID, TagID: 0}, nil
		}
		return batch.Op{Kind: batch.OpDeleteVector, NodeID: op.NodeID, TagID: tagID}, nil

	case "addEdge":
		typeID, err := c.in.ResolveOrAllocate(intern.KindRelType, op.RelType, true)
		if err != nil {
			return batch.Op{}, err
		}
		props, err := c.resolveProps(op.Props, true)
		if err != nil {
			return batch.Op{}, err
		}
		return batch.Op{Kind: batch.OpAddEdge, Src: op.Src, Dst: op.Dst, TypeID: typeID, Props: props}, nil

	case "updateEdgeProps":
		props, err := c.resolveProps(op.SetHot, true)
		if err != nil {
			return batch.Op{}, err
		}
		unset, err := c.resolveKeyIDs(op.Unset, false)
		if err != nil {
			return batch.Op{}, err
		}
		return batch.Op{Kind: batch.OpUpdateEdgeProps, EdgeID: op.EdgeID, SetEdgeProps: props, UnsetEdge: unset}, nil

	default:
		return batch.Op{}, fmt.Errorf("adapters: unknown batch op %q", op.Op)
	}
}
