// Package batch implements the write-coalescing batch: an ordered list
// of heterogeneous operations dispatched one at a time to Store, each
// in its own transaction. The batch as a whole is not atomic — a
// failing op aborts only itself, leaving earlier ops committed (spec
// §4.7).
//
// Grounded on nornicdb's import/bulk-load command (cmd/nornicdb/main.go
// import subcommand), which drives Store through a sequence of
// independent per-row transactions rather than one giant transaction,
// the same non-atomic shape spec.md asks for here.
package batch

import (
	"fmt"

	"github.com/stardust-db/stardust/pkg/store"
	"github.com/stardust-db/stardust/pkg/valuecodec"
)

// OpKind identifies which Store method an Op dispatches to.
type OpKind int

const (
	OpCreateNode OpKind = iota
	OpUpsertNodeProps
	OpSetNodeLabels
	OpUpsertVector
	OpDeleteVector
	OpAddEdge
	OpUpdateEdgeProps
)

// Op is one entry in a batch. Only the fields relevant to Kind are read.
type Op struct {
	Kind OpKind

	// CreateNode
	Labels    []uint32
	HotProps  []valuecodec.Property
	ColdProps []valuecodec.Property
	Vectors   []store.VectorInput

	// UpsertNodeProps
	SetHot  []valuecodec.Property
	SetCold []valuecodec.Property
	Unset   []uint32

	// UpdateEdgeProps
	SetEdgeProps []valuecodec.Property
	UnsetEdge    []uint32

	// SetNodeLabels
	AddLabels    []uint32
	RemoveLabels []uint32

	// node/edge/vector targets
	NodeID uint64
	EdgeID uint64
	TagID  uint32
	Data   []byte

	// AddEdge
	Src, Dst uint64
	TypeID   uint32
	Props    []valuecodec.Property
}

// Result is the outcome of dispatching one Op.
type Result struct {
	// NodeID is set by OpCreateNode.
	NodeID uint64
	// EdgeID is set by OpAddEdge.
	EdgeID uint64
	// Err is nil on success.
	Err error
}

// Run dispatches ops in order against s, one transaction per op. It
// always returns a Result for every op, even after a failure, so
// callers can see exactly which ops committed (spec §4.7: "earlier ops
// remain committed").
func Run(s *store.Store, ops []Op) []Result {
	results := make([]Result, len(ops))
	for i, op := range ops {
		results[i] = dispatch(s, op)
	}
	return results
}

func dispatch(s *store.Store, op Op) Result {
	switch op.Kind {
	case OpCreateNode:
		header, err := s.CreateNode(op.Labels, op.HotProps, op.ColdProps, op.Vectors)
		return Result{NodeID: header.ID, Err: err}
	case OpUpsertNodeProps:
		return Result{Err: s.UpsertNodeProps(op.NodeID, op.SetHot, op.SetCold, op.Unset)}
	case OpSetNodeLabels:
		return Result{Err: s.SetNodeLabels(op.NodeID, op.AddLabels, op.RemoveLabels)}
	case OpUpsertVector:
		return Result{Err: s.UpsertVector(op.NodeID, op.TagID, op.Data)}
	case OpDeleteVector:
		return Result{Err: s.DeleteVector(op.NodeID, op.TagID)}
	case OpAddEdge:
		edgeID, err := s.AddEdge(op.Src, op.Dst, op.TypeID, op.Props)
		return Result{EdgeID: edgeID, Err: err}
	case OpUpdateEdgeProps:
		return Result{Err: s.UpdateEdgeProps(op.EdgeID, op.SetEdgeProps, op.UnsetEdge)}
	default:
		return Result{Err: fmt.Errorf("batch: unknown op kind %d", op.Kind)}
	}
}
