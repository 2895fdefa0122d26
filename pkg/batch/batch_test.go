package batch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/storeerr"
	"github.com/stardust-db/stardust/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	env, err := graphenv.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return store.New(env)
}

func TestRunDispatchesEachOpToItsOwnTransaction(t *testing.T) {
	s := newTestStore(t)

	ops := []Op{
		{Kind: OpCreateNode, Labels: []uint32{1}},
		{Kind: OpCreateNode, Labels: []uint32{2}},
	}
	results := Run(s, ops)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Greater(t, results[1].NodeID, results[0].NodeID)
}

func TestRunIsNotAtomicAcrossOps(t *testing.T) {
	s := newTestStore(t)

	ops := []Op{
		{Kind: OpCreateNode, Labels: []uint32{1}},
		{Kind: OpUpsertNodeProps, NodeID: 999999}, // missing node, must fail
		{Kind: OpCreateNode, Labels: []uint32{2}},
	}
	results := Run(s, ops)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, storeerr.NotFound)
	require.NoError(t, results[2].Err)

	_, err := s.GetNode(results[0].NodeID)
	require.NoError(t, err)
	_, err = s.GetNode(results[2].NodeID)
	require.NoError(t, err)
}

func TestRunUnknownOpKindFails(t *testing.T) {
	s := newTestStore(t)
	results := Run(s, []Op{{Kind: OpKind(999)}})
	require.Error(t, results[0].Err)
}

func TestRunAddEdgeThenUpdateProps(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	results := Run(s, []Op{
		{Kind: OpAddEdge, Src: a.ID, Dst: b.ID, TypeID: 1},
	})
	require.NoError(t, results[0].Err)
	edgeID := results[0].EdgeID

	results = Run(s, []Op{
		{Kind: OpUpdateEdgeProps, EdgeID: edgeID, UnsetEdge: []uint32{1}},
	})
	require.NoError(t, results[0].Err)
}
