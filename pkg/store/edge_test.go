package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stardust-db/stardust/pkg/storeerr"
	"github.com/stardust-db/stardust/pkg/valuecodec"
)

func TestAddEdgeAndListAdjacencyScenario(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	t1, t2 := uint32(1), uint32(2)
	_, err = s.AddEdge(a.ID, b.ID, t1, nil)
	require.NoError(t, err)
	_, err = s.AddEdge(a.ID, b.ID, t2, nil)
	require.NoError(t, err)

	rows, err := s.ListAdjacency(a.ID, DirOut, 16)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	types := map[uint32]bool{}
	for _, r := range rows {
		require.Equal(t, b.ID, r.NeighborID)
		types[r.TypeID] = true
	}
	require.True(t, types[t1])
	require.True(t, types[t2])
}

func TestGetEdgeHeaderDiscoversType(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	typeID := uint32(42)
	edgeID, err := s.AddEdge(a.ID, b.ID, typeID, nil)
	require.NoError(t, err)

	header, err := s.GetEdgeHeader(edgeID)
	require.NoError(t, err)
	require.Equal(t, a.ID, header.Src)
	require.Equal(t, b.ID, header.Dst)
	require.Equal(t, typeID, header.TypeID)
}

func TestUpdateEdgePropsUnsetBeforeSet(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	key := uint32(1)
	edgeID, err := s.AddEdge(a.ID, b.ID, 1, []valuecodec.Property{{KeyID: key, Val: valuecodec.Int(1)}})
	require.NoError(t, err)

	err = s.UpdateEdgeProps(edgeID,
		[]valuecodec.Property{{KeyID: key, Val: valuecodec.Int(2)}},
		[]uint32{key},
	)
	require.NoError(t, err)

	props, err := s.GetEdgeProps(edgeID, []uint32{key})
	require.NoError(t, err)
	require.Len(t, props, 1)
	require.True(t, props[0].Val.Equal(valuecodec.Int(2)))
}

func TestDeleteEdgeRemovesDualIndexAndProps(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	edgeID, err := s.AddEdge(a.ID, b.ID, 1, []valuecodec.Property{{KeyID: 1, Val: valuecodec.Int(1)}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEdge(edgeID))

	_, err = s.GetEdge(edgeID)
	require.ErrorIs(t, err, storeerr.NotFound)

	rows, err := s.ListAdjacency(a.ID, DirOut, 0)
	require.NoError(t, err)
	require.Empty(t, rows)

	props, err := s.GetEdgeProps(edgeID, nil)
	require.NoError(t, err)
	require.Empty(t, props)
}

func TestDeleteEdgeMissingIsSuccess(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DeleteEdge(12345))
}
