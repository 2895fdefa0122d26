package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stardust-db/stardust/pkg/storeerr"
	"github.com/stardust-db/stardust/pkg/valuecodec"
)

func TestDeleteNodeCascadeScenario(t *testing.T) {
	s := newTestStore(t)

	a, err := s.CreateNode([]uint32{1}, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode([]uint32{2},
		[]valuecodec.Property{{KeyID: 1, Val: valuecodec.Int(1)}},
		[]valuecodec.Property{{KeyID: 2, Val: valuecodec.Bytes([]byte("x"))}},
		[]VectorInput{{TagID: 9, Data: vec(1, 2, 3, 4)}},
	)
	require.NoError(t, err)

	edgeID, err := s.AddEdge(a.ID, b.ID, 1, []valuecodec.Property{{KeyID: 3, Val: valuecodec.Int(7)}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNode(b.ID))

	_, err = s.GetNode(b.ID)
	require.ErrorIs(t, err, storeerr.NotFound)

	vecs, err := s.GetVectors(b.ID, nil)
	require.NoError(t, err)
	require.Empty(t, vecs)

	props, err := s.GetNodeProps(b.ID, nil)
	require.NoError(t, err)
	require.Empty(t, props)

	nodes, err := s.ScanNodesByLabel(2, 0)
	require.NoError(t, err)
	require.Empty(t, nodes)

	rows, err := s.ListAdjacency(a.ID, DirOut, 16)
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = s.GetEdge(edgeID)
	require.ErrorIs(t, err, storeerr.NotFound)

	edgeProps, err := s.GetEdgeProps(edgeID, nil)
	require.NoError(t, err)
	require.Empty(t, edgeProps)
}

func TestDeleteNodeCascadesBothDirections(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	c, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = s.AddEdge(a.ID, b.ID, 1, nil)
	require.NoError(t, err)
	_, err = s.AddEdge(c.ID, b.ID, 1, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteNode(b.ID))

	outA, err := s.ListAdjacency(a.ID, DirOut, 0)
	require.NoError(t, err)
	require.Empty(t, outA)

	outC, err := s.ListAdjacency(c.ID, DirOut, 0)
	require.NoError(t, err)
	require.Empty(t, outC)
}
