package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDegreeCountsBothDirectionsWithoutDedup(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = s.AddEdge(a.ID, b.ID, 1, nil)
	require.NoError(t, err)
	_, err = s.AddEdge(b.ID, a.ID, 1, nil)
	require.NoError(t, err)

	degOut, err := s.Degree(a.ID, DirOut)
	require.NoError(t, err)
	require.Equal(t, 1, degOut)

	degBoth, err := s.Degree(a.ID, DirBoth)
	require.NoError(t, err)
	require.Equal(t, 2, degBoth)
}

func TestListAdjacencyBothConcatenatesWithoutDedup(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = s.AddEdge(a.ID, b.ID, 1, nil)
	require.NoError(t, err)
	_, err = s.AddEdge(b.ID, a.ID, 1, nil)
	require.NoError(t, err)

	rows, err := s.ListAdjacency(a.ID, DirBoth, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestListAdjacencyLimitTruncatesConcatenatedList(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.AddEdge(a.ID, b.ID, uint32(i), nil)
		require.NoError(t, err)
	}

	rows, err := s.ListAdjacency(a.ID, DirOut, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestScanNodesByLabelAscendingOrder(t *testing.T) {
	s := newTestStore(t)
	label := uint32(5)

	var ids []uint64
	for i := 0; i < 3; i++ {
		header, err := s.CreateNode([]uint32{label}, nil, nil, nil)
		require.NoError(t, err)
		ids = append(ids, header.ID)
	}

	scanned, err := s.ScanNodesByLabel(label, 0)
	require.NoError(t, err)
	require.Equal(t, ids, scanned)
}

func TestScanNodesByLabelLimit(t *testing.T) {
	s := newTestStore(t)
	label := uint32(5)
	for i := 0; i < 3; i++ {
		_, err := s.CreateNode([]uint32{label}, nil, nil, nil)
		require.NoError(t, err)
	}

	scanned, err := s.ScanNodesByLabel(label, 2)
	require.NoError(t, err)
	require.Len(t, scanned, 2)
}

func TestMonotonicNodeIDs(t *testing.T) {
	s := newTestStore(t)
	var last uint64
	for i := 0; i < 10; i++ {
		header, err := s.CreateNode(nil, nil, nil, nil)
		require.NoError(t, err)
		require.Greater(t, header.ID, last)
		last = header.ID
	}
}
