package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

func vec(values ...float32) []byte {
	b := make([]byte, len(values)*4)
	for i, v := range values {
		putFloat32LE(b[i*4:], v)
	}
	return b
}

func TestUpsertVectorDimLocking(t *testing.T) {
	s := newTestStore(t)
	header, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	tag := uint32(1)
	require.NoError(t, s.UpsertVector(header.ID, tag, vec(1, 2, 3, 4)))

	err = s.UpsertVector(header.ID, tag, vec(1, 2, 3, 4, 5))
	require.ErrorIs(t, err, storeerr.DimMismatch)
}

func TestDeleteVectorIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	header, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteVector(header.ID, 7))
	require.NoError(t, s.UpsertVector(header.ID, 7, vec(1, 2)))
	require.NoError(t, s.DeleteVector(header.ID, 7))
	require.NoError(t, s.DeleteVector(header.ID, 7))

	vecs, err := s.GetVectors(header.ID, []uint32{7})
	require.NoError(t, err)
	require.Empty(t, vecs)
}

func TestKNNOrderingAndEdgeCases(t *testing.T) {
	s := newTestStore(t)
	tag := uint32(1)

	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.7071, 0.7071, 0, 0},
		{0.5, 0.5, 0.5, 0.5},
		{-1, 0, 0, 0},
	}
	for _, v := range vectors {
		header, err := s.CreateNode(nil, nil, nil, nil)
		require.NoError(t, err)
		require.NoError(t, s.UpsertVector(header.ID, tag, vec(v...)))
	}

	hits, err := s.KNN(tag, vec(1, 0, 0, 0), 5)
	require.NoError(t, err)
	require.Len(t, hits, 5)
	for i := 1; i < len(hits); i++ {
		require.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
	require.InDelta(t, 1.0, hits[0].Score, 1e-4)
	require.InDelta(t, -1.0, hits[len(hits)-1].Score, 1e-4)

	zeroHits, err := s.KNN(tag, vec(0, 0, 0, 0), 5)
	require.NoError(t, err)
	require.Len(t, zeroHits, 5)
	for _, h := range zeroHits {
		require.Equal(t, 0.0, h.Score)
	}

	noHits, err := s.KNN(tag, vec(1, 0, 0, 0), 0)
	require.NoError(t, err)
	require.Empty(t, noHits)
}

func TestKNNUnknownTagReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	hits, err := s.KNN(999, vec(1, 2, 3, 4), 5)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestKNNDimMismatchOnQuery(t *testing.T) {
	s := newTestStore(t)
	header, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.UpsertVector(header.ID, 1, vec(1, 2, 3, 4)))

	_, err = s.KNN(1, vec(1, 2, 3), 5)
	require.ErrorIs(t, err, storeerr.DimMismatch)
}

func TestKNNIdenticalVectorScoresOne(t *testing.T) {
	s := newTestStore(t)
	header, err := s.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.UpsertVector(header.ID, 1, vec(3, 4, 0, 0)))

	hits, err := s.KNN(1, vec(3, 4, 0, 0), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.InDelta(t, 1.0, hits[0].Score, 1e-9)
	require.True(t, math.Abs(hits[0].Score-1.0) < 1e-9)
}
