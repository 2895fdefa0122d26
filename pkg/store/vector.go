package store

import (
	"container/heap"
	"math"

	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
	vecmath "github.com/stardust-db/stardust/pkg/math/vector"
	"github.com/stardust-db/stardust/pkg/storeerr"
)

// VectorInput is a tagged vector supplied on CreateNode or UpsertVector:
// raw little-endian float32 bytes, length a multiple of 4.
type VectorInput struct {
	TagID uint32
	Data  []byte
}

// VectorResult is a tagged vector as returned by GetVectors, carrying
// the dim pinned for its tag (0 if the tag was never seen).
type VectorResult struct {
	TagID uint32
	Dim   uint32
	Data  []byte
}

// writeVector enforces the dim-locking invariant (spec §3 invariant 6,
// §4.5 step 5) and writes the vector row. It must run inside the
// caller's write transaction so the dim pin and the row land atomically.
func writeVector(tx *graphenv.Transaction, nodeID uint64, tagID uint32, data []byte) error {
	if len(data)%4 != 0 {
		return storeerr.DimMismatch
	}
	dim := uint32(len(data) / 4)

	metaKey := keycodec.VecTagMetaKey(tagID)
	raw, err := tx.Get(graphenv.BucketVecTagMeta, metaKey)
	switch err {
	case nil:
		pinned, ok := keycodec.DecodeDictID(raw)
		if !ok {
			return storeerr.CorruptEncoding
		}
		if pinned != dim {
			return storeerr.DimMismatch
		}
	case storeerr.NotFound:
		if err := tx.Set(graphenv.BucketVecTagMeta, metaKey, keycodec.EncodeDictID(dim)); err != nil {
			return err
		}
	default:
		return err
	}

	return tx.Set(graphenv.BucketNodeVectors, keycodec.NodeVectorKey(nodeID, tagID), data)
}

// UpsertVector writes or overwrites the vector stored for (id, tagID),
// subject to the same dim-locking invariants as CreateNode.
func (s *Store) UpsertVector(id uint64, tagID uint32, data []byte) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		if _, err := loadHeader(tx, id); err != nil {
			return err
		}
		return writeVector(tx, id, tagID, data)
	})
	return wrapf("upsert vector", err)
}

// DeleteVector removes the vector stored for (id, tagID). Absent is success.
func (s *Store) DeleteVector(id uint64, tagID uint32) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		return tx.Delete(graphenv.BucketNodeVectors, keycodec.NodeVectorKey(id, tagID))
	})
	return wrapf("delete vector", err)
}

// GetVectors returns the vectors stored for id. An empty tagIDs means
// "all vectors for this node"; otherwise each tag is a point lookup.
func (s *Store) GetVectors(id uint64, tagIDs []uint32) ([]VectorResult, error) {
	var result []VectorResult
	err := s.env.View(func(tx *graphenv.Transaction) error {
		if len(tagIDs) == 0 {
			cur, err := tx.NewCursor(graphenv.BucketNodeVectors, true)
			if err != nil {
				return err
			}
			defer cur.Close()
			prefix := keycodec.NodeVectorPrefix(id)
			for cur.SeekRange(prefix); cur.Valid(); cur.Next() {
				nodeID, tagID, ok := keycodec.DecodeNodeVectorKey(cur.Key())
				if !ok {
					return storeerr.CorruptEncoding
				}
				if nodeID != id {
					break
				}
				val, err := cur.Value()
				if err != nil {
					return err
				}
				dim, err := tagDim(tx, tagID)
				if err != nil {
					return err
				}
				result = append(result, VectorResult{TagID: tagID, Dim: dim, Data: val})
			}
			return nil
		}

		for _, tagID := range tagIDs {
			val, err := tx.Get(graphenv.BucketNodeVectors, keycodec.NodeVectorKey(id, tagID))
			if err == storeerr.NotFound {
				continue
			}
			if err != nil {
				return err
			}
			dim, err := tagDim(tx, tagID)
			if err != nil {
				return err
			}
			result = append(result, VectorResult{TagID: tagID, Dim: dim, Data: val})
		}
		return nil
	})
	if err != nil {
		return nil, wrapf("get vectors", err)
	}
	return result, nil
}

func tagDim(tx *graphenv.Transaction, tagID uint32) (uint32, error) {
	raw, err := tx.Get(graphenv.BucketVecTagMeta, keycodec.VecTagMetaKey(tagID))
	if err == storeerr.NotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	dim, ok := keycodec.DecodeDictID(raw)
	if !ok {
		return 0, storeerr.CorruptEncoding
	}
	return dim, nil
}

// KNNHit is one result row from KNN, a node id and its cosine score
// against the query vector.
type KNNHit struct {
	NodeID uint64
	Score  float64
}

// candidate is one entry in the bounded min-heap KNN maintains while
// scanning the vector bucket. Grounded on nornicdb's
// pkg/search/hnsw_index.go heap item, simplified to a plain min-heap
// since KNN here only ever needs bounded top-k, not the dual
// max/min-heap role that file's candidate queue plays.
type candidate struct {
	nodeID uint64
	score  float64
}

type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNN performs an exact cosine-similarity scan over all vectors stored
// under tagID, returning the top k by descending score (spec §4.6).
func (s *Store) KNN(tagID uint32, query []byte, k int) ([]KNNHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(query)%4 != 0 {
		return nil, storeerr.DimMismatch
	}

	var hits []KNNHit
	err := s.env.View(func(tx *graphenv.Transaction) error {
		dim, err := tagDim(tx, tagID)
		if err != nil {
			return err
		}
		if dim == 0 {
			return nil
		}
		if len(query)/4 != int(dim) {
			return storeerr.DimMismatch
		}

		q := decodeFloat32LE(query)

		h := &candidateHeap{}
		heap.Init(h)

		cur, err := tx.NewCursor(graphenv.BucketNodeVectors, true)
		if err != nil {
			return err
		}
		defer cur.Close()

		for cur.SeekRange(nil); cur.Valid(); cur.Next() {
			nodeID, rowTagID, ok := keycodec.DecodeNodeVectorKey(cur.Key())
			if !ok {
				return storeerr.CorruptEncoding
			}
			if rowTagID != tagID {
				continue
			}
			val, err := cur.Value()
			if err != nil {
				return err
			}
			if len(val) != int(dim)*4 {
				continue
			}
			x := decodeFloat32LE(val)
			score := vecmath.CosineSimilarity(q, x)

			if h.Len() < k {
				heap.Push(h, candidate{nodeID: nodeID, score: score})
			} else if score > (*h)[0].score {
				heap.Pop(h)
				heap.Push(h, candidate{nodeID: nodeID, score: score})
			}
		}

		ordered := make([]candidate, h.Len())
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i] = heap.Pop(h).(candidate)
		}
		hits = make([]KNNHit, len(ordered))
		for i, c := range ordered {
			hits[i] = KNNHit{NodeID: c.nodeID, Score: c.score}
		}
		return nil
	})
	if err != nil {
		return nil, wrapf("knn", err)
	}
	return hits, nil
}

func decodeFloat32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
