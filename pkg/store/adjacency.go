package store

import (
	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
	"github.com/stardust-db/stardust/pkg/storeerr"
)

// AdjacencyRow is one neighbor edge as produced by ListAdjacency.
type AdjacencyRow struct {
	NeighborID uint64
	EdgeID     uint64
	TypeID     uint32
	Direction  Direction
}

// ListAdjacency walks the out and/or in edge indexes for node, emitting
// rows in index key order. Both concatenates the Out sweep then the In
// sweep with no de-duplication by neighbor (spec §4.6, §9 open
// question — the source truncates the concatenated list and this
// keeps that behavior). limit == 0 means no limit.
func (s *Store) ListAdjacency(node uint64, dir Direction, limit int) ([]AdjacencyRow, error) {
	var rows []AdjacencyRow
	err := s.env.View(func(tx *graphenv.Transaction) error {
		if dir == DirOut || dir == DirBoth {
			out, err := scanOut(tx, node)
			if err != nil {
				return err
			}
			rows = append(rows, out...)
		}
		if dir == DirIn || dir == DirBoth {
			in, err := scanIn(tx, node)
			if err != nil {
				return err
			}
			rows = append(rows, in...)
		}
		return nil
	})
	if err != nil {
		return nil, wrapf("list adjacency", err)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func scanOut(tx *graphenv.Transaction, node uint64) ([]AdjacencyRow, error) {
	var rows []AdjacencyRow
	cur, err := tx.NewCursor(graphenv.BucketEdgesBySrcType, false)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	for cur.SeekRange(keycodec.EdgeBySrcPrefix(node)); cur.Valid(); cur.Next() {
		src, typeID, dst, edgeID, ok := keycodec.DecodeEdgeBySrcTypeKey(cur.Key())
		if !ok {
			return nil, storeerr.CorruptEncoding
		}
		if src != node {
			break
		}
		rows = append(rows, AdjacencyRow{NeighborID: dst, EdgeID: edgeID, TypeID: typeID, Direction: DirOut})
	}
	return rows, nil
}

func scanIn(tx *graphenv.Transaction, node uint64) ([]AdjacencyRow, error) {
	var rows []AdjacencyRow
	cur, err := tx.NewCursor(graphenv.BucketEdgesByDstType, false)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	for cur.SeekRange(keycodec.EdgeByDstPrefix(node)); cur.Valid(); cur.Next() {
		dst, typeID, src, edgeID, ok := keycodec.DecodeEdgeByDstTypeKey(cur.Key())
		if !ok {
			return nil, storeerr.CorruptEncoding
		}
		if dst != node {
			break
		}
		rows = append(rows, AdjacencyRow{NeighborID: src, EdgeID: edgeID, TypeID: typeID, Direction: DirIn})
	}
	return rows, nil
}

// Degree counts the same prefix walks ListAdjacency uses, without
// materializing rows (spec §4.6).
func (s *Store) Degree(node uint64, dir Direction) (int, error) {
	var count int
	err := s.env.View(func(tx *graphenv.Transaction) error {
		if dir == DirOut || dir == DirBoth {
			n, err := countPrefix(tx, graphenv.BucketEdgesBySrcType, keycodec.EdgeBySrcPrefix(node), func(key []byte) bool {
				src, _, _, _, ok := keycodec.DecodeEdgeBySrcTypeKey(key)
				return ok && src == node
			})
			if err != nil {
				return err
			}
			count += n
		}
		if dir == DirIn || dir == DirBoth {
			n, err := countPrefix(tx, graphenv.BucketEdgesByDstType, keycodec.EdgeByDstPrefix(node), func(key []byte) bool {
				dst, _, _, _, ok := keycodec.DecodeEdgeByDstTypeKey(key)
				return ok && dst == node
			})
			if err != nil {
				return err
			}
			count += n
		}
		return nil
	})
	if err != nil {
		return 0, wrapf("degree", err)
	}
	return count, nil
}

func countPrefix(tx *graphenv.Transaction, bucket graphenv.Bucket, lowerBound []byte, matches func(key []byte) bool) (int, error) {
	cur, err := tx.NewCursor(bucket, false)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	var n int
	for cur.SeekRange(lowerBound); cur.Valid(); cur.Next() {
		if !matches(cur.Key()) {
			break
		}
		n++
	}
	return n, nil
}

// ScanNodesByLabel emits nodeIds carrying labelID in ascending order,
// truncated to limit (0 means no limit).
func (s *Store) ScanNodesByLabel(labelID uint32, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.env.View(func(tx *graphenv.Transaction) error {
		cur, err := tx.NewCursor(graphenv.BucketLabelIndex, false)
		if err != nil {
			return err
		}
		defer cur.Close()

		for cur.SeekRange(keycodec.LabelIndexPrefix(labelID)); cur.Valid(); cur.Next() {
			rowLabelID, nodeID, ok := keycodec.DecodeLabelIndexKey(cur.Key())
			if !ok {
				return storeerr.CorruptEncoding
			}
			if rowLabelID != labelID {
				break
			}
			ids = append(ids, nodeID)
			if limit > 0 && len(ids) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapf("scan nodes by label", err)
	}
	return ids, nil
}
