package store

import (
	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
	"github.com/stardust-db/stardust/pkg/storeerr"
)

// DeleteNode removes a node and cascades to every row it owns or that
// references it: incident edges (with their dual indices and
// properties), cold properties, vectors, label-index entries, and
// finally the node row itself (spec §4.5, §3 invariant 5).
//
// The edge-id set is fully materialized before any per-edge-id row is
// deleted, because cursors on edgesBySrcType/edgesByDstType must stay
// valid while this transaction also deletes from edgesById and
// edgeProps (spec §9 "cascading delete").
func (s *Store) DeleteNode(id uint64) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		header, err := loadHeader(tx, id)
		if err != nil {
			return err
		}

		edgeIDs, err := deleteIncidentEdgeIndexRows(tx, id)
		if err != nil {
			return err
		}
		for _, edgeID := range edgeIDs {
			if err := tx.Delete(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(edgeID)); err != nil {
				return err
			}
			if err := deleteEdgePropsRange(tx, edgeID); err != nil {
				return err
			}
		}

		if err := deleteRangeByU64Prefix(tx, graphenv.BucketNodeColdProps, keycodec.NodeColdPropPrefix(id), id); err != nil {
			return err
		}
		if err := deleteRangeByU64Prefix(tx, graphenv.BucketNodeVectors, keycodec.NodeVectorPrefix(id), id); err != nil {
			return err
		}

		for _, labelID := range header.Labels.IDs {
			if err := tx.Delete(graphenv.BucketLabelIndex, keycodec.LabelIndexKey(labelID, id)); err != nil {
				return err
			}
		}

		return tx.Delete(graphenv.BucketNodes, keycodec.NodeKey(id))
	})
	return wrapf("delete node", err)
}

// deleteIncidentEdgeIndexRows scans both directional indexes for id,
// deleting both index rows for every matching entry and collecting the
// edgeId set for the caller to finish cascading.
func deleteIncidentEdgeIndexRows(tx *graphenv.Transaction, id uint64) ([]uint64, error) {
	var edgeIDs []uint64

	var outKeys [][]byte
	var outRows []struct {
		typeID  uint32
		dst     uint64
		edgeID  uint64
	}
	cur, err := tx.NewCursor(graphenv.BucketEdgesBySrcType, false)
	if err != nil {
		return nil, err
	}
	for cur.SeekRange(keycodec.EdgeBySrcPrefix(id)); cur.Valid(); cur.Next() {
		src, typeID, dst, edgeID, ok := keycodec.DecodeEdgeBySrcTypeKey(cur.Key())
		if !ok {
			cur.Close()
			return nil, storeerr.CorruptEncoding
		}
		if src != id {
			break
		}
		outKeys = append(outKeys, append([]byte{}, cur.Key()...))
		outRows = append(outRows, struct {
			typeID uint32
			dst    uint64
			edgeID uint64
		}{typeID, dst, edgeID})
	}
	cur.Close()

	for i, k := range outKeys {
		if err := tx.Delete(graphenv.BucketEdgesBySrcType, k); err != nil {
			return nil, err
		}
		r := outRows[i]
		if err := tx.Delete(graphenv.BucketEdgesByDstType, keycodec.EdgeByDstTypeKey(r.dst, r.typeID, id, r.edgeID)); err != nil {
			return nil, err
		}
		edgeIDs = append(edgeIDs, r.edgeID)
	}

	var inKeys [][]byte
	var inRows []struct {
		typeID uint32
		src    uint64
		edgeID uint64
	}
	cur, err = tx.NewCursor(graphenv.BucketEdgesByDstType, false)
	if err != nil {
		return nil, err
	}
	for cur.SeekRange(keycodec.EdgeByDstPrefix(id)); cur.Valid(); cur.Next() {
		dst, typeID, src, edgeID, ok := keycodec.DecodeEdgeByDstTypeKey(cur.Key())
		if !ok {
			cur.Close()
			return nil, storeerr.CorruptEncoding
		}
		if dst != id {
			break
		}
		inKeys = append(inKeys, append([]byte{}, cur.Key()...))
		inRows = append(inRows, struct {
			typeID uint32
			src    uint64
			edgeID uint64
		}{typeID, src, edgeID})
	}
	cur.Close()

	for i, k := range inKeys {
		if err := tx.Delete(graphenv.BucketEdgesByDstType, k); err != nil {
			return nil, err
		}
		r := inRows[i]
		if err := tx.Delete(graphenv.BucketEdgesBySrcType, keycodec.EdgeBySrcTypeKey(r.src, r.typeID, id, r.edgeID)); err != nil {
			return nil, err
		}
		edgeIDs = append(edgeIDs, r.edgeID)
	}

	return edgeIDs, nil
}

// deleteRangeByU64Prefix deletes every row in bucket whose key begins
// with the 8-byte big-endian encoding of id, starting the scan at
// lowerBound.
func deleteRangeByU64Prefix(tx *graphenv.Transaction, bucket graphenv.Bucket, lowerBound []byte, id uint64) error {
	var keys [][]byte
	cur, err := tx.NewCursor(bucket, false)
	if err != nil {
		return err
	}
	for cur.SeekRange(lowerBound); cur.Valid(); cur.Next() {
		key := cur.Key()
		if len(key) < 8 {
			cur.Close()
			return storeerr.CorruptEncoding
		}
		rowID, ok := keycodec.DecodeU64(key[:8])
		if !ok {
			cur.Close()
			return storeerr.CorruptEncoding
		}
		if rowID != id {
			break
		}
		keys = append(keys, append([]byte{}, key...))
	}
	cur.Close()

	for _, k := range keys {
		if err := tx.Delete(bucket, k); err != nil {
			return err
		}
	}
	return nil
}
