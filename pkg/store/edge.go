package store

import (
	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
	"github.com/stardust-db/stardust/pkg/storeerr"
	"github.com/stardust-db/stardust/pkg/valuecodec"
)

// EdgeRecord is the minimal edge tuple stored in edgesById: id, src, dst.
type EdgeRecord struct {
	ID  uint64
	Src uint64
	Dst uint64
}

// EdgeHeader additionally carries the type, discovered by scanning
// edgesBySrcType (spec §4.6 GetEdgeHeader).
type EdgeHeader struct {
	ID     uint64
	Src    uint64
	Dst    uint64
	TypeID uint32
}

func encodeEdgeRecord(r EdgeRecord) []byte {
	b := make([]byte, 0, 24)
	b = append(b, keycodec.EncodeU64(r.ID)...)
	b = append(b, keycodec.EncodeU64(r.Src)...)
	b = append(b, keycodec.EncodeU64(r.Dst)...)
	return b
}

func decodeEdgeRecord(data []byte) (EdgeRecord, error) {
	if len(data) != 24 {
		return EdgeRecord{}, storeerr.CorruptEncoding
	}
	id, _ := keycodec.DecodeU64(data[0:8])
	src, _ := keycodec.DecodeU64(data[8:16])
	dst, _ := keycodec.DecodeU64(data[16:24])
	return EdgeRecord{ID: id, Src: src, Dst: dst}, nil
}

// AddEdge allocates an edge id and writes the dual index plus edge
// properties, all in one write transaction (spec §4.5).
func (s *Store) AddEdge(src, dst uint64, typeID uint32, props []valuecodec.Property) (uint64, error) {
	var edgeID uint64
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		if err := ensureSchemaVersion(tx); err != nil {
			return err
		}
		if _, err := loadHeader(tx, src); err != nil {
			return err
		}
		if _, err := loadHeader(tx, dst); err != nil {
			return err
		}

		id, err := nextU64Seq(tx, keycodec.MetaEdgeSeq)
		if err != nil {
			return err
		}
		edgeID = id

		record := encodeEdgeRecord(EdgeRecord{ID: id, Src: src, Dst: dst})
		if err := tx.Set(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(id), record); err != nil {
			return err
		}
		if err := tx.Set(graphenv.BucketEdgesBySrcType, keycodec.EdgeBySrcTypeKey(src, typeID, dst, id), nil); err != nil {
			return err
		}
		if err := tx.Set(graphenv.BucketEdgesByDstType, keycodec.EdgeByDstTypeKey(dst, typeID, src, id), nil); err != nil {
			return err
		}
		for _, p := range props {
			if err := tx.Set(graphenv.BucketEdgeProps, keycodec.EdgePropKey(id, p.KeyID), valuecodec.EncodeValue(p.Val)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, wrapf("add edge", err)
	}
	return edgeID, nil
}

// UpdateEdgeProps applies per-key overwrite/delete mutations, unset
// before set, to an edge's property rows (spec §4.5).
func (s *Store) UpdateEdgeProps(edgeID uint64, set []valuecodec.Property, unset []uint32) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		if _, err := tx.Get(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(edgeID)); err != nil {
			return err
		}
		for _, k := range unset {
			if err := tx.Delete(graphenv.BucketEdgeProps, keycodec.EdgePropKey(edgeID, k)); err != nil {
				return err
			}
		}
		for _, p := range set {
			if err := tx.Set(graphenv.BucketEdgeProps, keycodec.EdgePropKey(edgeID, p.KeyID), valuecodec.EncodeValue(p.Val)); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapf("update edge props", err)
}

// GetEdge is a point lookup on edgesById.
func (s *Store) GetEdge(edgeID uint64) (EdgeRecord, error) {
	var record EdgeRecord
	err := s.env.View(func(tx *graphenv.Transaction) error {
		raw, err := tx.Get(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(edgeID))
		if err != nil {
			return err
		}
		r, err := decodeEdgeRecord(raw)
		if err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return EdgeRecord{}, wrapf("get edge", err)
	}
	return record, nil
}

// GetEdgeHeader additionally discovers typeId by scanning
// edgesBySrcType from (src,0,0,0) until the (dst,edgeId) match (spec
// §4.6, §9 "dual index discovery of typeId").
func (s *Store) GetEdgeHeader(edgeID uint64) (EdgeHeader, error) {
	var header EdgeHeader
	err := s.env.View(func(tx *graphenv.Transaction) error {
		raw, err := tx.Get(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(edgeID))
		if err != nil {
			return err
		}
		record, err := decodeEdgeRecord(raw)
		if err != nil {
			return err
		}

		typeID, err := discoverEdgeType(tx, record.Src, record.Dst, edgeID)
		if err != nil {
			return err
		}
		header = EdgeHeader{ID: record.ID, Src: record.Src, Dst: record.Dst, TypeID: typeID}
		return nil
	})
	if err != nil {
		return EdgeHeader{}, wrapf("get edge header", err)
	}
	return header, nil
}

// discoverEdgeType scans edgesBySrcType from (src,0,0,0) looking for
// the row whose (dst, edgeId) matches, per spec §9.
func discoverEdgeType(tx *graphenv.Transaction, src, dst, edgeID uint64) (uint32, error) {
	cur, err := tx.NewCursor(graphenv.BucketEdgesBySrcType, false)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	for cur.SeekRange(keycodec.EdgeBySrcPrefix(src)); cur.Valid(); cur.Next() {
		rowSrc, typeID, rowDst, rowEdgeID, ok := keycodec.DecodeEdgeBySrcTypeKey(cur.Key())
		if !ok {
			return 0, storeerr.CorruptEncoding
		}
		if rowSrc != src {
			break
		}
		if rowDst == dst && rowEdgeID == edgeID {
			return typeID, nil
		}
	}
	return 0, storeerr.NotFound
}

// GetEdgeProps returns the requested edge properties; an empty keyIDs
// means "all properties via prefix scan."
func (s *Store) GetEdgeProps(edgeID uint64, keyIDs []uint32) ([]valuecodec.Property, error) {
	var result []valuecodec.Property
	err := s.env.View(func(tx *graphenv.Transaction) error {
		if len(keyIDs) == 0 {
			cur, err := tx.NewCursor(graphenv.BucketEdgeProps, true)
			if err != nil {
				return err
			}
			defer cur.Close()
			for cur.SeekRange(keycodec.EdgePropPrefix(edgeID)); cur.Valid(); cur.Next() {
				rowEdgeID, keyID, ok := decodeEdgePropKey(cur.Key())
				if !ok {
					return storeerr.CorruptEncoding
				}
				if rowEdgeID != edgeID {
					break
				}
				val, err := cur.Value()
				if err != nil {
					return err
				}
				v, _, err := valuecodec.DecodeValue(val)
				if err != nil {
					return err
				}
				result = append(result, valuecodec.Property{KeyID: keyID, Val: v})
			}
			return nil
		}

		for _, keyID := range keyIDs {
			raw, err := tx.Get(graphenv.BucketEdgeProps, keycodec.EdgePropKey(edgeID, keyID))
			if err == storeerr.NotFound {
				continue
			}
			if err != nil {
				return err
			}
			v, _, err := valuecodec.DecodeValue(raw)
			if err != nil {
				return err
			}
			result = append(result, valuecodec.Property{KeyID: keyID, Val: v})
		}
		return nil
	})
	if err != nil {
		return nil, wrapf("get edge props", err)
	}
	return result, nil
}

func decodeEdgePropKey(key []byte) (edgeID uint64, propKeyID uint32, ok bool) {
	if len(key) != 12 {
		return 0, 0, false
	}
	id, _ := keycodec.DecodeU64(key[:8])
	kid, ok2 := keycodec.DecodeDictID(key[8:])
	return id, kid, ok2
}

// DeleteEdge removes an edge's dual index rows, its edgesById row, and
// its properties. Missing id is success (spec §4.5).
func (s *Store) DeleteEdge(edgeID uint64) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		raw, err := tx.Get(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(edgeID))
		if err == storeerr.NotFound {
			return nil
		}
		if err != nil {
			return err
		}
		record, err := decodeEdgeRecord(raw)
		if err != nil {
			return err
		}

		typeID, err := discoverEdgeType(tx, record.Src, record.Dst, edgeID)
		if err == nil {
			if err := tx.Delete(graphenv.BucketEdgesBySrcType, keycodec.EdgeBySrcTypeKey(record.Src, typeID, record.Dst, edgeID)); err != nil {
				return err
			}
			if err := tx.Delete(graphenv.BucketEdgesByDstType, keycodec.EdgeByDstTypeKey(record.Dst, typeID, record.Src, edgeID)); err != nil {
				return err
			}
		} else if err != storeerr.NotFound {
			return err
		}

		if err := tx.Delete(graphenv.BucketEdgesByID, keycodec.EdgeByIDKey(edgeID)); err != nil {
			return err
		}
		return deleteEdgePropsRange(tx, edgeID)
	})
	return wrapf("delete edge", err)
}

func deleteEdgePropsRange(tx *graphenv.Transaction, edgeID uint64) error {
	var keys [][]byte
	cur, err := tx.NewCursor(graphenv.BucketEdgeProps, false)
	if err != nil {
		return err
	}
	for cur.SeekRange(keycodec.EdgePropPrefix(edgeID)); cur.Valid(); cur.Next() {
		rowEdgeID, _, ok := decodeEdgePropKey(cur.Key())
		if !ok {
			cur.Close()
			return storeerr.CorruptEncoding
		}
		if rowEdgeID != edgeID {
			break
		}
		keys = append(keys, append([]byte{}, cur.Key()...))
	}
	cur.Close()

	for _, k := range keys {
		if err := tx.Delete(graphenv.BucketEdgeProps, k); err != nil {
			return err
		}
	}
	return nil
}
