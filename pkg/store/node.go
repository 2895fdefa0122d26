package store

import (
	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
	"github.com/stardust-db/stardust/pkg/storeerr"
	"github.com/stardust-db/stardust/pkg/valuecodec"
)

// CreateNode allocates a node id, writes its header, cold properties,
// and vectors, and indexes its labels, all in one write transaction
// (spec §4.5). The returned header carries the allocated id.
func (s *Store) CreateNode(labels []uint32, hotProps, coldProps []valuecodec.Property, vectors []VectorInput) (valuecodec.NodeHeader, error) {
	var header valuecodec.NodeHeader

	err := s.env.Update(func(tx *graphenv.Transaction) error {
		if err := ensureSchemaVersion(tx); err != nil {
			return err
		}

		id, err := nextU64Seq(tx, keycodec.MetaNodeSeq)
		if err != nil {
			return err
		}

		header = valuecodec.NodeHeader{
			ID:       id,
			Labels:   valuecodec.SortUnique(labels),
			HotProps: hotProps,
		}
		if err := tx.Set(graphenv.BucketNodes, keycodec.NodeKey(id), valuecodec.EncodeNodeHeader(header)); err != nil {
			return err
		}

		for _, p := range coldProps {
			if err := tx.Set(graphenv.BucketNodeColdProps, keycodec.NodeColdPropKey(id, p.KeyID), valuecodec.EncodeValue(p.Val)); err != nil {
				return err
			}
		}

		for _, v := range vectors {
			if err := writeVector(tx, id, v.TagID, v.Data); err != nil {
				return err
			}
		}

		for _, labelID := range header.Labels.IDs {
			if err := tx.Set(graphenv.BucketLabelIndex, keycodec.LabelIndexKey(labelID, id), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return valuecodec.NodeHeader{}, wrapf("create node", err)
	}
	return header, nil
}

// GetNode returns the decoded header for id, failing NotFound if absent.
func (s *Store) GetNode(id uint64) (valuecodec.NodeHeader, error) {
	var header valuecodec.NodeHeader
	err := s.env.View(func(tx *graphenv.Transaction) error {
		h, err := loadHeader(tx, id)
		if err != nil {
			return err
		}
		header = h
		return nil
	})
	if err != nil {
		return valuecodec.NodeHeader{}, wrapf("get node", err)
	}
	return header, nil
}

func loadHeader(tx *graphenv.Transaction, id uint64) (valuecodec.NodeHeader, error) {
	raw, err := tx.Get(graphenv.BucketNodes, keycodec.NodeKey(id))
	if err != nil {
		return valuecodec.NodeHeader{}, err
	}
	header, err := valuecodec.DecodeNodeHeader(raw)
	if err != nil {
		return valuecodec.NodeHeader{}, err
	}
	return header, nil
}

// UpsertNodeProps applies hot/cold property mutations to an existing
// node, unsetting keys before setting them so that unset(k)+set(k)
// yields the set value (spec §4.5).
func (s *Store) UpsertNodeProps(id uint64, setHot, setCold []valuecodec.Property, unsetKeys []uint32) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		header, err := loadHeader(tx, id)
		if err != nil {
			return err
		}

		for _, k := range unsetKeys {
			header.HotProps = valuecodec.WithoutHotProp(header.HotProps, k)
		}
		for _, p := range setHot {
			header.HotProps = valuecodec.WithHotProp(header.HotProps, p.KeyID, p.Val)
		}
		if err := tx.Set(graphenv.BucketNodes, keycodec.NodeKey(id), valuecodec.EncodeNodeHeader(header)); err != nil {
			return err
		}

		for _, p := range setCold {
			if err := tx.Set(graphenv.BucketNodeColdProps, keycodec.NodeColdPropKey(id, p.KeyID), valuecodec.EncodeValue(p.Val)); err != nil {
				return err
			}
		}
		for _, k := range unsetKeys {
			if err := tx.Delete(graphenv.BucketNodeColdProps, keycodec.NodeColdPropKey(id, k)); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapf("upsert node props", err)
}

// GetNodeProps returns the requested properties. An empty keyIDs means
// "all hot props, then every cold row for this node" (spec §4.6). When
// keyIDs is non-empty, each key is resolved from hot first, falling
// back to cold; hot wins in the (invariant-violating) case both exist.
// A node that does not exist yields an empty result, not an error.
func (s *Store) GetNodeProps(id uint64, keyIDs []uint32) ([]valuecodec.Property, error) {
	var result []valuecodec.Property
	err := s.env.View(func(tx *graphenv.Transaction) error {
		header, err := loadHeader(tx, id)
		if err == storeerr.NotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if len(keyIDs) == 0 {
			result = append(result, header.HotProps...)
			cur, err := tx.NewCursor(graphenv.BucketNodeColdProps, true)
			if err != nil {
				return err
			}
			defer cur.Close()
			prefix := keycodec.NodeColdPropPrefix(id)
			for cur.SeekRange(prefix); cur.Valid(); cur.Next() {
				nodeID, keyID, ok := keycodec.DecodeNodeColdPropKey(cur.Key())
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
				v, _, err := valuecodec.DecodeValue(val)
				if err != nil {
					return err
				}
				result = append(result, valuecodec.Property{KeyID: keyID, Val: v})
			}
			return nil
		}

		for _, keyID := range keyIDs {
			if p, ok := header.FindHotProp(keyID); ok {
				result = append(result, p)
				continue
			}
			raw, err := tx.Get(graphenv.BucketNodeColdProps, keycodec.NodeColdPropKey(id, keyID))
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
		return nil, wrapf("get node props", err)
	}
	return result, nil
}

// SetNodeLabels merges add/remove into the node's sorted-unique label
// set (remove first, then add), rewriting the header and the
// corresponding labelIndex rows (spec §4.5).
func (s *Store) SetNodeLabels(id uint64, add, remove []uint32) error {
	err := s.env.Update(func(tx *graphenv.Transaction) error {
		header, err := loadHeader(tx, id)
		if err != nil {
			return err
		}

		next := header.Labels.WithRemoved(remove...).WithAdded(add...)

		for _, labelID := range remove {
			if header.Labels.Contains(labelID) && !next.Contains(labelID) {
				if err := tx.Delete(graphenv.BucketLabelIndex, keycodec.LabelIndexKey(labelID, id)); err != nil {
					return err
				}
			}
		}
		for _, labelID := range add {
			if !header.Labels.Contains(labelID) {
				if err := tx.Set(graphenv.BucketLabelIndex, keycodec.LabelIndexKey(labelID, id), nil); err != nil {
					return err
				}
			}
		}

		header.Labels = next
		return tx.Set(graphenv.BucketNodes, keycodec.NodeKey(id), valuecodec.EncodeNodeHeader(header))
	})
	return wrapf("set node labels", err)
}
