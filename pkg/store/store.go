// Package store implements the engine: node/edge/vector CRUD, adjacency,
// label-scan, degree, and KNN queries, and cascading delete. Every
// operation opens exactly one transaction against an Environment and
// commits or aborts it before returning (spec §4.5, §4.6).
//
// Grounded throughout on nornicdb's pkg/storage/badger.go (CreateNode,
// GetNode, UpdateNode, DeleteNode, deleteEdgesWithPrefix) for the shape
// of "load, mutate in memory, rewrite" operations, and on
// original_source/src/store.cpp for the exact field-level algorithms
// (hot-then-cold merge order, typeId rediscovery via edgesBySrcType
// scan) spec.md distills.
package store

import (
	"fmt"

	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/intern"
	"github.com/stardust-db/stardust/pkg/keycodec"
	"github.com/stardust-db/stardust/pkg/storeerr"
)

// Store is the engine. It borrows an Environment and never outlives it.
type Store struct {
	env *graphenv.Environment
}

// New returns a Store backed by env.
func New(env *graphenv.Environment) *Store {
	return &Store{env: env}
}

// Interner returns an intern.Interner sharing the same Environment, a
// convenience for adapters that need both name resolution and Store
// calls against one backing directory.
func (s *Store) Interner() *intern.Interner {
	return intern.New(s.env)
}

// Direction selects which edge index(es) an adjacency-style query walks.
type Direction int

const (
	DirOut Direction = iota
	DirIn
	DirBoth
)

func (d Direction) String() string {
	switch d {
	case DirOut:
		return "out"
	case DirIn:
		return "in"
	case DirBoth:
		return "both"
	default:
		return "unknown"
	}
}

// nextU64Seq reads the current value of the meta counter named by
// label, increments it, writes it back, and returns the new value.
// Node and edge ids are u64 and reserve 0 for "none" (spec §3 invariant
// 1), so the first allocated id is 1.
func nextU64Seq(tx *graphenv.Transaction, label string) (uint64, error) {
	key := keycodec.MetaKey(label)
	var cur uint64
	val, err := tx.Get(graphenv.BucketMeta, key)
	switch err {
	case nil:
		decoded, ok := keycodec.DecodeU64(val)
		if !ok {
			return 0, storeerr.CorruptEncoding
		}
		cur = decoded
	case storeerr.NotFound:
		cur = 0
	default:
		return 0, err
	}
	next := cur + 1
	if err := tx.Set(graphenv.BucketMeta, key, keycodec.EncodeU64(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// ensureSchemaVersion writes schemaVersion = 1 the first time the meta
// bucket is touched, and never decreases it afterward (spec §3
// invariant 7). Any write transaction that mutates durable state should
// call this once.
func ensureSchemaVersion(tx *graphenv.Transaction) error {
	key := keycodec.MetaKey(keycodec.MetaSchemaVersion)
	_, err := tx.Get(graphenv.BucketMeta, key)
	if err == nil {
		return nil
	}
	if err != storeerr.NotFound {
		return err
	}
	return tx.Set(graphenv.BucketMeta, key, keycodec.EncodeU64(1))
}

func wrapf(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
