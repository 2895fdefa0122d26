// Package graphenv wraps the backing key-value store (spec §4.3). It owns
// named buckets and produces read/write transactions; it knows nothing
// about nodes, edges, or properties — that is Store's job.
//
// Grounded on nornicdb's pkg/storage/badger.go (BadgerEngine wrapping
// *badger.DB, BadgerOptions for map-size/sync/memory tuning) and on
// original_source/src/env.hpp's Env, which opens an LMDB MDB_env with a
// generous default map size and a fixed set of named sub-databases.
// Badger has no native named sub-databases, so Environment reproduces
// env.hpp's bucket set the way BadgerEngine already reproduces its own
// five buckets: one reserved prefix byte ahead of every key, generalized
// here from five prefixes to the twenty spec §4.1 needs.
package graphenv

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

// Bucket identifies one of the named sub-databases spec §4.1 lists. The
// numeric values are prefix bytes prepended to every raw key — they are
// part of the on-disk format and must never be renumbered.
type Bucket byte

const (
	BucketNodes Bucket = iota + 1
	BucketNodeColdProps
	BucketNodeVectors
	BucketEdgesBySrcType
	BucketEdgesByDstType
	BucketEdgesByID
	BucketEdgeProps
	BucketLabelIndex
	BucketLabelIDs
	BucketLabelByName
	BucketRelTypeIDs
	BucketRelTypeByName
	BucketPropKeyIDs
	BucketPropKeyByName
	BucketVecTagIDs
	BucketVecTagByName
	BucketTextIDs
	BucketTextByName
	BucketVecTagMeta
	BucketMeta
)

// DefaultMapSizeBytes mirrors original_source/src/env.hpp's Env
// constructor default (16 GiB). Badger has no literal mmap-size knob,
// and Open does not pass this value to Badger.
const DefaultMapSizeBytes = 16 << 30

// Options configures an Environment.
type Options struct {
	// Dir is the on-disk directory for the environment. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs the backing store in memory-only mode, for tests.
	InMemory bool

	// SyncWrites forces fsync after every commit. Slower, more durable.
	SyncWrites bool

	// LowMemory trims buffer/cache sizes for constrained environments.
	LowMemory bool

	// MapSizeBytes is the sizing hint described above. Zero selects
	// DefaultMapSizeBytes.
	MapSizeBytes int64

	// Logger receives backend diagnostic output. Nil selects a quiet
	// logger; a caller that wants backend chatter opts in here.
	Logger badger.Logger
}

func (o Options) mapSize() int64 {
	if o.MapSizeBytes > 0 {
		return o.MapSizeBytes
	}
	return DefaultMapSizeBytes
}

// Environment wraps the backing store and owns its buckets. It is safe
// for concurrent use by multiple readers; the backing store allows only
// one writer at a time and Environment does not arbitrate (spec §5) —
// callers must ensure they never hold two concurrent write transactions.
type Environment struct {
	db *badger.DB
}

// Open opens (creating if necessary) an Environment at the directory
// named by opts.Dir, or an in-memory one if opts.InMemory is set.
func Open(opts Options) (*Environment, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	}
	if opts.SyncWrites {
		bopts = bopts.WithSyncWrites(true)
	}
	if opts.Logger != nil {
		bopts = bopts.WithLogger(opts.Logger)
	} else {
		bopts = bopts.WithLogger(nil)
	}
	if opts.LowMemory {
		bopts = bopts.
			WithMemTableSize(16 << 20).
			WithValueLogFileSize(64 << 20).
			WithNumMemtables(2).
			WithNumLevelZeroTables(2).
			WithNumLevelZeroTablesStall(4).
			WithBlockCacheSize(32 << 20).
			WithIndexCacheSize(16 << 20)
	}
	// mapSize() has no direct Badger knob; the value is computed but no
	// Badger option is set from it.
	_ = opts.mapSize()

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open environment: %w: %v", storeerr.Backend, err)
	}
	return &Environment{db: db}, nil
}

// OpenInMemory opens an in-memory Environment, for tests.
func OpenInMemory() (*Environment, error) {
	return Open(Options{InMemory: true})
}

// Close releases the backing store. Any transaction left open across
// Close is undefined; callers must commit or abort first.
func (e *Environment) Close() error {
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("close environment: %w: %v", storeerr.Backend, err)
	}
	return nil
}

// RunValueLogGC runs one round of value-log garbage collection, the
// Badger-specific maintenance analogue of LMDB's copy-compaction. It is
// safe to call periodically from outside any transaction.
func (e *Environment) RunValueLogGC(discardRatio float64) error {
	err := e.db.RunValueLogGC(discardRatio)
	if err != nil && err != badger.ErrNoRewrite {
		return fmt.Errorf("run value log gc: %w: %v", storeerr.Backend, err)
	}
	return nil
}

// bucketKey prepends bucket's prefix byte to key, returning a new slice.
func bucketKey(b Bucket, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(b)
	copy(out[1:], key)
	return out
}
