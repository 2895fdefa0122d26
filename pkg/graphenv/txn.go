package graphenv

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

// Status is the Transaction lifecycle state (spec §4.8): Active is the
// only state from which operations are accepted; once Committed or
// Aborted, every further call fails with storeerr.TxnClosed.
type Status int

const (
	StatusActive Status = iota
	StatusCommitted
	StatusAborted
)

// Transaction is a read-only or read-write transaction against an
// Environment. Nothing releases a transaction that is dropped without a
// Commit or Abort call, read-only or not; View and Update release theirs
// on every exit path, and callers of Begin defer Abort for the
// non-commit exit paths (spec §4.3 "scoped resource semantics").
//
// Grounded on nornicdb's pkg/storage/badger_transaction.go
// (BadgerTransaction wrapping *badger.Txn with an explicit Status field),
// simplified here to the state machine spec §4.8 actually names —
// BadgerTransaction additionally tracks pending rows for constraint
// validation, a concern this store doesn't have (no arbitrary
// secondary-property constraints, spec §1 Non-goals).
type Transaction struct {
	mu       sync.Mutex
	badgerTx *badger.Txn
	writable bool
	status   Status
}

// Begin starts a new transaction. Readers may run concurrently; the
// backing store allows only one writer at a time and Environment does
// not arbitrate among callers that violate this (spec §5).
func (e *Environment) Begin(writable bool) *Transaction {
	return &Transaction{
		badgerTx: e.db.NewTransaction(writable),
		writable: writable,
		status:   StatusActive,
	}
}

// View runs fn inside a fresh read-only transaction, always releasing it
// afterward regardless of fn's outcome.
func (e *Environment) View(fn func(tx *Transaction) error) error {
	tx := e.Begin(false)
	defer tx.Abort()
	return fn(tx)
}

// Update runs fn inside a fresh read-write transaction, committing on a
// nil return and aborting (and propagating the error) otherwise.
func (e *Environment) Update(fn func(tx *Transaction) error) error {
	tx := e.Begin(true)
	if err := fn(tx); err != nil {
		tx.Abort()
		return err
	}
	return tx.Commit()
}

func (tx *Transaction) checkActive() error {
	if tx.status != StatusActive {
		return storeerr.TxnClosed
	}
	return nil
}

// Commit finalizes the transaction's writes. After Commit, the
// Transaction is invalid and every further call fails with TxnClosed.
func (tx *Transaction) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if err := tx.checkActive(); err != nil {
		return err
	}
	tx.status = StatusCommitted
	if err := tx.badgerTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %v", storeerr.Backend, err)
	}
	return nil
}

// Abort discards the transaction's writes (a no-op for a read
// transaction beyond releasing backend resources). Safe to call more
// than once or after Commit; only the first call has any effect.
func (tx *Transaction) Abort() {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.status != StatusActive {
		return
	}
	tx.status = StatusAborted
	tx.badgerTx.Discard()
}

// Get fetches the value stored under key in bucket, copying it out of
// the backend's mapped memory before returning (spec §5: "strings
// returned... are owned by the caller... because the mapped bytes may be
// invalidated at the next write").
func (tx *Transaction) Get(b Bucket, key []byte) ([]byte, error) {
	if err := tx.checkActive(); err != nil {
		return nil, err
	}
	item, err := tx.badgerTx.Get(bucketKey(b, key))
	if err == badger.ErrKeyNotFound {
		return nil, storeerr.NotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get: %w: %v", storeerr.Backend, err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("get value: %w: %v", storeerr.Backend, err)
	}
	return val, nil
}

// Exists reports whether key is present in bucket without copying its value.
func (tx *Transaction) Exists(b Bucket, key []byte) (bool, error) {
	if err := tx.checkActive(); err != nil {
		return false, err
	}
	_, err := tx.badgerTx.Get(bucketKey(b, key))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w: %v", storeerr.Backend, err)
	}
	return true, nil
}

// Set writes key -> val in bucket. Requires a writable transaction.
func (tx *Transaction) Set(b Bucket, key, val []byte) error {
	if err := tx.checkActive(); err != nil {
		return err
	}
	if !tx.writable {
		return fmt.Errorf("set on read-only transaction: %w", storeerr.Backend)
	}
	if err := tx.badgerTx.Set(bucketKey(b, key), val); err != nil {
		return fmt.Errorf("set: %w: %v", storeerr.Backend, err)
	}
	return nil
}

// Delete removes key from bucket. Deleting an absent key is not an error.
func (tx *Transaction) Delete(b Bucket, key []byte) error {
	if err := tx.checkActive(); err != nil {
		return err
	}
	if !tx.writable {
		return fmt.Errorf("delete on read-only transaction: %w", storeerr.Backend)
	}
	if err := tx.badgerTx.Delete(bucketKey(b, key)); err != nil {
		return fmt.Errorf("delete: %w: %v", storeerr.Backend, err)
	}
	return nil
}

// Cursor iterates a bucket's keys in ascending byte order. It must be
// released with Close before its owning Transaction commits (spec §4.3).
type Cursor struct {
	it     *badger.Iterator
	bucket Bucket
	closed bool
}

// NewCursor opens a cursor over bucket. prefetchValues controls whether
// Badger eagerly loads values during iteration; callers doing a
// key-only scan (e.g. collecting ids before a cascading delete) should
// pass false.
func (tx *Transaction) NewCursor(b Bucket, prefetchValues bool) (*Cursor, error) {
	if err := tx.checkActive(); err != nil {
		return nil, err
	}
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = prefetchValues
	opts.Prefix = []byte{byte(b)}
	return &Cursor{it: tx.badgerTx.NewIterator(opts), bucket: b}, nil
}

// SeekRange positions the cursor at the first key >= the bucket-relative
// lower bound. This is the "set-range" half of the canonical "set-range
// then walk while prefix matches" scan (spec §9).
func (c *Cursor) SeekRange(lowerBound []byte) {
	c.it.Seek(bucketKey(c.bucket, lowerBound))
}

// Valid reports whether the cursor currently points at a live row in its bucket.
func (c *Cursor) Valid() bool {
	return c.it.ValidForPrefix([]byte{byte(c.bucket)})
}

// Next advances the cursor.
func (c *Cursor) Next() {
	c.it.Next()
}

// Key returns the current row's bucket-relative key (the prefix byte
// stripped off).
func (c *Cursor) Key() []byte {
	full := c.it.Item().KeyCopy(nil)
	return full[1:]
}

// Value returns the current row's value, copied out of mapped memory.
func (c *Cursor) Value() ([]byte, error) {
	val, err := c.it.Item().ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("cursor value: %w: %v", storeerr.Backend, err)
	}
	return val, nil
}

// Close releases the cursor. Safe to call more than once.
func (c *Cursor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.it.Close()
}
