// Package intern implements the bidirectional name<->u32 interning
// subsystem spec §4.4 describes: one id->name bucket and one name->id
// bucket per dictionary kind (labels, relationship types, property
// keys, vector tags, interned text), each backed by a monotonic u32
// sequence counter stored in the meta bucket.
//
// Grounded on nornicdb's pkg/storage/badger.go labelId/labelName helpers
// (which intern labels this same way, just for one dictionary kind) and
// original_source/src/store.cpp's internName/internNode
// pattern of a read-only probe followed by a locked allocate-on-miss —
// generalized here across the five dictionary kinds spec.md names.
package intern

import (
	"fmt"

	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/keycodec"
	"github.com/stardust-db/stardust/pkg/storeerr"
)

// Kind identifies one of the five dictionaries an Interner manages.
// Each kind owns a distinct pair of buckets and a distinct meta sequence
// counter; names never collide across kinds.
type Kind int

const (
	KindLabel Kind = iota
	KindRelType
	KindPropKey
	KindVecTag
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindRelType:
		return "relType"
	case KindPropKey:
		return "propKey"
	case KindVecTag:
		return "vecTag"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

type kindBuckets struct {
	ids     graphenv.Bucket
	byName  graphenv.Bucket
	seqMeta string
}

var bucketsByKind = map[Kind]kindBuckets{
	KindLabel:   {graphenv.BucketLabelIDs, graphenv.BucketLabelByName, keycodec.MetaLabelSeq},
	KindRelType: {graphenv.BucketRelTypeIDs, graphenv.BucketRelTypeByName, keycodec.MetaRelTypeSeq},
	KindPropKey: {graphenv.BucketPropKeyIDs, graphenv.BucketPropKeyByName, keycodec.MetaPropKeySeq},
	KindVecTag:  {graphenv.BucketVecTagIDs, graphenv.BucketVecTagByName, keycodec.MetaVecTagSeq},
	KindText:    {graphenv.BucketTextIDs, graphenv.BucketTextByName, keycodec.MetaTextSeq},
}

// Interner resolves names to ids and back, across all five dictionary
// kinds, against a single Environment.
type Interner struct {
	env *graphenv.Environment
}

// New returns an Interner backed by env.
func New(env *graphenv.Environment) *Interner {
	return &Interner{env: env}
}

// ResolveOrAllocate looks up name within kind's dictionary. If absent
// and createIfMissing is false, it fails with storeerr.NotFound. If
// absent and createIfMissing is true, it allocates the next id from
// kind's meta sequence and writes both mapping rows.
//
// The probe runs in a read transaction first so that repeated lookups
// of an already-interned name never pay for a write transaction; only
// a genuine miss with createIfMissing escalates to a write transaction,
// which re-checks under the single-writer guarantee before allocating
// (spec §4.4: "re-check name→id (race-safe under single-writer)").
func (in *Interner) ResolveOrAllocate(kind Kind, name string, createIfMissing bool) (uint32, error) {
	b, ok := bucketsByKind[kind]
	if !ok {
		return 0, fmt.Errorf("intern: unknown kind %v", kind)
	}

	var id uint32
	var found bool
	err := in.env.View(func(tx *graphenv.Transaction) error {
		val, err := tx.Get(b.byName, keycodec.DictNameKey(name))
		if err == storeerr.NotFound {
			return nil
		}
		if err != nil {
			return err
		}
		decoded, ok := keycodec.DecodeDictID(val)
		if !ok {
			return storeerr.CorruptEncoding
		}
		id, found = decoded, true
		return nil
	})
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	if !createIfMissing {
		return 0, storeerr.NotFound
	}

	err = in.env.Update(func(tx *graphenv.Transaction) error {
		val, err := tx.Get(b.byName, keycodec.DictNameKey(name))
		if err == nil {
			decoded, ok := keycodec.DecodeDictID(val)
			if !ok {
				return storeerr.CorruptEncoding
			}
			id, found = decoded, true
			return nil
		}
		if err != storeerr.NotFound {
			return err
		}

		next, err := nextSeq(tx, b.seqMeta)
		if err != nil {
			return err
		}
		id = next
		if err := tx.Set(b.ids, keycodec.DictIDKey(id), []byte(name)); err != nil {
			return err
		}
		if err := tx.Set(b.byName, keycodec.DictNameKey(name), keycodec.EncodeDictID(id)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ResolveName looks up the name stored for id within kind's dictionary,
// failing with storeerr.NotFound if no such id was ever allocated.
func (in *Interner) ResolveName(kind Kind, id uint32) (string, error) {
	b, ok := bucketsByKind[kind]
	if !ok {
		return "", fmt.Errorf("intern: unknown kind %v", kind)
	}

	var name string
	err := in.env.View(func(tx *graphenv.Transaction) error {
		val, err := tx.Get(b.ids, keycodec.DictIDKey(id))
		if err != nil {
			return err
		}
		name = string(val)
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// nextSeq reads the current value of the meta counter named by label,
// increments it, writes it back, and returns the new value. Counters
// start at 0, so the first allocated id for any dictionary is 1 — 0
// stays reserved for "none" the way node and edge ids reserve it
// (spec §3 invariant 1).
func nextSeq(tx *graphenv.Transaction, label string) (uint32, error) {
	key := keycodec.MetaKey(label)
	var cur uint32
	val, err := tx.Get(graphenv.BucketMeta, key)
	switch err {
	case nil:
		decoded, ok := keycodec.DecodeDictID(val)
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
	if err := tx.Set(graphenv.BucketMeta, key, keycodec.EncodeDictID(next)); err != nil {
		return 0, err
	}
	return next, nil
}
