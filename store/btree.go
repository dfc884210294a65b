package store

import (
	"bytes"

	"github.com/google/btree"
)

// freeListSize is the number of btree nodes kept for reuse between cache
// layers sharing a free list.
const freeListSize = btree.DefaultFreeListSize

// MemStore returns a store kept in memory only. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap is a scratch pad over a read only store. Reads see the
// pending writes first and fall back to the wrapped store. Writes are
// recorded in the btree and in batch, and reach the wrapped store only when
// Write is called.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	back    ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache wrap reading from kv and flushing into
// batch. All writes must go through batch, kv is only read.
//
// A nil free list allocates a new one. Nested layers pass their parent's
// list to reuse its nodes.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(freeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(2, free),
		free:    free,
		back:    kv,
		batch:   batch,
	}
}

// CacheWrap returns a nested layer. Writing it flushes into this layer
// only.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch applying its operations to this layer.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the pending operations to the wrapped store and empties
// this layer.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending operations. The layer stays usable and empty.
func (b BTreeCacheWrap) Discard() {
	b.pending.Clear(true)
	if d, ok := b.batch.(discarder); ok {
		d.discard()
	}
}

// discarder is implemented by batches that can drop pending operations.
type discarder interface {
	discard()
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// lookup returns the pending operation on key, if any.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	res := b.pending.Get(entry{key: key})
	if res == nil {
		return entry{}, false
	}
	return res.(entry), true
}

// entry is a pending write. A deleted entry hides any value of the wrapped
// store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
