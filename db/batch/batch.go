// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist indicates certain item does not exist in the batch
	ErrNotExist = errors.New("not exist in batch")
	// ErrAlreadyDeleted indicates the key has been deleted
	ErrAlreadyDeleted = errors.New("already deleted from batch")
	// ErrOutOfBound indicates an out of bound index
	ErrOutOfBound = errors.New("out of bound")
	// ErrInvalidSnapshot indicates a snapshot that does not exist
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

type (
	// KVStoreBatch defines a batch buffer interface that stages Put/Delete entries in sequential order
	// To use it, first start a new batch
	// b := NewBatch()
	// and keep batching Put/Delete operation into it
	// b.Put(bucket, k, v)
	// b.Delete(bucket, k, v)
	// once it's done, call KVStore interface's WriteBatch() to persist to underlying DB
	// KVStore.WriteBatch(b)
	// if commit succeeds, the batch is cleared
	// otherwise the batch is kept intact (so batch user can figure out what’s wrong and attempt re-commit later)
	KVStoreBatch interface {
		// Lock locks the batch
		Lock()
		// Unlock unlocks the batch
		Unlock()
		// ClearAndUnlock clears the write queue and unlocks the batch
		ClearAndUnlock()
		// Put insert or update a record identified by (namespace, key)
		Put(string, []byte, []byte, string)
		// Delete deletes a record by (namespace, key)
		Delete(string, []byte, string)
		// Size returns the size of batch
		Size() int
		// Entry returns the entry at the index
		Entry(int) (*WriteInfo, error)
		// Clear clears entries staged in batch
		Clear()
	}

	// CachedBatch derives from Batch interface
	// A local cache is added to provide fast retrieval of pending Put/Delete entries
	CachedBatch interface {
		KVStoreBatch
		// Get gets a record by (namespace, key)
		Get(string, []byte) ([]byte, error)
		// Snapshot takes a snapshot of current cached batch
		Snapshot() int
		// RevertSnapshot sets the cached batch to the state at the given snapshot
		RevertSnapshot(int) error
		// ResetSnapshots clears all snapshots
		ResetSnapshots()
	}

	// baseKVStoreBatch is the base implementation of KVStoreBatch
	baseKVStoreBatch struct {
		mutex      sync.RWMutex
		writeQueue []*WriteInfo
	}

	// cachedBatch implements the CachedBatch interface
	cachedBatch struct {
		lock sync.RWMutex
		*baseKVStoreBatch
		cache     KVStoreCache
		snapshots []int // length of write queue at each snapshot
	}
)

// NewBatch returns a batch
func NewBatch() KVStoreBatch {
	return &baseKVStoreBatch{}
}

// Lock locks the batch
func (b *baseKVStoreBatch) Lock() {
	b.mutex.Lock()
}

// Unlock unlocks the batch
func (b *baseKVStoreBatch) Unlock() {
	b.mutex.Unlock()
}

// ClearAndUnlock clears the write queue and unlocks the batch
func (b *baseKVStoreBatch) ClearAndUnlock() {
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// Put inserts a <key, value> record
func (b *baseKVStoreBatch) Put(namespace string, key, value []byte, errorMessage string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.batch(Put, namespace, key, value, errorMessage)
}

// Delete deletes a record
func (b *baseKVStoreBatch) Delete(namespace string, key []byte, errorMessage string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.batch(Delete, namespace, key, nil, errorMessage)
}

// Size returns the size of batch
func (b *baseKVStoreBatch) Size() int {
	return len(b.writeQueue)
}

// Entry returns the entry at the index
func (b *baseKVStoreBatch) Entry(index int) (*WriteInfo, error) {
	if index < 0 || index >= len(b.writeQueue) {
		return nil, errors.Wrap(ErrOutOfBound, "index out of range")
	}
	return b.writeQueue[index], nil
}

// Clear clear write queue
func (b *baseKVStoreBatch) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// batch puts an entry into the write queue
func (b *baseKVStoreBatch) batch(op WriteType, namespace string, key, value []byte, errorMessage string) {
	k := make([]byte, len(key))
	copy(k, key)
	var v []byte
	if value != nil {
		v = make([]byte, len(value))
		copy(v, value)
	}
	b.writeQueue = append(b.writeQueue, NewWriteInfo(op, namespace, k, v, errorMessage))
}

//======================================
// CachedBatch implementation
//======================================

// NewCachedBatch returns a new cached batch buffer
func NewCachedBatch() CachedBatch {
	return &cachedBatch{
		baseKVStoreBatch: &baseKVStoreBatch{},
		cache:            NewKVCache(),
	}
}

// Lock locks the batch
func (cb *cachedBatch) Lock() {
	cb.lock.Lock()
}

// Unlock unlocks the batch
func (cb *cachedBatch) Unlock() {
	cb.lock.Unlock()
}

// ClearAndUnlock clears the write queue and unlocks the batch
func (cb *cachedBatch) ClearAndUnlock() {
	defer cb.lock.Unlock()
	cb.clear()
}

// Put inserts a <key, value> record
func (cb *cachedBatch) Put(namespace string, key, value []byte, errorMessage string) {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.baseKVStoreBatch.batch(Put, namespace, key, value, errorMessage)
	wi := cb.writeQueue[len(cb.writeQueue)-1]
	cb.cache.Write(namespace, wi.key, wi.value)
}

// Delete deletes a record
func (cb *cachedBatch) Delete(namespace string, key []byte, errorMessage string) {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.cache.Evict(namespace, key)
	cb.baseKVStoreBatch.batch(Delete, namespace, key, nil, errorMessage)
}

// Clear clear the cached batch buffer
func (cb *cachedBatch) Clear() {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.clear()
}

// Get retrieves a record
func (cb *cachedBatch) Get(namespace string, key []byte) ([]byte, error) {
	cb.lock.RLock()
	defer cb.lock.RUnlock()
	return cb.cache.Read(namespace, key)
}

// Snapshot takes a snapshot of current cached batch
func (cb *cachedBatch) Snapshot() int {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.snapshots = append(cb.snapshots, len(cb.writeQueue))
	return len(cb.snapshots) - 1
}

// RevertSnapshot sets the cached batch to the state at the given snapshot
func (cb *cachedBatch) RevertSnapshot(snapshot int) error {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	if snapshot < 0 || snapshot >= len(cb.snapshots) {
		return errors.Wrapf(ErrInvalidSnapshot, "failed to get snapshot %d", snapshot)
	}
	cb.writeQueue = cb.writeQueue[:cb.snapshots[snapshot]]
	cb.snapshots = cb.snapshots[:snapshot+1]
	// replay the remaining writes to rebuild the cache
	cb.cache.Clear()
	for _, wi := range cb.writeQueue {
		switch wi.writeType {
		case Put:
			cb.cache.Write(wi.namespace, wi.key, wi.value)
		case Delete:
			cb.cache.Evict(wi.namespace, wi.key)
		}
	}
	return nil
}

// ResetSnapshots clears all snapshots
func (cb *cachedBatch) ResetSnapshots() {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.snapshots = nil
}

func (cb *cachedBatch) clear() {
	cb.writeQueue = nil
	cb.cache.Clear()
	cb.snapshots = nil
}
