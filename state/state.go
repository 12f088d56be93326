// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/cache"
	"github.com/vechain/tally/kv"
	"github.com/vechain/tally/stackedmap"
	"github.com/vechain/tally/tally"
)

// storageBucket is the kv bucket holding committed storage slots.
const storageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// storageKey addresses a single storage slot of a builtin contract.
type storageKey struct {
	contract tally.Name
	key      tally.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(k.contract.Bytes(), k.key[:]...)
}

// Cache caches committed slot values across state instances.
type Cache = cache.LRU[storageKey, rlp.RawValue]

// NewCache creates a committed value cache of the given size.
func NewCache(size int) (*Cache, error) {
	return cache.NewLRU[storageKey, rlp.RawValue](size)
}

// State manages the storage of builtin contracts.
// Writes are journaled and can be reverted to any checkpoint until staged.
type State struct {
	db    kv.Getter
	cache *Cache
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue] // keeps revisions of slots
}

// New create state object. The cache is optional.
func New(db kv.Getter, c *Cache) *State {
	s := &State{
		db:    storageBucket.NewGetter(db),
		cache: c,
	}
	s.sm = stackedmap.New(s.committedGetter)
	return s
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(key storageKey) (rlp.RawValue, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v, true, nil
		}
	}
	data, err := s.db.Get(key.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		data = nil
	}
	if s.cache != nil {
		s.cache.Add(key, data)
	}
	return data, true, nil
}

// GetRawStorage returns the raw value of the slot, empty if never set.
func (s *State) GetRawStorage(contract tally.Name, key tally.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{contract, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage sets the raw value of the slot. An empty value deletes the slot.
func (s *State) SetRawStorage(contract tally.Name, key tally.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{contract, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(contract tally.Name, key tally.Bytes32, enc func() ([]byte, error)) error {
	data, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(contract, key, data)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(contract tally.Name, key tally.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(contract, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the net changes since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes, cache: s.cache}
}
