// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/tally/kv"
	"github.com/vechain/tally/tally"
)

// Stage abstracts the changes to be committed.
type Stage struct {
	changes map[storageKey]rlp.RawValue
	cache   *Cache
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest over the changed slots in key order.
func (s *Stage) Hash() tally.Bytes32 {
	keys := make([]storageKey, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].contract != keys[j].contract {
			return keys[i].contract < keys[j].contract
		}
		return bytes.Compare(keys[i].key[:], keys[j].key[:]) < 0
	})

	data := make([][]byte, 0, len(keys)*2)
	for _, k := range keys {
		data = append(data, k.dbKey(), s.changes[k])
	}
	return tally.Blake2b(data...)
}

// Commit writes all changes into store atomically.
func (s *Stage) Commit(store kv.Store) error {
	batch := store.NewBatch()
	putter := storageBucket.NewPutter(batch)
	var puts, dels int64
	for k, v := range s.changes {
		if len(v) == 0 {
			if err := putter.Delete(k.dbKey()); err != nil {
				return errors.Wrap(err, "delete slot")
			}
			dels++
		} else {
			if err := putter.Put(k.dbKey(), v); err != nil {
				return errors.Wrap(err, "put slot")
			}
			puts++
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	if s.cache != nil {
		for k, v := range s.changes {
			s.cache.Add(k, v)
		}
	}
	metricSlotWrites().AddWithLabel(puts, map[string]string{"type": "put"})
	metricSlotWrites().AddWithLabel(dels, map[string]string{"type": "delete"})
	return nil
}
