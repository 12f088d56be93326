// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/tally"
)

// Raw is a single rlp encoded value stored at a fixed position.
type Raw[V any] struct {
	context *Context
	pos     tally.Bytes32
}

func NewRaw[V any](context *Context, pos tally.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get returns the stored value, the zero value if never set.
func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.contract, r.pos, func(raw []byte) error {
		value = newValue[V]()
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.contract, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Update applies fn to the stored value and writes the result back.
func (r *Raw[V]) Update(fn func(V) (V, error)) error {
	v, err := r.Get()
	if err != nil {
		return err
	}
	if v, err = fn(v); err != nil {
		return err
	}
	return r.Set(v)
}

// Slot derives a storage position from a human readable name.
func Slot(name string) tally.Bytes32 {
	return tally.BytesToBytes32([]byte(name))
}
