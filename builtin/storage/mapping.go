// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/tally"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value table of a builtin contract. Rows are rlp encoded and
// stored at blake2b(key, pos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos tally.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos tally.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) tally.Bytes32 {
	return tally.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the row of key. A missing row decodes as the zero value,
// with pointer values allocated.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.contract, m.position(key), func(raw []byte) error {
		value = newValue[V]()
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Has returns whether the row of key exists.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.contract, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.contract, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete erases the row of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.contract, m.position(key), nil)
}

func newValue[V any]() (value V) {
	if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
		value = reflect.New(t.Elem()).Interface().(V)
	}
	return
}
