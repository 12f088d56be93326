// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errors.New("not found")
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(error) bool {
	return true
}

func TestBucket_GetterGet(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}
	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket("k"), "k1", ""},
		{Bucket("k"), "1", "v1"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		got, _ := tt.b.NewGetter(m).Get([]byte(tt.key))
		assert.Equal(t, tt.want, string(got))
	}
}

func TestBucket_Putter(t *testing.T) {
	m := mem{}
	p := Bucket("s").NewPutter(m)
	assert.NoError(t, p.Put([]byte("a"), []byte("1")))
	assert.Equal(t, "1", m["sa"])

	has, _ := Bucket("s").NewGetter(m).Has([]byte("a"))
	assert.True(t, has)

	assert.NoError(t, p.Delete([]byte("a")))
	_, ok := m["sa"]
	assert.False(t, ok)
}
