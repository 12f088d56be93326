// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/lvldb"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

func newList(t *testing.T) *LinkedList[tally.Name] {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	sctx := storage.NewContext(tally.SystemAccount, state.New(db, nil))
	return NewLinkedList[tally.Name](sctx, storage.Slot("head"), storage.Slot("tail"), storage.Slot("count"))
}

func names(t *testing.T, l *LinkedList[tally.Name]) []string {
	var out []string
	require.NoError(t, l.Iter(func(n tally.Name) error {
		out = append(out, n.String())
		return nil
	}))
	return out
}

func add(t *testing.T, l *LinkedList[tally.Name], ns ...string) {
	for _, n := range ns {
		require.NoError(t, l.Add(tally.MustParseName(n)))
	}
}

func TestLinkedList(t *testing.T) {
	l := newList(t)
	assert.Empty(t, names(t, l))

	add(t, l, "a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, names(t, l))
	n, _ := l.Len()
	assert.Equal(t, uint64(3), n)

	require.NoError(t, l.Remove(tally.MustParseName("b")))
	assert.Equal(t, []string{"a", "c"}, names(t, l))

	// removing an absent element is a no-op
	require.NoError(t, l.Remove(tally.MustParseName("zz")))
	n, _ = l.Len()
	assert.Equal(t, uint64(2), n)

	head, err := l.Pop()
	require.NoError(t, err)
	assert.Equal(t, "a", head.String())
	require.NoError(t, l.Remove(tally.MustParseName("c")))
	assert.Empty(t, names(t, l))

	_, err = l.Pop()
	assert.Error(t, err)

	// reusable after emptied
	add(t, l, "d")
	assert.Equal(t, []string{"d"}, names(t, l))
}

func TestInsertBefore(t *testing.T) {
	l := newList(t)
	add(t, l, "b", "d")

	require.NoError(t, l.InsertBefore(tally.MustParseName("b"), tally.MustParseName("a")))
	require.NoError(t, l.InsertBefore(tally.MustParseName("d"), tally.MustParseName("c")))
	require.NoError(t, l.InsertBefore(0, tally.MustParseName("e")))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(t, l))

	n, _ := l.Len()
	assert.Equal(t, uint64(5), n)

	require.NoError(t, l.Remove(tally.MustParseName("e")))
	require.NoError(t, l.Add(tally.MustParseName("f")))
	assert.Equal(t, []string{"a", "b", "c", "d", "f"}, names(t, l))

	next, _ := l.Next(tally.MustParseName("d"))
	assert.Equal(t, "f", next.String())
}
