// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/tally"
)

// Key is a list element. The zero value marks the end of the list and cannot be stored.
type Key interface {
	comparable
	Bytes() []byte
}

// LinkedList is a persistent doubly linked list.
type LinkedList[K Key] struct {
	head  *storage.Raw[K]
	tail  *storage.Raw[K]
	count *storage.Raw[uint64]
	next  *storage.Mapping[K, K]
	prev  *storage.Mapping[K, K]
}

// NewLinkedList creates a new linked list with persistent storage mappings
func NewLinkedList[K Key](sctx *storage.Context, headPos, tailPos, countPos tally.Bytes32) *LinkedList[K] {
	return &LinkedList[K]{
		head:  storage.NewRaw[K](sctx, headPos),
		tail:  storage.NewRaw[K](sctx, tailPos),
		count: storage.NewRaw[uint64](sctx, countPos),
		next:  storage.NewMapping[K, K](sctx, headPos),
		prev:  storage.NewMapping[K, K](sctx, tailPos),
	}
}

func isZero[K Key](k K) bool {
	var zero K
	return k == zero
}

// Add appends an element to the end of the list.
func (l *LinkedList[K]) Add(key K) error {
	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if isZero(oldTail) {
		// the list is currently empty, set this entry to head & tail
		if err := l.head.Set(key); err != nil {
			return err
		}
		if err := l.tail.Set(key); err != nil {
			return err
		}
		return l.incCount(1)
	}
	var zero K
	return l.link(oldTail, key, zero)
}

// InsertBefore inserts key in front of pos. A zero pos appends.
func (l *LinkedList[K]) InsertBefore(pos, key K) error {
	if isZero(pos) {
		return l.Add(key)
	}
	prev, err := l.prev.Get(pos)
	if err != nil {
		return err
	}
	if isZero(prev) {
		// insert as head
		if err := l.next.Set(key, pos); err != nil {
			return err
		}
		if err := l.prev.Set(pos, key); err != nil {
			return err
		}
		if err := l.head.Set(key); err != nil {
			return err
		}
		return l.incCount(1)
	}
	return l.link(prev, key, pos)
}

// link places key between prev and next. A zero next makes key the tail.
func (l *LinkedList[K]) link(prev, key, next K) error {
	if err := l.next.Set(prev, key); err != nil {
		return err
	}
	if err := l.prev.Set(key, prev); err != nil {
		return err
	}
	if isZero(next) {
		if err := l.tail.Set(key); err != nil {
			return err
		}
	} else {
		if err := l.next.Set(key, next); err != nil {
			return err
		}
		if err := l.prev.Set(next, key); err != nil {
			return err
		}
	}
	return l.incCount(1)
}

// Remove extracts an element from anywhere in the list.
func (l *LinkedList[K]) Remove(key K) error {
	if isZero(key) {
		return nil
	}

	prev, err := l.prev.Get(key)
	if err != nil {
		return err
	}
	next, err := l.next.Get(key)
	if err != nil {
		return err
	}

	head, err := l.head.Get()
	if err != nil {
		return err
	}
	// not in list
	if isZero(prev) && head != key {
		return nil
	}

	if !isZero(prev) {
		if err := l.next.Set(prev, next); err != nil {
			return err
		}
	} else if err := l.head.Set(next); err != nil {
		return err
	}

	if !isZero(next) {
		if err := l.prev.Set(next, prev); err != nil {
			return err
		}
	} else if err := l.tail.Set(prev); err != nil {
		return err
	}

	l.next.Delete(key)
	l.prev.Delete(key)
	return l.incCount(-1)
}

// Pop removes and returns the head.
func (l *LinkedList[K]) Pop() (K, error) {
	head, err := l.head.Get()
	if err != nil {
		return head, err
	}
	if isZero(head) {
		return head, errors.New("list is empty")
	}
	if err := l.Remove(head); err != nil {
		return head, err
	}
	return head, nil
}

// Head returns the first element, zero if empty.
func (l *LinkedList[K]) Head() (K, error) {
	return l.head.Get()
}

// Next returns the successor of key, zero if at the end.
func (l *LinkedList[K]) Next(key K) (K, error) {
	return l.next.Get(key)
}

// Len returns the number of elements.
func (l *LinkedList[K]) Len() (uint64, error) {
	return l.count.Get()
}

// Iter traverses the list in order until completion or error.
func (l *LinkedList[K]) Iter(callback func(K) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}
	for !isZero(ptr) {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr, err = l.next.Get(ptr); err != nil {
			return err
		}
	}
	return nil
}

func (l *LinkedList[K]) incCount(delta int) error {
	return l.count.Update(func(n uint64) (uint64, error) {
		if delta < 0 && n == 0 {
			return 0, errors.New("list count underflow")
		}
		return uint64(int64(n) + int64(delta)), nil
	})
}
