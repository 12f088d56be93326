// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule is a persistent queue of deferred actions ordered by due time.
// Each (kind, owner) has at most one pending entry.
package schedule

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/builtin/system/linkedlist"
	"github.com/vechain/tally/tally"
)

// Kind is the type of a deferred action.
type Kind uint8

const (
	// KindRefund pays out a matured refund.
	KindRefund Kind = iota + 1
	// KindElection elects the producer schedule and reschedules itself.
	KindElection
)

func (k Kind) String() string {
	switch k {
	case KindRefund:
		return "refund"
	case KindElection:
		return "election"
	}
	return "unknown"
}

// ID identifies an entry. IDs are never reused.
type ID uint64

func (id ID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// Entry is a deferred action.
type Entry struct {
	ID    ID
	Due   tally.TimePoint
	Kind  Kind
	Owner tally.Name
}

type ownerKey struct {
	kind  Kind
	owner tally.Name
}

func (k ownerKey) Bytes() []byte {
	return append([]byte{byte(k.kind)}, k.owner.Bytes()...)
}

var (
	slotEntries = storage.Slot("deferred-entries")
	slotOwners  = storage.Slot("deferred-owners")
	slotHead    = storage.Slot("deferred-head")
	slotTail    = storage.Slot("deferred-tail")
	slotCount   = storage.Slot("deferred-count")
	slotNextID  = storage.Slot("deferred-next-id")
)

// Queue is the deferred action queue.
type Queue struct {
	entries *storage.Mapping[ID, *Entry]
	owners  *storage.Mapping[ownerKey, ID]
	order   *linkedlist.LinkedList[ID]
	nextID  *storage.Raw[uint64]
}

func New(sctx *storage.Context) *Queue {
	return &Queue{
		entries: storage.NewMapping[ID, *Entry](sctx, slotEntries),
		owners:  storage.NewMapping[ownerKey, ID](sctx, slotOwners),
		order:   linkedlist.NewLinkedList[ID](sctx, slotHead, slotTail, slotCount),
		nextID:  storage.NewRaw[uint64](sctx, slotNextID),
	}
}

// Get returns the pending entry of (kind, owner), nil if none.
func (q *Queue) Get(kind Kind, owner tally.Name) (*Entry, error) {
	id, err := q.owners.Get(ownerKey{kind, owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deferred entry")
	}
	if id == 0 {
		return nil, nil
	}
	e, err := q.entries.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deferred entry")
	}
	return e, nil
}

// Schedule enqueues an action due at due, replacing any pending entry of (kind, owner).
func (q *Queue) Schedule(kind Kind, owner tally.Name, due tally.TimePoint) (*Entry, error) {
	if err := q.Cancel(kind, owner); err != nil {
		return nil, err
	}

	var id ID
	if err := q.nextID.Update(func(n uint64) (uint64, error) {
		id = ID(n + 1)
		return n + 1, nil
	}); err != nil {
		return nil, err
	}
	entry := &Entry{ID: id, Due: due, Kind: kind, Owner: owner}

	// find the first entry due strictly later, entries due at the same time keep FIFO order
	var pos ID
	errFound := errors.New("found")
	if err := q.order.Iter(func(cur ID) error {
		e, err := q.entries.Get(cur)
		if err != nil {
			return err
		}
		if e.Due > due {
			pos = cur
			return errFound
		}
		return nil
	}); err != nil && err != errFound {
		return nil, err
	}

	if err := q.order.InsertBefore(pos, id); err != nil {
		return nil, err
	}
	if err := q.entries.Set(id, entry); err != nil {
		return nil, err
	}
	if err := q.owners.Set(ownerKey{kind, owner}, id); err != nil {
		return nil, err
	}
	return entry, nil
}

// Cancel removes the pending entry of (kind, owner) if any.
func (q *Queue) Cancel(kind Kind, owner tally.Name) error {
	e, err := q.Get(kind, owner)
	if err != nil || e == nil {
		return err
	}
	return q.remove(e)
}

func (q *Queue) remove(e *Entry) error {
	if err := q.order.Remove(e.ID); err != nil {
		return err
	}
	q.entries.Delete(e.ID)
	q.owners.Delete(ownerKey{e.Kind, e.Owner})
	return nil
}

// PopDue removes and returns the earliest entry due at or before now, nil if none.
func (q *Queue) PopDue(now tally.TimePoint) (*Entry, error) {
	head, err := q.order.Head()
	if err != nil {
		return nil, err
	}
	if head == 0 {
		return nil, nil
	}
	e, err := q.entries.Get(head)
	if err != nil {
		return nil, err
	}
	if e.Due > now {
		return nil, nil
	}
	if err := q.remove(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Len returns the number of pending entries.
func (q *Queue) Len() (uint64, error) {
	return q.order.Len()
}
