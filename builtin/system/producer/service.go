// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producer

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/builtin/system/linkedlist"
	"github.com/vechain/tally/tally"
)

var (
	slotProducers       = storage.Slot("producers")
	slotProducersHead   = storage.Slot("producers-head")
	slotProducersTail   = storage.Slot("producers-tail")
	slotProducersCount  = storage.Slot("producers-count")
	slotSchedule        = storage.Slot("producer-schedule")
	slotScheduleVersion = storage.Slot("producer-schedule-version")
)

// Service is the producer registry.
type Service struct {
	producers *storage.Mapping[tally.Name, *Producer]
	registry  *linkedlist.LinkedList[tally.Name] // registration order
	schedule  *storage.Raw[tally.Names]
	version   *storage.Raw[uint32]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		producers: storage.NewMapping[tally.Name, *Producer](sctx, slotProducers),
		registry:  linkedlist.NewLinkedList[tally.Name](sctx, slotProducersHead, slotProducersTail, slotProducersCount),
		schedule:  storage.NewRaw[tally.Names](sctx, slotSchedule),
		version:   storage.NewRaw[uint32](sctx, slotScheduleVersion),
	}
}

// Get returns the producer record, nil if never registered.
func (s *Service) Get(owner tally.Name) (*Producer, error) {
	exists, err := s.producers.Has(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get producer")
	}
	if !exists {
		return nil, nil
	}
	p, err := s.producers.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get producer")
	}
	return p, nil
}

// Add stores a newly registered producer.
func (s *Service) Add(p *Producer) error {
	if err := s.registry.Add(p.Owner); err != nil {
		return errors.Wrap(err, "failed to add producer")
	}
	return s.Update(p)
}

// Update persists an existing producer.
func (s *Service) Update(p *Producer) error {
	if err := s.producers.Set(p.Owner, p); err != nil {
		return errors.Wrap(err, "failed to set producer")
	}
	return nil
}

// Count returns the number of registered producers.
func (s *Service) Count() (uint64, error) {
	return s.registry.Len()
}

// Iter traverses producers in registration order.
func (s *Service) Iter(callback func(*Producer) error) error {
	return s.registry.Iter(func(owner tally.Name) error {
		p, err := s.producers.Get(owner)
		if err != nil {
			return errors.Wrap(err, "failed to get producer")
		}
		return callback(p)
	})
}

// Top returns up to n active producers with positive votes, ordered by
// votes descending with ties broken by name.
func (s *Service) Top(n int) ([]*Producer, error) {
	var candidates []*Producer
	if err := s.Iter(func(p *Producer) error {
		if p.IsActive && p.TotalVotes > 0 {
			candidates = append(candidates, p)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TotalVotes != candidates[j].TotalVotes {
			return candidates[i].TotalVotes > candidates[j].TotalVotes
		}
		return candidates[i].Owner < candidates[j].Owner
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates, nil
}

// Schedule returns the elected producers in name order and the schedule version.
func (s *Service) Schedule() (tally.Names, uint32, error) {
	names, err := s.schedule.Get()
	if err != nil {
		return nil, 0, err
	}
	version, err := s.version.Get()
	if err != nil {
		return nil, 0, err
	}
	return names, version, nil
}

// Elect replaces the schedule with the top n producers.
// A schedule is never replaced by an empty or smaller one, nor by an identical one.
func (s *Service) Elect(n int) (tally.Names, bool, error) {
	top, err := s.Top(n)
	if err != nil {
		return nil, false, err
	}
	current, _, err := s.Schedule()
	if err != nil {
		return nil, false, err
	}
	if len(top) == 0 || len(top) < len(current) {
		return current, false, nil
	}

	elected := make(tally.Names, 0, len(top))
	for _, p := range top {
		elected = append(elected, p.Owner)
	}
	sort.Slice(elected, func(i, j int) bool { return elected[i] < elected[j] })
	if equal(elected, current) {
		return current, false, nil
	}

	if err := s.schedule.Set(elected); err != nil {
		return nil, false, err
	}
	if err := s.version.Update(func(v uint32) (uint32, error) { return v + 1, nil }); err != nil {
		return nil, false, err
	}
	return elected, true, nil
}

func equal(a, b tally.Names) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
