// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package system implements staking, voting and the continuous reward
// distribution to voters and block producers.
//
// Every operation settles the accrual of the entities it touches, together
// with the aggregate of their engine, to the operation time before mutating
// anything. Operations never roll back partial writes themselves; the caller
// runs each one against a state checkpoint and reverts on error.
package system

import (
	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/delegation"
	"github.com/vechain/tally/builtin/system/globalstats"
	"github.com/vechain/tally/builtin/system/producer"
	"github.com/vechain/tally/builtin/system/refund"
	"github.com/vechain/tally/builtin/system/schedule"
	"github.com/vechain/tally/builtin/system/voter"
	"github.com/vechain/tally/builtin/token"
	"github.com/vechain/tally/log"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

var logger = log.WithContext("pkg", "system")

// System is the system contract bound to a state.
type System struct {
	params      *tally.Params
	token       *token.Token
	voters      *voter.Service
	producers   *producer.Service
	delegations *delegation.Service
	refunds     *refund.Service
	global      *globalstats.Service
	queue       *schedule.Queue
}

// New binds the system contract to st.
func New(st *state.State, params *tally.Params) *System {
	sctx := storage.NewContext(tally.SystemAccount, st)
	return &System{
		params:      params,
		token:       token.New(storage.NewContext(tally.TokenAccount, st)),
		voters:      voter.New(sctx),
		producers:   producer.New(sctx),
		delegations: delegation.New(sctx),
		refunds:     refund.New(sctx),
		global:      globalstats.New(sctx),
		queue:       schedule.New(sctx),
	}
}

// Params returns the protocol parameters.
func (s *System) Params() *tally.Params {
	return s.params
}

// Token returns the token ledger.
func (s *System) Token() *token.Token {
	return s.token
}

// Initialize schedules the first producer election. It is called once at genesis.
func (s *System) Initialize(now tally.TimePoint) error {
	g, err := s.global.Global()
	if err != nil {
		return err
	}
	g.LastScheduleUpdate = now
	if err := s.global.SetGlobal(g); err != nil {
		return err
	}

	vagg, err := s.global.VoterAggregate()
	if err != nil {
		return err
	}
	vagg.LastUpdated = now
	if err := s.global.SetVoterAggregate(vagg); err != nil {
		return err
	}
	pagg, err := s.global.ProducerAggregate()
	if err != nil {
		return err
	}
	pagg.LastUpdated = now
	if err := s.global.SetProducerAggregate(pagg); err != nil {
		return err
	}

	_, err = s.queue.Schedule(schedule.KindElection, tally.SystemAccount, now+s.params.ScheduleInterval)
	return err
}

// Voter returns the voter record of owner, nil if none.
func (s *System) Voter(owner tally.Name) (*voter.Voter, error) {
	return s.voters.Get(owner)
}

// Producer returns the producer record of owner, nil if never registered.
func (s *System) Producer(owner tally.Name) (*producer.Producer, error) {
	return s.producers.Get(owner)
}

// Producers returns all registered producers in registration order.
func (s *System) Producers() ([]*producer.Producer, error) {
	var all []*producer.Producer
	err := s.producers.Iter(func(p *producer.Producer) error {
		all = append(all, p)
		return nil
	})
	return all, err
}

// ProducerCount returns the number of registered producers, active or not.
func (s *System) ProducerCount() (uint64, error) {
	return s.producers.Count()
}

// PendingDeferred returns the number of entries waiting in the deferred queue.
func (s *System) PendingDeferred() (uint64, error) {
	return s.queue.Len()
}

// Schedule returns the elected producers and the schedule version.
func (s *System) Schedule() (tally.Names, uint32, error) {
	return s.producers.Schedule()
}

// Global returns the global counters.
func (s *System) Global() (*globalstats.Global, error) {
	return s.global.Global()
}

// VoterAggregate returns the aggregate of the voter reward engine.
func (s *System) VoterAggregate() (*accrual.Aggregate, error) {
	return s.global.VoterAggregate()
}

// ProducerAggregate returns the aggregate of the producer votepay engine.
func (s *System) ProducerAggregate() (*accrual.Aggregate, error) {
	return s.global.ProducerAggregate()
}

// Refund returns the pending refund of owner, nil if none.
func (s *System) Refund(owner tally.Name) (*refund.Refund, error) {
	return s.refunds.Get(owner)
}

// Delegation returns the stake delegated from -> to.
func (s *System) Delegation(from, to tally.Name) (*delegation.Delegation, error) {
	return s.delegations.Get(from, to)
}

// Deferred returns the pending deferred entry of (kind, owner), nil if none.
func (s *System) Deferred(kind schedule.Kind, owner tally.Name) (*schedule.Entry, error) {
	return s.queue.Get(kind, owner)
}
