// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/globalstats"
	"github.com/vechain/tally/tally"
)

// session holds the contract wide records loaded by one operation.
// They are mutated in memory and persisted together by commit.
type session struct {
	now    tally.TimePoint
	global *globalstats.Global
	voters *accrual.Aggregate // voter reward engine
	votes  *accrual.Aggregate // producer votepay engine
}

func (s *System) begin(now tally.TimePoint) (*session, error) {
	g, err := s.global.Global()
	if err != nil {
		return nil, err
	}
	vagg, err := s.global.VoterAggregate()
	if err != nil {
		return nil, err
	}
	pagg, err := s.global.ProducerAggregate()
	if err != nil {
		return nil, err
	}
	return &session{now: now, global: g, voters: vagg, votes: pagg}, nil
}

func (s *System) commit(sess *session) error {
	if err := s.global.SetGlobal(sess.global); err != nil {
		return err
	}
	if err := s.global.SetVoterAggregate(sess.voters); err != nil {
		return err
	}
	return s.global.SetProducerAggregate(sess.votes)
}
