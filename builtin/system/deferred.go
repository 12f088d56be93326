// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/system/schedule"
	"github.com/vechain/tally/tally"
)

// PopDue removes and returns the earliest deferred entry due at or before now, nil if none.
func (s *System) PopDue(now tally.TimePoint) (*schedule.Entry, error) {
	return s.queue.PopDue(now)
}

// ProcessDeferred executes a deferred entry popped from the queue.
func (s *System) ProcessDeferred(e *schedule.Entry, now tally.TimePoint) error {
	switch e.Kind {
	case schedule.KindRefund:
		r, err := s.refunds.Get(e.Owner)
		if err != nil {
			return err
		}
		if r == nil {
			logger.Debug("deferred refund already claimed", "owner", e.Owner)
			return nil
		}
		if due := r.MaturesAt(s.params.RefundDelay); now < due {
			_, err := s.queue.Schedule(schedule.KindRefund, e.Owner, due)
			return err
		}
		return s.payRefund(e.Owner, r.Total())
	case schedule.KindElection:
		return s.runElection(now)
	default:
		return errors.Errorf("unknown deferred kind %v", e.Kind)
	}
}
