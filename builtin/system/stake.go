// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/refund"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/schedule"
	"github.com/vechain/tally/builtin/system/voter"
	"github.com/vechain/tally/builtin/system/weight"
	"github.com/vechain/tally/tally"
)

// Delegate stakes net and cpu tokens of from to receiver.
// With transfer set the stake, and the vote weight, belong to receiver.
func (s *System) Delegate(from, receiver tally.Name, net, cpu int64, transfer bool, now tally.TimePoint) error {
	if net < 0 || cpu < 0 {
		return reverts.New("must stake a positive amount")
	}
	if net+cpu <= 0 {
		return reverts.New("must stake a positive amount")
	}
	if transfer && from == receiver {
		return reverts.New("cannot use transfer flag if delegating to self")
	}
	return s.changeBandwidth(from, receiver, net, cpu, transfer, now)
}

// Undelegate unstakes net and cpu tokens delegated from -> receiver into
// the pending refund of from.
func (s *System) Undelegate(from, receiver tally.Name, net, cpu int64, now tally.TimePoint) error {
	if net < 0 || cpu < 0 {
		return reverts.New("must unstake a positive amount")
	}
	if net+cpu <= 0 {
		return reverts.New("must unstake a positive amount")
	}
	g, err := s.global.Global()
	if err != nil {
		return err
	}
	if !g.IsActivated() {
		return reverts.NewTemporal("cannot undelegate bandwidth until the chain is activated")
	}
	return s.changeBandwidth(from, receiver, -net, -cpu, false, now)
}

func (s *System) changeBandwidth(from, receiver tally.Name, netDelta, cpuDelta int64, transfer bool, now tally.TimePoint) error {
	source := from
	if transfer {
		from = receiver
	}

	d, err := s.delegations.Get(from, receiver)
	if err != nil {
		return err
	}
	d.Net += netDelta
	d.CPU += cpuDelta
	if d.Net < 0 {
		return reverts.New("insufficient staked net bandwidth")
	}
	if d.CPU < 0 {
		return reverts.New("insufficient staked cpu bandwidth")
	}
	if err := s.delegations.Set(d); err != nil {
		return err
	}

	toTransfer := netDelta + cpuDelta
	if (from == receiver && !transfer) || netDelta+cpuDelta < 0 {
		r, err := s.refunds.GetOrNew(from)
		if err != nil {
			return err
		}
		transferNet, transferCPU := r.Merge(netDelta, cpuDelta, now)
		toTransfer = transferNet + transferCPU
		if err := s.refunds.Set(r); err != nil {
			return err
		}
		if r.IsEmpty() {
			if err := s.queue.Cancel(schedule.KindRefund, from); err != nil {
				return err
			}
		} else if _, err := s.queue.Schedule(schedule.KindRefund, from, r.MaturesAt(s.params.RefundDelay)); err != nil {
			return err
		}
	}
	if toTransfer > 0 {
		if err := s.token.Transfer(source, tally.StakeAccount, toTransfer, "stake bandwidth"); err != nil {
			return err
		}
	}

	logger.Debug("bandwidth changed", "from", from, "receiver", receiver, "net", netDelta, "cpu", cpuDelta)
	return s.updateVotingPower(from, netDelta+cpuDelta, now)
}

// updateVotingPower moves the stake of owner by delta and refreshes its votes.
func (s *System) updateVotingPower(owner tally.Name, delta int64, now tally.TimePoint) error {
	v, err := s.voters.GetOrNew(owner)
	if err != nil {
		return err
	}
	v.Staked += delta
	if v.Staked < 0 {
		return reverts.New("stake for voting cannot be negative")
	}
	if err := s.voters.Set(v); err != nil {
		return err
	}

	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	sess.global.TotalStaked += delta
	if err := s.commit(sess); err != nil {
		return err
	}

	if !v.Proxy.IsEmpty() || len(v.Producers) > 0 {
		return s.updateVotes(owner, v.Proxy, v.Producers, false, now)
	}
	return nil
}

// refreshVoterRate sets the voter reward rate to the current weight of its own
// stake while it is rewarding, zero otherwise.
func refreshVoterRate(sess *session, v *voter.Voter) {
	rate := 0.0
	if v.IsRewarding() {
		rate = max(weight.Compute(v.Staked, sess.now), 0)
	}
	accrual.SetRate(sess.voters, &v.Share, sess.now, rate)
}

// ClaimRefund pays a matured refund back to owner.
func (s *System) ClaimRefund(owner tally.Name, now tally.TimePoint) error {
	r, err := s.refunds.Get(owner)
	if err != nil {
		return err
	}
	if r == nil {
		return reverts.New("refund request not found")
	}
	if now < r.MaturesAt(s.params.RefundDelay) {
		return reverts.NewTemporal("refund is not available yet")
	}
	if err := s.payRefund(owner, r.Total()); err != nil {
		return err
	}
	return s.queue.Cancel(schedule.KindRefund, owner)
}

func (s *System) payRefund(owner tally.Name, amount int64) error {
	if err := s.token.Transfer(tally.StakeAccount, owner, amount, "unstake"); err != nil {
		return err
	}
	if err := s.refunds.Set(&refund.Refund{Owner: owner}); err != nil {
		return err
	}
	logger.Debug("refund paid", "owner", owner, "amount", amount)
	return nil
}
