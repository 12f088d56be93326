// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes transactions against the system contract.
package runtime

import (
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/system"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/schedule"
	"github.com/vechain/tally/log"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
	"github.com/vechain/tally/tx"
)

var logger = log.WithContext("pkg", "runtime")

// Runtime is to support transaction execution at a fixed time.
type Runtime struct {
	state  *state.State
	system *system.System
	time   tally.TimePoint
}

// New create a Runtime object.
func New(st *state.State, params *tally.Params, now tally.TimePoint) *Runtime {
	return &Runtime{
		state:  st,
		system: system.New(st, params),
		time:   now,
	}
}

func (rt *Runtime) State() *state.State    { return rt.state }
func (rt *Runtime) System() *system.System { return rt.system }
func (rt *Runtime) Time() tally.TimePoint  { return rt.time }

// Apply dispatches action to the system contract.
// Token amounts above the signed range wrap negative and are rejected by the contract.
func Apply(sys *system.System, action tx.Action, now tally.TimePoint) error {
	switch a := action.(type) {
	case *tx.Delegate:
		return sys.Delegate(a.From, a.Receiver, int64(a.Net), int64(a.CPU), a.Transfer, now)
	case *tx.Undelegate:
		return sys.Undelegate(a.From, a.Receiver, int64(a.Net), int64(a.CPU), now)
	case *tx.ClaimRefund:
		return sys.ClaimRefund(a.Owner, now)
	case *tx.VoteProducer:
		return sys.VoteProducer(a.Voter, a.Proxy, a.Producers, now)
	case *tx.RegProxy:
		return sys.RegProxy(a.Proxy, a.IsProxy, now)
	case *tx.RegProducer:
		return sys.RegProducer(a.Producer, a.Key, a.URL, a.Location, now)
	case *tx.UnregProducer:
		return sys.UnregProducer(a.Producer, now)
	case *tx.ClaimProducerReward:
		return sys.ClaimProducerReward(a.Owner, now)
	case *tx.ClaimVoterReward:
		return sys.ClaimVoterReward(a.Owner, now)
	case *tx.OnBlock:
		return sys.OnBlock(a.Producer, now)
	}
	return errors.Errorf("unsupported action %T", action)
}

// ExecuteTransaction executes a transaction atomically.
// A reverted transaction yields a receipt with Reverted set and leaves state untouched.
// Any other error is returned and the state must be discarded.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (*tx.Receipt, error) {
	action := trx.Action()
	receipt := &tx.Receipt{
		TxID:      trx.ID(),
		Action:    action.Type().String(),
		Signer:    trx.Signer(),
		Timestamp: rt.time,
	}
	err := rt.execute(receipt, func() error {
		if trx.Signer() != action.Authorizer() {
			return reverts.Newf("missing authority of %v", action.Authorizer())
		}
		return Apply(rt.system, action, rt.time)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ExecuteDeferred executes a deferred entry popped from the queue.
func (rt *Runtime) ExecuteDeferred(e *schedule.Entry) (*tx.Receipt, error) {
	receipt := &tx.Receipt{
		TxID:      tally.Blake2b([]byte("deferred"), e.ID.Bytes()),
		Action:    "deferred." + e.Kind.String(),
		Signer:    tally.SystemAccount,
		Timestamp: rt.time,
	}
	if err := rt.execute(receipt, func() error {
		return rt.system.ProcessDeferred(e, rt.time)
	}); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (rt *Runtime) execute(receipt *tx.Receipt, fn func() error) error {
	start := time.Now()
	checkpoint := rt.state.NewCheckpoint()
	rt.system.Token().TakeTransfers()

	err := fn()
	transfers := rt.system.Token().TakeTransfers()
	if err != nil {
		kind, ok := reverts.KindOf(err)
		if !ok {
			return errors.WithMessagef(err, "execute %v", receipt.Action)
		}
		rt.state.RevertTo(checkpoint)
		receipt.Reverted = true
		receipt.Error = err.Error()
		receipt.ErrorKind = kind.String()
		if kind == reverts.Integrity {
			logger.Warn("integrity failure", "action", receipt.Action, "tx", receipt.TxID, "err", err)
		} else {
			logger.Debug("transaction reverted", "action", receipt.Action, "tx", receipt.TxID, "err", err)
		}
	} else {
		receipt.Transfers = make([]*tx.Transfer, 0, len(transfers))
		for _, t := range transfers {
			receipt.Transfers = append(receipt.Transfers, &tx.Transfer{
				From:   t.From,
				To:     t.To,
				Amount: uint64(t.Amount),
				Memo:   t.Memo,
			})
		}
	}

	outcome := "success"
	if receipt.Reverted {
		outcome = "reverted"
	}
	metricTxCount().AddWithLabel(1, map[string]string{"action": receipt.Action, "outcome": outcome})
	metricApplyDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"action": receipt.Action})
	return nil
}
