// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package refund

import (
	"github.com/vechain/tally/tally"
)

// Refund is the pending unstaked amount of an account. There is at most one per owner.
type Refund struct {
	Owner       tally.Name      `json:"owner"`
	Net         int64           `json:"net"`
	CPU         int64           `json:"cpu"`
	RequestTime tally.TimePoint `json:"requestTime"`
}

// Total returns the pending amount across both resource classes.
func (r *Refund) Total() int64 {
	return r.Net + r.CPU
}

// IsEmpty returns whether nothing is pending.
func (r *Refund) IsEmpty() bool {
	return r.Net == 0 && r.CPU == 0
}

// MaturesAt returns when the refund can be claimed.
func (r *Refund) MaturesAt(delay tally.TimePoint) tally.TimePoint {
	return r.RequestTime + delay
}

// Merge applies the stake deltas of a self delegation change.
// Negative deltas are unstaked into the refund and reset the request time.
// Positive deltas are first restaked from the pending refund; the amounts
// still to be taken from the liquid balance are returned.
func (r *Refund) Merge(netDelta, cpuDelta int64, now tally.TimePoint) (transferNet, transferCPU int64) {
	if netDelta < 0 || cpuDelta < 0 {
		r.RequestTime = now
	}
	transferNet = mergeClass(&r.Net, netDelta)
	transferCPU = mergeClass(&r.CPU, cpuDelta)
	return
}

func mergeClass(pending *int64, delta int64) int64 {
	if delta <= 0 {
		*pending -= delta
		return 0
	}
	restaked := min(*pending, delta)
	*pending -= restaked
	return delta - restaked
}

type body struct {
	Owner       tally.Name
	Net         uint64
	CPU         uint64
	RequestTime uint64
}
