// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/refund"
	"github.com/vechain/tally/builtin/system/voter"
	"github.com/vechain/tally/tally"
)

// Account is the token balance of an account with its staking records.
type Account struct {
	Name    tally.Name `json:"name"`
	Balance int64      `json:"balance"`
	Voter   *Voter     `json:"voter"`
	Refund  *Refund    `json:"refund"`
}

// Voter is a voter record with its reward share.
type Voter struct {
	*voter.Voter
	Reward Share `json:"reward"`
}

// Share is the settled state of an accrual share.
type Share struct {
	Unpaid      float64         `json:"unpaid"`
	Rate        float64         `json:"rate"`
	LastUpdated tally.TimePoint `json:"lastUpdated"`
}

// Refund is a pending refund with its maturity time.
type Refund struct {
	*refund.Refund
	MaturesAt tally.TimePoint `json:"maturesAt"`
}

// ConvertShare converts an accrual share.
func ConvertShare(s *accrual.Share) Share {
	return Share{
		Unpaid:      s.Unpaid,
		Rate:        s.Rate,
		LastUpdated: s.LastUpdated,
	}
}

func convertVoter(v *voter.Voter) *Voter {
	if v == nil {
		return nil
	}
	return &Voter{Voter: v, Reward: ConvertShare(&v.Share)}
}

func convertRefund(r *refund.Refund, delay tally.TimePoint) *Refund {
	if r == nil || r.IsEmpty() {
		return nil
	}
	return &Refund{Refund: r, MaturesAt: r.MaturesAt(delay)}
}
