// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/tally"
)

// Voter is the voting record of an account.
type Voter struct {
	Owner     tally.Name  `json:"owner"`
	Proxy     tally.Name  `json:"proxy"`     // empty if voting for producers directly
	Producers tally.Names `json:"producers"` // sorted, unique, empty if Proxy is set
	Staked    int64       `json:"staked"`

	// LastVoteWeight is the weight last propagated to producers or proxy, 0 if never voted.
	LastVoteWeight float64 `json:"lastVoteWeight"`
	// ProxiedVoteWeight is the weight delegated to this account as a proxy.
	ProxiedVoteWeight float64 `json:"proxiedVoteWeight"`
	IsProxy           bool    `json:"isProxy"`

	Share         accrual.Share   `json:"-"`
	LastClaimTime tally.TimePoint `json:"lastClaimTime"`
}

// IsEmpty returns whether the record holds nothing worth keeping.
func (v *Voter) IsEmpty() bool {
	return v.Staked == 0 &&
		v.Proxy.IsEmpty() &&
		len(v.Producers) == 0 &&
		v.LastVoteWeight == 0 &&
		v.ProxiedVoteWeight == 0 &&
		!v.IsProxy &&
		v.Share.Unpaid == 0 &&
		v.Share.Rate == 0
}

// IsRewarding returns whether the voter earns voter rewards.
func (v *Voter) IsRewarding() bool {
	return !v.Proxy.IsEmpty() || len(v.Producers) >= tally.MinRewardingProducers
}

// Weight returns the weight propagated for own stake w, including proxied weight of a proxy.
func (v *Voter) Weight(own float64) float64 {
	if v.IsProxy {
		return own + v.ProxiedVoteWeight
	}
	return own
}

type body struct {
	Owner             tally.Name
	Proxy             tally.Name
	Producers         []tally.Name
	Staked            uint64
	LastVoteWeight    uint64
	ProxiedVoteWeight uint64
	IsProxy           bool
	Share             accrual.Share
	LastClaimTime     uint64
}

func (v *Voter) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &body{
		Owner:             v.Owner,
		Proxy:             v.Proxy,
		Producers:         v.Producers,
		Staked:            uint64(v.Staked),
		LastVoteWeight:    math.Float64bits(v.LastVoteWeight),
		ProxiedVoteWeight: math.Float64bits(v.ProxiedVoteWeight),
		IsProxy:           v.IsProxy,
		Share:             v.Share,
		LastClaimTime:     uint64(v.LastClaimTime),
	})
}

func (v *Voter) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	if len(b.Producers) == 0 {
		b.Producers = nil
	}
	*v = Voter{
		Owner:             b.Owner,
		Proxy:             b.Proxy,
		Producers:         b.Producers,
		Staked:            int64(b.Staked),
		LastVoteWeight:    math.Float64frombits(b.LastVoteWeight),
		ProxiedVoteWeight: math.Float64frombits(b.ProxiedVoteWeight),
		IsProxy:           b.IsProxy,
		Share:             b.Share,
		LastClaimTime:     tally.TimePoint(b.LastClaimTime),
	}
	return nil
}
