// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producer

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/tally"
)

// Producer is a block producer candidate.
type Producer struct {
	Owner    tally.Name `json:"owner"`
	Key      string     `json:"key"` // empty once unregistered
	URL      string     `json:"url"`
	Location uint16     `json:"location"`
	IsActive bool       `json:"isActive"`

	TotalVotes    float64         `json:"totalVotes"`
	UnpaidBlocks  int64           `json:"unpaidBlocks"`
	LastClaimTime tally.TimePoint `json:"lastClaimTime"`

	// Votepay accrues the per-vote pay share at TotalVotes per second
	// while the producer keeps claiming.
	Votepay accrual.Share `json:"-"`
}

// Deactivate marks the producer inactive and clears its key.
func (p *Producer) Deactivate() {
	p.Key = ""
	p.IsActive = false
}

// AddVotes moves TotalVotes by delta, clamped at zero.
func (p *Producer) AddVotes(delta float64) {
	p.TotalVotes += delta
	if p.TotalVotes < 0 {
		p.TotalVotes = 0
	}
}

type body struct {
	Owner         tally.Name
	Key           string
	URL           string
	Location      uint16
	IsActive      bool
	TotalVotes    uint64
	UnpaidBlocks  uint64
	LastClaimTime uint64
	Votepay       accrual.Share
}

func (p *Producer) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &body{
		Owner:         p.Owner,
		Key:           p.Key,
		URL:           p.URL,
		Location:      p.Location,
		IsActive:      p.IsActive,
		TotalVotes:    math.Float64bits(p.TotalVotes),
		UnpaidBlocks:  uint64(p.UnpaidBlocks),
		LastClaimTime: uint64(p.LastClaimTime),
		Votepay:       p.Votepay,
	})
}

func (p *Producer) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*p = Producer{
		Owner:         b.Owner,
		Key:           b.Key,
		URL:           b.URL,
		Location:      b.Location,
		IsActive:      b.IsActive,
		TotalVotes:    math.Float64frombits(b.TotalVotes),
		UnpaidBlocks:  int64(b.UnpaidBlocks),
		LastClaimTime: tally.TimePoint(b.LastClaimTime),
		Votepay:       b.Votepay,
	}
	return nil
}
