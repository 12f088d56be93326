// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/tally"
)

// rlp has no float support, floats are stored by their IEEE 754 bits.
type encoded struct {
	Amount      uint64
	LastUpdated uint64
	Rate        uint64
}

func (a Aggregate) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &encoded{math.Float64bits(a.Total), uint64(a.LastUpdated), math.Float64bits(a.Rate)})
}

func (a *Aggregate) DecodeRLP(s *rlp.Stream) error {
	var e encoded
	if err := s.Decode(&e); err != nil {
		return err
	}
	*a = Aggregate{math.Float64frombits(e.Amount), tally.TimePoint(e.LastUpdated), math.Float64frombits(e.Rate)}
	return nil
}

func (sh Share) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &encoded{math.Float64bits(sh.Unpaid), uint64(sh.LastUpdated), math.Float64bits(sh.Rate)})
}

func (sh *Share) DecodeRLP(s *rlp.Stream) error {
	var e encoded
	if err := s.Decode(&e); err != nil {
		return err
	}
	*sh = Share{math.Float64frombits(e.Amount), tally.TimePoint(e.LastUpdated), math.Float64frombits(e.Rate)}
	return nil
}
