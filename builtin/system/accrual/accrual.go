// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual implements lazy continuous-rate accounting.
//
// Every entity accrues Rate units per second into Unpaid. The aggregate mirrors
// the sum over all entities: Total is the sum of settled Unpaid values and Rate
// is the sum of entity rates. Settlement is linear in elapsed time, so settling
// twice at the same instant is a no-op. The aggregate is always settled before
// any entity, at the same instant.
package accrual

import (
	"math"

	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/tally"
)

// Aggregate is the global mirror of all shares of one engine.
type Aggregate struct {
	Total       float64
	LastUpdated tally.TimePoint
	Rate        float64
}

// Share is the accrual record of a single entity.
type Share struct {
	Unpaid      float64
	LastUpdated tally.TimePoint
	Rate        float64
}

// Settle brings the aggregate to now.
func (a *Aggregate) Settle(now tally.TimePoint) {
	if now > a.LastUpdated {
		if a.Rate != 0 {
			a.Total += a.Rate * now.SecondsSince(a.LastUpdated)
		}
		a.LastUpdated = now
	}
}

// Settle brings the share to now.
func (s *Share) Settle(now tally.TimePoint) {
	if now > s.LastUpdated {
		if s.Rate != 0 {
			s.Unpaid += s.Rate * now.SecondsSince(s.LastUpdated)
		}
		s.LastUpdated = now
	}
}

// ClampedTotal returns Total, or zero if rounding drove it negative.
func (a *Aggregate) ClampedTotal() float64 {
	return math.Max(a.Total, 0)
}

// Settle brings both the aggregate and the share to now, aggregate first.
func Settle(agg *Aggregate, sh *Share, now tally.TimePoint) {
	agg.Settle(now)
	sh.Settle(now)
}

// ChangeRate settles agg and sh to now, then moves the share rate by delta.
// This is the only place the aggregate rate changes.
func ChangeRate(agg *Aggregate, sh *Share, now tally.TimePoint, delta float64) {
	Settle(agg, sh, now)
	if delta == 0 {
		return
	}
	sh.Rate += delta
	agg.Rate += delta
}

// SetRate settles agg and sh to now, then sets the share rate to rate.
func SetRate(agg *Aggregate, sh *Share, now tally.TimePoint, rate float64) {
	ChangeRate(agg, sh, now, rate-sh.Rate)
}

// Claim settles agg and sh to now and drains the share.
// The reward is pool * unpaid / total, truncated toward zero and clamped to [0, pool].
// It is rejected with a temporal revert if nothing is owed.
func Claim(agg *Aggregate, sh *Share, now tally.TimePoint, pool int64) (int64, error) {
	Settle(agg, sh, now)
	if sh.Unpaid <= 0 {
		return 0, reverts.NewTemporal("nothing to claim")
	}
	reward := PoolShare(pool, sh.Unpaid, agg.ClampedTotal())
	Drain(agg, sh)
	return reward, nil
}

// Drain removes the settled unpaid amount of sh from agg and zeroes it.
func Drain(agg *Aggregate, sh *Share) {
	if sh.Unpaid > 0 {
		agg.Total -= sh.Unpaid
	}
	if agg.Total < 0 {
		agg.Total = 0
	}
	sh.Unpaid = 0
}

// Expire forfeits a share whose rate stopped counting at boundary.
// The share is settled to boundary, then everything it contributed to the
// aggregate, including what the aggregate over-accrued after boundary, is
// removed. The rate is withdrawn from the aggregate. The forfeited amount is returned.
func Expire(agg *Aggregate, sh *Share, boundary, now tally.TimePoint) float64 {
	agg.Settle(now)
	if boundary > now {
		boundary = now
	}
	sh.Settle(boundary)

	// the aggregate kept accruing the share rate from boundary to now
	over := 0.0
	if sh.Rate != 0 && now > sh.LastUpdated {
		over = sh.Rate * now.SecondsSince(sh.LastUpdated)
	}
	forfeited := math.Max(sh.Unpaid, 0) + over

	agg.Total -= forfeited
	if agg.Total < 0 {
		agg.Total = 0
	}
	agg.Rate -= sh.Rate

	sh.Unpaid = 0
	sh.Rate = 0
	sh.LastUpdated = now
	return forfeited
}

// PoolShare returns pool * part / whole truncated toward zero, clamped to [0, pool].
// Negative inputs are clamped to zero before scaling.
func PoolShare(pool int64, part, whole float64) int64 {
	if pool <= 0 || part <= 0 || whole <= 0 {
		return 0
	}
	if part >= whole {
		return pool
	}
	v := int64(float64(pool) * (part / whole))
	if v < 0 {
		return 0
	}
	if v > pool {
		return pool
	}
	return v
}

// CheckCooldown rejects with a temporal revert if less than cooldown elapsed since last.
// A zero last means never claimed.
func CheckCooldown(last, now, cooldown tally.TimePoint) error {
	if !last.IsZero() && now.Since(last) < uint64(cooldown) {
		return reverts.NewTemporal("already claimed rewards within past day")
	}
	return nil
}
