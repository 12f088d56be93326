// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package weight converts stake into vote weight. Weight doubles every
// WeeksPerWeightPeriod whole weeks since VoteWeightEpoch.
package weight

import (
	"math"

	"github.com/vechain/tally/tally"
)

// Multiplier returns the time factor applied to stake at now.
func Multiplier(now tally.TimePoint) float64 {
	weeks := now.Since(tally.VoteWeightEpoch) / uint64(tally.Week)
	return math.Pow(2, float64(weeks)/tally.WeeksPerWeightPeriod)
}

// Compute returns the vote weight of staked at now.
// Non positive stakes yield non positive weights.
func Compute(staked int64, now tally.TimePoint) float64 {
	return float64(staked) * Multiplier(now)
}
