// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pools computes the continuous emission and its split into reward buckets.
package pools

import (
	"math/big"

	"github.com/vechain/tally/tally"
)

// Split is the result of a single mint.
type Split struct {
	Total    int64 // newly issued tokens
	Voters   int64 // to the voter pool
	PerBlock int64 // to the per-block producer pool
	PerVote  int64 // to the per-vote producer pool
	Savings  int64 // remainder
}

// Mint computes the tokens issued over elapsed microseconds for the given supply.
//
//	total    = supply * rate * elapsed / year
//	producer = total * precision / inflationPayFactor
//	voters   = total * precision / voterPayFactor
//	perBlock = producer * precision / votepayFactor
//	perVote  = producer - perBlock
//	savings  = total - producer - voters
//
// Amounts are truncated toward zero. Nothing is minted for a non positive supply.
func Mint(supply int64, elapsed uint64, p *tally.Params) Split {
	if supply <= 0 || elapsed == 0 {
		return Split{}
	}
	total := int64(float64(supply) * float64(elapsed) * p.ContinuousRate / float64(tally.Year))
	if total <= 0 {
		return Split{}
	}

	producers := scale(total, p.InflationPayFactor)
	voters := scale(total, p.VoterPayFactor)
	if producers+voters > total {
		// misconfigured factors never mint more than total
		voters = total - producers
	}
	perBlock := scale(producers, p.VotepayFactor)

	return Split{
		Total:    total,
		Voters:   voters,
		PerBlock: perBlock,
		PerVote:  producers - perBlock,
		Savings:  total - producers - voters,
	}
}

// scale returns v * precision / factor with 128 bit intermediate.
func scale(v, factor int64) int64 {
	if factor <= 0 {
		return 0
	}
	r := new(big.Int).Mul(big.NewInt(v), big.NewInt(tally.PayFactorPrecision))
	r.Quo(r, big.NewInt(factor))
	if !r.IsInt64() || r.Int64() > v {
		return v
	}
	return r.Int64()
}

// PervotePay returns the per-vote pay of a producer, zero if below the daily minimum.
func PervotePay(pay int64, p *tally.Params) int64 {
	if pay < p.MinPervoteDailyPay {
		return 0
	}
	return pay
}
