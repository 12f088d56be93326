// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tally

// Constants of the protocol.
const (
	MaxVoteProducers      = 30 // max producers a voter may vote for
	MinRewardingProducers = 16 // producers a voter must vote for to earn voter rewards without proxy
	MaxProducers          = 21 // size of the elected producer schedule
	MaxURLLength          = 512

	WeeksPerWeightPeriod = 52  // weeks for vote weight to double
	PropagationEpsilon   = 1.0 // weight changes at or below this are not propagated by proxies

	PayFactorPrecision = 10000
)

// VoteWeightEpoch is the epoch of the vote weight function, 2000-01-01T00:00:00Z.
const VoteWeightEpoch TimePoint = 946684800 * Second

// System accounts.
var (
	SystemAccount  = MustParseName("tally")
	TokenAccount   = MustParseName("tally.token")
	StakeAccount   = MustParseName("tally.stake")
	VPayAccount    = MustParseName("tally.vpay")
	BPayAccount    = MustParseName("tally.bpay")
	VotersAccount  = MustParseName("tally.voters")
	SavingsAccount = MustParseName("tally.saving")
)

// Params are the tunable protocol parameters. Zero values are replaced by defaults.
type Params struct {
	RefundDelay        TimePoint `yaml:"refundDelay"`        // delay before an unstaked amount is refundable
	ClaimCooldown      TimePoint `yaml:"claimCooldown"`      // min time between two reward claims
	VotepayThreshold   TimePoint `yaml:"votepayThreshold"`   // idle time after which producer shares expire
	ScheduleInterval   TimePoint `yaml:"scheduleInterval"`   // interval of producer elections
	ContinuousRate     float64   `yaml:"continuousRate"`     // annual continuous inflation rate
	InflationPayFactor int64     `yaml:"inflationPayFactor"` // new tokens * precision / factor go to producers
	VoterPayFactor     int64     `yaml:"voterPayFactor"`     // new tokens * precision / factor go to voters
	VotepayFactor      int64     `yaml:"votepayFactor"`      // producer tokens * precision / factor go to per-block pay
	MinPervoteDailyPay int64     `yaml:"minPervoteDailyPay"` // per-vote pay below this is not paid
	MinActivatedStake  int64     `yaml:"minActivatedStake"`  // voted stake required before the chain is activated
}

// DefaultParams returns the default protocol parameters.
func DefaultParams() Params {
	return Params{
		RefundDelay:        3 * Day,
		ClaimCooldown:      Day,
		VotepayThreshold:   3 * Day,
		ScheduleInterval:   Minute,
		ContinuousRate:     0.04879,
		InflationPayFactor: 50000,
		VoterPayFactor:     25000,
		VotepayFactor:      40000,
		MinPervoteDailyPay: 100_0000,
		MinActivatedStake:  150_000_000_0000,
	}
}

// WithDefaults fills zero durations, rates and factors with default values.
// A zero MinPervoteDailyPay or MinActivatedStake is kept and disables that guard.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.RefundDelay == 0 {
		p.RefundDelay = d.RefundDelay
	}
	if p.ClaimCooldown == 0 {
		p.ClaimCooldown = d.ClaimCooldown
	}
	if p.VotepayThreshold == 0 {
		p.VotepayThreshold = d.VotepayThreshold
	}
	if p.ScheduleInterval == 0 {
		p.ScheduleInterval = d.ScheduleInterval
	}
	if p.ContinuousRate == 0 {
		p.ContinuousRate = d.ContinuousRate
	}
	if p.InflationPayFactor == 0 {
		p.InflationPayFactor = d.InflationPayFactor
	}
	if p.VoterPayFactor == 0 {
		p.VoterPayFactor = d.VoterPayFactor
	}
	if p.VotepayFactor == 0 {
		p.VotepayFactor = d.VotepayFactor
	}
	return p
}
