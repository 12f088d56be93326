// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"math/big"

	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/pools"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/tally"
)

// fillBuckets mints the emission since the last fill and funds the reward buckets.
// The fill time only moves when something was minted, so short intervals accumulate.
func (s *System) fillBuckets(sess *session) error {
	g := sess.global
	if !g.IsActivated() {
		return nil
	}
	if g.LastFill.IsZero() {
		g.LastFill = sess.now
		return nil
	}
	supply, err := s.token.Supply()
	if err != nil {
		return err
	}
	split := pools.Mint(supply, sess.now.Since(g.LastFill), s.params)
	if split.Total <= 0 {
		return nil
	}

	if err := s.token.Issue(tally.SystemAccount, split.Total, "issue tokens for producer pay and savings"); err != nil {
		return err
	}
	for _, t := range []struct {
		to     tally.Name
		amount int64
		memo   string
	}{
		{tally.SavingsAccount, split.Savings, "unallocated inflation"},
		{tally.BPayAccount, split.PerBlock, "fund per-block bucket"},
		{tally.VPayAccount, split.PerVote, "fund per-vote bucket"},
		{tally.VotersAccount, split.Voters, "fund voters bucket"},
	} {
		if err := s.token.Transfer(tally.SystemAccount, t.to, t.amount, t.memo); err != nil {
			return err
		}
	}
	g.PerBlockBucket += split.PerBlock
	g.PerVoteBucket += split.PerVote
	g.VoterBucket += split.Voters
	g.LastFill = sess.now

	metricMinted().Add(split.Total)
	logger.Debug("buckets filled", "minted", split.Total, "voters", split.Voters, "perblock", split.PerBlock, "pervote", split.PerVote)
	return nil
}

// ClaimVoterReward pays owner its share of the voter bucket.
func (s *System) ClaimVoterReward(owner tally.Name, now tally.TimePoint) error {
	v, err := s.voters.Get(owner)
	if err != nil {
		return err
	}
	if v == nil {
		return reverts.New("voter not found")
	}
	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	if !sess.global.IsActivated() {
		return reverts.NewTemporal("cannot claim rewards until the chain is activated")
	}
	if err := accrual.CheckCooldown(v.LastClaimTime, now, s.params.ClaimCooldown); err != nil {
		return err
	}
	if err := s.fillBuckets(sess); err != nil {
		return err
	}

	reward, err := accrual.Claim(sess.voters, &v.Share, now, sess.global.VoterBucket)
	if err != nil {
		return err
	}
	sess.global.VoterBucket -= reward
	v.LastClaimTime = now
	refreshVoterRate(sess, v)
	if err := s.voters.Set(v); err != nil {
		return err
	}
	if err := s.token.Transfer(tally.VotersAccount, owner, reward, "voter reward"); err != nil {
		return err
	}

	metricClaims().AddWithLabel(1, map[string]string{"kind": "voter"})
	logger.Info("voter reward claimed", "owner", owner, "amount", reward)
	return s.commit(sess)
}

// ClaimProducerReward pays owner its per-block and per-vote pay.
// A claim also renews the votepay window of the producer.
func (s *System) ClaimProducerReward(owner tally.Name, now tally.TimePoint) error {
	p, err := s.producers.Get(owner)
	if err != nil {
		return err
	}
	if p == nil {
		return reverts.New("producer not found")
	}
	if !p.IsActive {
		return reverts.New("producer does not have an active key")
	}
	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	g := sess.global
	if !g.IsActivated() {
		return reverts.NewTemporal("cannot claim rewards until the chain is activated")
	}
	if err := accrual.CheckCooldown(p.LastClaimTime, now, s.params.ClaimCooldown); err != nil {
		return err
	}
	if err := s.fillBuckets(sess); err != nil {
		return err
	}

	expired := s.votepayExpired(p, now)
	if err := s.syncVotepay(sess, p); err != nil {
		return err
	}
	if !expired && p.Votepay.Unpaid <= 0 && p.UnpaidBlocks == 0 {
		return reverts.NewTemporal("nothing to claim")
	}

	var perBlock int64
	if g.TotalUnpaidBlocks > 0 {
		pay := new(big.Int).Mul(big.NewInt(g.PerBlockBucket), big.NewInt(p.UnpaidBlocks))
		perBlock = pay.Quo(pay, big.NewInt(g.TotalUnpaidBlocks)).Int64()
	}
	share := accrual.PoolShare(g.PerVoteBucket, p.Votepay.Unpaid, sess.votes.ClampedTotal())
	accrual.Drain(sess.votes, &p.Votepay)
	perVote := pools.PervotePay(share, s.params)

	g.PerBlockBucket -= perBlock
	g.PerVoteBucket -= perVote
	g.TotalUnpaidBlocks -= p.UnpaidBlocks
	p.UnpaidBlocks = 0
	p.LastClaimTime = now
	if err := s.syncVotepay(sess, p); err != nil {
		return err
	}
	if err := s.producers.Update(p); err != nil {
		return err
	}

	if err := s.token.Transfer(tally.BPayAccount, owner, perBlock, "producer block pay"); err != nil {
		return err
	}
	if err := s.token.Transfer(tally.VPayAccount, owner, perVote, "producer vote pay"); err != nil {
		return err
	}

	metricClaims().AddWithLabel(1, map[string]string{"kind": "producer"})
	logger.Info("producer reward claimed", "owner", owner, "perblock", perBlock, "pervote", perVote)
	return s.commit(sess)
}
