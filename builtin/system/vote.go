// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"sort"

	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/voter"
	"github.com/vechain/tally/builtin/system/weight"
	"github.com/vechain/tally/tally"
)

// VoteProducer sets the votes of owner, either to a proxy or to a sorted list of producers.
func (s *System) VoteProducer(owner, proxy tally.Name, producers tally.Names, now tally.TimePoint) error {
	return s.updateVotes(owner, proxy, producers, true, now)
}

type producerDelta struct {
	weight float64
	inNew  bool // the producer is in the new vote set
}

func (s *System) updateVotes(owner, proxy tally.Name, producers tally.Names, voting bool, now tally.TimePoint) error {
	if !proxy.IsEmpty() {
		if len(producers) > 0 {
			return reverts.New("cannot vote for producers and proxy at same time")
		}
		if proxy == owner {
			return reverts.New("cannot proxy to self")
		}
	} else {
		if len(producers) > tally.MaxVoteProducers {
			return reverts.New("attempt to vote for too many producers")
		}
		if !producers.IsSortedUnique() {
			return reverts.New("producer votes must be unique and sorted")
		}
	}

	v, err := s.voters.Get(owner)
	if err != nil {
		return err
	}
	if v == nil {
		return reverts.New("user must stake before they can vote")
	}
	if !proxy.IsEmpty() && v.IsProxy {
		return reverts.New("account registered as a proxy is not allowed to use a proxy")
	}

	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	g := sess.global

	// the first vote activates the stake of the voter
	if v.LastVoteWeight <= 0 {
		g.TotalActivatedStake += v.Staked
		if g.TotalActivatedStake >= s.params.MinActivatedStake && !g.IsActivated() {
			g.ThreshActivatedStakeTime = now
			g.LastFill = now
			logger.Info("chain activated", "stake", g.TotalActivatedStake)
		}
	}

	newWeight := v.Weight(weight.Compute(v.Staked, now))
	deltas := make(map[tally.Name]*producerDelta)
	delta := func(name tally.Name) *producerDelta {
		d, ok := deltas[name]
		if !ok {
			d = &producerDelta{}
			deltas[name] = d
		}
		return d
	}

	if v.LastVoteWeight > 0 {
		if !v.Proxy.IsEmpty() {
			old, err := s.voters.GetOrNew(v.Proxy)
			if err != nil {
				return err
			}
			old.ProxiedVoteWeight -= v.LastVoteWeight
			if err := s.propagateWeightChange(sess, old, 1); err != nil {
				return err
			}
		} else {
			for _, p := range v.Producers {
				delta(p).weight -= v.LastVoteWeight
			}
		}
	}

	if !proxy.IsEmpty() {
		np, err := s.voters.Get(proxy)
		if err != nil {
			return err
		}
		if np == nil {
			return reverts.New("invalid proxy specified")
		}
		if voting && !np.IsProxy {
			return reverts.New("proxy not found")
		}
		if newWeight >= 0 {
			np.ProxiedVoteWeight += newWeight
			if err := s.propagateWeightChange(sess, np, 1); err != nil {
				return err
			}
		}
	} else if newWeight >= 0 {
		for _, p := range producers {
			d := delta(p)
			d.weight += newWeight
			d.inNew = true
		}
	}

	names := make(tally.Names, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		d := deltas[name]
		p, err := s.producers.Get(name)
		if err != nil {
			return err
		}
		if p == nil {
			if d.inNew {
				return reverts.Newf("producer %v is not registered", name)
			}
			return reverts.NewIntegrity("voted producer %v not found", name)
		}
		if voting && d.inNew && !p.IsActive {
			return reverts.Newf("producer %v is not currently registered", name)
		}
		if err := s.addProducerVotes(sess, p, d.weight); err != nil {
			return err
		}
	}

	v.Proxy = proxy
	v.Producers = producers
	v.LastVoteWeight = newWeight
	refreshVoterRate(sess, v)
	if err := s.voters.Set(v); err != nil {
		return err
	}

	logger.Debug("votes updated", "voter", owner, "proxy", proxy, "producers", len(producers), "weight", newWeight)
	return s.commit(sess)
}

// RegProxy registers or unregisters owner as a proxy.
func (s *System) RegProxy(owner tally.Name, isProxy bool, now tally.TimePoint) error {
	v, err := s.voters.Get(owner)
	if err != nil {
		return err
	}
	if v == nil {
		if !isProxy {
			return reverts.New("action has no effect")
		}
		return s.voters.Set(&voter.Voter{Owner: owner, IsProxy: true})
	}

	if v.IsProxy == isProxy {
		return reverts.New("action has no effect")
	}
	if isProxy && !v.Proxy.IsEmpty() {
		return reverts.New("account that uses a proxy is not allowed to become a proxy")
	}
	v.IsProxy = isProxy

	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	if err := s.propagateWeightChange(sess, v, 0); err != nil {
		return err
	}
	logger.Debug("proxy registration changed", "owner", owner, "isProxy", isProxy)
	return s.commit(sess)
}
