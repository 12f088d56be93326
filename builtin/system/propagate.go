// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"math"

	"github.com/vechain/tally/builtin/system/producer"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/voter"
	"github.com/vechain/tally/builtin/system/weight"
	"github.com/vechain/tally/tally"
)

// maxProxyDepth is the number of registered proxy hops a weight change may travel.
// A registered proxy cannot use a proxy, so any deeper chain is corrupted state.
const maxProxyDepth = 1

// propagateWeightChange pushes the weight change of v to its proxy or producers
// and persists v with its new weight. depth is the number of registered proxy hops
// already travelled to reach v.
func (s *System) propagateWeightChange(sess *session, v *voter.Voter, depth int) error {
	// An account that stopped being a proxy keeps the weight proxied to it but no
	// longer carries it, so what leaves it is only its own change.
	if !v.IsProxy {
		depth = 0
	}
	newWeight := v.Weight(weight.Compute(v.Staked, sess.now))
	change := newWeight - v.LastVoteWeight

	if math.Abs(change) > tally.PropagationEpsilon {
		if !v.Proxy.IsEmpty() {
			if depth >= maxProxyDepth {
				return reverts.NewIntegrity("proxy chain through %v exceeds %d hop", v.Owner, maxProxyDepth)
			}
			// a former proxy left with nothing is erased, which equals a fresh record
			proxy, err := s.voters.GetOrNew(v.Proxy)
			if err != nil {
				return err
			}
			proxy.ProxiedVoteWeight += change
			if err := s.propagateWeightChange(sess, proxy, depth+1); err != nil {
				return err
			}
		} else {
			for _, name := range v.Producers {
				p, err := s.producers.Get(name)
				if err != nil {
					return err
				}
				if p == nil {
					return reverts.NewIntegrity("voted producer %v not found", name)
				}
				if err := s.addProducerVotes(sess, p, change); err != nil {
					return err
				}
			}
		}
	}

	v.LastVoteWeight = newWeight
	return s.voters.Set(v)
}

// addProducerVotes moves the votes of p and the global producer vote weight by delta,
// then persists p.
func (s *System) addProducerVotes(sess *session, p *producer.Producer, delta float64) error {
	p.AddVotes(delta)
	g := sess.global
	g.TotalProducerVoteWeight += delta
	if g.TotalProducerVoteWeight < 0 {
		g.TotalProducerVoteWeight = 0
	}
	if err := s.syncVotepay(sess, p); err != nil {
		return err
	}
	return s.producers.Update(p)
}
