// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/weight"
	"github.com/vechain/tally/tally"
)

func TestVoteValidation(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice", "bob").RegProd("prod1", "prod2").Stake("alice", 100)

	tests := []struct {
		name      string
		voter     string
		proxy     string
		producers tally.Names
		want      string
	}{
		{"proxy and producers", "alice", "bob", tally.Names{n("prod1")}, "cannot vote for producers and proxy at same time"},
		{"proxy to self", "alice", "alice", nil, "cannot proxy to self"},
		{"unsorted", "alice", "", tally.Names{n("prod2"), n("prod1")}, "producer votes must be unique and sorted"},
		{"duplicated", "alice", "", tally.Names{n("prod1"), n("prod1")}, "producer votes must be unique and sorted"},
		{"not staked", "bob", "", tally.Names{n("prod1")}, "user must stake before they can vote"},
		{"unknown producer", "alice", "", tally.Names{n("prod3")}, "producer prod3 is not registered"},
		{"unknown proxy", "alice", "carol", nil, "invalid proxy specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var proxy tally.Name
			if tt.proxy != "" {
				proxy = n(tt.proxy)
			}
			err := ts.apply(func() error { return ts.VoteProducer(n(tt.voter), proxy, tt.producers, ts.now) })
			assert.EqualError(t, err, tt.want)
			assertKind(t, err, reverts.Precondition)
		})
	}
}

func TestVoteTooManyProducers(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice").Stake("alice", 100)

	var producers tally.Names
	for i := range tally.MaxVoteProducers + 1 {
		producers = append(producers, n(fmt.Sprintf("prod%c%c", 'a'+i/26, 'a'+i%26)))
	}
	err := ts.apply(func() error { return ts.VoteProducer(n("alice"), 0, producers, ts.now) })
	assert.EqualError(t, err, "attempt to vote for too many producers")
}

func TestVoteInactiveProducer(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice").RegProd("prod1").Stake("alice", 100)
	ts.must(func() error { return ts.UnregProducer(n("prod1"), ts.now) })

	err := ts.apply(func() error { return ts.VoteProducer(n("alice"), 0, tally.Names{n("prod1")}, ts.now) })
	assert.EqualError(t, err, "producer prod1 is not currently registered")
}

func TestVoteMovesWeight(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice").RegProd("prod1", "prod2").Stake("alice", 100)

	ts.Vote("alice", "prod1")
	w := weight.Compute(100, ts.now)
	assert.Equal(t, w, ts.producer("prod1").TotalVotes)
	assert.Equal(t, w, ts.voter("alice").LastVoteWeight)

	ts.Vote("alice", "prod2")
	assert.Equal(t, 0.0, ts.producer("prod1").TotalVotes)
	assert.Equal(t, w, ts.producer("prod2").TotalVotes)

	ts.Vote("alice", "prod1", "prod2")
	assert.Equal(t, w, ts.producer("prod1").TotalVotes)
	assert.Equal(t, w, ts.producer("prod2").TotalVotes)

	g, err := ts.Global()
	require.NoError(t, err)
	assert.InEpsilon(t, 2*w, g.TotalProducerVoteWeight, 1e-12)
}

func TestVoteWeightGrowsOverTime(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice").RegProd("prod1").Stake("alice", 100).Vote("alice", "prod1")
	before := ts.producer("prod1").TotalVotes

	ts.Advance(tally.WeeksPerWeightPeriod*tally.Week).Vote("alice", "prod1")
	assert.InEpsilon(t, 2*before, ts.producer("prod1").TotalVotes, 1e-12)
}

func TestActivation(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice", "bob").RegProd("prod1").Stake("alice", 60).Stake("bob", 60)

	ts.Vote("alice", "prod1").AssertActivated(false)
	ts.Vote("bob", "prod1").AssertActivated(true)

	g, err := ts.Global()
	require.NoError(t, err)
	assert.Equal(t, int64(120), g.TotalActivatedStake)
	assert.Equal(t, ts.now, g.ThreshActivatedStakeTime)
	assert.Equal(t, ts.now, g.LastFill)
}

func TestProxyRepropagation(t *testing.T) {
	ts := newTest(t).Fund(10000, "alice", "proxy1").RegProd("prod1", "prod2").
		Stake("proxy1", 1000).Stake("alice", 100)

	ts.must(func() error { return ts.RegProxy(n("proxy1"), true, ts.now) })
	ts.Vote("proxy1", "prod1")
	own := weight.Compute(1000, ts.now)
	assert.InEpsilon(t, own, ts.producer("prod1").TotalVotes, 1e-12)

	ts.UseProxy("alice", "proxy1")
	w := weight.Compute(100, ts.now)
	assert.InEpsilon(t, w, ts.voter("proxy1").ProxiedVoteWeight, 1e-12)
	assert.InEpsilon(t, own+w, ts.producer("prod1").TotalVotes, 1e-12)

	// a stake change of the proxied voter reaches the producers of the proxy
	ts.Stake("alice", 100)
	assert.InEpsilon(t, own+2*w, ts.producer("prod1").TotalVotes, 1e-12)

	// the proxy changing its votes carries the proxied weight
	ts.Vote("proxy1", "prod2")
	assert.InDelta(t, 0, ts.producer("prod1").TotalVotes, 1e-3)
	assert.InEpsilon(t, own+2*w, ts.producer("prod2").TotalVotes, 1e-12)

	// leaving the proxy removes the weight
	ts.Vote("alice", "prod1")
	assert.InDelta(t, 0, ts.voter("proxy1").ProxiedVoteWeight, 1e-3)
	assert.InEpsilon(t, own, ts.producer("prod2").TotalVotes, 1e-9)
	assert.InEpsilon(t, 2*w, ts.producer("prod1").TotalVotes, 1e-9)
}

func TestProxyRules(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice", "bob").Stake("alice", 100).Stake("bob", 100)

	err := ts.apply(func() error { return ts.VoteProducer(n("alice"), n("bob"), nil, ts.now) })
	assert.EqualError(t, err, "proxy not found")

	ts.must(func() error { return ts.RegProxy(n("bob"), true, ts.now) })
	err = ts.apply(func() error { return ts.RegProxy(n("bob"), true, ts.now) })
	assert.EqualError(t, err, "action has no effect")

	ts.UseProxy("alice", "bob")
	err = ts.apply(func() error { return ts.RegProxy(n("alice"), true, ts.now) })
	assert.EqualError(t, err, "account that uses a proxy is not allowed to become a proxy")

	err = ts.apply(func() error { return ts.VoteProducer(n("bob"), n("alice"), nil, ts.now) })
	assert.EqualError(t, err, "account registered as a proxy is not allowed to use a proxy")

	err = ts.apply(func() error { return ts.RegProxy(n("carol"), false, ts.now) })
	assert.EqualError(t, err, "action has no effect")

	ts.must(func() error { return ts.RegProxy(n("carol"), true, ts.now) })
	assert.True(t, ts.voter("carol").IsProxy)
}

func TestProxyChainIntegrity(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice", "bob", "carol").Stake("alice", 100).Stake("bob", 100).Stake("carol", 100)
	ts.must(func() error { return ts.RegProxy(n("bob"), true, ts.now) })
	ts.must(func() error { return ts.RegProxy(n("carol"), true, ts.now) })
	ts.UseProxy("alice", "bob")

	// corrupt the record of the proxy to point at another proxy
	bob := ts.voter("bob")
	bob.Proxy = n("carol")
	require.NoError(t, ts.voters.Set(bob))

	err := ts.apply(func() error { return ts.Delegate(n("alice"), n("alice"), 50, 50, false, ts.now) })
	assert.True(t, reverts.IsIntegrity(err), "got %v", err)
}

func TestUnregisteredProxyUsingProxy(t *testing.T) {
	ts := newTest(t).Fund(2_000_000, "alice", "bob", "carol").RegProd("prod1").
		Stake("alice", 1_000_000).Stake("bob", 1_000_000).Stake("carol", 1_000_000)

	ts.must(func() error { return ts.RegProxy(n("bob"), true, ts.now) })
	ts.must(func() error { return ts.RegProxy(n("carol"), true, ts.now) })
	ts.Vote("carol", "prod1")
	ts.UseProxy("alice", "bob")

	// bob stops being a proxy while alice still points at him, then uses a proxy himself
	ts.must(func() error { return ts.RegProxy(n("bob"), false, ts.now) })
	ts.UseProxy("bob", "carol")
	ts.Advance(8 * tally.Day)

	ts.must(func() error { return ts.Undelegate(n("alice"), n("alice"), 10, 10, ts.now) })
	ts.must(func() error { return ts.Delegate(n("alice"), n("alice"), 10, 10, false, ts.now) })

	// only the own weight of bob reaches the producer of carol
	w := weight.Compute(1_000_000, ts.now)
	assert.Greater(t, w, weight.Compute(1_000_000, ts.now-8*tally.Day))
	assert.InEpsilon(t, 2*w, ts.producer("prod1").TotalVotes, 1e-9)

	ts.Vote("alice", "prod1")
	assert.InDelta(t, 0, ts.voter("bob").ProxiedVoteWeight, 1e-3)
	assert.InEpsilon(t, 3*w, ts.producer("prod1").TotalVotes, 1e-9)
}

func TestErasedFormerProxy(t *testing.T) {
	ts := newTest(t).Fund(1000, "alice", "bob").Stake("alice", 100).Stake("bob", 100)
	ts.must(func() error { return ts.RegProxy(n("bob"), true, ts.now) })
	ts.UseProxy("alice", "bob").AssertActivated(true)

	// alice keeps bob as proxy while both drain their records
	ts.must(func() error { return ts.Undelegate(n("alice"), n("alice"), 50, 50, ts.now) })
	ts.must(func() error { return ts.RegProxy(n("bob"), false, ts.now) })
	ts.must(func() error { return ts.Undelegate(n("bob"), n("bob"), 50, 50, ts.now) })
	bob, err := ts.Voter(n("bob"))
	require.NoError(t, err)
	require.Nil(t, bob)

	ts.Stake("alice", 100)
	assert.InEpsilon(t, weight.Compute(100, ts.now), ts.voter("bob").ProxiedVoteWeight, 1e-12)

	// leaving the proxy drains the record again
	ts.Vote("alice")
	bob, err = ts.Voter(n("bob"))
	require.NoError(t, err)
	assert.Nil(t, bob)
}
