// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/builtin/system/producer"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/voter"
	"github.com/vechain/tally/lvldb"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

func n(s string) tally.Name {
	return tally.MustParseName(s)
}

func testParams() tally.Params {
	p := tally.DefaultParams()
	p.MinActivatedStake = 100
	p.MinPervoteDailyPay = 0
	return p
}

type systemTest struct {
	*System
	t     *testing.T
	state *state.State
	now   tally.TimePoint
}

func newTest(t *testing.T) *systemTest {
	return newTestWithParams(t, testParams())
}

func newTestWithParams(t *testing.T, params tally.Params) *systemTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db, nil)

	now := tally.NewTimePoint(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sys := New(st, &params)
	require.NoError(t, sys.Initialize(now))

	return &systemTest{System: sys, t: t, state: st, now: now}
}

// apply runs fn atomically, reverting state on error. Non revert errors fail the test.
func (ts *systemTest) apply(fn func() error) error {
	cp := ts.state.NewCheckpoint()
	err := fn()
	if err != nil {
		ts.state.RevertTo(cp)
		require.True(ts.t, reverts.IsRevertErr(err), "unexpected error: %v", err)
	}
	return err
}

func (ts *systemTest) must(fn func() error) *systemTest {
	require.NoError(ts.t, ts.apply(fn))
	return ts
}

// Fund issues amount tokens to each named account.
func (ts *systemTest) Fund(amount int64, names ...string) *systemTest {
	for _, name := range names {
		ts.must(func() error { return ts.Token().Issue(n(name), amount, "fund") })
	}
	return ts
}

// Advance moves the clock by d.
func (ts *systemTest) Advance(d tally.TimePoint) *systemTest {
	ts.now += d
	return ts
}

// ProcessDue executes every deferred entry due at the current time.
func (ts *systemTest) ProcessDue() *systemTest {
	for {
		e, err := ts.PopDue(ts.now)
		require.NoError(ts.t, err)
		if e == nil {
			return ts
		}
		ts.must(func() error { return ts.ProcessDeferred(e, ts.now) })
	}
}

// Stake delegates amount of name to itself, split over both resource classes.
func (ts *systemTest) Stake(name string, amount int64) *systemTest {
	return ts.must(func() error {
		return ts.Delegate(n(name), n(name), amount/2, amount-amount/2, false, ts.now)
	})
}

func (ts *systemTest) RegProd(names ...string) *systemTest {
	for _, name := range names {
		ts.must(func() error { return ts.RegProducer(n(name), "key-"+name, "https://"+name, 0, ts.now) })
	}
	return ts
}

func (ts *systemTest) Vote(name string, producers ...string) *systemTest {
	names := make(tally.Names, 0, len(producers))
	for _, p := range producers {
		names = append(names, n(p))
	}
	return ts.must(func() error { return ts.VoteProducer(n(name), 0, names, ts.now) })
}

func (ts *systemTest) UseProxy(name, proxy string) *systemTest {
	return ts.must(func() error { return ts.VoteProducer(n(name), n(proxy), nil, ts.now) })
}

func (ts *systemTest) Balance(name string) int64 {
	b, err := ts.Token().Balance(n(name))
	require.NoError(ts.t, err)
	return b
}

func (ts *systemTest) AssertBalance(name string, want int64) *systemTest {
	assert.Equal(ts.t, want, ts.Balance(name), "balance of %s", name)
	return ts
}

func (ts *systemTest) AssertActivated(want bool) *systemTest {
	g, err := ts.Global()
	require.NoError(ts.t, err)
	assert.Equal(ts.t, want, g.IsActivated())
	return ts
}

func (ts *systemTest) producer(name string) *producer.Producer {
	p, err := ts.Producer(n(name))
	require.NoError(ts.t, err)
	require.NotNil(ts.t, p, "producer %s", name)
	return p
}

func (ts *systemTest) voter(name string) *voter.Voter {
	v, err := ts.Voter(n(name))
	require.NoError(ts.t, err)
	require.NotNil(ts.t, v, "voter %s", name)
	return v
}

func assertKind(t *testing.T, err error, kind reverts.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := reverts.KindOf(err)
	require.True(t, ok, "not a revert: %v", err)
	assert.Equal(t, kind, got, "kind of %v", err)
}
