// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/tally"
)

const t0 = tally.TimePoint(1_700_000_000) * tally.Second

func TestSettleIdempotent(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	sh := &Share{LastUpdated: t0}
	ChangeRate(agg, sh, t0, 2)

	Settle(agg, sh, t0+10*tally.Second)
	Settle(agg, sh, t0+10*tally.Second)
	assert.Equal(t, float64(20), sh.Unpaid)
	assert.Equal(t, float64(20), agg.Total)

	// settling backwards is a no-op
	Settle(agg, sh, t0)
	assert.Equal(t, float64(20), sh.Unpaid)
	assert.Equal(t, t0+10*tally.Second, sh.LastUpdated)
}

func TestChangeRate(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	a, b := &Share{LastUpdated: t0}, &Share{LastUpdated: t0}

	ChangeRate(agg, a, t0, 1)
	ChangeRate(agg, b, t0+5*tally.Second, 3)
	assert.Equal(t, float64(4), agg.Rate)
	assert.Equal(t, float64(5), agg.Total)

	SetRate(agg, a, t0+10*tally.Second, 0)
	assert.Equal(t, float64(3), agg.Rate)
	assert.Equal(t, float64(10), a.Unpaid)

	Settle(agg, b, t0+10*tally.Second)
	assert.Equal(t, float64(15), b.Unpaid)
	assert.Equal(t, a.Unpaid+b.Unpaid, agg.Total)
}

func TestClaim(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	a, b := &Share{LastUpdated: t0}, &Share{LastUpdated: t0}
	ChangeRate(agg, a, t0, 2)
	ChangeRate(agg, b, t0, 1)

	now := t0 + 100*tally.Second
	reward, err := Claim(agg, a, now, 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), reward)
	assert.Zero(t, a.Unpaid)
	assert.InDelta(t, 100, agg.Total, 1e-9)

	// nothing accrued since
	_, err = Claim(agg, a, now, 1000)
	assert.True(t, reverts.IsTemporal(err))

	reward, err = Claim(agg, b, now, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), reward)
	assert.InDelta(t, 0, agg.Total, 1e-9)
}

func TestClaimEmptyPool(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	sh := &Share{LastUpdated: t0}
	ChangeRate(agg, sh, t0, 1)
	reward, err := Claim(agg, sh, t0+tally.Second, 0)
	assert.NoError(t, err)
	assert.Zero(t, reward)
	assert.Zero(t, sh.Unpaid)
}

func TestExpire(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	a, b := &Share{LastUpdated: t0}, &Share{LastUpdated: t0}
	ChangeRate(agg, a, t0, 1)
	ChangeRate(agg, b, t0, 1)

	boundary := t0 + 10*tally.Second
	now := t0 + 25*tally.Second
	forfeited := Expire(agg, a, boundary, now)
	assert.Equal(t, float64(25), forfeited)
	assert.Zero(t, a.Unpaid)
	assert.Zero(t, a.Rate)
	assert.Equal(t, float64(1), agg.Rate)

	Settle(agg, b, now)
	assert.InDelta(t, b.Unpaid, agg.Total, 1e-9)

	// an expired share no longer accrues
	Settle(agg, a, now+10*tally.Second)
	assert.Zero(t, a.Unpaid)
}

func TestExpireBoundaryInFuture(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	sh := &Share{LastUpdated: t0}
	ChangeRate(agg, sh, t0, 1)
	forfeited := Expire(agg, sh, t0+100*tally.Second, t0+10*tally.Second)
	assert.Equal(t, float64(10), forfeited)
	assert.Zero(t, agg.Total)
	assert.Zero(t, agg.Rate)
}

func TestPoolShare(t *testing.T) {
	tests := []struct {
		pool        int64
		part, whole float64
		want        int64
	}{
		{1000, 1, 4, 250},
		{1000, 1, 3, 333},
		{1000, 5, 4, 1000},
		{1000, -1, 4, 0},
		{1000, 1, 0, 0},
		{0, 1, 2, 0},
		{-10, 1, 2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PoolShare(tt.pool, tt.part, tt.whole), "%+v", tt)
	}
}

func TestCheckCooldown(t *testing.T) {
	assert.NoError(t, CheckCooldown(0, t0, tally.Day))
	err := CheckCooldown(t0, t0+tally.Day-1, tally.Day)
	assert.True(t, reverts.IsTemporal(err))
	assert.NoError(t, CheckCooldown(t0, t0+tally.Day, tally.Day))
}

func TestProportionalClaims(t *testing.T) {
	agg := &Aggregate{LastUpdated: t0}
	a, b := &Share{LastUpdated: t0}, &Share{LastUpdated: t0}
	ChangeRate(agg, a, t0, 200)
	ChangeRate(agg, b, t0, 100)

	now := t0 + tally.Day
	pool := int64(3_000_000)
	ra, err := Claim(agg, a, now, pool)
	require.NoError(t, err)
	rb, err := Claim(agg, b, now, pool-ra)
	require.NoError(t, err)
	assert.InDelta(t, 2*rb, ra, 2)
}

func TestCodec(t *testing.T) {
	type record struct {
		Owner tally.Name
		Share Share
		Agg   Aggregate
	}
	in := record{
		Owner: tally.MustParseName("alice"),
		Share: Share{Unpaid: 1.5, LastUpdated: t0, Rate: math.Pi},
		Agg:   Aggregate{Total: -0.25, LastUpdated: t0 + 1, Rate: 1e300},
	}
	data, err := rlp.EncodeToBytes(&in)
	require.NoError(t, err)

	var out record
	require.NoError(t, rlp.DecodeBytes(data, &out))
	assert.Equal(t, in, out)
}

// op is a randomized operation against the engine.
type op struct {
	Entity  uint8
	Kind    uint8
	Advance uint32
	Delta   int16
	Pool    uint32
}

// TestConservation drives random operations and checks that the aggregate
// mirrors the entities at every settlement instant.
func TestConservation(t *testing.T) {
	const entities = 8
	f := fuzz.NewWithSeed(42).NilChance(0)

	for round := range 20 {
		agg := &Aggregate{LastUpdated: t0}
		shares := make([]*Share, entities)
		for i := range shares {
			shares[i] = &Share{LastUpdated: t0}
		}
		now := t0

		var ops []op
		f.NumElements(50, 200).Fuzz(&ops)

		for i, o := range ops {
			now += tally.TimePoint(o.Advance%3600) * tally.Second
			sh := shares[int(o.Entity)%entities]
			switch o.Kind % 4 {
			case 0, 1:
				delta := float64(o.Delta)
				if sh.Rate+delta < 0 {
					delta = -sh.Rate
				}
				ChangeRate(agg, sh, now, delta)
			case 2:
				_, _ = Claim(agg, sh, now, int64(o.Pool))
			case 3:
				Expire(agg, sh, now-tally.TimePoint(o.Advance%60)*tally.Second, now)
			}

			sumUnpaid, sumRate := 0.0, 0.0
			for _, s := range shares {
				Settle(agg, s, now)
				assert.GreaterOrEqual(t, s.Unpaid, float64(0))
				sumUnpaid += s.Unpaid
				sumRate += s.Rate
			}
			if !assert.InDelta(t, sumUnpaid, agg.Total, 1e-6*math.Max(1, sumUnpaid)) ||
				!assert.InDelta(t, sumRate, agg.Rate, 1e-9) {
				t.Fatalf("round %d op %d diverged\n%s", round, i, spew.Sdump(o, agg, shares))
			}
			assert.GreaterOrEqual(t, agg.Total, float64(0))
		}
	}
}
