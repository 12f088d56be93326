// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package refund

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/lvldb"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

func TestMergeUnstake(t *testing.T) {
	r := &Refund{}
	n, c := r.Merge(-100, 0, 10)
	assert.Zero(t, n)
	assert.Zero(t, c)
	assert.Equal(t, int64(100), r.Total())
	assert.Equal(t, tally.TimePoint(10), r.RequestTime)

	r.Merge(-30, -20, 20)
	assert.Equal(t, int64(130), r.Net)
	assert.Equal(t, int64(20), r.CPU)
	assert.Equal(t, tally.TimePoint(20), r.RequestTime)
	assert.Equal(t, tally.TimePoint(20)+tally.Day, r.MaturesAt(tally.Day))
}

func TestMergeRestake(t *testing.T) {
	r := &Refund{Net: 50, CPU: 10, RequestTime: 5}

	// restaking draws from the refund first and keeps the request time
	n, c := r.Merge(30, 25, 99)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(15), c)
	assert.Equal(t, int64(20), r.Net)
	assert.Zero(t, r.CPU)
	assert.Equal(t, tally.TimePoint(5), r.RequestTime)

	// mixed: unstake cpu, restake net
	n, c = r.Merge(5, -7, 100)
	assert.Zero(t, n)
	assert.Zero(t, c)
	assert.Equal(t, int64(15), r.Net)
	assert.Equal(t, int64(7), r.CPU)
	assert.Equal(t, tally.TimePoint(100), r.RequestTime)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	svc := New(storage.NewContext(tally.SystemAccount, state.New(db, nil)))
	alice := tally.MustParseName("alice")

	r, err := svc.Get(alice)
	assert.NoError(t, err)
	assert.Nil(t, r)

	r, _ = svc.GetOrNew(alice)
	r.Merge(-100, -50, 42)
	require.NoError(t, svc.Set(r))

	got, err := svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	got.Merge(100, 50, 43)
	require.NoError(t, svc.Set(got))
	got, _ = svc.Get(alice)
	assert.Nil(t, got)

	assert.Error(t, svc.Set(&Refund{Owner: alice, Net: -1}))
}
