// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/lvldb"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return New(storage.NewContext(tally.SystemAccount, state.New(db, nil)))
}

func TestService(t *testing.T) {
	svc := newService(t)
	alice := tally.MustParseName("alice")

	v, err := svc.Get(alice)
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = svc.GetOrNew(alice)
	require.NoError(t, err)
	assert.Equal(t, alice, v.Owner)

	v.Staked = 100
	v.LastVoteWeight = 123.5
	v.Producers = tally.Names{tally.MustParseName("bp1"), tally.MustParseName("bp2")}
	v.Share = accrual.Share{Unpaid: 0.5, LastUpdated: 10, Rate: 123.5}
	v.LastClaimTime = 7
	require.NoError(t, svc.Set(v))

	got, err := svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	// an emptied record is erased
	*got = Voter{Owner: alice}
	require.NoError(t, svc.Set(got))
	got, err = svc.Get(alice)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestVoterRules(t *testing.T) {
	v := &Voter{Owner: tally.MustParseName("alice")}
	assert.True(t, v.IsEmpty())
	assert.False(t, v.IsRewarding())

	for i := range tally.MinRewardingProducers {
		v.Producers = append(v.Producers, tally.Name(i+1))
	}
	assert.True(t, v.IsRewarding())
	assert.False(t, v.IsEmpty())

	v.Producers = nil
	v.Proxy = tally.MustParseName("proxy")
	assert.True(t, v.IsRewarding())

	assert.Equal(t, float64(10), v.Weight(10))
	v.IsProxy = true
	v.ProxiedVoteWeight = 5
	assert.Equal(t, float64(15), v.Weight(10))
}
