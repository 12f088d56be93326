// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"time"
)

// Dev returns the genesis of a local development network.
// Durations are shortened so that refunds, claims and elections can be observed quickly.
func Dev() *Genesis {
	minActivated := int64(1)
	minPervote := int64(0)
	producer := func(name string) Account {
		return Account{
			Name:    name,
			Balance: 1_000_000_0000,
			Producer: &Producer{
				Key: "dev-key-" + name,
				URL: "http://" + name + ".local",
			},
		}
	}
	return &Genesis{
		Name:   "devnet",
		Symbol: "TLY",
		Params: Params{
			RefundDelay:        Duration(10 * time.Minute),
			ClaimCooldown:      Duration(time.Minute),
			VotepayThreshold:   Duration(time.Hour),
			ScheduleInterval:   Duration(30 * time.Second),
			MinPervoteDailyPay: &minPervote,
			MinActivatedStake:  &minActivated,
		},
		Accounts: []Account{
			producer("producer1"),
			producer("producer2"),
			producer("producer3"),
			{Name: "alice", Balance: 100_000_000_0000, Stake: 10_000_000_0000, Votes: []string{"producer1", "producer2"}},
			{Name: "bob", Balance: 100_000_000_0000, Stake: 20_000_000_0000, Proxy: "proxy"},
			{Name: "proxy", Balance: 10_000_000_0000, Stake: 1_000_000_0000, IsProxy: true, Votes: []string{"producer2", "producer3"}},
		},
	}
}
