// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import "github.com/vechain/tally/metrics"

var (
	metricClaims    = metrics.LazyLoadCounterVec("system_claims_count", []string{"kind"})
	metricMinted    = metrics.LazyLoadCounter("pools_minted_tokens_count")
	metricElections = metrics.LazyLoadCounter("system_elections_count")
	metricForfeited = metrics.LazyLoadCounter("system_votepay_expired_count")
)
