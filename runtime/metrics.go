// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/tally/metrics"

var (
	metricTxCount       = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"action", "outcome"})
	metricApplyDuration = metrics.LazyLoadHistogramVec(
		"runtime_apply_duration_us", []string{"action"}, metrics.BucketApplyMicros,
	)
)
