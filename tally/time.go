// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tally

import "time"

// TimePoint is a chain timestamp in microseconds since the unix epoch.
type TimePoint uint64

// Duration constants in microseconds.
const (
	Microsecond TimePoint = 1
	Millisecond           = 1000 * Microsecond
	Second                = 1000 * Millisecond
	Minute                = 60 * Second
	Hour                  = 60 * Minute
	Day                   = 24 * Hour
	Week                  = 7 * Day
	Year                  = 52 * Week
)

// NewTimePoint converts wall clock time into TimePoint.
func NewTimePoint(t time.Time) TimePoint {
	if t.Before(time.Unix(0, 0)) {
		return 0
	}
	return TimePoint(t.UnixMicro())
}

// Time converts the time point into wall clock time.
func (t TimePoint) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// IsZero returns whether the time point is unset.
func (t TimePoint) IsZero() bool {
	return t == 0
}

// Since returns microseconds elapsed from earlier to t, or 0 if earlier is not before t.
func (t TimePoint) Since(earlier TimePoint) uint64 {
	if t <= earlier {
		return 0
	}
	return uint64(t - earlier)
}

// SecondsSince returns the elapsed time from earlier to t as floating seconds.
// Elapsed time is measured in whole microseconds before conversion.
func (t TimePoint) SecondsSince(earlier TimePoint) float64 {
	return float64(t.Since(earlier)) / 1e6
}

func (t TimePoint) String() string {
	return t.Time().Format(time.RFC3339Nano)
}
