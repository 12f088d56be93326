// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tally/tally"
)

// Global holds the contract wide counters and reward buckets.
type Global struct {
	VoterBucket    int64 `json:"voterBucket"`
	PerBlockBucket int64 `json:"perblockBucket"`
	PerVoteBucket  int64 `json:"pervoteBucket"`

	TotalUnpaidBlocks int64 `json:"totalUnpaidBlocks"`
	// TotalActivatedStake is the stake of accounts which voted at least once.
	TotalActivatedStake int64 `json:"totalActivatedStake"`
	// ThreshActivatedStakeTime is when TotalActivatedStake first reached the minimum, zero before.
	ThreshActivatedStakeTime tally.TimePoint `json:"threshActivatedStakeTime"`

	LastFill           tally.TimePoint `json:"lastPervoteBucketFill"`
	LastScheduleUpdate tally.TimePoint `json:"lastProducerScheduleUpdate"`
	LastScheduleSize   uint32          `json:"lastProducerScheduleSize"`

	TotalProducerVoteWeight float64 `json:"totalProducerVoteWeight"`
	TotalStaked             int64   `json:"totalStaked"`
}

// IsActivated returns whether the chain reached the minimum activated stake.
func (g *Global) IsActivated() bool {
	return !g.ThreshActivatedStakeTime.IsZero()
}

type body struct {
	VoterBucket              uint64
	PerBlockBucket           uint64
	PerVoteBucket            uint64
	TotalUnpaidBlocks        uint64
	TotalActivatedStake      uint64
	ThreshActivatedStakeTime uint64
	LastFill                 uint64
	LastScheduleUpdate       uint64
	LastScheduleSize         uint32
	TotalProducerVoteWeight  uint64
	TotalStaked              uint64
}

func (g *Global) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &body{
		VoterBucket:              uint64(g.VoterBucket),
		PerBlockBucket:           uint64(g.PerBlockBucket),
		PerVoteBucket:            uint64(g.PerVoteBucket),
		TotalUnpaidBlocks:        uint64(g.TotalUnpaidBlocks),
		TotalActivatedStake:      uint64(g.TotalActivatedStake),
		ThreshActivatedStakeTime: uint64(g.ThreshActivatedStakeTime),
		LastFill:                 uint64(g.LastFill),
		LastScheduleUpdate:       uint64(g.LastScheduleUpdate),
		LastScheduleSize:         g.LastScheduleSize,
		TotalProducerVoteWeight:  math.Float64bits(g.TotalProducerVoteWeight),
		TotalStaked:              uint64(g.TotalStaked),
	})
}

func (g *Global) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*g = Global{
		VoterBucket:              int64(b.VoterBucket),
		PerBlockBucket:           int64(b.PerBlockBucket),
		PerVoteBucket:            int64(b.PerVoteBucket),
		TotalUnpaidBlocks:        int64(b.TotalUnpaidBlocks),
		TotalActivatedStake:      int64(b.TotalActivatedStake),
		ThreshActivatedStakeTime: tally.TimePoint(b.ThreshActivatedStakeTime),
		LastFill:                 tally.TimePoint(b.LastFill),
		LastScheduleUpdate:       tally.TimePoint(b.LastScheduleUpdate),
		LastScheduleSize:         b.LastScheduleSize,
		TotalProducerVoteWeight:  math.Float64frombits(b.TotalProducerVoteWeight),
		TotalStaked:              int64(b.TotalStaked),
	}
	return nil
}
