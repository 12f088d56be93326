// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package system

import (
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/producer"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/builtin/system/schedule"
	"github.com/vechain/tally/tally"
)

// RegProducer registers owner as a producer candidate, or updates and
// reactivates an existing registration. Votes are kept across registrations.
func (s *System) RegProducer(owner tally.Name, key, url string, location uint16, now tally.TimePoint) error {
	if key == "" {
		return reverts.New("public key should not be the default value")
	}
	if len(url) > tally.MaxURLLength {
		return reverts.New("url too long")
	}

	sess, err := s.begin(now)
	if err != nil {
		return err
	}

	p, err := s.producers.Get(owner)
	if err != nil {
		return err
	}
	if p == nil {
		p = &producer.Producer{
			Owner:         owner,
			Key:           key,
			URL:           url,
			Location:      location,
			IsActive:      true,
			LastClaimTime: now,
			Votepay:       accrual.Share{LastUpdated: now},
		}
		if err := s.producers.Add(p); err != nil {
			return err
		}
		logger.Debug("producer registered", "owner", owner)
		return s.commit(sess)
	}

	if !p.IsActive {
		// forfeit what expired while inactive, then start a fresh claim window
		if err := s.syncVotepay(sess, p); err != nil {
			return err
		}
		if s.votepayExpired(p, now) {
			p.LastClaimTime = now
		}
	}
	p.Key = key
	p.URL = url
	p.Location = location
	p.IsActive = true
	if err := s.syncVotepay(sess, p); err != nil {
		return err
	}
	if err := s.producers.Update(p); err != nil {
		return err
	}
	logger.Debug("producer updated", "owner", owner)
	return s.commit(sess)
}

// UnregProducer deactivates owner. Its votes and unpaid share are kept.
func (s *System) UnregProducer(owner tally.Name, now tally.TimePoint) error {
	p, err := s.producers.Get(owner)
	if err != nil {
		return err
	}
	if p == nil {
		return reverts.New("producer not found")
	}
	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	p.Deactivate()
	if err := s.syncVotepay(sess, p); err != nil {
		return err
	}
	if err := s.producers.Update(p); err != nil {
		return err
	}
	logger.Debug("producer unregistered", "owner", owner)
	return s.commit(sess)
}

// OnBlock records a block produced by owner. Blocks are not counted before activation.
func (s *System) OnBlock(owner tally.Name, now tally.TimePoint) error {
	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	if !sess.global.IsActivated() {
		return nil
	}
	p, err := s.producers.Get(owner)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	p.UnpaidBlocks++
	sess.global.TotalUnpaidBlocks++
	if err := s.producers.Update(p); err != nil {
		return err
	}
	return s.commit(sess)
}

func (s *System) votepayBoundary(p *producer.Producer) tally.TimePoint {
	return p.LastClaimTime + s.params.VotepayThreshold
}

func (s *System) votepayExpired(p *producer.Producer, now tally.TimePoint) bool {
	return now >= s.votepayBoundary(p)
}

// syncVotepay forfeits the votepay share of p once its claim window has
// expired, then sets its rate to its votes while it is active and claiming.
func (s *System) syncVotepay(sess *session, p *producer.Producer) error {
	expired := s.votepayExpired(p, sess.now)
	if expired && (p.Votepay.Rate != 0 || p.Votepay.Unpaid != 0) {
		forfeited := accrual.Expire(sess.votes, &p.Votepay, s.votepayBoundary(p), sess.now)
		metricForfeited().Add(1)
		logger.Debug("votepay share expired", "producer", p.Owner, "forfeited", forfeited)
	}
	rate := 0.0
	if p.IsActive && !expired {
		rate = p.TotalVotes
	}
	accrual.SetRate(sess.votes, &p.Votepay, sess.now, rate)
	return nil
}

// runElection syncs every producer share and installs the top producers
// as the new schedule. The next election is always scheduled.
func (s *System) runElection(now tally.TimePoint) error {
	sess, err := s.begin(now)
	if err != nil {
		return err
	}
	if sess.global.IsActivated() {
		if err := s.producers.Iter(func(p *producer.Producer) error {
			if err := s.syncVotepay(sess, p); err != nil {
				return err
			}
			return s.producers.Update(p)
		}); err != nil {
			return err
		}
		elected, changed, err := s.producers.Elect(tally.MaxProducers)
		if err != nil {
			return err
		}
		if changed {
			sess.global.LastScheduleSize = uint32(len(elected))
			metricElections().Add(1)
			logger.Info("new producer schedule", "size", len(elected), "producers", elected)
		}
	}
	sess.global.LastScheduleUpdate = now
	if err := s.commit(sess); err != nil {
		return err
	}
	_, err = s.queue.Schedule(schedule.KindElection, tally.SystemAccount, now+s.params.ScheduleInterval)
	return err
}
