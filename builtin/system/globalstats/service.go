// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/builtin/system/accrual"
)

var (
	slotGlobal            = storage.Slot("global")
	slotVoterAggregate    = storage.Slot("voter-aggregate")
	slotProducerAggregate = storage.Slot("producer-aggregate")
)

// Service manages the contract wide singletons: the global counters and
// the aggregates of the voter and producer accrual engines.
type Service struct {
	global   *storage.Raw[*Global]
	voters   *storage.Raw[*accrual.Aggregate]
	producer *storage.Raw[*accrual.Aggregate]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		global:   storage.NewRaw[*Global](sctx, slotGlobal),
		voters:   storage.NewRaw[*accrual.Aggregate](sctx, slotVoterAggregate),
		producer: storage.NewRaw[*accrual.Aggregate](sctx, slotProducerAggregate),
	}
}

func (s *Service) Global() (*Global, error) {
	g, err := s.global.Get()
	return g, errors.Wrap(err, "failed to get global")
}

func (s *Service) SetGlobal(g *Global) error {
	return errors.Wrap(s.global.Set(g), "failed to set global")
}

// VoterAggregate returns the aggregate of voter reward shares.
func (s *Service) VoterAggregate() (*accrual.Aggregate, error) {
	a, err := s.voters.Get()
	return a, errors.Wrap(err, "failed to get voter aggregate")
}

func (s *Service) SetVoterAggregate(a *accrual.Aggregate) error {
	return errors.Wrap(s.voters.Set(a), "failed to set voter aggregate")
}

// ProducerAggregate returns the aggregate of producer votepay shares.
func (s *Service) ProducerAggregate() (*accrual.Aggregate, error) {
	a, err := s.producer.Get()
	return a, errors.Wrap(err, "failed to get producer aggregate")
}

func (s *Service) SetProducerAggregate(a *accrual.Aggregate) error {
	return errors.Wrap(s.producer.Set(a), "failed to set producer aggregate")
}
