// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package refund

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/tally"
)

var slotRefunds = storage.Slot("refunds")

// Service is the refunds table.
type Service struct {
	refunds *storage.Mapping[tally.Name, *body]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		refunds: storage.NewMapping[tally.Name, *body](sctx, slotRefunds),
	}
}

// Get returns the pending refund of owner, nil if none.
func (s *Service) Get(owner tally.Name) (*Refund, error) {
	exists, err := s.refunds.Has(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get refund")
	}
	if !exists {
		return nil, nil
	}
	b, err := s.refunds.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get refund")
	}
	return &Refund{Owner: b.Owner, Net: int64(b.Net), CPU: int64(b.CPU), RequestTime: tally.TimePoint(b.RequestTime)}, nil
}

// GetOrNew returns the pending refund of owner, or an empty one.
func (s *Service) GetOrNew(owner tally.Name) (*Refund, error) {
	r, err := s.Get(owner)
	if err != nil || r != nil {
		return r, err
	}
	return &Refund{Owner: owner}, nil
}

// Set persists r, erasing it once empty.
func (s *Service) Set(r *Refund) error {
	if r.Net < 0 || r.CPU < 0 {
		return errors.New("negative refund")
	}
	if r.IsEmpty() {
		s.refunds.Delete(r.Owner)
		return nil
	}
	if err := s.refunds.Set(r.Owner, &body{r.Owner, uint64(r.Net), uint64(r.CPU), uint64(r.RequestTime)}); err != nil {
		return errors.Wrap(err, "failed to set refund")
	}
	return nil
}
