// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/tally"
)

var slotDelegations = storage.Slot("delegations")

// Service is the delegations table.
type Service struct {
	delegations *storage.Mapping[Pair, *body]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		delegations: storage.NewMapping[Pair, *body](sctx, slotDelegations),
	}
}

// Get returns the delegation from -> to, a zero delegation if none.
func (s *Service) Get(from, to tally.Name) (*Delegation, error) {
	b, err := s.delegations.Get(Pair{from, to})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation")
	}
	return &Delegation{From: from, To: to, Net: int64(b.Net), CPU: int64(b.CPU)}, nil
}

// Set persists d, erasing it once empty.
func (s *Service) Set(d *Delegation) error {
	if d.Net < 0 || d.CPU < 0 {
		return errors.New("negative delegation")
	}
	key := Pair{d.From, d.To}
	if d.IsEmpty() {
		s.delegations.Delete(key)
		return nil
	}
	if err := s.delegations.Set(key, &body{d.From, d.To, uint64(d.Net), uint64(d.CPU)}); err != nil {
		return errors.Wrap(err, "failed to set delegation")
	}
	return nil
}
