// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/tally"
)

var slotVoters = storage.Slot("voters")

// Service is the voters table.
type Service struct {
	voters *storage.Mapping[tally.Name, *Voter]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		voters: storage.NewMapping[tally.Name, *Voter](sctx, slotVoters),
	}
}

// Get returns the voter record, nil if absent.
func (s *Service) Get(owner tally.Name) (*Voter, error) {
	exists, err := s.voters.Has(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voter")
	}
	if !exists {
		return nil, nil
	}
	v, err := s.voters.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voter")
	}
	return v, nil
}

// GetOrNew returns the voter record, or a fresh record for owner.
func (s *Service) GetOrNew(owner tally.Name) (*Voter, error) {
	v, err := s.Get(owner)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = &Voter{Owner: owner}
	}
	return v, nil
}

// Set persists v. Empty records are erased.
func (s *Service) Set(v *Voter) error {
	if v.IsEmpty() {
		s.voters.Delete(v.Owner)
		return nil
	}
	if err := s.voters.Set(v.Owner, v); err != nil {
		return errors.Wrap(err, "failed to set voter")
	}
	return nil
}
