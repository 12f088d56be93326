// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/tally/tally"
)

// Type identifies the kind of an action.
type Type uint8

const (
	TypeDelegate Type = iota + 1
	TypeUndelegate
	TypeClaimRefund
	TypeVoteProducer
	TypeRegProxy
	TypeRegProducer
	TypeUnregProducer
	TypeClaimProducerReward
	TypeClaimVoterReward
	TypeOnBlock
)

var typeNames = map[Type]string{
	TypeDelegate:            "delegate",
	TypeUndelegate:          "undelegate",
	TypeClaimRefund:         "claimRefund",
	TypeVoteProducer:        "voteProducer",
	TypeRegProxy:            "regProxy",
	TypeRegProducer:         "regProducer",
	TypeUnregProducer:       "unregProducer",
	TypeClaimProducerReward: "claimProducerReward",
	TypeClaimVoterReward:    "claimVoterReward",
	TypeOnBlock:             "onBlock",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseType returns the type named name.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown action type %q", name)
}

// Action is an entry point of the system contract. The set of actions is closed.
type Action interface {
	Type() Type
	// Authorizer is the account which must sign the action.
	Authorizer() tally.Name
	sealed()
}

// Delegate stakes tokens of From to Receiver.
type Delegate struct {
	From     tally.Name `json:"from"`
	Receiver tally.Name `json:"receiver"`
	Net      uint64     `json:"net"`
	CPU      uint64     `json:"cpu"`
	Transfer bool       `json:"transfer"`
}

// Undelegate unstakes tokens delegated from From to Receiver.
type Undelegate struct {
	From     tally.Name `json:"from"`
	Receiver tally.Name `json:"receiver"`
	Net      uint64     `json:"net"`
	CPU      uint64     `json:"cpu"`
}

// ClaimRefund pays back a matured refund.
type ClaimRefund struct {
	Owner tally.Name `json:"owner"`
}

// VoteProducer votes for a proxy or for a list of producers.
type VoteProducer struct {
	Voter     tally.Name  `json:"voter"`
	Proxy     tally.Name  `json:"proxy"`
	Producers tally.Names `json:"producers"`
}

// RegProxy registers or unregisters a proxy.
type RegProxy struct {
	Proxy   tally.Name `json:"proxy"`
	IsProxy bool       `json:"isProxy"`
}

// RegProducer registers a producer candidate.
type RegProducer struct {
	Producer tally.Name `json:"producer"`
	Key      string     `json:"key"`
	URL      string     `json:"url"`
	Location uint16     `json:"location"`
}

// UnregProducer deactivates a producer.
type UnregProducer struct {
	Producer tally.Name `json:"producer"`
}

// ClaimProducerReward pays the per-block and per-vote pay of a producer.
type ClaimProducerReward struct {
	Owner tally.Name `json:"owner"`
}

// ClaimVoterReward pays the voter reward of an account.
type ClaimVoterReward struct {
	Owner tally.Name `json:"owner"`
}

// OnBlock reports the producer of a block. Only the system account may send it.
type OnBlock struct {
	Producer tally.Name `json:"producer"`
}

func (*Delegate) Type() Type            { return TypeDelegate }
func (*Undelegate) Type() Type          { return TypeUndelegate }
func (*ClaimRefund) Type() Type         { return TypeClaimRefund }
func (*VoteProducer) Type() Type        { return TypeVoteProducer }
func (*RegProxy) Type() Type            { return TypeRegProxy }
func (*RegProducer) Type() Type         { return TypeRegProducer }
func (*UnregProducer) Type() Type       { return TypeUnregProducer }
func (*ClaimProducerReward) Type() Type { return TypeClaimProducerReward }
func (*ClaimVoterReward) Type() Type    { return TypeClaimVoterReward }
func (*OnBlock) Type() Type             { return TypeOnBlock }

func (a *Delegate) Authorizer() tally.Name            { return a.From }
func (a *Undelegate) Authorizer() tally.Name          { return a.From }
func (a *ClaimRefund) Authorizer() tally.Name         { return a.Owner }
func (a *VoteProducer) Authorizer() tally.Name        { return a.Voter }
func (a *RegProxy) Authorizer() tally.Name            { return a.Proxy }
func (a *RegProducer) Authorizer() tally.Name         { return a.Producer }
func (a *UnregProducer) Authorizer() tally.Name       { return a.Producer }
func (a *ClaimProducerReward) Authorizer() tally.Name { return a.Owner }
func (a *ClaimVoterReward) Authorizer() tally.Name    { return a.Owner }
func (a *OnBlock) Authorizer() tally.Name             { return tally.SystemAccount }

func (*Delegate) sealed()            {}
func (*Undelegate) sealed()          {}
func (*ClaimRefund) sealed()         {}
func (*VoteProducer) sealed()        {}
func (*RegProxy) sealed()            {}
func (*RegProducer) sealed()         {}
func (*UnregProducer) sealed()       {}
func (*ClaimProducerReward) sealed() {}
func (*ClaimVoterReward) sealed()    {}
func (*OnBlock) sealed()             {}

// newAction allocates an empty action of type t.
func newAction(t Type) (Action, error) {
	switch t {
	case TypeDelegate:
		return &Delegate{}, nil
	case TypeUndelegate:
		return &Undelegate{}, nil
	case TypeClaimRefund:
		return &ClaimRefund{}, nil
	case TypeVoteProducer:
		return &VoteProducer{}, nil
	case TypeRegProxy:
		return &RegProxy{}, nil
	case TypeRegProducer:
		return &RegProducer{}, nil
	case TypeUnregProducer:
		return &UnregProducer{}, nil
	case TypeClaimProducerReward:
		return &ClaimProducerReward{}, nil
	case TypeClaimVoterReward:
		return &ClaimVoterReward{}, nil
	case TypeOnBlock:
		return &OnBlock{}, nil
	}
	return nil, errors.Errorf("unknown action type %d", t)
}

func decodeAction(t Type, payload []byte) (Action, error) {
	a, err := newAction(t)
	if err != nil {
		return nil, err
	}
	if err := rlp.DecodeBytes(payload, a); err != nil {
		return nil, errors.Wrapf(err, "decode %v", t)
	}
	return a, nil
}

// DecodeActionJSON decodes the JSON form of an action of the named type.
func DecodeActionJSON(name string, data []byte) (Action, error) {
	t, err := ParseType(name)
	if err != nil {
		return nil, err
	}
	a, err := newAction(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, errors.Wrapf(err, "decode %v", t)
	}
	return a, nil
}
