// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/tally/tally"
)

// Transaction is an immutable signed action.
type Transaction struct {
	body   body
	action Action

	cache struct {
		id atomic.Pointer[tally.Bytes32]
	}
}

type body struct {
	Nonce   uint64
	Signer  tally.Name
	Type    Type
	Payload []byte
}

// New creates a transaction of action signed by signer.
func New(nonce uint64, signer tally.Name, action Action) (*Transaction, error) {
	payload, err := rlp.EncodeToBytes(action)
	if err != nil {
		return nil, errors.Wrap(err, "encode action")
	}
	return &Transaction{
		body: body{
			Nonce:   nonce,
			Signer:  signer,
			Type:    action.Type(),
			Payload: payload,
		},
		action: action,
	}, nil
}

// MustNew is New that panics on error.
func MustNew(nonce uint64, signer tally.Name, action Action) *Transaction {
	t, err := New(nonce, signer, action)
	if err != nil {
		panic(err)
	}
	return t
}

// ID returns the hash of the encoded transaction.
func (t *Transaction) ID() tally.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	data, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	id := tally.Blake2b(data)
	t.cache.id.Store(&id)
	return id
}

func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Signer returns the account which signed the transaction.
func (t *Transaction) Signer() tally.Name {
	return t.body.Signer
}

func (t *Transaction) Action() Action {
	return t.action
}

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	action, err := decodeAction(b.Type, b.Payload)
	if err != nil {
		return err
	}
	*t = Transaction{body: b, action: action}
	return nil
}
