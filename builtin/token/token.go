// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the core token ledger: balances and total supply.
package token

import (
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/storage"
	"github.com/vechain/tally/builtin/system/reverts"
	"github.com/vechain/tally/tally"
)

var (
	slotSupply   = storage.Slot("token-supply")
	slotBalances = storage.Slot("token-balances")
)

// Transfer is a movement of tokens. Issuance has an empty From.
type Transfer struct {
	From   tally.Name `json:"from"`
	To     tally.Name `json:"to"`
	Amount int64      `json:"amount"`
	Memo   string     `json:"memo"`
}

// Token is the ledger bound to a state.
type Token struct {
	supply    *storage.Raw[uint64]
	balances  *storage.Mapping[tally.Name, uint64]
	transfers []Transfer
}

func New(sctx *storage.Context) *Token {
	return &Token{
		supply:   storage.NewRaw[uint64](sctx, slotSupply),
		balances: storage.NewMapping[tally.Name, uint64](sctx, slotBalances),
	}
}

// Supply returns the total issued tokens.
func (t *Token) Supply() (int64, error) {
	s, err := t.supply.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get supply")
	}
	return int64(s), nil
}

// Balance returns the balance of owner.
func (t *Token) Balance(owner tally.Name) (int64, error) {
	b, err := t.balances.Get(owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get balance")
	}
	return int64(b), nil
}

func (t *Token) setBalance(owner tally.Name, amount int64) error {
	if amount == 0 {
		t.balances.Delete(owner)
		return nil
	}
	return errors.Wrap(t.balances.Set(owner, uint64(amount)), "failed to set balance")
}

// Issue mints amount to owner and grows the supply.
func (t *Token) Issue(to tally.Name, amount int64, memo string) error {
	if amount < 0 {
		return reverts.New("must issue positive quantity")
	}
	if amount == 0 {
		return nil
	}
	if err := t.supply.Update(func(s uint64) (uint64, error) { return s + uint64(amount), nil }); err != nil {
		return errors.Wrap(err, "failed to set supply")
	}
	bal, err := t.Balance(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, bal+amount); err != nil {
		return err
	}
	t.transfers = append(t.transfers, Transfer{To: to, Amount: amount, Memo: memo})
	return nil
}

// Transfer moves amount from one account to another.
// Zero amounts are ignored.
func (t *Token) Transfer(from, to tally.Name, amount int64, memo string) error {
	if amount < 0 {
		return reverts.New("must transfer positive quantity")
	}
	if amount == 0 {
		return nil
	}
	if from == to {
		return reverts.New("cannot transfer to self")
	}
	fromBal, err := t.Balance(from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return reverts.Newf("overdrawn balance of %v", from)
	}
	toBal, err := t.Balance(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(from, fromBal-amount); err != nil {
		return err
	}
	if err := t.setBalance(to, toBal+amount); err != nil {
		return err
	}
	t.transfers = append(t.transfers, Transfer{From: from, To: to, Amount: amount, Memo: memo})
	return nil
}

// TakeTransfers returns the recorded movements and clears the record.
func (t *Token) TakeTransfers() []Transfer {
	transfers := t.transfers
	t.transfers = nil
	return transfers
}
