// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/tally/tally"
)

// Transfer is a token movement made by a transaction.
type Transfer struct {
	From   tally.Name `json:"from"`
	To     tally.Name `json:"to"`
	Amount uint64     `json:"amount"`
	Memo   string     `json:"memo"`
}

// Receipt is the outcome of an applied transaction or deferred action.
type Receipt struct {
	TxID      tally.Bytes32   `json:"txID"`
	Action    string          `json:"action"`
	Signer    tally.Name      `json:"signer"`
	Timestamp tally.TimePoint `json:"timestamp"`
	Reverted  bool            `json:"reverted"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"errorKind,omitempty"`
	Transfers []*Transfer     `json:"transfers"`
}

// Receipts is a list of receipts.
type Receipts []*Receipt
