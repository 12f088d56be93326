// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/tally/api/utils"
	"github.com/vechain/tally/host"
	"github.com/vechain/tally/tally"
	"github.com/vechain/tally/tx"
)

// Pool accepts transactions and keeps their receipts.
type Pool interface {
	Submit(trx *tx.Transaction) (*tx.Receipt, error)
	Receipt(id tally.Bytes32) (*tx.Receipt, error)
}

// SendTx is the body of a transaction submission.
// Either Raw carries the rlp encoded transaction, or the remaining fields describe it.
type SendTx struct {
	Raw    string          `json:"raw,omitempty"`
	Nonce  uint64          `json:"nonce"`
	Signer tally.Name      `json:"signer"`
	Type   string          `json:"type"`
	Action json.RawMessage `json:"action"`
}

func (s *SendTx) decode() (*tx.Transaction, error) {
	if s.Raw != "" {
		data, err := hexutil.Decode(s.Raw)
		if err != nil {
			return nil, errors.WithMessage(err, "raw")
		}
		var trx tx.Transaction
		if err := rlp.DecodeBytes(data, &trx); err != nil {
			return nil, errors.WithMessage(err, "raw")
		}
		return &trx, nil
	}
	action, err := tx.DecodeActionJSON(s.Type, s.Action)
	if err != nil {
		return nil, errors.WithMessage(err, "action")
	}
	return tx.New(s.Nonce, s.Signer, action)
}

type Transactions struct {
	pool Pool
}

func New(pool Pool) *Transactions {
	return &Transactions{pool}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body SendTx
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err, "body")
	}
	trx, err := body.decode()
	if err != nil {
		return utils.BadRequest(err, "bad tx")
	}
	receipt, err := t.pool.Submit(trx)
	if err != nil {
		if errors.Is(err, host.ErrKnownTx) || errors.Is(err, host.ErrSystemSigner) {
			return utils.Forbidden(err)
		}
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := tally.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(err, "id")
	}
	receipt, err := t.pool.Receipt(txID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}/receipt").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
