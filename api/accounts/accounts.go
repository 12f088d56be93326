// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/tally/api/utils"
	"github.com/vechain/tally/builtin/system"
	"github.com/vechain/tally/builtin/system/delegation"
)

// Viewer provides read access to the committed system state.
type Viewer interface {
	View(fn func(sys *system.System) error) error
}

type Accounts struct {
	viewer Viewer
}

func New(viewer Viewer) *Accounts {
	return &Accounts{viewer}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	name, err := utils.NameVar(req, "name")
	if err != nil {
		return err
	}
	acc := &Account{Name: name}
	if err := a.viewer.View(func(sys *system.System) error {
		if acc.Balance, err = sys.Token().Balance(name); err != nil {
			return err
		}
		v, err := sys.Voter(name)
		if err != nil {
			return err
		}
		r, err := sys.Refund(name)
		if err != nil {
			return err
		}
		acc.Voter = convertVoter(v)
		acc.Refund = convertRefund(r, sys.Params().RefundDelay)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetVoter(w http.ResponseWriter, req *http.Request) error {
	name, err := utils.NameVar(req, "name")
	if err != nil {
		return err
	}
	var v *Voter
	if err := a.viewer.View(func(sys *system.System) error {
		rec, err := sys.Voter(name)
		v = convertVoter(rec)
		return err
	}); err != nil {
		return err
	}
	if v == nil {
		return utils.NotFound("voter")
	}
	return utils.WriteJSON(w, v)
}

func (a *Accounts) handleGetRefund(w http.ResponseWriter, req *http.Request) error {
	name, err := utils.NameVar(req, "name")
	if err != nil {
		return err
	}
	var r *Refund
	if err := a.viewer.View(func(sys *system.System) error {
		rec, err := sys.Refund(name)
		r = convertRefund(rec, sys.Params().RefundDelay)
		return err
	}); err != nil {
		return err
	}
	if r == nil {
		return utils.NotFound("refund")
	}
	return utils.WriteJSON(w, r)
}

func (a *Accounts) handleGetDelegation(w http.ResponseWriter, req *http.Request) error {
	from, err := utils.NameVar(req, "from")
	if err != nil {
		return err
	}
	to, err := utils.NameVar(req, "to")
	if err != nil {
		return err
	}
	var d *delegation.Delegation
	if err := a.viewer.View(func(sys *system.System) (err error) {
		d, err = sys.Delegation(from, to)
		return
	}); err != nil {
		return err
	}
	if d == nil || d.IsEmpty() {
		return utils.NotFound("delegation")
	}
	return utils.WriteJSON(w, d)
}

// Mount registers the account routes at the root of the router.
func (a *Accounts) Mount(root *mux.Router) {
	root.Path("/accounts/{name}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	root.Path("/voters/{name}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetVoter))
	root.Path("/refunds/{name}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetRefund))
	root.Path("/delegations/{from}/{to}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetDelegation))
}
