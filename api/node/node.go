// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/tally/api/utils"
	"github.com/vechain/tally/builtin/system"
	"github.com/vechain/tally/genesis"
	"github.com/vechain/tally/host"
)

// Status reports the progress of the host.
type Status interface {
	Head() host.Head
	Genesis() *genesis.Genesis
	View(fn func(sys *system.System) error) error
}

// Summary counts the rows the host is tracking at its head.
type Summary struct {
	Head      host.Head `json:"head"`
	Producers uint64    `json:"producers"`
	Deferred  uint64    `json:"deferred"`
}

type Node struct {
	status Status
}

func New(status Status) *Node {
	return &Node{status}
}

func (n *Node) handleGetHead(w http.ResponseWriter, _ *http.Request) error {
	head := n.status.Head()
	return utils.WriteJSON(w, &head)
}

func (n *Node) handleGetGenesis(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.status.Genesis())
}

func (n *Node) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	var summary Summary
	if err := n.status.View(func(sys *system.System) (err error) {
		if summary.Producers, err = sys.ProducerCount(); err != nil {
			return err
		}
		summary.Deferred, err = sys.PendingDeferred()
		return err
	}); err != nil {
		return err
	}
	summary.Head = n.status.Head()
	return utils.WriteJSON(w, &summary)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(n.handleGetHead))
	sub.Path("/genesis").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(n.handleGetGenesis))
	sub.Path("/status").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(n.handleGetStatus))
}
