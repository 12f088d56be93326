// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

// Context binds storage abstractions to the state of one builtin contract.
type Context struct {
	contract tally.Name
	state    *state.State
}

func NewContext(contract tally.Name, state *state.State) *Context {
	return &Context{
		contract: contract,
		state:    state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Contract() tally.Name {
	return c.contract
}
