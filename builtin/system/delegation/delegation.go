// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/vechain/tally/tally"
)

// Delegation is the stake one account delegated to another, per resource class.
type Delegation struct {
	From tally.Name `json:"from"`
	To   tally.Name `json:"to"`
	Net  int64      `json:"net"`
	CPU  int64      `json:"cpu"`
}

// Total returns the stake across both resource classes.
func (d *Delegation) Total() int64 {
	return d.Net + d.CPU
}

// IsEmpty returns whether nothing is delegated.
func (d *Delegation) IsEmpty() bool {
	return d.Net == 0 && d.CPU == 0
}

// Pair is the (from, to) key of a delegation.
type Pair struct {
	From tally.Name
	To   tally.Name
}

func (p Pair) Bytes() []byte {
	return append(p.From.Bytes(), p.To.Bytes()...)
}

type body struct {
	From tally.Name
	To   tally.Name
	Net  uint64
	CPU  uint64
}
