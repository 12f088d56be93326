// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, Precondition, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_Kinds(t *testing.T) {
	tmp := NewTemporal("later")
	assert.True(t, IsTemporal(tmp))
	assert.False(t, IsIntegrity(tmp))

	integ := NewIntegrity("missing %s", "proxy")
	assert.Equal(t, "missing proxy", integ.Error())
	assert.True(t, IsIntegrity(integ))

	// wrapped reverts keep their kind
	wrapped := errors.Wrap(tmp, "claim")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, IsTemporal(wrapped))

	assert.False(t, IsTemporal(Newf("bad %d", 1)))
	assert.Equal(t, "temporal", Temporal.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
