// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

func TestLazyLogger(t *testing.T) {
	old := ethlog.Root()
	defer ethlog.SetDefault(old)

	// created before the handler is installed
	logger := WithContext("pkg", "test").With("sub", "x")

	buf := new(bytes.Buffer)
	Install(buf, LevelDebug, true, false)

	logger.Debug("hello", "k", 1)
	logger.Trace("dropped")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"pkg":"test"`)
	assert.Contains(t, out, `"sub":"x"`)
	assert.NotContains(t, out, "dropped")

	buf.Reset()
	Discard()
	logger.Error("silent")
	assert.Empty(t, buf.String())
}
