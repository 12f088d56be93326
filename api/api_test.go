// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/api"
	"github.com/vechain/tally/api/accounts"
	"github.com/vechain/tally/api/node"
	"github.com/vechain/tally/api/producers"
	"github.com/vechain/tally/genesis"
	"github.com/vechain/tally/host"
	"github.com/vechain/tally/lvldb"
	"github.com/vechain/tally/tally"
	"github.com/vechain/tally/tx"
)

var launch = tally.NewTimePoint(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

func newServer(t *testing.T) (*httptest.Server, *host.Host) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h, err := host.New(db, genesis.Dev(), launch, host.Options{})
	require.NoError(t, err)

	handler, closeSubs := api.New(h, api.Options{AllowedOrigins: "*", EnableMetrics: true})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		h.Close()
	})
	return ts, h
}

func httpGet(t *testing.T, ts *httptest.Server, path string, v any) int {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	}
	return res.StatusCode
}

func httpPost(t *testing.T, ts *httptest.Server, path string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, out
}

func TestReadRoutes(t *testing.T) {
	ts, _ := newServer(t)

	var global struct {
		TotalStaked         int64 `json:"totalStaked"`
		TotalActivatedStake int64 `json:"totalActivatedStake"`
	}
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/global", &global))
	assert.Equal(t, int64(31_000_000_0000), global.TotalStaked)
	assert.Greater(t, global.TotalActivatedStake, int64(0))

	var list []producers.Producer
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/producers", &list))
	assert.Len(t, list, 3)

	var prod producers.Producer
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/producers/producer2", &prod))
	assert.Equal(t, tally.MustParseName("producer2"), prod.Owner)
	assert.True(t, prod.IsActive)
	assert.Greater(t, prod.TotalVotes, 0.0)
	assert.Equal(t, http.StatusNotFound, httpGet(t, ts, "/producers/nobody", nil))
	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts, "/producers/Nobody", nil))

	var voter accounts.Voter
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/voters/alice", &voter))
	assert.Equal(t, int64(10_000_000_0000), voter.Staked)
	assert.Equal(t, tally.Names{tally.MustParseName("producer1"), tally.MustParseName("producer2")}, voter.Producers)

	var account accounts.Account
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/accounts/alice", &account))
	assert.Equal(t, int64(90_000_000_0000), account.Balance)
	assert.NotNil(t, account.Voter)
	assert.Nil(t, account.Refund)

	var delegation struct {
		Net int64 `json:"net"`
		CPU int64 `json:"cpu"`
	}
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/delegations/alice/alice", &delegation))
	assert.Equal(t, int64(10_000_000_0000), delegation.Net+delegation.CPU)
	assert.Equal(t, http.StatusNotFound, httpGet(t, ts, "/delegations/alice/bob", nil))
	assert.Equal(t, http.StatusNotFound, httpGet(t, ts, "/refunds/alice", nil))

	var pools producers.Pools
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/pools", &pools))
	assert.Greater(t, pools.Supply, int64(0))

	var schedule producers.Schedule
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/schedule", &schedule))
	assert.Empty(t, schedule.Producers)

	var head host.Head
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/node/head", &head))
	assert.Equal(t, launch, head.Time)

	var status node.Summary
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/node/status", &status))
	assert.Equal(t, uint64(3), status.Producers)
	assert.Equal(t, head, status.Head)

	var gen genesis.Genesis
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/node/genesis", &gen))
	assert.Equal(t, "devnet", gen.Name)
}

func TestSendTransaction(t *testing.T) {
	ts, _ := newServer(t)

	var before node.Summary
	require.Equal(t, http.StatusOK, httpGet(t, ts, "/node/status", &before))

	status, body := httpPost(t, ts, "/transactions", map[string]any{
		"nonce":  1,
		"signer": "alice",
		"type":   "undelegate",
		"action": map[string]any{"from": "alice", "receiver": "alice", "net": 500, "cpu": 0},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var receipt tx.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.False(t, receipt.Reverted, receipt.Error)
	assert.Equal(t, "undelegate", receipt.Action)

	var refund accounts.Refund
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/refunds/alice", &refund))
	assert.Equal(t, int64(500), refund.Net)
	assert.Equal(t, launch+genesis.Dev().ProtocolParams().RefundDelay, refund.MaturesAt)

	var after node.Summary
	require.Equal(t, http.StatusOK, httpGet(t, ts, "/node/status", &after))
	assert.Equal(t, before.Deferred+1, after.Deferred)

	var stored tx.Receipt
	assert.Equal(t, http.StatusOK, httpGet(t, ts, "/transactions/"+receipt.TxID.String()+"/receipt", &stored))
	assert.Equal(t, receipt.TxID, stored.TxID)
	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts, "/transactions/0x12/receipt", nil))

	// raw form of a duplicate
	trx := tx.MustNew(1, tally.MustParseName("alice"), &tx.Undelegate{
		From:     tally.MustParseName("alice"),
		Receiver: tally.MustParseName("alice"),
		Net:      500,
	})
	raw, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)
	status, _ = httpPost(t, ts, "/transactions", map[string]any{"raw": hexutil.Encode(raw)})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = httpPost(t, ts, "/transactions", map[string]any{
		"nonce": 2, "signer": "alice", "type": "fly", "action": map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "bad tx")

	status, _ = httpPost(t, ts, "/transactions", map[string]any{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = httpPost(t, ts, "/transactions", map[string]any{
		"nonce": 3, "signer": "bob", "type": "claimRefund", "action": map[string]any{"owner": "alice"},
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "missing authority of alice", receipt.Error)
}

func TestSubscribeBlocks(t *testing.T) {
	ts, h := newServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/block"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the subscription is registered after the handshake, keep producing until one arrives
	done := make(chan struct{})
	defer close(done)
	go func() {
		at := launch
		for {
			select {
			case <-done:
				return
			case <-time.After(20 * time.Millisecond):
				at += tally.Second
				if _, _, err := h.ProduceBlock(at); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var blk host.Block
	require.NoError(t, conn.ReadJSON(&blk))
	assert.Greater(t, blk.Number, uint64(0))
	assert.Greater(t, blk.Timestamp, launch)
}
