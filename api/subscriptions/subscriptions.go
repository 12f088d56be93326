// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/tally/api/utils"
	"github.com/vechain/tally/host"
	"github.com/vechain/tally/log"
	"github.com/vechain/tally/tx"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	bufferSize = 64
)

// Source publishes receipts and blocks.
type Source interface {
	SubscribeReceipts(ch chan *tx.Receipt) event.Subscription
	SubscribeBlocks(ch chan *host.Block) event.Subscription
}

type Subscriptions struct {
	source    Source
	upgrader  *websocket.Upgrader
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates the websocket subscription endpoints. An empty origins list or "*" allows any origin.
func New(source Source, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		source: source,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// pipe writes every value received on ch to conn as JSON until the peer goes away,
// the subscription fails or the subscriptions are closed.
func pipe[T any](s *Subscriptions, conn *websocket.Conn, ch chan T, sub event.Subscription) error {
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case v := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				return err
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case err := <-sub.Err():
			return err
		case <-closed:
			return nil
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		}
	}
}

func (s *Subscriptions) serve(w http.ResponseWriter, req *http.Request, run func(conn *websocket.Conn) error) error {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := run(conn); err != nil {
		logger.Debug("subscription closed", "path", req.URL.Path, "err", err)
	}
	return nil
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	return s.serve(w, req, func(conn *websocket.Conn) error {
		ch := make(chan *tx.Receipt, bufferSize)
		return pipe(s, conn, ch, s.source.SubscribeReceipts(ch))
	})
}

func (s *Subscriptions) handleSubscribeBlocks(w http.ResponseWriter, req *http.Request) error {
	return s.serve(w, req, func(conn *websocket.Conn) error {
		ch := make(chan *host.Block, bufferSize)
		return pipe(s, conn, ch, s.source.SubscribeBlocks(ch))
	})
}

// Close terminates all open subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
	sub.Path("/block").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeBlocks))
}
