// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/tally/api/accounts"
	"github.com/vechain/tally/api/middleware"
	"github.com/vechain/tally/api/node"
	"github.com/vechain/tally/api/producers"
	"github.com/vechain/tally/api/subscriptions"
	"github.com/vechain/tally/api/transactions"
	"github.com/vechain/tally/host"
	"github.com/vechain/tally/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router
func New(h *host.Host, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(h).
		Mount(router)
	producers.New(h).
		Mount(router)
	transactions.New(h).
		Mount(router, "/transactions")
	node.New(h).
		Mount(router, "/node")
	subs := subscriptions.New(h, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
