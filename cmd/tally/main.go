// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tally/api"
	"github.com/vechain/tally/host"
	"github.com/vechain/tally/log"
	"github.com/vechain/tally/metrics"
	"github.com/vechain/tally/tally"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "tally")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	return &cli.App{
		Version:   fullVersion(),
		Name:      "tally",
		Usage:     "Staking, voting and inflation rewards host",
		Copyright: "2025 The VeChainThor developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: action,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func action(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	store, instanceDir, err := openStore(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing state database..."); store.Close() }()

	h, err := host.New(store, gene, tally.NewTimePoint(time.Now()), host.Options{})
	if err != nil {
		return err
	}
	defer h.Close()

	handler, closeSubs := api.New(h, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	defer closeSubs()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiURL, serveAPI, err := newServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}

	printStartupMessage(gene, h.Head(), instanceDir, apiURL)
	go checkClockOffset(ctx.Duration(blockIntervalFlag.Name))

	group, gctx := errgroup.WithContext(runCtx)
	group.Go(func() error { return serveAPI(gctx) })
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsURL, serveMetrics, err := newServer(ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		if err != nil {
			return err
		}
		log.Info("metrics service started", "url", metricsURL+"metrics")
		group.Go(func() error { return serveMetrics(gctx) })
	}
	group.Go(func() error {
		return produceBlocks(gctx, h, ctx.Duration(blockIntervalFlag.Name))
	})
	return group.Wait()
}

// produceBlocks produces a block at wall clock time every interval until ctx is done.
func produceBlocks(ctx context.Context, h *host.Host, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			at := tally.NewTimePoint(now)
			if head := h.Head(); at <= head.Time {
				logger.Debug("head is ahead of the clock, skip", "head", head.Time, "now", at)
				continue
			}
			blk, receipts, err := h.ProduceBlock(at)
			if err != nil {
				return err
			}
			logger.Debug("📦 new block", "number", blk.Number, "producer", blk.Producer, "receipts", len(receipts))
		}
	}
}
