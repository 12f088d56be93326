// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tally/genesis"
	"github.com/vechain/tally/host"
	"github.com/vechain/tally/kv"
	"github.com/vechain/tally/log"
	"github.com/vechain/tally/lvldb"
)

func initLogger(ctx *cli.Context) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Install(os.Stderr, log.FromVerbosity(ctx.Int(verbosityFlag.Name)), ctx.Bool(jsonLogsFlag.Name), color)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tally")
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.Dev(), nil
	}
	gene, err := genesis.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load genesis file [%v]: %w", path, err)
	}
	return gene, nil
}

func instanceDir(dataDir string, gene *genesis.Genesis) string {
	return filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
}

// openStore opens the state database. It stays in memory unless persist is set.
func openStore(ctx *cli.Context, gene *genesis.Genesis) (kv.Store, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		db, err := lvldb.NewMem()
		return db, "Memory", err
	}
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	dir := instanceDir(dataDir, gene)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", fmt.Errorf("create data dir [%v]: %w", dir, err)
	}
	db, err := lvldb.New(filepath.Join(dir, "state.db"), lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheFlag.Name)),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("open state database [%v]: %w", dir, err)
	}
	return db, dir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		log.Warn("failed to get fd limit:", "err", err)
		return 500
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120)
}

// newServer listens on addr and returns a function serving handler until ctx is done.
func newServer(addr string, handler http.Handler) (string, func(ctx context.Context) error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen [%v]: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	serve := func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Serve(listener) }()
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
	return "http://" + listener.Addr().String() + "/", serve, nil
}

func checkClockOffset(blockInterval time.Duration) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > blockInterval/2 || -resp.ClockOffset > blockInterval/2 {
		log.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func printStartupMessage(gene *genesis.Genesis, head host.Head, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Network     [ %v %v ]
    Head        [ #%v %v ]
    Instance dir[ %v ]
    API portal  [ %v ]
`,
		fullVersion(),
		gene.ID(), gene.Name,
		head.Number, head.Time,
		dataDir,
		apiURL)
}
