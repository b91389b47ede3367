// Command pevmsim runs a batch of transactions through the scheduler
// against a JSON fixture and prints the resulting BatchResult. It
// exists to exercise Scheduler.ParallelExecute end to end without a
// full execution client driving it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/parallel-evm/pevm/log"
	"github.com/parallel-evm/pevm/metrics"
	"github.com/parallel-evm/pevm/scheduler"
	"github.com/parallel-evm/pevm/state"
	"github.com/parallel-evm/pevm/txdep"
	"github.com/parallel-evm/pevm/types"
)

// fixture is the JSON shape of a batch: accounts to seed the database
// with, and the transactions to run against them.
type fixture struct {
	Accounts []fixtureAccount `json:"accounts"`
	Txs      []fixtureTx      `json:"transactions"`
}

type fixtureAccount struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type fixtureTx struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Value    uint64 `json:"value"`
	GasLimit uint64 `json:"gas_limit"`
}

func main() {
	app := &cli.App{
		Name:  "pevmsim",
		Usage: "run a transaction batch through the parallel scheduler",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "fixture", Usage: "path to a JSON batch fixture", Required: true},
			&cli.IntFlag{Name: "partitions", Usage: "partition count per round (0 = NumCPU)", Value: 0},
			&cli.IntFlag{Name: "workers", Usage: "worker pool concurrency (0 = NumCPU)", Value: 0},
			&cli.IntFlag{Name: "max-rounds", Usage: "speculative rounds before sequential fallback", Value: scheduler.MaxRoundsDefault},
			&cli.StringFlag{Name: "dump-graph", Usage: "write the initial dependency graph as Graphviz DOT to this path"},
			&cli.BoolFlag{Name: "verify", Usage: "print the Keccak256 audit hash of the resulting state delta"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address (e.g. :9090) until the run completes"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("pevmsim failed", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	f, err := loadFixture(c.String("fixture"))
	if err != nil {
		return fmt.Errorf("load fixture: %w", err)
	}

	db := state.NewMemoryDatabaseRef()
	for _, a := range f.Accounts {
		db.SetAccount(types.HexToAddress(a.Address), types.Account{
			Nonce:   a.Nonce,
			Balance: types.NewWord(a.Balance),
		})
	}

	txs := make([]types.TxEnv, len(f.Txs))
	hints := make([]types.ExecutionHint, len(f.Txs))
	for i, t := range f.Txs {
		from, to := types.HexToAddress(t.From), types.HexToAddress(t.To)
		txs[i] = types.TxEnv{From: from, To: to, Value: types.NewWord(t.Value), GasLimit: t.GasLimit}

		h := types.NewExecutionHint()
		h.ReadSet.Add(types.Basic(from))
		h.ReadSet.Add(types.Basic(to))
		h.WriteSet.Add(types.Basic(from))
		h.WriteSet.Add(types.Basic(to))
		hints[i] = h
	}

	cfg := scheduler.Config{
		PartitionCount: c.Int("partitions"),
		Workers:        c.Int("workers"),
		MaxRounds:      c.Int("max-rounds"),
	}

	sched := scheduler.New(db, types.Address{}, txs, cfg)

	if addr := c.String("metrics-addr"); addr != "" {
		exporter := metrics.NewPrometheusExporter(metrics.DefaultRegistry, metrics.DefaultPrometheusConfig())
		srv := &http.Server{Addr: addr, Handler: exporter.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	if dotPath := c.String("dump-graph"); dotPath != "" {
		graph := txdep.Build(0, hints)
		if err := os.WriteFile(dotPath, []byte(graph.DOT()), 0o644); err != nil {
			return fmt.Errorf("write dependency graph: %w", err)
		}
	}

	result, err := sched.ParallelExecute(context.Background(), hints)
	if err != nil {
		return fmt.Errorf("parallel execute: %w", err)
	}

	fmt.Printf("rounds: %d\n", result.Rounds)
	for _, r := range result.PerTx {
		fmt.Printf("tx %d: status=%s gas=%d\n", r.TxId, r.Status, r.GasUsed)
	}
	if c.Bool("verify") {
		fmt.Printf("audit hash: %s\n", scheduler.AuditHash(result.FinalState).Hex())
	}
	return nil
}

func loadFixture(path string) (fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, err
	}
	var f fixture
	if err := json.Unmarshal(b, &f); err != nil {
		return fixture{}, err
	}
	return f, nil
}
