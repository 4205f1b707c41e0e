package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/oliviasaa/FPC-on-a-set/fpcs"
	"github.com/oliviasaa/FPC-on-a-set/graph"
	"github.com/oliviasaa/FPC-on-a-set/opinion"
)

func main() {
	var (
		nodes     = flag.Int("nodes", 20, "total node count")
		faulty    = flag.Int("faulty", 0, "number of faulty (omission) nodes")
		malicious = flag.Int("malicious", 0, "number of malicious nodes")
		omission  = flag.Float64("omission", 0.5, "probability a faulty node stays silent")
		txs       = flag.Int("txs", 20, "number of conflicting transactions")
		topology  = flag.String("topology", "complete", "conflict graph topology: complete or star")
		center    = flag.Int("center", 0, "center transaction of a star graph")
		dist      = flag.String("dist", "uniform", "initial distribution: uniform, concentrated or balanced")
		distK     = flag.Int("dist-k", 2, "concentrated: number of forced nodes")
		distValue = flag.Bool("dist-value", true, "concentrated: forced opinion")
		sample    = flag.Int("k", 5, "peers queried per node-transaction pair")
		low       = flag.Float64("low", 0.1, "lower threshold bound")
		high      = flag.Float64("high", 0.9, "upper threshold bound")
		coolOff   = flag.Int("l", 5, "rounds of unchanged opinion before finalization")
		maxRounds = flag.Int("max-rounds", 100, "round cutoff")
		seed      = flag.Int64("seed", 0, "rng seed; 0 picks one from the clock")
		runs      = flag.Int("runs", 1, "number of seeded runs to execute")
		history   = flag.Bool("history", false, "keep the round-by-round opinion history")
		strict    = flag.Bool("strict", false, "fail instead of degrading an oversized sample")
		sweep     = flag.Bool("set-consistency", true, "keep liked sets independent and maximal (elim/comp)")
		verbose   = flag.Bool("v", false, "log per-round progress")
		quiet     = flag.Bool("quiet", false, "suppress the banner and per-run tables")
	)
	flag.Parse()

	logger := pterm.DefaultLogger.WithLevel(pterm.LogLevelInfo)
	if *verbose {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}
	if *quiet {
		logger = logger.WithLevel(pterm.LogLevelWarn)
	}
	slogger := slog.New(pterm.NewSlogHandler(logger))

	if !*quiet {
		pterm.DefaultBigText.WithLetters(
			putils.LettersFromStringWithStyle("FPC", pterm.FgRed.ToStyle()),
			putils.LettersFromStringWithStyle("S", pterm.FgDarkGray.ToStyle()),
		).Render()
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	cfg := fpcs.Config{
		Nodes:          *nodes,
		FaultyNodes:    *faulty,
		MaliciousNodes: *malicious,
		OmissionRate:   *omission,
		Transactions:   *txs,
		StarCenter:     graph.TxID(*center),
		SampleSize:     *sample,
		StrictSampling: *strict,
		ThresholdLow:   *low,
		ThresholdHigh:  *high,
		CoolingOff:     *coolOff,
		MaxRounds:      *maxRounds,
		Seed:           *seed,
		SetConsistency: *sweep,
		RecordHistory:  *history,
		Logger:         slogger,
	}

	switch *topology {
	case "complete":
		cfg.Topology = graph.TopologyComplete
	case "star":
		cfg.Topology = graph.TopologyStar
	default:
		fail("unknown topology %q", *topology)
	}
	switch *dist {
	case "uniform":
		cfg.Distribution = opinion.Spec{Kind: opinion.DistUniform}
	case "concentrated":
		cfg.Distribution = opinion.Spec{Kind: opinion.DistConcentrated, K: *distK, Value: *distValue}
	case "balanced":
		cfg.Distribution = opinion.Spec{Kind: opinion.DistBalanced}
	default:
		fail("unknown distribution %q", *dist)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports := make([]*fpcs.Report, 0, *runs)
	var bar *pterm.ProgressbarPrinter
	if *runs > 1 && !*quiet {
		bar, _ = pterm.DefaultProgressbar.WithTotal(*runs).WithTitle("Simulating").Start()
	}
	for i := 0; i < *runs; i++ {
		runCfg := cfg
		runCfg.Seed = cfg.Seed + int64(i)
		engine, err := fpcs.New(runCfg)
		if err != nil {
			if bar != nil {
				bar.Stop()
			}
			fail("invalid simulation parameters: %v", err)
		}
		report, err := engine.Run(ctx)
		if err != nil {
			if bar != nil {
				bar.Stop()
			}
			if errors.Is(err, context.Canceled) {
				pterm.Warning.Println("interrupted")
				os.Exit(130)
			}
			fail("run failed: %v", err)
		}
		reports = append(reports, report)
		if bar != nil {
			bar.Increment()
		} else if !*quiet {
			renderReport(report, runCfg.Seed)
		}
	}
	if bar != nil {
		bar.Stop()
	}

	if *runs > 1 {
		renderSummary(reports)
	}
	if *runs == 1 && *quiet {
		// Machine-friendly one-liner for scripted sweeps.
		r := reports[0]
		fmt.Printf("%s %d\n", r.Outcome, r.Rounds)
	}
}

func fail(format string, args ...any) {
	pterm.Error.Printfln(format, args...)
	os.Exit(1)
}
