package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/holiman/uint256"

	"github.com/screa/fixpoint-miner/internal/config"
	"github.com/screa/fixpoint-miner/internal/crypto"
	"github.com/screa/fixpoint-miner/internal/format"
	"github.com/screa/fixpoint-miner/pkg/space"
	"github.com/screa/fixpoint-miner/pkg/types"
)

// Rough per-worker hash rate used for up-front estimates
const assumedRatePerWorker = 1_000_000.0

// renderer writes progress and results to the console per verbosity
type renderer struct {
	out       io.Writer
	verbosity types.Verbosity
	found     *color.Color
	notFound  *color.Color
}

func newRenderer(out io.Writer, v types.Verbosity) *renderer {
	return &renderer{
		out:       out,
		verbosity: v,
		found:     color.New(color.FgGreen, color.Bold),
		notFound:  color.New(color.FgYellow, color.Bold),
	}
}

func (r *renderer) preamble(cfg *config.Config, cpu crypto.CPUInfo) {
	switch r.verbosity {
	case types.Detailed:
		fmt.Fprintf(r.out, "Template: %s\n", cfg.Template)
		fmt.Fprintf(r.out, "Digits to match: %d\n", cfg.Digits)
		fmt.Fprintf(r.out, "Search space: %s possible combinations\n", format.BigCount(space.New(cfg.Digits).Size()))
		fmt.Fprintf(r.out, "Estimated time: ~%s\n", estimate(cfg))
		fmt.Fprintf(r.out, "Workers: %d\n", cfg.Workers)
		fmt.Fprintf(r.out, "CPU: %s (%d logical cores)\n", cpu.Brand, cpu.LogicalCores)
		features := "none"
		if len(cpu.Features) > 0 {
			features = strings.Join(cpu.Features, " ")
		}
		fmt.Fprintf(r.out, "CPU features: %s\n\n", features)
	case types.Compact:
		fmt.Fprintf(r.out, "Searching for %d-digit hash prefix match...\n", cfg.Digits)
	}
}

// progressFunc returns the monitor callback, or nil when progress is suppressed.
func (r *renderer) progressFunc(total *uint256.Int) func(types.ProgressSample) {
	switch r.verbosity {
	case types.Detailed:
		totalStr := format.BigCount(total)
		return func(s types.ProgressSample) {
			fmt.Fprintf(r.out, "\rElapsed: %s | Remaining: ~%s | Hashes: %s/%s (%.4f%%) | Speed: %s",
				format.Duration(s.ElapsedSeconds),
				format.Duration(s.ETASeconds),
				format.Count(s.Ops),
				totalStr,
				s.Percent,
				format.Rate(s.Throughput))
		}
	case types.Compact:
		return func(s types.ProgressSample) {
			fmt.Fprintf(r.out, "\r%.1f%% complete | Speed: %s | Elapsed: %s",
				s.Percent,
				format.Rate(s.Throughput),
				format.Duration(s.ElapsedSeconds))
		}
	}
	return nil
}

func (r *renderer) result(report *types.Report) {
	m := report.Match
	switch r.verbosity {
	case types.Silent:
		if m != nil {
			fmt.Fprintln(r.out, string(m.Message))
		}
	case types.Compact:
		if m != nil {
			fmt.Fprintf(r.out, "\n\n%s %s\n", r.found.Sprint("Found:"), m.Message)
		} else {
			fmt.Fprintf(r.out, "\n\nNo match found after searching %s hashes.\n", format.Count(report.TotalOps))
		}
	case types.Detailed:
		fmt.Fprint(r.out, "\n\n")
		if m != nil {
			r.found.Fprintln(r.out, "=== MATCH FOUND ===")
		} else {
			r.notFound.Fprintln(r.out, "=== NO MATCH FOUND ===")
		}
		fmt.Fprintf(r.out, "Total time: %s\n", format.Duration(report.Duration.Seconds()))
		fmt.Fprintf(r.out, "Total hashes searched: %s\n", format.Count(report.TotalOps))
		fmt.Fprintf(r.out, "Average speed: %s\n", format.Rate(report.Rate()))
		if m != nil {
			fmt.Fprintf(r.out, "Output string: %s\n", m.Message)
			fmt.Fprintf(r.out, "Full hash: %s\n", crypto.HexDigest(m.Digest))
		} else {
			fmt.Fprintln(r.out, "Exhausted search space without finding a match.")
		}
	}
}

func (r *renderer) interrupted(report *types.Report) {
	if r.verbosity == types.Silent {
		return
	}
	fmt.Fprintf(r.out, "\n\n%s after %s hashes (%s).\n",
		r.notFound.Sprint("Interrupted"),
		format.Count(report.TotalOps),
		format.Duration(report.Duration.Seconds()))
}

// estimate gives the time to exhaust the space at the assumed rate
func estimate(cfg *config.Config) string {
	size, _ := new(big.Float).SetInt(space.New(cfg.Digits).Size().ToBig()).Float64()
	return format.Duration(size / (assumedRatePerWorker * float64(cfg.Workers)))
}
