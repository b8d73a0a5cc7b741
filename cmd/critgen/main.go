// Command critgen generates the critical-positions database described
// in the repository's on-disk format: it enumerates every reachable
// four-in-a-row position up to a maximum ply, classifies each one, and
// serializes the critical entries to a hash file for a runtime agent to
// query.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BassBess/criticaldb/classify"
	"github.com/BassBess/criticaldb/config"
	"github.com/BassBess/criticaldb/dbfile"
	"github.com/BassBess/criticaldb/enumerate"
	"github.com/BassBess/criticaldb/negamax"
)

// entrySize is the in-memory footprint of one enumerate.CriticalEntry,
// used only to translate a memory budget into a slice capacity.
const entrySize = 16

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "critgen:", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	log.Logger = log.Output(output)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Warn().Msg("interrupted before completion; no database written")
		os.Exit(1)
	}()

	totalMem := memory.TotalMemory()
	log.Info().
		Uint64("total-system-memory-bytes", totalMem).
		Int("min-ply", cfg.MinPly).
		Int("max-ply", cfg.MaxPly).
		Int("tt-log2-size", cfg.TTLog2Size).
		Msg("starting critical-position generator")

	solver := negamax.NewSolver(cfg.TTLog2Size)
	analyzer := &classify.Analyzer{Solver: solver, MinPly: cfg.MinPly, MaxPly: cfg.MaxPly}
	enumerator := &enumerate.Enumerator{
		Analyzer:      analyzer,
		MaxPly:        cfg.MaxPly,
		ProgressEvery: cfg.ProgressEvery,
	}

	entries := make([]enumerate.CriticalEntry, 0, initialCapacity(totalMem))
	start := time.Now()
	enumerator.Run(func(e enumerate.CriticalEntry) {
		entries = append(entries, e)
	})

	log.Info().
		Int("critical-entries", len(entries)).
		Int64("nodes-visited", enumerator.Visited).
		Dur("elapsed", time.Since(start)).
		Msg("enumeration complete")

	table := dbfile.Build(entries)
	if err := table.WriteTo(cfg.Output, cfg.MinPly, cfg.MaxPly); err != nil {
		log.Fatal().Err(err).Msg("failed to write critical-positions database")
	}

	log.Info().
		Str("path", cfg.Output).
		Int("table-size", table.Size).
		Msg("wrote critical-positions database")
}

// initialCapacity sizes the critical-entry buffer's starting capacity
// off a small slice of system memory, so the common case never has to
// double-grow the slice at all; it is still bounded well under the
// ~200 MiB peak footprint the default ply window targets.
func initialCapacity(totalMem uint64) int {
	const (
		defaultCapacity = 1_000_000
		capBound        = 6_000_000
		memoryFraction  = 0.05
	)
	n := int(float64(totalMem) * memoryFraction / entrySize)
	if n < defaultCapacity {
		return defaultCapacity
	}
	if n > capBound {
		return capBound
	}
	return n
}
