package main

import (
	"fmt"
	"os"
	"time"

	"fusion-service/internal/config"
	"fusion-service/internal/fileio"
	fusSvc "fusion-service/internal/fusion/service"
)

// Batch entry point: fuse one parameter table and write the annotated
// workbook next to it.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: fuse <input.xlsx|input.xls|input.csv>")
		os.Exit(2)
	}
	input := os.Args[1]

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	if err := cfg.LoadRules(); err != nil {
		logger.Fatal().Err(err).Msg("load rules")
	}
	if cfg.SynonymsFile != "" {
		syn, err := fileio.LoadSynonyms(cfg.SynonymsFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("load synonyms")
		}
		cfg.Synonyms = syn
	}

	start := time.Now()
	header, rows, err := fileio.ReadParameterFile(input)
	if err != nil {
		logger.Fatal().Err(err).Str("file", input).Msg("read input")
	}

	eng := fusSvc.NewEngine(cfg.Policy, fusSvc.NewSynonymTable(cfg.Synonyms))
	res := eng.Run(rows)

	out := fileio.OutputPath(input, time.Now())
	if err := fileio.WriteAnnotated(out, header, rows, res); err != nil {
		logger.Fatal().Err(err).Str("file", out).Msg("write output")
	}

	logger.Info().
		Str("input", input).
		Str("output", out).
		Int("rows", res.Stats.Rows).
		Int("review", res.Stats.Review).
		Dur("elapsed", time.Since(start)).
		Msg("fusion done")

	for tag, n := range res.Stats.ByStrategy {
		logger.Info().Str("strategy", string(tag)).Int("rows", n).Msg("strategy usage")
	}
}
