package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corractor-del/avito-price-analyzer/internal/config"
	"github.com/corractor-del/avito-price-analyzer/internal/fetcher"
	"github.com/corractor-del/avito-price-analyzer/internal/logging"
	"github.com/corractor-del/avito-price-analyzer/internal/models"
	"github.com/corractor-del/avito-price-analyzer/internal/pipeline"
	"github.com/corractor-del/avito-price-analyzer/internal/workbook"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <catalog.xlsx>\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Column A: brand, column B: model and specs, column C: purchase cost in roubles.")
		fmt.Fprintln(os.Stderr, "Writes <catalog>_analyzed.xlsx with average Avito price, markup % and cheapest listing link.")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	log := logging.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	rows, err := workbook.ReadCatalog(inputPath)
	if err != nil {
		if errors.Is(err, models.ErrInputShape) {
			log.Error("the input file needs at least three columns (A, B, C)", "file", inputPath)
		} else {
			log.Error("failed to read input workbook", "file", inputPath, "error", err)
		}
		os.Exit(1)
	}
	log.Info("catalog loaded", "file", inputPath, "rows", len(rows))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := fetcher.NewService(fetcher.Config{
		SearchURL:         cfg.Search.BaseURL,
		Timeout:           cfg.Search.Timeout,
		RequestsPerMinute: cfg.Search.RequestsPerMinute,
		UserAgents:        cfg.Search.UserAgents,
	}, log)
	if err != nil {
		log.Error("failed to build fetch service", "error", err)
		os.Exit(1)
	}

	runner := pipeline.NewRunner(svc, pipeline.Config{
		Threshold:    cfg.Matching.Threshold,
		SelectLimit:  cfg.Matching.SelectLimit,
		ExtractLimit: cfg.Matching.ExtractLimit,
		DelayMin:     cfg.Pacing.DelayMin,
		DelayMax:     cfg.Pacing.DelayMax,
	})

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range runner.Events() {
			switch ev.Kind {
			case pipeline.EventLog:
				log.Info(ev.Line)
			case pipeline.EventProgress:
				log.Info("progress", "done", ev.RowIndex, "total", ev.RowCount)
			case pipeline.EventDone:
				if ev.Err != nil {
					log.Warn("batch interrupted", "error", ev.Err)
				}
			}
		}
	}()

	results, runErr := runner.Run(ctx, rows)
	<-drained

	// Cancellation still writes whatever was gathered so far.
	outputPath := workbook.OutputPath(inputPath, cfg.Output.Suffix)
	if err := workbook.WriteResults(outputPath, rows, results, log); err != nil {
		log.Error("failed to save results", "file", outputPath, "error", err)
		os.Exit(1)
	}

	if runErr != nil {
		log.Warn("finished early", "output", outputPath, "error", runErr)
		os.Exit(1)
	}
	log.Info("done", "output", outputPath)
}
