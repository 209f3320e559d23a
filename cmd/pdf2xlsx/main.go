// Command pdf2xlsx extracts invoice data from a directory of PDF files
// and writes a four-sheet XLSX workbook (Summary, Line Items, Text Data,
// Tables).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/invoicetools/pdf2xlsx/internal/batch"
	"github.com/invoicetools/pdf2xlsx/internal/common"
	"github.com/invoicetools/pdf2xlsx/internal/export"
	"github.com/invoicetools/pdf2xlsx/internal/fields"
	"github.com/invoicetools/pdf2xlsx/internal/history"
	"github.com/invoicetools/pdf2xlsx/internal/pipeline"
	"github.com/invoicetools/pdf2xlsx/internal/reader"
	"github.com/invoicetools/pdf2xlsx/internal/reconcile"
	"github.com/invoicetools/pdf2xlsx/internal/tableparse"
	"github.com/invoicetools/pdf2xlsx/internal/textscan"
)

func main() {
	fs := ff.NewFlagSet("pdf2xlsx")
	var (
		inputDir     = fs.StringLong("input-dir", "./pdfs", "Directory containing PDF files")
		outputFile   = fs.StringLong("output-file", "./extracted_data.xlsx", "Output XLSX file path")
		noTables     = fs.BoolLong("no-tables", "Skip table extraction (and the text fallback)")
		noText       = fs.BoolLong("no-text", "Skip text extraction, field recognition and the text fallback")
		rulesPath    = fs.StringLong("rules", "", "JSON file with custom field recognition rules")
		historyDB    = fs.StringLong("history-db", "", "Run-history database path (empty disables history)")
		excerptLimit = fs.IntLong("excerpt-limit", 0, "Character bound for the Text Data excerpt column")
		verbose      = fs.BoolLong("verbose", "Enable debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("PDF2XLSX"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *noTables {
		cfg.Extraction.ExtractTables = false
	}
	if *noText {
		cfg.Extraction.ExtractText = false
	}
	if *rulesPath != "" {
		cfg.Extraction.RulesPath = *rulesPath
	}
	if *historyDB != "" {
		cfg.History.DBPath = *historyDB
	}
	if *excerptLimit > 0 {
		cfg.Export.TextExcerptLimit = *excerptLimit
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, *inputDir, *outputFile); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *common.Config, inputDir, outputFile string) error {
	paths, err := findPDFFiles(inputDir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %s", inputDir)
	}
	logger.Info("discovered documents", "input_dir", inputDir, "count", len(paths))

	ruleTable := fields.DefaultRules()
	if cfg.Extraction.RulesPath != "" {
		ruleTable, err = fields.LoadRules(cfg.Extraction.RulesPath)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		logger.Info("loaded custom field rules", "path", cfg.Extraction.RulesPath, "rules", len(ruleTable))
	}

	proc := pipeline.NewProcessor(
		logger,
		reader.New(reader.Config{}, logger),
		fields.NewRecognizer(ruleTable, logger),
		tableparse.New(logger),
		textscan.New(logger),
		pipeline.Options{
			ExtractTables: cfg.Extraction.ExtractTables,
			ExtractText:   cfg.Extraction.ExtractText,
			Reconcile: reconcile.Options{
				AbsTolerance: cfg.Reconcile.AbsTolerance,
				RelTolerance: cfg.Reconcile.RelTolerance,
			},
		},
	)

	started := time.Now().UTC()
	report := batch.New(logger, proc).Run(ctx, paths)

	data, err := export.NewService(cfg.Export, logger).WriteXLSX(report)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	recordHistory(logger, cfg.History.DBPath, history.RunRecord{
		RunID:      report.RunID.String(),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		InputDir:   inputDir,
		OutputPath: outputFile,
		Documents:  report.Attempted,
		Succeeded:  report.Succeeded,
		Partial:    report.Partial,
		Failed:     report.Failed,
		LineItems:  report.TotalLineItems(),
	})

	logger.Info("conversion complete",
		"output", outputFile,
		"documents", report.Attempted,
		"succeeded", report.Succeeded,
		"partial", report.Partial,
		"failed", report.Failed,
		"line_items", report.TotalLineItems(),
	)
	return nil
}

// recordHistory is best-effort: a history failure must never fail a run
// that already produced its workbook.
func recordHistory(logger *slog.Logger, dbPath string, rec history.RunRecord) {
	if dbPath == "" {
		return
	}
	store, err := history.Open(dbPath)
	if err != nil {
		logger.Warn("history unavailable", "path", dbPath, "err", err)
		return
	}
	defer store.Close()
	if err := store.Record(rec); err != nil {
		logger.Warn("history record failed", "err", err)
	}
}
