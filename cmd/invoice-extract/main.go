package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dhana112/PDF-Invoice-Extractor/constants"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/common"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/compare"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/export"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/llm"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/llm/openai"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/pdftext"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/processor"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/store"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/truth"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input     = flag.String("input", "", "input PDF file or directory of PDFs (required)")
		output    = flag.String("output", "results.json", "output file: .json, .csv or .xlsx (.json only in compare mode)")
		mode      = flag.String("mode", constants.StrategyRegex, "extraction mode: regex | llm | compare")
		truthPath = flag.String("truth", "", "ground-truth JSON file for accuracy scoring (compare mode)")
		dbDSN     = flag.String("db", "", "optional run-store DSN (sqlite path or postgres:// URL)")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(1)
	}
	switch *mode {
	case constants.StrategyRegex, constants.StrategyLLM, "compare":
	default:
		printError("Error: invalid --mode %q, use regex | llm | compare\n", *mode)
		os.Exit(1)
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *dbDSN != "" {
		cfg.DB.DSN = *dbDSN
	}
	if err := cfg.ValidateForMode(*mode); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	paths, err := processor.ListInputs(*input)
	if err != nil {
		logger.Error("failed to enumerate input", "input", *input, "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Error("no PDF documents found", "input", *input)
		os.Exit(1)
	}

	acquirer := pdftext.NewAcquirer(pdftext.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		Upscale:       cfg.OCR.Upscale,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)

	cascade := fields.NewCascade(logger)
	proc := processor.New(acquirer, logger)
	exporter := export.NewService(logger)

	newModelStrategy := func() *llm.Strategy {
		client := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		return llm.NewStrategy(client, logger)
	}

	switch *mode {
	case "compare":
		gt := truth.Set{}
		if *truthPath != "" {
			gt, err = truth.Load(*truthPath, logger)
			if err != nil {
				logger.Error("failed to load ground truth", "error", err)
				os.Exit(1)
			}
		}
		// No fallback on the model strategy here: the comparison needs the
		// two strategies to stay independent.
		harness := compare.NewHarness(cascade, newModelStrategy(), logger)
		records, sum := proc.ProcessComparisons(ctx, paths, harness, gt)
		stats := compare.Summarize(records)
		if err := exporter.WriteComparisons(*output, records, stats); err != nil {
			logger.Error("failed to write output", "error", err)
			os.Exit(1)
		}
		if cfg.DB.DSN != "" {
			regexRecs := make([]fields.FieldRecord, 0, len(records))
			llmRecs := make([]fields.FieldRecord, 0, len(records))
			for _, r := range records {
				regexRecs = append(regexRecs, r.Regex)
				llmRecs = append(llmRecs, r.LLM)
			}
			runs := []strategyRecords{
				{strategy: constants.StrategyRegex, records: regexRecs},
				{strategy: constants.StrategyLLM, records: llmRecs},
			}
			if err := saveRun(ctx, cfg.DB.DSN, runs, logger); err != nil {
				logger.Error("failed to persist run", "error", err)
				os.Exit(1)
			}
		}
		logger.Info("run complete",
			"mode", *mode,
			"processed", sum.Processed,
			"skipped_empty", sum.SkippedEmpty,
			"failed", sum.Failed,
			"scored", stats.Scored,
			"mean_accuracy", stats.MeanAccuracy,
			"output", *output,
		)

	default:
		var strategy fields.Strategy = cascade
		if *mode == constants.StrategyLLM {
			strategy = newModelStrategy().WithFallback(cascade)
		}
		records, sum := proc.ProcessRecords(ctx, paths, strategy)
		if err := exporter.WriteRecords(*output, records); err != nil {
			logger.Error("failed to write output", "error", err)
			os.Exit(1)
		}
		if cfg.DB.DSN != "" {
			runs := []strategyRecords{{strategy: strategy.Name(), records: records}}
			if err := saveRun(ctx, cfg.DB.DSN, runs, logger); err != nil {
				logger.Error("failed to persist run", "error", err)
				os.Exit(1)
			}
		}
		logger.Info("run complete",
			"mode", *mode,
			"processed", sum.Processed,
			"skipped_empty", sum.SkippedEmpty,
			"failed", sum.Failed,
			"output", *output,
		)
	}
}

// strategyRecords is one strategy's flat output for persistence; a comparison
// run carries two under the same run ID.
type strategyRecords struct {
	strategy string
	records  []fields.FieldRecord
}

func saveRun(ctx context.Context, dsn string, runs []strategyRecords, logger *slog.Logger) error {
	st, err := store.Open(ctx, dsn, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("store close error", "error", cerr)
		}
	}()

	runID := uuid.New().String()
	for _, run := range runs {
		if err := st.SaveRun(ctx, runID, run.strategy, run.records); err != nil {
			return err
		}
	}
	return nil
}
