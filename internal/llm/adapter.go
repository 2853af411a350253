package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dhana112/PDF-Invoice-Extractor/constants"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

// Strategy produces a FieldRecord through the external completion service.
// Every failure — service error, malformed response, schema mismatch — is
// absorbed here: the caller gets either the parsed record, the installed
// fallback's record, or an all-null record. It never propagates an error.
type Strategy struct {
	client   CompletionClient
	logger   *slog.Logger
	fallback fields.Strategy
}

func NewStrategy(client CompletionClient, logger *slog.Logger) *Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Strategy{client: client, logger: logger}
}

// WithFallback installs a substitute strategy used when the model path
// fails. Comparison runs must not install one, so the two strategies stay
// independent.
func (s *Strategy) WithFallback(f fields.Strategy) *Strategy {
	s.fallback = f
	return s
}

func (s *Strategy) Name() string { return constants.StrategyLLM }

func (s *Strategy) Extract(ctx context.Context, text, sourceFile string) fields.FieldRecord {
	rec, err := s.extract(ctx, text, sourceFile)
	if err == nil {
		return rec
	}
	s.logger.Error("llm.extract.failed", "source_file", sourceFile, "error", err)
	if s.fallback != nil {
		s.logger.Warn("llm.extract.fallback", "source_file", sourceFile, "strategy", s.fallback.Name())
		return s.fallback.Extract(ctx, text, sourceFile)
	}
	return fields.NewRecord(sourceFile)
}

func (s *Strategy) extract(ctx context.Context, text, sourceFile string) (fields.FieldRecord, error) {
	raw, err := s.client.Complete(ctx, BuildSystemPrompt(), BuildUserPrompt(text))
	if err != nil {
		return fields.FieldRecord{}, fmt.Errorf("completion: %w", err)
	}

	cleaned, err := CleanResponse(raw)
	if err != nil {
		return fields.FieldRecord{}, fmt.Errorf("clean response: %w", err)
	}

	doc := []byte(cleaned)
	if err := ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), doc); err != nil {
		return fields.FieldRecord{}, fmt.Errorf("validate response: %w", err)
	}

	rec, err := DecodeFields(doc, sourceFile)
	if err != nil {
		return fields.FieldRecord{}, err
	}

	s.logger.Info("llm.extract.ok",
		"source_file", sourceFile,
		"invoice_number", rec.Value("invoice_number"),
		"total_amount", rec.Value("total_amount"),
		"currency", rec.Value("currency"),
	)
	return rec, nil
}
