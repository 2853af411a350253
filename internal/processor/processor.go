package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhana112/PDF-Invoice-Extractor/constants"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/common"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/compare"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/pdftext"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/truth"
)

// TextAcquirer is the document-to-text stage.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string) (pdftext.PageText, error)
}

// Summary counts per-document outcomes for one run.
type Summary struct {
	Processed    int `json:"processed"`
	SkippedEmpty int `json:"skipped_empty"`
	Failed       int `json:"failed"`
}

// Processor walks documents one at a time, in enumeration order, isolating
// every per-document failure. No state crosses document boundaries except
// the accumulating results and the read-only ground-truth set.
type Processor struct {
	logger   *slog.Logger
	acquirer TextAcquirer
}

func New(acquirer TextAcquirer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, acquirer: acquirer}
}

// ListInputs expands a file-or-directory path into the ordered list of PDF
// documents to process.
func ListInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !constants.IsAllowedExt(filepath.Ext(e.Name())) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ProcessRecords runs a single strategy over every document.
func (p *Processor) ProcessRecords(ctx context.Context, paths []string, strategy fields.Strategy) ([]fields.FieldRecord, Summary) {
	var results []fields.FieldRecord
	var sum Summary
	for _, path := range paths {
		text, ok := p.acquire(ctx, path, &sum)
		if !ok {
			continue
		}
		rec := strategy.Extract(ctx, text, filepath.Base(path))
		results = append(results, rec)
		sum.Processed++
		p.logger.Info("processor.document.ok",
			"path", path,
			"status", constants.DocStatusProcessed,
			"strategy", strategy.Name(),
		)
	}
	return results, sum
}

// ProcessComparisons runs the dual-strategy harness over every document,
// scoring against ground truth where a record exists.
func (p *Processor) ProcessComparisons(ctx context.Context, paths []string, harness *compare.Harness, gt truth.Set) ([]compare.Record, Summary) {
	var results []compare.Record
	var sum Summary
	for _, path := range paths {
		text, ok := p.acquire(ctx, path, &sum)
		if !ok {
			continue
		}
		source := filepath.Base(path)
		var expected *fields.FieldRecord
		if rec, found := gt.Lookup(source); found {
			expected = &rec
		}
		results = append(results, harness.Compare(ctx, text, source, expected))
		sum.Processed++
		p.logger.Info("processor.document.ok",
			"path", path,
			"status", constants.DocStatusProcessed,
			"scored", expected != nil,
		)
	}
	return results, sum
}

// acquire isolates per-document acquisition failures: unreadable documents
// and blank documents are counted and skipped, never fatal.
func (p *Processor) acquire(ctx context.Context, path string, sum *Summary) (string, bool) {
	pages, err := p.acquirer.Acquire(ctx, path)
	if err != nil {
		event := "processor.document.error"
		if errors.Is(err, common.ErrUnreadable) {
			event = "processor.document.unreadable"
		}
		p.logger.Error(event,
			"path", path,
			"status", constants.DocStatusFailed,
			"error", err,
		)
		sum.Failed++
		return "", false
	}
	text := pages.Text()
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("processor.document.empty",
			"path", path,
			"status", constants.DocStatusSkippedEmpty,
		)
		sum.SkippedEmpty++
		return "", false
	}
	return text, true
}
