package compare

import (
	"context"
	"log/slog"
	"math"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

// scoredNames are the fields accuracy is computed over: the comparable set
// minus the constant doc_type tag.
var scoredNames = fields.ComparableNames[1:]

// FieldDiff holds the two strategies' values for one disagreeing field.
type FieldDiff struct {
	Regex any `json:"regex"`
	LLM   any `json:"llm"`
}

// Record pairs the two strategies' results for one document, with their
// per-field differences and, when ground truth exists, per-strategy
// accuracy percentages.
type Record struct {
	SourceFile  string               `json:"source_file"`
	Regex       fields.FieldRecord   `json:"regex"`
	LLM         fields.FieldRecord   `json:"llm"`
	Differences map[string]FieldDiff `json:"differences"`
	Accuracy    map[string]float64   `json:"accuracy,omitempty"`
}

// Harness runs two extraction strategies over the same text and scores them.
type Harness struct {
	regex  fields.Strategy
	llm    fields.Strategy
	logger *slog.Logger
}

func NewHarness(regex, llm fields.Strategy, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{regex: regex, llm: llm, logger: logger}
}

// Compare runs both strategies and builds the comparison record. A nil
// ground truth leaves the accuracy map empty; it is never an error.
func (h *Harness) Compare(ctx context.Context, text, sourceFile string, gt *fields.FieldRecord) Record {
	a := h.regex.Extract(ctx, text, sourceFile)
	b := h.llm.Extract(ctx, text, sourceFile)

	rec := Record{
		SourceFile:  sourceFile,
		Regex:       a,
		LLM:         b,
		Differences: Diff(a, b),
	}

	if gt != nil {
		rec.Accuracy = map[string]float64{
			h.regex.Name(): Accuracy(a, *gt),
			h.llm.Name():   Accuracy(b, *gt),
		}
		h.logWinner(rec)
	}
	return rec
}

// Diff returns every comparable field where the two records disagree.
// Null equals null; everything else is strict value equality.
func Diff(a, b fields.FieldRecord) map[string]FieldDiff {
	diffs := make(map[string]FieldDiff)
	for _, name := range fields.ComparableNames {
		va, vb := a.Value(name), b.Value(name)
		if va != vb {
			diffs[name] = FieldDiff{Regex: va, LLM: vb}
		}
	}
	return diffs
}

// Accuracy scores a record against ground truth: the percentage of non-null
// ground-truth fields (source_file and doc_type excluded) the record
// matches, rounded to two decimal places.
func Accuracy(rec, gt fields.FieldRecord) float64 {
	var total, matched int
	for _, name := range scoredNames {
		want := gt.Value(name)
		if want == nil {
			continue
		}
		total++
		if rec.Value(name) == want {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return round2(float64(matched) / float64(total) * 100)
}

func (h *Harness) logWinner(rec Record) {
	ra, rb := rec.Accuracy[h.regex.Name()], rec.Accuracy[h.llm.Name()]
	winner := "tie"
	switch {
	case ra > rb:
		winner = h.regex.Name()
	case rb > ra:
		winner = h.llm.Name()
	}
	h.logger.Info("compare.scored",
		"source_file", rec.SourceFile,
		"winner", winner,
		h.regex.Name(), ra,
		h.llm.Name(), rb,
	)
}

// Stats aggregates a run: mean per-document accuracy per strategy over the
// documents that had ground truth.
type Stats struct {
	Documents    int                `json:"documents"`
	Scored       int                `json:"scored"`
	MeanAccuracy map[string]float64 `json:"mean_accuracy,omitempty"`
}

// Summarize computes run-level statistics from comparison records.
func Summarize(records []Record) Stats {
	stats := Stats{Documents: len(records)}
	sums := make(map[string]float64)
	for _, rec := range records {
		if len(rec.Accuracy) == 0 {
			continue
		}
		stats.Scored++
		for name, acc := range rec.Accuracy {
			sums[name] += acc
		}
	}
	if stats.Scored > 0 {
		stats.MeanAccuracy = make(map[string]float64, len(sums))
		for name, sum := range sums {
			stats.MeanAccuracy[name] = round2(sum / float64(stats.Scored))
		}
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
