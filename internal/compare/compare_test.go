package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

// fixed returns the same record regardless of input text.
type fixed struct {
	name string
	rec  fields.FieldRecord
}

func (f fixed) Name() string { return f.name }
func (f fixed) Extract(_ context.Context, _, _ string) fields.FieldRecord {
	return f.rec
}

func record(mutate func(*fields.FieldRecord)) fields.FieldRecord {
	r := fields.NewRecord("a.pdf")
	r.InvoiceNumber = fields.Str("INV-1")
	r.Currency = fields.Str("GBP")
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestDiffIdenticalRecordsIsEmpty(t *testing.T) {
	a, b := record(nil), record(nil)
	assert.Empty(t, Diff(a, b))
}

func TestDiffNullEqualsNull(t *testing.T) {
	a, b := fields.NewRecord("a.pdf"), fields.NewRecord("a.pdf")
	assert.Empty(t, Diff(a, b))
}

func TestDiffSingleFieldDisagreement(t *testing.T) {
	a := record(nil)
	b := record(func(r *fields.FieldRecord) { r.Currency = fields.Str("USD") })

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	d, ok := diffs["currency"]
	require.True(t, ok)
	assert.Equal(t, "GBP", d.Regex)
	assert.Equal(t, "USD", d.LLM)
}

func TestDiffNullVersusValue(t *testing.T) {
	a := record(func(r *fields.FieldRecord) { r.TotalAmount = fields.Num(100) })
	b := record(nil)

	diffs := Diff(a, b)
	require.Contains(t, diffs, "total_amount")
	assert.Equal(t, 100.0, diffs["total_amount"].Regex)
	assert.Nil(t, diffs["total_amount"].LLM)
}

func TestAccuracyHalfMatched(t *testing.T) {
	gt := fields.FieldRecord{
		InvoiceNumber: fields.Str("INV-1"),
		TotalAmount:   fields.Num(100.0),
		SourceFile:    "a.pdf",
	}
	rec := fields.NewRecord("a.pdf")
	rec.InvoiceNumber = fields.Str("INV-1")

	assert.Equal(t, 50.0, Accuracy(rec, gt))
}

func TestAccuracyIgnoresNullGroundTruthFields(t *testing.T) {
	gt := fields.FieldRecord{InvoiceNumber: fields.Str("INV-1"), SourceFile: "a.pdf"}
	rec := fields.NewRecord("a.pdf")
	rec.InvoiceNumber = fields.Str("INV-1")
	rec.Currency = fields.Str("EUR") // not in ground truth, must not count

	assert.Equal(t, 100.0, Accuracy(rec, gt))
}

func TestAccuracyRounding(t *testing.T) {
	gt := fields.FieldRecord{
		InvoiceNumber: fields.Str("INV-1"),
		InvoiceDate:   fields.Str("03 Nov 2022"),
		VendorName:    fields.Str("Acme Ltd"),
		SourceFile:    "a.pdf",
	}
	rec := fields.NewRecord("a.pdf")
	rec.InvoiceNumber = fields.Str("INV-1")

	// 1 of 3 -> 33.33, not a long fraction.
	assert.Equal(t, 33.33, Accuracy(rec, gt))
}

func TestCompareWithoutGroundTruth(t *testing.T) {
	h := NewHarness(
		fixed{name: "regex", rec: record(nil)},
		fixed{name: "llm", rec: record(nil)},
		nil,
	)
	rec := h.Compare(context.Background(), "text", "a.pdf", nil)

	assert.Empty(t, rec.Differences)
	assert.Empty(t, rec.Accuracy)
}

func TestCompareScoresBothStrategies(t *testing.T) {
	gt := record(nil)
	h := NewHarness(
		fixed{name: "regex", rec: record(nil)},
		fixed{name: "llm", rec: record(func(r *fields.FieldRecord) { r.Currency = fields.Str("USD") })},
		nil,
	)
	rec := h.Compare(context.Background(), "text", "a.pdf", &gt)

	require.Len(t, rec.Accuracy, 2)
	assert.Equal(t, 100.0, rec.Accuracy["regex"])
	assert.Equal(t, 50.0, rec.Accuracy["llm"])
	assert.Contains(t, rec.Differences, "currency")
}

func TestSummarizeMeansOverScoredDocuments(t *testing.T) {
	records := []Record{
		{Accuracy: map[string]float64{"regex": 100, "llm": 50}},
		{Accuracy: map[string]float64{"regex": 50, "llm": 100}},
		{}, // no ground truth, excluded from the mean
	}
	stats := Summarize(records)

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 2, stats.Scored)
	assert.Equal(t, 75.0, stats.MeanAccuracy["regex"])
	assert.Equal(t, 75.0, stats.MeanAccuracy["llm"])
}

func TestSummarizeNoScoredDocuments(t *testing.T) {
	stats := Summarize([]Record{{}, {}})
	assert.Equal(t, 0, stats.Scored)
	assert.Empty(t, stats.MeanAccuracy)
}
