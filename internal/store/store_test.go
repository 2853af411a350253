package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhana112/PDF-Invoice-Extractor/constants"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "run.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveRunPersistsRecords(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := fields.NewRecord("a.pdf")
	rec.InvoiceNumber = fields.Str("INV-1")
	rec.TotalAmount = fields.Num(450.5)
	nullRec := fields.NewRecord("b.pdf")

	require.NoError(t, s.SaveRun(ctx, "run-1", constants.StrategyRegex, []fields.FieldRecord{rec, nullRec}))

	n, err := s.CountRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSaveRunKeepsRunsSeparate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveRun(ctx, "run-1", constants.StrategyRegex, []fields.FieldRecord{fields.NewRecord("a.pdf")}))
	require.NoError(t, s.SaveRun(ctx, "run-2", constants.StrategyRegex, []fields.FieldRecord{fields.NewRecord("b.pdf"), fields.NewRecord("c.pdf")}))

	n, err := s.CountRun(ctx, "run-2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountRun(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSaveRunBothStrategiesUnderOneRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	docs := []fields.FieldRecord{fields.NewRecord("a.pdf"), fields.NewRecord("b.pdf")}
	require.NoError(t, s.SaveRun(ctx, "run-1", constants.StrategyRegex, docs))
	require.NoError(t, s.SaveRun(ctx, "run-1", constants.StrategyLLM, docs))

	n, err := s.CountRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = s.CountRunStrategy(ctx, "run-1", constants.StrategyLLM)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSaveRunEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveRun(ctx, "run-1", constants.StrategyRegex, nil))

	n, err := s.CountRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
