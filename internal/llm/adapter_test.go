package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestStrategyParsesNoisyResponse(t *testing.T) {
	client := &stubClient{response: "```json\n{\"invoice_number\": \"INV-3\", \"total_amount\": 900.10, \"currency\": \"USD\"}\n```"}
	rec := NewStrategy(client, nil).Extract(context.Background(), "some text", "a.pdf")

	assert.Equal(t, "invoice", rec.DocType)
	require.NotNil(t, rec.InvoiceNumber)
	assert.Equal(t, "INV-3", *rec.InvoiceNumber)
	require.NotNil(t, rec.TotalAmount)
	assert.Equal(t, 900.10, *rec.TotalAmount)
}

func TestStrategyServiceErrorYieldsNullRecord(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	rec := NewStrategy(client, nil).Extract(context.Background(), "some text", "a.pdf")

	assert.Equal(t, fields.NewRecord("a.pdf"), rec)
}

func TestStrategyMalformedResponseYieldsNullRecord(t *testing.T) {
	client := &stubClient{response: "sorry, I can't parse that"}
	rec := NewStrategy(client, nil).Extract(context.Background(), "some text", "a.pdf")

	assert.Equal(t, fields.NewRecord("a.pdf"), rec)
}

func TestStrategySchemaViolationYieldsNullRecord(t *testing.T) {
	client := &stubClient{response: `{"invoice_number": 42}`}
	rec := NewStrategy(client, nil).Extract(context.Background(), "some text", "a.pdf")

	assert.Equal(t, fields.NewRecord("a.pdf"), rec)
}

func TestStrategyFallbackSubstitutesCascade(t *testing.T) {
	client := &stubClient{err: errors.New("timeout")}
	cascade := fields.NewCascade(nil)
	rec := NewStrategy(client, nil).WithFallback(cascade).
		Extract(context.Background(), "Invoice # INV-5\nTotal: 300.00", "a.pdf")

	require.NotNil(t, rec.InvoiceNumber)
	assert.Equal(t, "INV-5", *rec.InvoiceNumber)
	require.NotNil(t, rec.TotalAmount)
	assert.Equal(t, 300.00, *rec.TotalAmount)
	assert.Equal(t, 1, client.calls)
}
