package fields

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, text string) FieldRecord {
	t.Helper()
	return NewCascade(nil).Extract(context.Background(), text, "doc.pdf")
}

func TestInvoiceNumberLabeledPatterns(t *testing.T) {
	cases := map[string]string{
		"Invoice # INV-2024-001\nTotal: 500.00": "INV-2024-001",
		"Invoice No: 42/A":                      "42/A",
		"Inv No- 7781":                          "7781",
		"Bill No: B-99":                         "B-99",
		"invoice #: abc-123":                    "abc-123",
	}
	for text, want := range cases {
		rec := extract(t, text)
		require.NotNil(t, rec.InvoiceNumber, "text: %q", text)
		assert.Equal(t, want, *rec.InvoiceNumber, "text: %q", text)
	}
}

func TestInvoiceNumberRejectsEmailFragment(t *testing.T) {
	// The labeled tier must not swallow an email; with no other label the
	// field stays null.
	rec := extract(t, "Invoice # billing@acme.com")
	assert.Nil(t, rec.InvoiceNumber)

	// A later tier may still succeed once the email candidate is rejected.
	rec = extract(t, "Invoice # billing@acme.com\nBill No: B-12")
	require.NotNil(t, rec.InvoiceNumber)
	assert.Equal(t, "B-12", *rec.InvoiceNumber)
}

func TestInvoiceDateShapes(t *testing.T) {
	cases := map[string]string{
		"Invoice Date: 03/11/2022": "03/11/2022",
		"Dated 2022-11-03":         "2022-11-03",
		"Date: 03 Nov 2022":        "03 Nov 2022",
		"Date: Nov 03, 2022":       "Nov 03, 2022",
		"Date- 01-05-24":           "01-05-24",
	}
	for text, want := range cases {
		rec := extract(t, text)
		require.NotNil(t, rec.InvoiceDate, "text: %q", text)
		assert.Equal(t, want, *rec.InvoiceDate, "text: %q", text)
	}
}

func TestInvoiceDateUnlabeledFallback(t *testing.T) {
	rec := extract(t, "Some header\nShipped 12 Jan 2023 by courier")
	require.NotNil(t, rec.InvoiceDate)
	assert.Equal(t, "12 Jan 2023", *rec.InvoiceDate)
}

func TestVendorLegalEntityLine(t *testing.T) {
	text := "INVOICE\nAcme Widgets Ltd\n12 High Street\nLondon"
	rec := extract(t, text)
	require.NotNil(t, rec.VendorName)
	assert.Equal(t, "Acme Widgets Ltd", *rec.VendorName)
}

func TestVendorSkipsAddressLines(t *testing.T) {
	// The address line contains "Ltd" but also an address indicator, so the
	// next tier has to pick up the name.
	text := "Street Traders Ltd Road Office\nWeb: example.com\nNorthwind Traders\nInvoice # 5"
	rec := extract(t, text)
	require.NotNil(t, rec.VendorName)
	assert.Equal(t, "Northwind Traders", *rec.VendorName)
}

func TestVendorWebFollowerLine(t *testing.T) {
	text := "Contact us\nWeb: www.example.com\nGlobex Partners\nTotal: 10.00"
	rec := extract(t, text)
	require.NotNil(t, rec.VendorName)
	assert.Equal(t, "Globex Partners", *rec.VendorName)
}

func TestVendorCapitalizedRunFallback(t *testing.T) {
	rec := extract(t, "invoice issued by\nNorthern Lights Trading\nthanks")
	require.NotNil(t, rec.VendorName)
	assert.Equal(t, "Northern Lights Trading", *rec.VendorName)
}

func TestVendorStripsTrailingRegion(t *testing.T) {
	text := "Web: shop.example\nBristol Makers, United Kingdom\nInvoice # 9"
	rec := extract(t, text)
	require.NotNil(t, rec.VendorName)
	assert.Equal(t, "Bristol Makers", *rec.VendorName)
}

func TestTotalAmountLabeled(t *testing.T) {
	rec := extract(t, "Items: 2\nAmount Due: 1,234.56")
	require.NotNil(t, rec.TotalAmount)
	assert.Equal(t, 1234.56, *rec.TotalAmount)
}

func TestTotalAmountLabelVariants(t *testing.T) {
	cases := map[string]float64{
		"Invoice Total 500.00":  500.00,
		"Balance Due: 2,000.00": 2000.00,
		"Total- 75.25":          75.25,
	}
	for text, want := range cases {
		rec := extract(t, text)
		require.NotNil(t, rec.TotalAmount, "text: %q", text)
		assert.Equal(t, want, *rec.TotalAmount, "text: %q", text)
	}
}

func TestTotalAmountFallbackTakesMaxAboveThreshold(t *testing.T) {
	rec := extract(t, "items 45.00 and 230.50 and 999.99")
	require.NotNil(t, rec.TotalAmount)
	assert.Equal(t, 999.99, *rec.TotalAmount)
}

func TestTotalAmountFallbackNeverPicksSmallValues(t *testing.T) {
	rec := extract(t, "fees 45.00 and 99.10")
	assert.Nil(t, rec.TotalAmount)
}

func TestCurrencyCodeMatch(t *testing.T) {
	rec := extract(t, "Amount due: 100.00 eur")
	require.NotNil(t, rec.Currency)
	assert.Equal(t, "EUR", *rec.Currency)
}

func TestCurrencySymbolPriority(t *testing.T) {
	// Both symbols present and no ISO code: the pound wins by priority.
	rec := extract(t, "£120.00 (approx $150.00)")
	require.NotNil(t, rec.Currency)
	assert.Equal(t, "GBP", *rec.Currency)
}

func TestCurrencyAbsent(t *testing.T) {
	rec := extract(t, "no money mentioned here")
	assert.Nil(t, rec.Currency)
}

func TestEmptyTextYieldsNullRecord(t *testing.T) {
	rec := extract(t, "")
	assert.Equal(t, "invoice", rec.DocType)
	assert.Equal(t, "doc.pdf", rec.SourceFile)
	assert.Nil(t, rec.InvoiceNumber)
	assert.Nil(t, rec.InvoiceDate)
	assert.Nil(t, rec.VendorName)
	assert.Nil(t, rec.TotalAmount)
	assert.Nil(t, rec.Currency)
}

func TestExtractIsDeterministic(t *testing.T) {
	text := "Invoice # INV-7\nDate: 03 Nov 2022\nAcme Ltd\nTotal: 450.00\nGBP"
	first := extract(t, text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extract(t, text))
	}
}
