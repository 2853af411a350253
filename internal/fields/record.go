package fields

import "github.com/dhana112/PDF-Invoice-Extractor/constants"

// FieldRecord is the canonical extraction result for one document. Every
// field other than DocType and SourceFile is independently nullable; absence
// of one field never blocks extraction of another.
type FieldRecord struct {
	DocType       string   `json:"doc_type"`
	InvoiceNumber *string  `json:"invoice_number"`
	InvoiceDate   *string  `json:"invoice_date"`
	VendorName    *string  `json:"vendor_name"`
	TotalAmount   *float64 `json:"total_amount"`
	Currency      *string  `json:"currency"`
	SourceFile    string   `json:"source_file"`
}

// NewRecord returns an all-null record tagged as an invoice.
func NewRecord(sourceFile string) FieldRecord {
	return FieldRecord{
		DocType:    constants.DocTypeInvoice,
		SourceFile: sourceFile,
	}
}

// ComparableNames lists the fields considered by diffing and accuracy
// scoring, in output order. SourceFile is identity, not content, and is
// excluded.
var ComparableNames = []string{
	"doc_type",
	"invoice_number",
	"invoice_date",
	"vendor_name",
	"total_amount",
	"currency",
}

// Value returns the named field's value, or nil when the field is null.
// Unknown names yield nil.
func (r FieldRecord) Value(name string) any {
	switch name {
	case "doc_type":
		return r.DocType
	case "invoice_number":
		return deref(r.InvoiceNumber)
	case "invoice_date":
		return deref(r.InvoiceDate)
	case "vendor_name":
		return deref(r.VendorName)
	case "total_amount":
		if r.TotalAmount == nil {
			return nil
		}
		return *r.TotalAmount
	case "currency":
		return deref(r.Currency)
	case "source_file":
		return r.SourceFile
	}
	return nil
}

func deref(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Str returns a pointer to s, for building records literally in callers and
// tests.
func Str(s string) *string { return &s }

// Num returns a pointer to f.
func Num(f float64) *float64 { return &f }
