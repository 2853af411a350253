package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

// CleanResponse strips the formatting noise models wrap around JSON: code
// fences first, then everything outside the outermost brace pair.
func CleanResponse(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}

// DecodeFields maps a cleaned JSON object onto the canonical field schema.
// Unrecognized or missing keys default to null; total_amount tolerates both
// numeric and string encodings.
func DecodeFields(doc []byte, sourceFile string) (fields.FieldRecord, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return fields.FieldRecord{}, fmt.Errorf("decode fields: %w", err)
	}

	rec := fields.NewRecord(sourceFile)
	rec.InvoiceNumber = strField(m, "invoice_number")
	rec.InvoiceDate = strField(m, "invoice_date")
	rec.VendorName = strField(m, "vendor_name")
	rec.TotalAmount = numField(m, "total_amount")
	if c := strField(m, "currency"); c != nil {
		code := strings.ToUpper(*c)
		rec.Currency = &code
	}
	return rec, nil
}

func strField(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

// numField accepts a JSON number or a decimal string, dropping thousands
// separators and currency noise a model sometimes leaves in.
func numField(m map[string]any, key string) *float64 {
	switch t := m[key].(type) {
	case float64:
		if t < 0 {
			return nil
		}
		return &t
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return nil
		}
		return &f
	}
	return nil
}
