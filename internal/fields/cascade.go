package fields

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhana112/PDF-Invoice-Extractor/constants"
)

// minPlausibleTotal is the floor for the unlabeled total-amount fallback:
// two-decimal tokens at or below it (quantities, unit prices, VAT rates) are
// never promoted to a document total.
const minPlausibleTotal = 100

// One alternation covering the four recognized date shapes:
// 03/11/2022, 2022-11-03, 03 Nov 2022, Nov 03, 2022.
const dateShapes = `[0-9]{1,2}[/\-][0-9]{1,2}[/\-][0-9]{2,4}` +
	`|[0-9]{4}[/\-][0-9]{1,2}[/\-][0-9]{1,2}` +
	`|[0-9]{1,2}\s*[A-Za-z]+\s*[0-9]{2,4}` +
	`|[A-Za-z]+\s*[0-9]{1,2},\s*[0-9]{4}`

var (
	reInvNumHash = regexp.MustCompile(`(?i)Invoice\s*#\s*[:\-]?\s*([A-Za-z0-9\-/]+)`)
	reInvNumNo   = regexp.MustCompile(`(?i)Invoice\s*No[:\-]?\s*([A-Za-z0-9\-/]+)`)
	reInvNumAlt  = regexp.MustCompile(`(?i)(?:Inv|Bill)\s*(?:No|#)[:\-]?\s*([A-Za-z0-9\-/]+)`)

	reDateLabeled = regexp.MustCompile(`(?i)(?:Dated|Date|Invoice\s*Date)[:\-]?\s*(` + dateShapes + `)`)
	reDateAny     = regexp.MustCompile(`(` + dateShapes + `)`)

	reLegalSuffix    = regexp.MustCompile(`(?i)\b(?:Limited|Ltd|Pvt|LLP|Inc|Corporation|Corp|LLC|Company|Processing)\b`)
	reAddressHint    = regexp.MustCompile(`(?i)\b(?:Street|Road|Rd|Avenue|Ave|Lane|Ln|Drive|Dr|Gloucestershire|India|United|Kingdom|USA)\b`)
	reWebLabel       = regexp.MustCompile(`(?i)^\s*Web\b`)
	reCapitalizedRun = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){1,3})\b`)
	reTrailingRegion = regexp.MustCompile(`(?i)\b(?:United\s+Kingdom|India|USA|U\.S\.A\.|Gloucestershire.*)$`)

	reTotalLabeled = regexp.MustCompile(`(?i)(?:Total|Amount\s*Due|Invoice\s*Total|Balance\s*Due)[:\-\s]*([\d,]+\.\d{2})`)
	reAmountToken  = regexp.MustCompile(`[\d,]+\.\d{2}`)

	reCurrencyCode = regexp.MustCompile(`(?i)\b(` + strings.Join(constants.CurrencyCodes, "|") + `)\b`)
)

// strAttempt is a single extraction attempt for a string-valued field.
// Returning nil means "no match, try the next tier".
type strAttempt func(text string) *string

// numAttempt is a single extraction attempt for the total amount.
type numAttempt func(text string) *float64

// Cascade extracts invoice fields by trying, per field, an ordered list of
// attempts and stopping at the first success. It implements Strategy.
type Cascade struct {
	logger *slog.Logger

	number   []strAttempt
	date     []strAttempt
	vendor   []strAttempt
	total    []numAttempt
	currency []strAttempt
}

// NewCascade builds the cascade with the fallback order fixed at
// construction time.
func NewCascade(logger *slog.Logger) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cascade{
		logger: logger,
		number: []strAttempt{
			labeledNumber(reInvNumHash),
			labeledNumber(reInvNumNo),
			labeledNumber(reInvNumAlt),
		},
		date: []strAttempt{
			matchGroup(reDateLabeled),
			matchGroup(reDateAny),
		},
		vendor: []strAttempt{
			vendorLegalEntityLine,
			vendorWebFollowerLine,
			vendorCapitalizedRun,
		},
		total: []numAttempt{
			totalLabeled,
			totalLargestPlausible,
		},
		currency: []strAttempt{
			currencyCode,
			currencySymbol,
		},
	}
}

func (c *Cascade) Name() string { return constants.StrategyRegex }

// Extract runs every field's cascade over the text. It never fails: an
// unmatched field stays null and is logged at warning level.
func (c *Cascade) Extract(_ context.Context, text, sourceFile string) FieldRecord {
	rec := NewRecord(sourceFile)

	rec.InvoiceNumber = c.first(c.number, text, sourceFile, "invoice_number")
	rec.InvoiceDate = c.first(c.date, text, sourceFile, "invoice_date")
	if v := c.first(c.vendor, text, sourceFile, "vendor_name"); v != nil {
		rec.VendorName = cleanVendor(*v)
		if rec.VendorName == nil {
			c.logger.Warn("cascade.field_not_found", "field", "vendor_name", "source_file", sourceFile)
		}
	}

	for _, attempt := range c.total {
		if v := attempt(text); v != nil {
			rec.TotalAmount = v
			break
		}
	}
	if rec.TotalAmount == nil {
		c.logger.Warn("cascade.field_not_found", "field", "total_amount", "source_file", sourceFile)
	}

	rec.Currency = c.first(c.currency, text, sourceFile, "currency")
	return rec
}

func (c *Cascade) first(attempts []strAttempt, text, sourceFile, field string) *string {
	for _, attempt := range attempts {
		if v := attempt(text); v != nil {
			return v
		}
	}
	c.logger.Warn("cascade.field_not_found", "field", field, "source_file", sourceFile)
	return nil
}

// labeledNumber matches an invoice-number label and rejects candidates
// touching "@" so an email fragment is never mistaken for a number. The
// token class cannot capture "@" itself, so adjacency in the raw text is
// checked too.
func labeledNumber(re *regexp.Regexp) strAttempt {
	return func(text string) *string {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			return nil
		}
		candidate := text[m[2]:m[3]]
		if candidate == "" || strings.Contains(candidate, "@") {
			return nil
		}
		if m[3] < len(text) && text[m[3]] == '@' {
			return nil
		}
		return &candidate
	}
}

func matchGroup(re *regexp.Regexp) strAttempt {
	return func(text string) *string {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		v := strings.TrimSpace(m[1])
		if v == "" {
			return nil
		}
		return &v
	}
}

// vendorLegalEntityLine scans line by line for a legal-entity suffix,
// skipping lines that read like an address block.
func vendorLegalEntityLine(text string) *string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if reLegalSuffix.MatchString(line) && !reAddressHint.MatchString(line) {
			return &line
		}
	}
	return nil
}

// vendorWebFollowerLine takes the first non-empty line after a "Web:" label,
// unless it still reads like an address.
func vendorWebFollowerLine(text string) *string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !reWebLabel.MatchString(line) {
			continue
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			if reAddressHint.MatchString(next) {
				return nil
			}
			return &next
		}
		return nil
	}
	return nil
}

// vendorCapitalizedRun is the last resort: the first run of 2-4 consecutive
// capitalized words anywhere in the text.
func vendorCapitalizedRun(text string) *string {
	m := reCapitalizedRun.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := m[1]
	return &v
}

// cleanVendor strips a trailing country/region token and surrounding
// punctuation. A candidate that cleans down to nothing is discarded.
func cleanVendor(v string) *string {
	v = reTrailingRegion.ReplaceAllString(v, "")
	v = strings.Trim(v, ", ")
	if v == "" {
		return nil
	}
	return &v
}

func totalLabeled(text string) *float64 {
	m := reTotalLabeled.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

// totalLargestPlausible collects every two-decimal token and takes the
// maximum above the plausibility floor. Never assumes zero.
func totalLargestPlausible(text string) *float64 {
	var best *float64
	for _, tok := range reAmountToken.FindAllString(text, -1) {
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
		if err != nil || f <= minPlausibleTotal {
			continue
		}
		if best == nil || f > *best {
			v := f
			best = &v
		}
	}
	return best
}

func currencyCode(text string) *string {
	m := reCurrencyCode.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	code := strings.ToUpper(m[1])
	return &code
}

// currencySymbol infers the code from the first symbol present, in fixed
// priority order.
func currencySymbol(text string) *string {
	for _, sym := range constants.CurrencySymbolPriority {
		if strings.Contains(text, sym) {
			code := constants.CurrencySymbols[sym]
			return &code
		}
	}
	return nil
}
