package constants

// DocTypeInvoice is the fixed document tag carried by every emitted record.
const DocTypeInvoice = "invoice"

// CurrencyCodes holds the recognized ISO 4217 codes, in match order.
var CurrencyCodes = []string{"GBP", "USD", "INR", "EUR", "CAD", "AUD"}

// CurrencySymbols maps symbols to ISO codes. Priority order lives in
// CurrencySymbolPriority; map iteration order is not usable here.
var CurrencySymbols = map[string]string{
	"£": "GBP",
	"$": "USD",
	"₹": "INR",
}

// CurrencySymbolPriority is the order symbols are checked when no ISO code
// appears in the text.
var CurrencySymbolPriority = []string{"£", "$", "₹"}

// StrategyRegex and StrategyLLM name the two extraction strategies in
// comparison output and accuracy maps.
const (
	StrategyRegex = "regex"
	StrategyLLM   = "llm"
)
