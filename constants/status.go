package constants

// DocStatus is the per-document outcome recorded by the batch processor.
type DocStatus string

// Stable values (logged and stored as-is).
const (
	DocStatusProcessed    DocStatus = "PROCESSED"     // record emitted
	DocStatusSkippedEmpty DocStatus = "SKIPPED_EMPTY" // no text after embedded + OCR
	DocStatusFailed       DocStatus = "FAILED"        // unreadable or corrupt input
)
