package llm

import "context"

// CompletionClient is the narrow interface to the external text-completion
// service. Failure is a catchable error, never process-fatal.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
