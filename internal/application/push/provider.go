// Package push defines the push delivery contract and the dispatcher that
// fans a notification out to a user's registered devices.
package push

import "context"

// Failure reasons reported by providers. Unregistered and InvalidToken mark
// the token as permanently dead; everything else is transient or internal.
const (
	ReasonUnregistered = "unregistered"
	ReasonInvalidToken = "invalid-token"
	ReasonThrottled    = "throttled"
	ReasonUnavailable  = "unavailable"
	ReasonInternal     = "internal"
)

// Message is a provider-agnostic push payload.
type Message struct {
	Title string
	Body  string
	// Data rides alongside the visible notification so clients can deep-link.
	Data map[string]string
}

// Result is the outcome for a single token. Results are positional: the i-th
// Result corresponds to the i-th token passed to Send.
type Result struct {
	Success bool
	Reason  string
	Detail  string
}

// Provider delivers one message to a batch of device tokens and reports a
// per-token outcome. Implementations must return exactly one Result per token,
// in order, and only return an error when the whole batch failed to send.
type Provider interface {
	Send(ctx context.Context, tokens []string, msg Message) ([]Result, error)
}

// Disabled is the no-op provider used when no push backend is configured.
// It reports success for every token so the dispatcher stays quiet.
type Disabled struct{}

func (Disabled) Send(_ context.Context, tokens []string, _ Message) ([]Result, error) {
	results := make([]Result, len(tokens))
	for i := range results {
		results[i].Success = true
	}
	return results, nil
}
