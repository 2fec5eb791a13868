// Package providers defines the completion interface the fallback chain
// consumes and the request/response envelope shared by all adapters.
package providers

import "context"

// Request is a single system+user completion request.
type Request struct {
	System    string
	User      string
	MaxTokens int
}

// Completer produces a text completion for a prompt pair.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
