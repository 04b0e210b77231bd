package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer sends a single user prompt to a chat-completion provider and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("API credential is not configured")

// ErrUnavailable is returned when the provider is being shed after repeated failures.
var ErrUnavailable = errors.New("completion provider temporarily unavailable")

// StatusError reports a non-2xx reply from the provider.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Status)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
