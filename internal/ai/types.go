package ai

import (
	"context"
	"errors"
)

// Completer produces a single chat completion for a system + user prompt.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one grounded question for the language model.
type Request struct {
	System string
	User   string
}

var (
	ErrDisabled   = errors.New("language model disabled")
	ErrEmptyReply = errors.New("language model returned an empty reply")
)
