package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

type completerChain struct {
	primary  Completer
	fallback Completer
}

// WithFallback returns a completer that tries primary first and falls back
// when the primary is unavailable or fails.
func WithFallback(primary, fallback Completer) Completer {
	if primary == nil {
		return fallback
	}
	if fallback == nil {
		return primary
	}
	return &completerChain{primary: primary, fallback: fallback}
}

func (c *completerChain) Enabled() bool {
	if c == nil {
		return false
	}
	if c.primary != nil && c.primary.Enabled() {
		return true
	}
	return c.fallback != nil && c.fallback.Enabled()
}

func (c *completerChain) Complete(ctx context.Context, req Request) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}
	var primaryErr error
	if c.primary != nil && c.primary.Enabled() {
		reply, err := c.primary.Complete(ctx, req)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, nil
		}
		if err == nil {
			err = ErrEmptyReply
		}
		primaryErr = err
		logrus.WithError(err).Warn("primary language model failed, trying fallback")
	}
	if c.fallback != nil && c.fallback.Enabled() {
		reply, err := c.fallback.Complete(ctx, req)
		if err != nil && primaryErr != nil {
			return "", errors.Join(primaryErr, err)
		}
		return reply, err
	}
	if primaryErr != nil {
		return "", primaryErr
	}
	return "", ErrDisabled
}
