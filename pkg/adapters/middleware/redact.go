package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

const redactedMask = "[REDACTED]"

type redactMiddleware struct {
	next     ports.VariablePool
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks values whose selector path matches any of the
// patterns, so templates referencing sensitive outputs (api keys, PII paths)
// never leak them into the emitted stream.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.VariablePool) ports.VariablePool {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Get(ctx context.Context, sel domain.Selector) (domain.Value, error) {
	val, err := m.next.Get(ctx, sel)
	if err != nil {
		return nil, err
	}
	for _, p := range m.patterns {
		if p.MatchString(sel.Path) {
			return domain.Text(redactedMask), nil
		}
	}
	return val, nil
}
