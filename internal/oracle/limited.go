package oracle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// Limited throttles calls to the wrapped oracle. Waiting honours ctx, so a
// request that cannot get a token before its deadline fails instead of
// queueing.
type Limited struct {
	next    triage.Oracle
	limiter *rate.Limiter
}

// NewLimited allows perSecond calls with the given burst. perSecond <= 0
// disables limiting.
func NewLimited(next triage.Oracle, perSecond float64, burst int) *Limited {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Decide implements triage.Oracle.
func (l *Limited) Decide(ctx context.Context, email triage.Email) (*triage.Decision, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("oracle rate limit: %w", err)
	}
	return l.next.Decide(ctx, email)
}
