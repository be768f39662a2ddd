package triage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/logging"
)

// DateLayout is the received-date format.
const DateLayout = "2006-01-02"

// escalationThresholdDays is the age past which importance moves up a level.
const escalationThresholdDays = 2

// Clock supplies "today" in a reference time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock returns a Clock on time.Now in loc (UTC when nil).
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current calendar date at midnight UTC.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgeEvaluator escalates importance for stale emails.
type AgeEvaluator struct {
	clock  Clock
	logger *logging.Logger
}

// NewAgeEvaluator creates an evaluator. A nil logger discards warnings.
func NewAgeEvaluator(clock Clock, logger *logging.Logger) *AgeEvaluator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AgeEvaluator{clock: clock, logger: logger}
}

const secondsPerDay = 24 * 60 * 60

// DaysSince returns whole calendar days between date and today, negative for
// dates in the future. ok is false when date is not YYYY-MM-DD.
func (a *AgeEvaluator) DaysSince(date string) (days int, ok bool) {
	received, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, false
	}
	// Unix seconds instead of time.Sub, which saturates past ~292 years.
	return int((a.clock.Today().Unix() - received.Unix()) / secondsPerDay), true
}

// Evaluate returns importance raised one level when date is more than two
// days old. Malformed dates leave importance as is.
func (a *AgeEvaluator) Evaluate(ctx context.Context, date string, importance Importance) Importance {
	days, ok := a.DaysSince(date)
	if !ok {
		a.logger.Warn(ctx, "unparseable received date, skipping age escalation",
			zap.String("date", date))
		return importance
	}
	if days > escalationThresholdDays {
		return importance.Escalate()
	}
	return importance
}
