package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/logging"
)

// InstrumentationName identifies spans emitted by this package.
const InstrumentationName = "github.com/fyrsmithlabs/mailtriage/internal/triage"

// DefaultOracleTimeout bounds a single oracle call.
const DefaultOracleTimeout = 30 * time.Second

// Span events, in the order a successful classification emits them.
const (
	EventReceived         = "received"
	EventOracleInvoked    = "oracle_invoked"
	EventActionDispatched = "action_dispatched"
	EventAgeAdjusted      = "age_adjusted"
	EventCompleted        = "completed"
	EventFailed           = "failed"
)

// Oracle chooses a tool and importance for an email.
type Oracle interface {
	Decide(ctx context.Context, email Email) (*Decision, error)
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Classifier) { c.tracer = t }
}

// WithMetrics records Prometheus metrics for each classification.
func WithMetrics(m *Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// WithOracleTimeout sets the per-call oracle deadline. Non-positive values
// are ignored.
func WithOracleTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Classifier runs the decide, dispatch and age-adjust pipeline for one email.
type Classifier struct {
	oracle     Oracle
	dispatcher *Dispatcher
	ages       *AgeEvaluator
	logger     *logging.Logger
	tracer     trace.Tracer
	metrics    *Metrics
	timeout    time.Duration
}

// NewClassifier creates a classifier.
func NewClassifier(oracle Oracle, dispatcher *Dispatcher, ages *AgeEvaluator, logger *logging.Logger, opts ...Option) (*Classifier, error) {
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if ages == nil {
		return nil, errors.New("age evaluator is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &Classifier{
		oracle:     oracle,
		dispatcher: dispatcher,
		ages:       ages,
		logger:     logger,
		tracer:     otel.Tracer(InstrumentationName),
		timeout:    DefaultOracleTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Classify decides, dispatches and age-adjusts email. The returned
// Classification echoes the request fields; only category and importance
// come from the oracle.
func (c *Classifier) Classify(ctx context.Context, email Email) (*Classification, error) {
	ctx = logging.WithEmailID(ctx, email.ID)
	ctx, span := c.tracer.Start(ctx, "triage.classify",
		trace.WithAttributes(attribute.Int64("email.id", email.ID)))
	defer span.End()

	span.AddEvent(EventReceived)

	category, importance, err := c.decide(ctx, email)
	span.AddEvent(EventOracleInvoked)
	if err != nil {
		return nil, c.fail(ctx, span, err)
	}

	result, err := c.dispatcher.Dispatch(ctx, category, ActionArgs{Email: email, Importance: importance})
	if err != nil {
		// Handler failures happen after dispatch; an unmapped category never reached one.
		if !errors.Is(err, ErrDispatch) {
			span.AddEvent(EventActionDispatched, trace.WithAttributes(
				attribute.String("triage.action", category.Tool())))
		}
		return nil, c.fail(ctx, span, err)
	}
	span.AddEvent(EventActionDispatched, trace.WithAttributes(
		attribute.String("triage.action", result.Action)))

	final := c.ages.Evaluate(ctx, email.Date, result.Importance)
	span.AddEvent(EventAgeAdjusted, trace.WithAttributes(
		attribute.String("triage.importance.before", result.Importance.String()),
		attribute.String("triage.importance.after", final.String())))

	span.SetAttributes(
		attribute.String("triage.category", category.String()),
		attribute.String("triage.importance", final.String()),
	)
	span.AddEvent(EventCompleted)
	c.metrics.Classified(category, final)

	c.logger.Info(ctx, "email classified",
		zap.String("category", category.String()),
		zap.String("importance", final.String()),
		zap.String("action", result.Action),
	)

	return &Classification{
		ID:         email.ID,
		Subject:    email.Subject,
		EmailText:  email.Body,
		Date:       email.Date,
		Category:   category,
		Importance: final,
		Message:    result.Message,
	}, nil
}

func (c *Classifier) decide(ctx context.Context, email Email) (Category, Importance, error) {
	octx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	decision, err := c.oracle.Decide(octx, email)
	c.metrics.OracleObserved(time.Since(start))
	if err != nil {
		if errors.Is(err, ErrDecision) {
			return 0, 0, err
		}
		return 0, 0, fmt.Errorf("%w: %w", ErrDecision, err)
	}
	if decision == nil || decision.Tool == "" {
		return 0, 0, fmt.Errorf("%w: no tool selected", ErrDecision)
	}

	category, ok := CategoryForTool(decision.Tool)
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown tool %q", ErrDispatch, decision.Tool)
	}

	importance, err := ParseImportance(decision.Importance)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrDecision, err)
	}
	return category, importance, nil
}

func (c *Classifier) fail(ctx context.Context, span trace.Span, err error) error {
	span.AddEvent(EventFailed, trace.WithAttributes(
		attribute.String("error.message", err.Error())))
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error(ctx, "classification failed", zap.Error(err))
	return err
}
