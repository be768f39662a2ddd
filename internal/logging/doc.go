// Package logging provides structured, context-aware logging for mailtriage.
//
// Logger wraps Zap and adds:
//   - a Trace level (-2, below Debug)
//   - stdout output with an optional OpenTelemetry bridge
//   - correlation fields pulled from the context (trace, request id, email id)
//   - redaction of secret-named fields and of email bodies
//   - level-aware sampling (errors are never sampled)
//
// Typical use:
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, c.Response().Header().Get(echo.HeaderXRequestID))
//	ctx = logging.WithEmailID(ctx, 42)
//	logger.Info(ctx, "email classified", zap.String("category", "Reclamo"))
//
// Tests use NewTestLogger and its Assert helpers instead of parsing output.
package logging
