// Package triage classifies inbound customer emails and runs the action
// that matches each classification.
//
// A Classifier asks an Oracle to pick one of four tools (appointment,
// pricing, complaint, feedback) and an importance level, hands the email to
// the matching Handler through a Dispatcher, then escalates the importance
// one level when the email is more than two days old.
//
//	classifier, err := triage.NewClassifier(oracle, dispatcher, ages, logger)
//	result, err := classifier.Classify(ctx, triage.Email{ID: 42, Subject: "...", Body: "...", Date: "2025-06-01"})
//
// Errors wrap one of ErrDecision, ErrDispatch or ErrStorage. Alert
// transport failures (ErrTransport) are logged and never returned.
package triage
