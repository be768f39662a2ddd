// Package oracle implements triage.Oracle on top of hosted language models.
//
// The Gemini provider (default) uses native function calling: the model is
// forced to pick one of the four tool declarations. The OpenAI-compatible
// provider goes through langchaingo and asks for the same selection as a
// JSON object. Both share the instruction prompt in prompt.go, optionally
// scrub credentials out of the email before it leaves the process, and can
// be wrapped in a rate limiter.
package oracle
