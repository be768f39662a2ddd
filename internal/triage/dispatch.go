package triage

import (
	"context"
	"fmt"
)

// Dispatcher routes a category to its handler.
type Dispatcher struct {
	handlers map[Category]Handler
}

// NewDispatcher wires one handler per category.
func NewDispatcher(appointment, pricing, complaint, feedback Handler) (*Dispatcher, error) {
	handlers := map[Category]Handler{
		AppointmentRequest: appointment,
		PricingInquiry:     pricing,
		Complaint:          complaint,
		Feedback:           feedback,
	}
	for c, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler for %s is required", c)
		}
	}
	return &Dispatcher{handlers: handlers}, nil
}

// Dispatch invokes the handler for category. Categories outside the closed
// set return ErrDispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, category Category, args ActionArgs) (*ActionResult, error) {
	h, ok := d.handlers[category]
	if !ok {
		return nil, fmt.Errorf("%w: no handler for %s", ErrDispatch, category)
	}
	msg, err := h.Handle(ctx, args)
	if err != nil {
		return nil, err
	}
	return &ActionResult{
		Category:   category,
		Importance: args.Importance,
		Action:     category.Tool(),
		Message:    msg,
	}, nil
}
