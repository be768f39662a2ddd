package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/logging"
)

// PriceList is returned verbatim for pricing inquiries.
const PriceList = `¡Hola! Gracias por tu interés en nuestros servicios. Aquí está nuestra lista de precios:

🧖‍♀️ Masaje Relajante: $80
💆‍♂️ Facial Hidratante: $60
💅 Manicure y Pedicure: $45
✨ Paquete Spa Completo: ¡Solo $150!

Te esperamos en Spa Bella Luna para una experiencia inolvidable.`

// Handler performs the side effect for one category.
type Handler interface {
	Handle(ctx context.Context, args ActionArgs) (*string, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, args ActionArgs) (*string, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, args ActionArgs) (*string, error) {
	return f(ctx, args)
}

// Alert is an outbound complaint notification.
type Alert struct {
	EmailID int64
	Subject string
	Body    string
}

// AlertSender delivers complaint alerts to the operator.
type AlertSender interface {
	SendAlert(ctx context.Context, alert Alert) error
}

// TestimonialStore appends feedback entries.
type TestimonialStore interface {
	Append(ctx context.Context, entry string) error
}

// AppointmentHandler records a scheduling event. It never fails.
type AppointmentHandler struct {
	logger  *logging.Logger
	metrics *Metrics
	newID   func() string
}

// NewAppointmentHandler creates an appointment handler.
func NewAppointmentHandler(logger *logging.Logger, metrics *Metrics) *AppointmentHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AppointmentHandler{logger: logger, metrics: metrics, newID: uuid.NewString}
}

// Handle implements Handler.
func (h *AppointmentHandler) Handle(ctx context.Context, args ActionArgs) (*string, error) {
	h.logger.Info(ctx, "appointment scheduled",
		zap.String("event_id", h.newID()),
		zap.Int64("email_id", args.Email.ID),
		zap.String("subject", args.Email.Subject),
		zap.String("importance", args.Importance.String()),
		zap.String("date", args.Email.Date),
	)
	h.metrics.AppointmentScheduled()
	return nil, nil
}

// PricingHandler answers with PriceList.
type PricingHandler struct{}

// Handle implements Handler.
func (PricingHandler) Handle(context.Context, ActionArgs) (*string, error) {
	msg := PriceList
	return &msg, nil
}

// ComplaintHandler alerts the operator about a complaint. Delivery failures
// are logged and counted, never returned.
type ComplaintHandler struct {
	sender  AlertSender
	ages    *AgeEvaluator
	logger  *logging.Logger
	metrics *Metrics
}

// NewComplaintHandler creates a complaint handler.
func NewComplaintHandler(sender AlertSender, ages *AgeEvaluator, logger *logging.Logger, metrics *Metrics) *ComplaintHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ComplaintHandler{sender: sender, ages: ages, logger: logger, metrics: metrics}
}

// Handle implements Handler.
func (h *ComplaintHandler) Handle(ctx context.Context, args ActionArgs) (*string, error) {
	days, ok := h.ages.DaysSince(args.Email.Date)
	alert := Alert{
		EmailID: args.Email.ID,
		Subject: ComplaintSubject(args.Email.ID, days, ok),
		Body:    ComplaintBody(args.Email),
	}

	if err := h.sender.SendAlert(ctx, alert); err != nil {
		h.metrics.AlertFailed()
		h.logger.Error(ctx, "complaint alert not delivered",
			zap.Int64("email_id", args.Email.ID),
			zap.Error(fmt.Errorf("%w: %w", ErrTransport, err)),
		)
		return nil, nil
	}

	h.logger.Info(ctx, "complaint alert sent",
		zap.Int64("email_id", args.Email.ID),
		zap.String("alert_subject", alert.Subject),
	)
	return nil, nil
}

// ComplaintSubject builds the alert subject. haveDays is false when the
// received date could not be parsed. Future dates get the dateless subject.
func ComplaintSubject(id int64, days int, haveDays bool) string {
	if !haveDays || days < 0 {
		return fmt.Sprintf("ALERTA: Reclamo Urgente del Correo #%d", id)
	}
	return fmt.Sprintf("ALERTA: Reclamo Urgente del Correo #%d ya han pasado %d dias", id, days)
}

// ComplaintBody builds the alert text.
func ComplaintBody(email Email) string {
	return fmt.Sprintf("Se ha recibido un reclamo urgente del correo con ID: %d.\n"+
		"identificador: %d\n"+
		"Asunto: %s\n"+
		"Contenido:\n%s\n\n"+
		"Por favor, revisa este caso de inmediato.", email.ID, email.ID, email.Subject, email.Body)
}

// FeedbackHandler persists testimonials.
type FeedbackHandler struct {
	store   TestimonialStore
	clock   Clock
	logger  *logging.Logger
	metrics *Metrics
}

// NewFeedbackHandler creates a feedback handler. Entries are stamped with
// clock's date.
func NewFeedbackHandler(store TestimonialStore, clock Clock, logger *logging.Logger, metrics *Metrics) *FeedbackHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FeedbackHandler{store: store, clock: clock, logger: logger, metrics: metrics}
}

// Handle implements Handler.
func (h *FeedbackHandler) Handle(ctx context.Context, args ActionArgs) (*string, error) {
	entry := FormatTestimonial(h.clock.Today(), args.Email.Body)
	if err := h.store.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	h.metrics.TestimonialSaved()
	h.logger.Info(ctx, "testimonial saved", zap.Int64("email_id", args.Email.ID))
	return nil, nil
}

// FormatTestimonial renders one testimonial entry.
func FormatTestimonial(day time.Time, body string) string {
	return fmt.Sprintf("--- Testimonio de %s ---\nMensaje: %s\n", day.Format(DateLayout), body)
}
