package triage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/mailtriage/internal/logging"
)

func TestPricingHandler_StableText(t *testing.T) {
	h := PricingHandler{}

	first, err := h.Handle(context.Background(), ActionArgs{})
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), ActionArgs{})
	require.NoError(t, err)

	require.NotNil(t, first)
	assert.Equal(t, PriceList, *first)
	assert.Equal(t, *first, *second)
	assert.True(t, strings.HasPrefix(*first, "¡Hola! Gracias por tu interés"))
	assert.Contains(t, *first, "✨ Paquete Spa Completo: ¡Solo $150!")
	assert.True(t, strings.HasSuffix(*first, "experiencia inolvidable."))
}

func TestAppointmentHandler_LogsEvent(t *testing.T) {
	logger := logging.NewTestLogger()
	metrics := NewMetrics(prometheus.NewRegistry())
	h := NewAppointmentHandler(logger.Logger, metrics)
	h.newID = func() string { return "evt-1" }

	msg, err := h.Handle(context.Background(), ActionArgs{
		Email:      Email{ID: 9, Subject: "Cita", Date: "2025-06-09"},
		Importance: Medium,
	})

	require.NoError(t, err)
	assert.Nil(t, msg)
	logger.AssertLogged(t, zapcore.InfoLevel, "appointment scheduled")
	logger.AssertField(t, "appointment scheduled", "event_id", "evt-1")
	logger.AssertField(t, "appointment scheduled", "email_id", int64(9))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.appointments))
}

func TestComplaintSubject(t *testing.T) {
	assert.Equal(t, "ALERTA: Reclamo Urgente del Correo #42 ya han pasado 5 dias", ComplaintSubject(42, 5, true))
	assert.Equal(t, "ALERTA: Reclamo Urgente del Correo #42", ComplaintSubject(42, 0, false))
	assert.Equal(t, "ALERTA: Reclamo Urgente del Correo #42", ComplaintSubject(42, -3, true))
}

func TestComplaintHandler_FutureDate(t *testing.T) {
	sender := &fakeSender{}
	h := NewComplaintHandler(sender, NewAgeEvaluator(fixedClock(), nil), nil, nil)

	_, err := h.Handle(context.Background(), ActionArgs{
		Email:      Email{ID: 42, Subject: "Reclamo", Body: "Mal servicio", Date: "2025-06-13"},
		Importance: High,
	})

	require.NoError(t, err)
	require.Len(t, sender.alerts, 1)
	assert.Equal(t, "ALERTA: Reclamo Urgente del Correo #42", sender.alerts[0].Subject)
}

func TestComplaintHandler_SendsAlert(t *testing.T) {
	sender := &fakeSender{}
	h := NewComplaintHandler(sender, NewAgeEvaluator(fixedClock(), nil), nil, nil)

	msg, err := h.Handle(context.Background(), ActionArgs{
		Email:      Email{ID: 42, Subject: "Pésimo servicio", Body: "Nadie me atendió.", Date: "2025-06-05"},
		Importance: High,
	})

	require.NoError(t, err)
	assert.Nil(t, msg)
	require.Len(t, sender.alerts, 1)
	alert := sender.alerts[0]
	assert.Equal(t, int64(42), alert.EmailID)
	assert.Equal(t, "ALERTA: Reclamo Urgente del Correo #42 ya han pasado 5 dias", alert.Subject)
	assert.Equal(t, "Se ha recibido un reclamo urgente del correo con ID: 42.\n"+
		"identificador: 42\n"+
		"Asunto: Pésimo servicio\n"+
		"Contenido:\nNadie me atendió.\n\n"+
		"Por favor, revisa este caso de inmediato.", alert.Body)
}

func TestComplaintHandler_UnparseableDateStillSends(t *testing.T) {
	sender := &fakeSender{}
	h := NewComplaintHandler(sender, NewAgeEvaluator(fixedClock(), nil), nil, nil)

	_, err := h.Handle(context.Background(), ActionArgs{Email: Email{ID: 3, Date: "ayer"}, Importance: High})

	require.NoError(t, err)
	require.Len(t, sender.alerts, 1)
	assert.Equal(t, "ALERTA: Reclamo Urgente del Correo #3", sender.alerts[0].Subject)
}

func TestComplaintHandler_TransportFailureSwallowed(t *testing.T) {
	logger := logging.NewTestLogger()
	metrics := NewMetrics(prometheus.NewRegistry())
	sender := &fakeSender{err: errBoom}
	h := NewComplaintHandler(sender, NewAgeEvaluator(fixedClock(), nil), logger.Logger, metrics)

	msg, err := h.Handle(context.Background(), ActionArgs{Email: Email{ID: 1, Date: "2025-06-01"}, Importance: High})

	require.NoError(t, err)
	assert.Nil(t, msg)
	logger.AssertLogged(t, zapcore.ErrorLevel, "complaint alert not delivered")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.alertFailures))
}

func TestFeedbackHandler_AppendsEntry(t *testing.T) {
	store := &memStore{}
	h := NewFeedbackHandler(store, fixedClock(), nil, nil)

	msg, err := h.Handle(context.Background(), ActionArgs{Email: Email{ID: 5, Body: "¡Me encantó el masaje!"}})

	require.NoError(t, err)
	assert.Nil(t, msg)
	require.Len(t, store.entries, 1)
	assert.Equal(t, "--- Testimonio de 2025-06-10 ---\nMensaje: ¡Me encantó el masaje!\n", store.entries[0])
}

func TestFeedbackHandler_StorageFailureIsFatal(t *testing.T) {
	h := NewFeedbackHandler(&memStore{err: errBoom}, fixedClock(), nil, nil)

	_, err := h.Handle(context.Background(), ActionArgs{Email: Email{ID: 5, Body: "x"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errBoom)
}

func TestFeedbackHandler_Concurrent(t *testing.T) {
	store := &memStore{}
	h := NewFeedbackHandler(store, fixedClock(), nil, nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.Handle(context.Background(), ActionArgs{Email: Email{ID: int64(i), Body: fmt.Sprintf("gracias %d", i)}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.entries, n)
}
