package notify

import (
	"context"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

type fakeSendGrid struct {
	resp *rest.Response
	err  error
	sent []*mail.SGMailV3
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	return f.resp, f.err
}

func newTestSendGrid(t *testing.T, resp *rest.Response, err error) (*SendGridSender, *fakeSendGrid) {
	t.Helper()
	s, e := NewSendGridSender(SendGridConfig{
		APIKey: "SG.test",
		From:   "spa@example.com",
		To:     "gerente@example.com",
		CC:     []string{"recepcion@example.com"},
	})
	require.NoError(t, e)
	fake := &fakeSendGrid{resp: resp, err: err}
	s.client = fake
	return s, fake
}

func TestSendGridSender_SendAlert(t *testing.T) {
	s, fake := newTestSendGrid(t, &rest.Response{StatusCode: 202}, nil)

	err := s.SendAlert(context.Background(), triage.Alert{EmailID: 42, Subject: "ALERTA", Body: "cuerpo"})

	require.NoError(t, err)
	require.Len(t, fake.sent, 1)
	m := fake.sent[0]
	assert.Equal(t, "ALERTA", m.Subject)
	assert.Equal(t, "spa@example.com", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "gerente@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "recepcion@example.com", m.Personalizations[0].CC[0].Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "cuerpo", m.Content[0].Value)
}

func TestSendGridSender_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp *rest.Response
		err  error
	}{
		{name: "client error", err: assert.AnError},
		{name: "rejected", resp: &rest.Response{StatusCode: 401, Body: `{"errors":[{"message":"bad key"}]}`}},
		{name: "server error", resp: &rest.Response{StatusCode: 500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSendGrid(t, tt.resp, tt.err)
			assert.Error(t, s.SendAlert(context.Background(), triage.Alert{EmailID: 1}))
		})
	}
}

func TestNewSendGridSender_Validation(t *testing.T) {
	_, err := NewSendGridSender(SendGridConfig{From: "a@x", To: "b@x"})
	assert.Error(t, err)
	_, err = NewSendGridSender(SendGridConfig{APIKey: "SG.x", To: "b@x"})
	assert.Error(t, err)
}
