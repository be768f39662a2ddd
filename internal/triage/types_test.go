package triage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_ToolRoundTrip(t *testing.T) {
	for _, c := range Categories {
		got, ok := CategoryForTool(c.Tool())
		require.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}

	_, ok := CategoryForTool("handle_spam_tool")
	assert.False(t, ok)
}

func TestCategory_Labels(t *testing.T) {
	assert.Equal(t, "Solicitud de cita", AppointmentRequest.String())
	assert.Equal(t, "Consulta de precios/promociones", PricingInquiry.String())
	assert.Equal(t, "Reclamo", Complaint.String())
	assert.Equal(t, "Feedback", Feedback.String())
	assert.False(t, CategoryUnknown.Valid())
}

func TestParseImportance(t *testing.T) {
	tests := []struct {
		in      string
		want    Importance
		wantErr bool
	}{
		{in: "baja", want: Low},
		{in: "media", want: Medium},
		{in: "alta", want: High},
		{in: " ALTA ", want: High},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseImportance(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportance_Escalate(t *testing.T) {
	assert.Equal(t, Medium, Low.Escalate())
	assert.Equal(t, High, Medium.Escalate())
	assert.Equal(t, High, High.Escalate())
	assert.Equal(t, High, High.Escalate().Escalate())
}

func TestClassification_JSON(t *testing.T) {
	msg := "hola"
	c := Classification{
		ID:         7,
		Subject:    "s",
		EmailText:  "b",
		Date:       "2025-06-01",
		Category:   PricingInquiry,
		Importance: Low,
		Message:    &msg,
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"subject":"s","email_text":"b","date":"2025-06-01",
		"clasificacion":"Consulta de precios/promociones","importancia":"baja","mensaje":"hola"}`, string(data))

	c.Message = nil
	data, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mensaje":null`)

	var back Classification
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, PricingInquiry, back.Category)
	assert.Equal(t, Low, back.Importance)
}
