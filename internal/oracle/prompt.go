package oracle

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/mailtriage/internal/secrets"
	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// ToolSpec describes one selectable action.
type ToolSpec struct {
	Name        string
	Description string
	// WantsDate is set for tools whose handler uses the received date.
	WantsDate bool
}

// Tools lists the actions offered to the model, one per category.
var Tools = []ToolSpec{
	{
		Name:        triage.ToolAppointment,
		Description: "Maneja los correos de solicitud de cita. Registra el evento de agenda.",
	},
	{
		Name:        triage.ToolPricing,
		Description: "Maneja los correos de consulta de precios o promociones. Responde con la lista de precios.",
	},
	{
		Name:        triage.ToolComplaint,
		Description: "Maneja los correos de reclamo. Envía una notificación por email al gerente del spa.",
		WantsDate:   true,
	},
	{
		Name:        triage.ToolFeedback,
		Description: "Maneja los correos de feedback. Guarda el mensaje en el archivo de testimonios.",
	},
}

// Argument descriptions shared by every tool schema.
const (
	argID         = "id"
	argSubject    = "subject"
	argEmailText  = "email_text"
	argImportance = "importancia"
	argDate       = "date"
)

var argDescriptions = map[string]string{
	argID:         "El ID del correo electrónico.",
	argSubject:    "El asunto del correo electrónico.",
	argEmailText:  "El texto completo del correo electrónico.",
	argImportance: "La importancia asignada al correo.",
	argDate:       "La fecha de recepción del correo (YYYY-MM-DD).",
}

const instructions = `Eres un asistente de clasificación de emails para un spa. Tu tarea es analizar el correo proporcionado y, basándote en su contenido, seleccionar una de las siguientes herramientas para procesarlo. Es **obligatorio** que siempre selecciones una herramienta.

Instrucciones:
1. **Clasifica el correo**: ¿Es una "Solicitud de cita", "Consulta de precios/promociones", "Reclamo", o "Feedback"?
2. **Asigna importancia**: 'alta' (para reclamos), 'media' (para solicitudes de cita), o 'baja' (para otros).
3. **Selecciona la herramienta**: Elige la función de herramienta que coincida con la clasificación y pásale los argumentos correctos.
`

// PromptBuilder renders the instruction prompt for one email.
type PromptBuilder struct {
	scrubber secrets.Scrubber
}

// NewPromptBuilder creates a builder. A nil scrubber leaves text untouched.
func NewPromptBuilder(scrubber secrets.Scrubber) *PromptBuilder {
	if scrubber == nil {
		scrubber = secrets.NoopScrubber{}
	}
	return &PromptBuilder{scrubber: scrubber}
}

// Build returns the prompt for email.
func (b *PromptBuilder) Build(email triage.Email) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	fmt.Fprintf(&sb, "id: %d\n", email.ID)
	fmt.Fprintf(&sb, "Asunto: \"%s\"\n", b.scrubber.Scrub(email.Subject).Scrubbed)
	fmt.Fprintf(&sb, "Correo: \"%s\"\n", b.scrubber.Scrub(email.Body).Scrubbed)
	fmt.Fprintf(&sb, "Fecha: %s\n", email.Date)
	return sb.String()
}

// decisionFromArgs builds a Decision from a tool name and its arguments.
func decisionFromArgs(tool string, args map[string]any) *triage.Decision {
	d := &triage.Decision{Tool: tool, Args: args}
	if v, ok := args[argImportance].(string); ok {
		d.Importance = v
	}
	return d
}
