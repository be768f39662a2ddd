package triage

import (
	"fmt"
	"strings"
)

// Category is the closed set of classifications.
type Category int

const (
	CategoryUnknown Category = iota
	AppointmentRequest
	PricingInquiry
	Complaint
	Feedback
)

// Categories lists every valid category in declaration order.
var Categories = []Category{AppointmentRequest, PricingInquiry, Complaint, Feedback}

var categoryLabels = map[Category]string{
	AppointmentRequest: "Solicitud de cita",
	PricingInquiry:     "Consulta de precios/promociones",
	Complaint:          "Reclamo",
	Feedback:           "Feedback",
}

// Tool names the oracle selects from. They double as action names in logs.
const (
	ToolAppointment = "handle_cita_tool"
	ToolPricing     = "handle_precios_tool"
	ToolComplaint   = "handle_reclamo_tool"
	ToolFeedback    = "handle_feedback_tool"
)

var categoryTools = map[Category]string{
	AppointmentRequest: ToolAppointment,
	PricingInquiry:     ToolPricing,
	Complaint:          ToolComplaint,
	Feedback:           ToolFeedback,
}

var toolCategories = map[string]Category{
	ToolAppointment: AppointmentRequest,
	ToolPricing:     PricingInquiry,
	ToolComplaint:   Complaint,
	ToolFeedback:    Feedback,
}

// String returns the wire label, e.g. "Reclamo".
func (c Category) String() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Valid reports whether c is one of the four categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Tool returns the oracle tool name for c, or "".
func (c Category) Tool() string {
	return categoryTools[c]
}

// MarshalText encodes the wire label.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts a wire label.
func (c *Category) UnmarshalText(text []byte) error {
	for cat, label := range categoryLabels {
		if label == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", text)
}

// CategoryForTool maps an oracle tool name to its category.
func CategoryForTool(tool string) (Category, bool) {
	c, ok := toolCategories[tool]
	return c, ok
}

// Importance is ordered Low < Medium < High.
type Importance int

const (
	ImportanceUnknown Importance = iota
	Low
	Medium
	High
)

var importanceLabels = map[Importance]string{
	Low:    "baja",
	Medium: "media",
	High:   "alta",
}

// ImportanceLabels are the wire values in ascending order.
var ImportanceLabels = []string{"baja", "media", "alta"}

func (i Importance) String() string {
	if l, ok := importanceLabels[i]; ok {
		return l
	}
	return fmt.Sprintf("Importance(%d)", int(i))
}

// Escalate moves one level up, saturating at High.
func (i Importance) Escalate() Importance {
	if i < High {
		return i + 1
	}
	return High
}

// MarshalText encodes the wire label.
func (i Importance) MarshalText() ([]byte, error) {
	if _, ok := importanceLabels[i]; !ok {
		return nil, fmt.Errorf("cannot marshal %s", i)
	}
	return []byte(i.String()), nil
}

// UnmarshalText accepts a wire label.
func (i *Importance) UnmarshalText(text []byte) error {
	v, err := ParseImportance(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// ParseImportance accepts "alta", "media" or "baja", ignoring case and
// surrounding space.
func ParseImportance(s string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baja":
		return Low, nil
	case "media":
		return Medium, nil
	case "alta":
		return High, nil
	}
	return ImportanceUnknown, fmt.Errorf("unknown importance %q", s)
}

// Email is one inbound message. Date is the received calendar date as
// YYYY-MM-DD; other formats are tolerated and skip age-based behaviour.
type Email struct {
	ID      int64
	Subject string
	Body    string
	Date    string
}

// Decision is the oracle's tool selection.
type Decision struct {
	Tool       string
	Importance string
	// Args holds the raw tool arguments for diagnostics.
	Args map[string]any
}

// ActionArgs is what every handler receives.
type ActionArgs struct {
	Email      Email
	Importance Importance
}

// ActionResult is what the dispatcher returns.
type ActionResult struct {
	Category   Category
	Importance Importance
	Action     string
	Message    *string
}

// Classification is the response for one email.
type Classification struct {
	ID         int64      `json:"id"`
	Subject    string     `json:"subject"`
	EmailText  string     `json:"email_text"`
	Date       string     `json:"date"`
	Category   Category   `json:"clasificacion"`
	Importance Importance `json:"importancia"`
	Message    *string    `json:"mensaje"`
}
