package secrets

// DefaultRules covers what customers tend to paste into emails by mistake:
// card numbers, passwords, and API keys.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "credit-card",
			Description: "Payment card number",
			Pattern:     `\b(?:4\d{3}|5[1-5]\d{2}|3[47]\d{2}|6011)(?:[ -]?\d{4}){2}[ -]?\d{1,4}\b`,
		},
		{
			ID:          "password",
			Description: "Password or secret assignment",
			Pattern:     `(?i)(?:password|passwd|pwd|contrase(?:ñ|n)a|clave|secret)\s*[:=]\s*\S{4,}`,
			Keywords:    []string{"pass", "pwd", "contrase", "clave", "secret"},
		},
		{
			ID:          "generic-api-key",
			Description: "API key assignment",
			Pattern:     `(?i)(?:api[_-]?key|apikey)\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,64}['"]?`,
			Keywords:    []string{"api"},
		},
		{
			ID:          "bearer-token",
			Description: "Bearer token",
			Pattern:     `(?i)bearer\s+[A-Za-z0-9\-._~+/]{20,}=*`,
			Keywords:    []string{"bearer"},
		},
		{
			ID:          "google-api-key",
			Description: "Google API key",
			Pattern:     `AIza[0-9A-Za-z_\-]{35}`,
		},
		{
			ID:          "sendgrid-api-key",
			Description: "SendGrid API key",
			Pattern:     `SG\.[A-Za-z0-9_\-]{22}\.[A-Za-z0-9_\-]{43}`,
		},
		{
			ID:          "openai-api-key",
			Description: "OpenAI API key",
			Pattern:     `sk-(?:proj-)?[A-Za-z0-9_\-]{20,}`,
		},
		{
			ID:          "private-key",
			Description: "PEM private key header",
			Pattern:     `-----BEGIN (?:RSA |EC |OPENSSH |PGP )?PRIVATE KEY-----`,
		},
	}
}
