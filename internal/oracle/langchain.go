package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// LangChain selects a tool through any langchaingo model by asking for a
// JSON object naming the tool and its arguments.
type LangChain struct {
	llm     llms.Model
	prompts *PromptBuilder
	suffix  string
}

// OpenAIConfig configures an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewOpenAI creates a LangChain oracle backed by an OpenAI-compatible API.
func NewOpenAI(cfg OpenAIConfig, prompts *PromptBuilder) (*LangChain, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLangChain(llm, prompts), nil
}

// NewLangChain wraps an existing model.
func NewLangChain(llm llms.Model, prompts *PromptBuilder) *LangChain {
	if prompts == nil {
		prompts = NewPromptBuilder(nil)
	}
	return &LangChain{llm: llm, prompts: prompts, suffix: jsonToolInstructions()}
}

type toolSelection struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// Decide implements triage.Oracle.
func (l *LangChain) Decide(ctx context.Context, email triage.Email) (*triage.Decision, error) {
	prompt := l.prompts.Build(email) + l.suffix
	out, err := llms.GenerateFromSinglePrompt(ctx, l.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("langchain generate: %w", err)
	}

	sel, err := parseSelection(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", triage.ErrDecision, err)
	}
	return decisionFromArgs(sel.Tool, sel.Arguments), nil
}

// parseSelection extracts the first JSON object from out. Models often wrap
// it in a markdown fence.
func parseSelection(out string) (*toolSelection, error) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return nil, errors.New("model did not select a tool")
	}

	var sel toolSelection
	if err := json.Unmarshal([]byte(out[start:end+1]), &sel); err != nil {
		return nil, fmt.Errorf("invalid tool selection: %w", err)
	}
	if sel.Tool == "" {
		return nil, errors.New("model did not select a tool")
	}
	if sel.Arguments == nil {
		sel.Arguments = map[string]any{}
	}
	return &sel, nil
}

func jsonToolInstructions() string {
	var sb strings.Builder
	sb.WriteString("\nHerramientas disponibles:\n")
	for _, t := range Tools {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Name, t.Description)
	}
	fmt.Fprintf(&sb, "\nResponde únicamente con un objeto JSON de la forma "+
		`{"tool": "<nombre>", "arguments": {"%s": <id>, "%s": "<asunto>", "%s": "<texto>", "%s": "%s"}}`+"\n",
		argID, argSubject, argEmailText, argImportance, strings.Join(triage.ImportanceLabels, "|"))
	return sb.String()
}
