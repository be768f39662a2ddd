package oracle

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini selects a tool through Gemini function calling.
type Gemini struct {
	models  contentGenerator
	model   string
	prompts *PromptBuilder
	config  *genai.GenerateContentConfig
}

// NewGemini creates a Gemini oracle using the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string, prompts *PromptBuilder) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGemini(client.Models, model, prompts), nil
}

func newGemini(models contentGenerator, model string, prompts *PromptBuilder) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	if prompts == nil {
		prompts = NewPromptBuilder(nil)
	}
	return &Gemini{
		models:  models,
		model:   model,
		prompts: prompts,
		config: &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
			Tools:       []*genai.Tool{{FunctionDeclarations: functionDeclarations()}},
			ToolConfig: &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{
					Mode: genai.FunctionCallingConfigModeAny,
				},
			},
		},
	}
}

// Decide implements triage.Oracle.
func (g *Gemini) Decide(ctx context.Context, email triage.Email) (*triage.Decision, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(g.prompts.Build(email)), g.config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return nil, fmt.Errorf("%w: model did not select a tool", triage.ErrDecision)
	}
	return decisionFromArgs(calls[0].Name, calls[0].Args), nil
}

func functionDeclarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(Tools))
	for _, t := range Tools {
		props := map[string]*genai.Schema{
			argID:         {Type: genai.TypeInteger, Description: argDescriptions[argID]},
			argSubject:    {Type: genai.TypeString, Description: argDescriptions[argSubject]},
			argEmailText:  {Type: genai.TypeString, Description: argDescriptions[argEmailText]},
			argImportance: {Type: genai.TypeString, Description: argDescriptions[argImportance], Enum: triage.ImportanceLabels},
		}
		required := []string{argID, argSubject, argEmailText, argImportance}
		if t.WantsDate {
			props[argDate] = &genai.Schema{Type: genai.TypeString, Description: argDescriptions[argDate]}
			required = append(required, argDate)
		}

		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return decls
}
