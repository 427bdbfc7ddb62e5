package llm

import (
	"context"
	"fmt"
	"strings"

	"ai-content-planner/internal/config"
	"ai-content-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	ProviderGemini     = "gemini"
	defaultGeminiModel = "gemini-2.5-flash"
)

// geminiClient is a client for the Google Gemini API.
type geminiClient struct {
	apiKey    KeySource
	modelName string
	opts      []option.ClientOption
}

// NewGeminiClient creates a Gemini client. The API key is read from cfg on
// every request rather than at construction.
func NewGeminiClient(cfg *config.Config) StructuredGenerator {
	return newGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
}

func newGeminiClient(apiKey KeySource, modelName string, opts ...option.ClientOption) *geminiClient {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &geminiClient{apiKey: apiKey, modelName: modelName, opts: opts}
}

func (c *geminiClient) Provider() string { return ProviderGemini }

// GenerateStructured sends the prompt with a JSON response schema and returns
// the raw JSON text of the first candidate.
func (c *geminiClient) GenerateStructured(ctx context.Context, req StructuredRequest) (ContentResponse, error) {
	key := c.apiKey()
	if key == "" {
		return ContentResponse{}, ErrMissingCredential
	}

	opts := append([]option.ClientOption{option.WithAPIKey(key)}, c.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = toGenaiSchema(req.Schema)
	model.SetTemperature(req.Temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	usage := shared.TokenUsage{Model: c.modelName}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	text := responseText(resp)
	if text == "" {
		return ContentResponse{Usage: usage}, ErrEmptyResponse
	}
	return ContentResponse{Content: text, Usage: usage}, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeString:
		return genai.TypeString
	case TypeInteger:
		return genai.TypeInteger
	case TypeNumber:
		return genai.TypeNumber
	case TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
