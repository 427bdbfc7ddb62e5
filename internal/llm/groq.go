package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ai-content-planner/internal/config"
	"ai-content-planner/internal/shared"
)

const (
	ProviderGroq     = "groq"
	groqAPIURL       = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel = "openai/gpt-oss-120b"
)

// groqClient is a client for the Groq chat completions API.
type groqClient struct {
	apiKey     KeySource
	model      string
	url        string
	httpClient *http.Client
}

// NewGroqClient creates a new Groq API client. No request timeout is set;
// callers bound requests through the context.
func NewGroqClient(cfg *config.Config) StructuredGenerator {
	return newGroqClient(cfg.GroqAPIKey, cfg.GroqModel, groqAPIURL, &http.Client{})
}

func newGroqClient(apiKey KeySource, model, url string, httpClient *http.Client) *groqClient {
	if model == "" {
		model = defaultGroqModel
	}
	return &groqClient{apiKey: apiKey, model: model, url: url, httpClient: httpClient}
}

func (c *groqClient) Provider() string { return ProviderGroq }

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqJSONSchema struct {
	Name   string  `json:"name"`
	Strict bool    `json:"strict"`
	Schema *Schema `json:"schema"`
}

type groqResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *groqJSONSchema `json:"json_schema,omitempty"`
}

type groqRequest struct {
	Model          string             `json:"model"`
	Messages       []groqMessage      `json:"messages"`
	Temperature    float32            `json:"temperature"`
	ResponseFormat groqResponseFormat `json:"response_format"`
}

type groqResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateStructured sends the prompt with a json_schema response format and
// returns the message content of the first choice.
func (c *groqClient) GenerateStructured(ctx context.Context, req StructuredRequest) (ContentResponse, error) {
	key := c.apiKey()
	if key == "" {
		return ContentResponse{}, ErrMissingCredential
	}

	name := req.SchemaName
	if name == "" {
		name = "response"
	}
	reqBody := groqRequest{
		Model:       c.model,
		Messages:    []groqMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		ResponseFormat: groqResponseFormat{
			Type:       "json_schema",
			JSONSchema: &groqJSONSchema{Name: name, Strict: true, Schema: req.Schema},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return ContentResponse{}, fmt.Errorf("groq api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	usage := shared.TokenUsage{
		PromptTokens:     groqResp.Usage.PromptTokens,
		CompletionTokens: groqResp.Usage.CompletionTokens,
		TotalTokens:      groqResp.Usage.TotalTokens,
		Model:            c.model,
	}
	if len(groqResp.Choices) == 0 || groqResp.Choices[0].Message.Content == "" {
		return ContentResponse{Usage: usage}, ErrEmptyResponse
	}

	return ContentResponse{Content: groqResp.Choices[0].Message.Content, Usage: usage}, nil
}
