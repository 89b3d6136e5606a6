package describer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	APIKey     string
	ModelName  string
	MaxTokens  int
	Endpoint   string
	HTTPClient *http.Client
}

// NewAnthropic creates an Anthropic describer.
func NewAnthropic(apiKey, model string, maxTokens int) *Anthropic {
	return &Anthropic{
		APIKey:     apiKey,
		ModelName:  model,
		MaxTokens:  maxTokens,
		Endpoint:   anthropicAPI,
		HTTPClient: &http.Client{},
	}
}

// Provider names the API this describer calls.
func (a *Anthropic) Provider() string { return "anthropic" }

// Model returns the configured model name.
func (a *Anthropic) Model() string { return a.ModelName }

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []apiContentBlock `json:"content"`
	Usage   apiUsage          `json:"usage"`
	Error   *apiError         `json:"error,omitempty"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Describe sends the location prompt and parses the description from the
// reply. The reply is prefilled with "{" so the model answers in JSON.
func (a *Anthropic) Describe(ctx context.Context, req Request) (string, Usage, error) {
	reqBody := apiRequest{
		Model:     a.ModelName,
		MaxTokens: a.MaxTokens,
		System:    systemPrompt,
		Messages: []apiMessage{
			{Role: "user", Content: BuildPrompt(req)},
			{Role: "assistant", Content: "{"},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", Usage{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.HTTPClient.Do(httpReq)
	if err != nil {
		return "", Usage{}, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("reading response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", Usage{}, fmt.Errorf("parsing response: %w", err)
	}
	if apiResp.Error != nil {
		return "", Usage{}, fmt.Errorf("API error (%s): %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if len(apiResp.Content) == 0 {
		return "", Usage{}, fmt.Errorf("empty response from API")
	}

	usage := Usage{InputTokens: apiResp.Usage.InputTokens, OutputTokens: apiResp.Usage.OutputTokens}
	text, err := ParseDescription("{" + apiResp.Content[0].Text)
	return text, usage, err
}
