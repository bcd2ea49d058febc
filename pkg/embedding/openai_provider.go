package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAIProvider implements EmbeddingProvider using the OpenAI embeddings
// endpoint (text-embedding-3-small by default, 1536 dimensions).
type OpenAIProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewOpenAIProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIProvider{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  apiKey,
		Model:   model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type openaiEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openaiEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType is ignored for OpenAI, kept for interface compatibility

	reqBody := openaiEmbeddingRequest{
		Model: p.Model,
		Input: text,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := p.BaseURL + "/embeddings"
	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai embedding error: %s", string(bodyBytes))
	}

	var openaiResp openaiEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &openaiResp); err != nil {
		return nil, err
	}
	if openaiResp.Error != nil {
		return nil, fmt.Errorf("openai embedding error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding returned no data")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(openaiResp.Data[0].Embedding),
		},
	}, nil
}
