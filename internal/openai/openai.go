package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pixel-adventure/spritekit/internal/providers"
)

const (
	DefaultModel   = "dall-e-2"
	defaultBaseURL = "https://api.openai.com"
)

// OpenAI is a provider for the OpenAI images API
type OpenAI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns a new OpenAI provider keyed from OPENAI_API_KEY
func New() *OpenAI {
	return &OpenAI{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Available() bool { return o.apiKey != "" }

// GenerateImages requests config.Count images for config.Prompt
func (o *OpenAI) GenerateImages(ctx context.Context, config providers.Config) ([]providers.Image, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	n := config.Count
	if n <= 0 {
		n = 1
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":           model,
		"prompt":          config.Prompt,
		"n":               n,
		"size":            imageSize(config.Size),
		"response_format": "b64_json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/v1/images/generations", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("no images returned from OpenAI")
	}

	images := make([]providers.Image, 0, len(response.Data))
	for i, d := range response.Data {
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %d: %w", i, err)
		}
		images = append(images, providers.Image{MIMEType: "image/png", Data: data})
	}
	return images, nil
}

// imageSize picks the smallest supported square size that holds size pixels.
func imageSize(size int) string {
	switch {
	case size > 0 && size <= 256:
		return "256x256"
	case size > 0 && size <= 512:
		return "512x512"
	}
	return "1024x1024"
}
