// Package ai recognizes ingredients on fridge pictures and drafts recipes
// through the Gemini REST API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 60 * time.Second

// Generator produces model output for a prompt, optionally grounded on a
// JPEG image passed as raw base64.
type Generator interface {
	Generate(ctx context.Context, prompt, imageBase64 string) (string, error)
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGemini(apiKey, model, baseURL string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ErrEmptyReply is returned when the model answered without any text part.
var ErrEmptyReply = errors.New("réponse IA vide ou invalide")

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("reconnaissance IA désactivée")

// Disabled is the Generator installed when the AI feature is turned off.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, prompt, imageBase64 string) (string, error) {
	return "", ErrDisabled
}

func (g *Gemini) Generate(ctx context.Context, prompt, imageBase64 string) (string, error) {
	parts := []geminiPart{}
	if imageBase64 != "" {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: imageBase64},
		})
	}
	parts = append(parts, geminiPart{Text: prompt})

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: map[string]any{"temperature": 0.1},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, raw)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyReply
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
