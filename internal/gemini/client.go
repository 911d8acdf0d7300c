// Package gemini is a thin client for the generateContent REST API,
// narrowed to the single operation the photo editor needs: send one
// image plus an instruction, get back an edited image.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"arteideas-backend/internal/photo"
)

const modelImage = "gemini-2.5-flash-image"

const editPromptTemplate = "Edit this image based on the following instruction: %s. Return only the edited image."

type Options struct {
	APIKey        string
	BaseURL       string
	APIVersion    string
	HTTPClient    *http.Client
	Logger        *slog.Logger
	MaxConcurrent int
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
	sem        *semaphore.Weighted
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 4
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// EditImage submits the image and instruction and returns the first
// inline image part of the response. A nil image with a nil error
// means the model answered without producing an image, which is a
// valid, handled outcome.
func (c *Client) EditImage(ctx context.Context, img photo.Image, instruction string) (*photo.Image, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, errors.New("instruction is empty")
	}
	if img.IsZero() {
		return nil, errors.New("image is empty")
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire generation slot: %w", err)
	}
	defer c.sem.Release(1)

	req := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &blob{
					MimeType: img.MimeType,
					Data:     base64.StdEncoding.EncodeToString(img.Data),
				}},
				{Text: fmt.Sprintf(editPromptTemplate, instruction)},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	resp, err := c.generateContent(ctx, modelImage, req)
	if err != nil {
		return nil, err
	}

	inline := firstInlineImage(resp)
	if inline == nil {
		c.logger.Info("gemini edit returned no image part")
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("decode inline image data: %w", err)
	}

	edited, err := photo.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse edited image: %w", err)
	}
	if inline.MimeType != "" {
		edited.MimeType = inline.MimeType
	}

	c.logger.Info("gemini edit produced image",
		"mime_type", edited.MimeType, "bytes", len(edited.Data))
	return &edited, nil
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (generateContentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return generateContentResponse{}, fmt.Errorf("gemini API %s: %s", httpResp.Status, strings.TrimSpace(string(rawBody)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return generateContentResponse{}, fmt.Errorf("decode response: %w", err)
	}

	return decoded, nil
}

func firstInlineImage(resp generateContentResponse) *blob {
	if len(resp.Candidates) == 0 {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData
		}
	}
	return nil
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}
