package gemini_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arteideas-backend/internal/gemini"
	"arteideas-backend/internal/photo"
)

func sourceImage(t *testing.T) photo.Image {
	t.Helper()
	img, err := photo.EncodePNG(imaging.New(4, 4, color.NRGBA{R: 200, A: 255}))
	require.NoError(t, err)
	return img
}

func editedPNG(t *testing.T) []byte {
	t.Helper()
	img, err := photo.EncodePNG(imaging.New(4, 4, color.NRGBA{B: 200, A: 255}))
	require.NoError(t, err)
	return img.Data
}

func inlineImageResponse(data []byte) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{
					{"text": "here you go"},
					{"inlineData": map[string]any{
						"mimeType": "image/png",
						"data":     base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		}},
	}
}

func TestEditImage_ReturnsInlineImage(t *testing.T) {
	edited := editedPNG(t)

	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(inlineImageResponse(edited)))
	}))
	defer server.Close()

	client := gemini.New(gemini.Options{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		APIVersion: "v1beta",
		HTTPClient: server.Client(),
	})

	out, err := client.EditImage(context.Background(), sourceImage(t), "Ponle un sombrero")
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash-image:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, edited, out.Data)
	assert.Equal(t, "image/png", out.MimeType)
	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 4, out.Height)

	// One content with an image part and the templated instruction
	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	assert.NotNil(t, parts[0].(map[string]any)["inlineData"])
	text := parts[1].(map[string]any)["text"].(string)
	assert.Equal(t, "Edit this image based on the following instruction: Ponle un sombrero. Return only the edited image.", text)

	cfg := gotBody["generationConfig"].(map[string]any)
	assert.ElementsMatch(t, []any{"IMAGE", "TEXT"}, cfg["responseModalities"].([]any))
}

func TestEditImage_TextOnlyResponseMeansNoImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "I cannot edit that"}},
				},
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := gemini.New(gemini.Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})

	out, err := client.EditImage(context.Background(), sourceImage(t), "imposible")
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestEditImage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := gemini.New(gemini.Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})

	out, err := client.EditImage(context.Background(), sourceImage(t), "algo")
	assert.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEditImage_EmptyInstruction(t *testing.T) {
	client := gemini.New(gemini.Options{APIKey: "k"})

	_, err := client.EditImage(context.Background(), sourceImage(t), "   ")
	assert.Error(t, err)
}

func TestEditImage_EmptyImage(t *testing.T) {
	client := gemini.New(gemini.Options{APIKey: "k"})

	_, err := client.EditImage(context.Background(), photo.Image{}, "algo")
	assert.Error(t, err)
}

func TestEditImage_CanceledContext(t *testing.T) {
	client := gemini.New(gemini.Options{APIKey: "k", BaseURL: "http://127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.EditImage(ctx, sourceImage(t), "algo")
	assert.Error(t, err)
}
