//go:build integration

package generativeAI

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestMain(m *testing.M) {
	// Check if API key is available for integration tests
	if os.Getenv("GOOGLE_GEMINI_API_KEY") == "" {
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestNewAIClient_Integration(t *testing.T) {
	ctx := context.Background()

	t.Run("Create AI client successfully", func(t *testing.T) {
		client, err := NewAIClient(ctx, os.Getenv("GOOGLE_GEMINI_API_KEY"), "")
		require.NoError(t, err)
		require.NotNil(t, client)
		assert.NotNil(t, client.client)
		assert.Equal(t, DefaultModel, client.Model())
	})

	t.Run("Missing key", func(t *testing.T) {
		_, err := NewAIClient(ctx, "", "")
		require.ErrorIs(t, err, ErrClientNotConfigured)
	})
}

func TestAIClient_GenerateContent_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := NewAIClient(ctx, os.Getenv("GOOGLE_GEMINI_API_KEY"), "")
	require.NoError(t, err)

	t.Run("Structured weather response decodes", func(t *testing.T) {
		config := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.1),
			ResponseMIMEType: "application/json",
		}
		prompt := `Typical late-November temperatures in Chiang Mai. Reply as JSON {"range": "<min>-<max>°C", "icon": "clear"}.`

		response, err := client.GenerateContent(ctx, prompt, config)
		require.NoError(t, err)
		out, err := DecodeJSONObject[struct {
			Range string `json:"range"`
			Icon  string `json:"icon"`
		}](response)
		require.NoError(t, err)
		assert.True(t, strings.Contains(out.Range, "°C"))
	})
}
