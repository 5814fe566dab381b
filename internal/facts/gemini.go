package facts

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiSource asks the Gemini API for a fact through the genai client.
type GeminiSource struct {
	Model      string
	APIKey     string
	BaseURL    string       // empty uses the public endpoint
	HTTPClient *http.Client // nil uses the SDK default

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiFromEnv builds a source from GEMINI_API_KEY (or API_KEY). It
// returns nil when no key is configured.
func NewGeminiFromEnv() *GeminiSource {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("API_KEY")
	}
	if key == "" {
		return nil
	}
	return &GeminiSource{APIKey: key}
}

// Prompt returns the request text sent for birdName.
func Prompt(birdName string) string {
	return fmt.Sprintf("Give one surprising fact about the %s and the challenges it faces while migrating through cities. Keep it under 50 words.", birdName)
}

func (g *GeminiSource) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.BaseURL},
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

// Fact implements Source.
func (g *GeminiSource) Fact(ctx context.Context, birdName string) (string, error) {
	model := g.Model
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := g.genaiClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(Prompt(birdName)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyFact
	}
	return text, nil
}
