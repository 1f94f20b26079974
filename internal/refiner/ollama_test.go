package refiner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaRefiner_New(t *testing.T) {
	r := NewOllamaRefiner("llama3.2", "http://localhost:11434")

	if r == nil {
		t.Fatal("expected non-nil refiner")
	}
	if r.model != "llama3.2" {
		t.Errorf("expected model 'llama3.2', got %q", r.model)
	}
	if r.baseURL != "http://localhost:11434" {
		t.Errorf("expected baseURL 'http://localhost:11434', got %q", r.baseURL)
	}
	if r.client == nil {
		t.Error("expected non-nil HTTP client")
	}
}

func TestOllamaRefiner_New_DefaultURL(t *testing.T) {
	r := NewOllamaRefiner("llama3.2", "")

	if r.baseURL != "http://localhost:11434" {
		t.Errorf("expected default baseURL, got %q", r.baseURL)
	}
}

func TestOllamaRefiner_Refine_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Model != "llama3.2" {
			t.Errorf("expected model 'llama3.2', got %q", req.Model)
		}
		if req.Stream != false {
			t.Error("expected stream=false")
		}
		if !strings.Contains(req.Prompt, "pixel art") {
			t.Errorf("expected prompt to carry the art style, got %q", req.Prompt)
		}
		if !strings.Contains(req.Prompt, "128x128") {
			t.Errorf("expected prompt to carry the target size, got %q", req.Prompt)
		}

		resp := ollamaResponse{
			Response:        "pixel art rendering of a dancing baby shark, 8-bit palette, retro grid",
			PromptEvalCount: 42,
			EvalCount:       17,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	r := NewOllamaRefiner("llama3.2", server.URL)

	result, err := r.Refine(context.Background(), StyleRequest{
		ArtStyle:    "pixel art",
		Description: "a dancing baby shark",
		TargetSize:  128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prompt != "pixel art rendering of a dancing baby shark, 8-bit palette, retro grid" {
		t.Errorf("unexpected prompt: %q", result.Prompt)
	}
	if result.PromptTokens != 42 || result.CompletionTokens != 17 {
		t.Errorf("expected usage 42/17, got %d/%d", result.PromptTokens, result.CompletionTokens)
	}
	if result.Latency <= 0 {
		t.Error("expected positive latency")
	}
}

func TestOllamaRefiner_Refine_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Response: ""})
	}))
	defer server.Close()

	r := NewOllamaRefiner("llama3.2", server.URL)

	_, err := r.Refine(context.Background(), StyleRequest{
		ArtStyle:    "minimalist",
		Description: "a rocket",
	})
	if err == nil {
		t.Error("expected error for empty model output")
	}
}

func TestOllamaRefiner_Refine_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewOllamaRefiner("llama3.2", server.URL)

	_, err := r.Refine(context.Background(), StyleRequest{
		ArtStyle:    "minimalist",
		Description: "a rocket",
	})
	if err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestOllamaRefiner_IsAvailable(t *testing.T) {
	r := NewOllamaRefiner("llama3.2", "")
	if err := r.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	r = NewOllamaRefiner("", "")
	if err := r.IsAvailable(context.Background()); err == nil {
		t.Error("expected error when model is empty")
	}
}

func TestRefinerInterface(t *testing.T) {
	var _ Refiner = (*OllamaRefiner)(nil)
	var _ Refiner = (*OpenAIRefiner)(nil)
	var _ Refiner = (*GeminiRefiner)(nil)
	var _ Refiner = (*ClaudeRefiner)(nil)
	var _ Refiner = (*OpenRouterRefiner)(nil)
}
