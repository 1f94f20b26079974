package refiner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRouterRefiner_Refine_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "watercolor icon of a fox, soft washes, warm palette"}},
			},
			"usage": map[string]int{"prompt_tokens": 50, "completion_tokens": 20},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	r := NewOpenRouterRefiner("test-key", server.URL, []string{"test/model"})

	result, err := r.Refine(context.Background(), StyleRequest{
		ArtStyle:    "watercolor",
		Description: "a fox",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prompt != "watercolor icon of a fox, soft washes, warm palette" {
		t.Errorf("unexpected prompt: %q", result.Prompt)
	}
	if result.PromptTokens != 50 {
		t.Errorf("expected 50 prompt tokens, got %d", result.PromptTokens)
	}
	if result.Metadata["model"] != "test/model" {
		t.Errorf("expected model metadata, got %v", result.Metadata)
	}
}

func TestOpenRouterRefiner_Refine_NoAPIKey(t *testing.T) {
	r := NewOpenRouterRefiner("", "", nil)

	_, err := r.Refine(context.Background(), StyleRequest{
		ArtStyle:    "watercolor",
		Description: "a fox",
	})
	if err == nil {
		t.Error("expected error when API key missing")
	}
}

func TestOpenRouterRefiner_Refine_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	r := NewOpenRouterRefiner("test-key", server.URL, nil)

	_, err := r.Refine(context.Background(), StyleRequest{
		ArtStyle:    "watercolor",
		Description: "a fox",
	})
	if err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestOpenRouterRefiner_DefaultModels(t *testing.T) {
	r := NewOpenRouterRefiner("key", "", nil)
	if len(r.models) == 0 {
		t.Error("expected default model list")
	}
}

func TestOpenRouterRefiner_Name(t *testing.T) {
	r := NewOpenRouterRefiner("", "", nil)
	if r.Name() != "openrouter" {
		t.Errorf("expected 'openrouter', got %q", r.Name())
	}
}
