package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateTextReturnsFirstCandidate(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"world"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	text, err := client.GenerateText(context.Background(), "gemini-2.5-flash", TextRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header missing, got %q", gotKey)
	}
}

func TestGenerateTextSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	}))
	defer server.Close()

	client, _ := NewClient(Options{APIKey: "k", BaseURL: server.URL})
	_, err := client.GenerateText(context.Background(), "gemini-2.5-flash", TextRequest{Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected the API message, got %v", err)
	}
}

func TestStreamTextAccumulatesChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"part one \"}]}}]}\n\n" +
				": keepalive comment\n" +
				"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"part two\"}]}}]}\n\n" +
				"data: [DONE]\n"))
	}))
	defer server.Close()

	client, _ := NewClient(Options{APIKey: "k", BaseURL: server.URL})

	var chunks []string
	text, err := client.StreamText(context.Background(), "gemini-2.5-flash", TextRequest{Prompt: "hi"}, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "part one part two" {
		t.Fatalf("unexpected accumulated text: %q", text)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
}

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go:\n{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"array", `[1,2,3]`, `[1,2,3]`},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONFragment(tc.in); got != tc.want {
				t.Fatalf("ExtractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
