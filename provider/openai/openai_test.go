package openai_provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mohammad-safakhou/roomfinder/provider"
)

func TestCompleteSendsRoleTaggedMessages(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Fatalf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"3, 1, 4"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-test", 0.1, 256, time.Second, nil)
	out, err := c.Complete(context.Background(), provider.Request{Messages: []provider.Message{
		provider.Text(provider.RoleSystem, "rank"),
		provider.Text(provider.RoleUser, "corpus").WithImage("https://img.example.com/a.jpg"),
	}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "3, 1, 4" {
		t.Fatalf("unexpected reply %q", out)
	}

	if got["model"] != "gpt-test" {
		t.Fatalf("model not sent: %v", got["model"])
	}
	msgs := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	sys := msgs[0].(map[string]any)
	if sys["role"] != "system" || sys["content"] != "rank" {
		t.Fatalf("unexpected system message: %v", sys)
	}
	user := msgs[1].(map[string]any)
	parts := user["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected text and image parts, got %v", parts)
	}
	img := parts[1].(map[string]any)
	if img["type"] != "image_url" || img["image_url"].(map[string]any)["url"] != "https://img.example.com/a.jpg" {
		t.Fatalf("unexpected image part: %v", img)
	}
}

func TestCompleteUpstreamErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", srv.URL, "", 0, 0, time.Second, nil)
	_, err := c.Complete(context.Background(), provider.Request{Messages: []provider.Message{provider.Text(provider.RoleUser, "hi")}})
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCompleteTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewOpenAIClient("k", srv.URL, "", 0, 0, 50*time.Millisecond, nil)
	_, err := c.Complete(context.Background(), provider.Request{Messages: []provider.Message{provider.Text(provider.RoleUser, "hi")}})
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", srv.URL, "", 0, 0, time.Second, nil)
	_, err := c.Complete(context.Background(), provider.Request{Messages: []provider.Message{provider.Text(provider.RoleUser, "hi")}})
	if !errors.Is(err, provider.ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}
