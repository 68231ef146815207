package provider

import (
	"context"
	"errors"
	"strings"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	Gemini Client = "gemini"
)

// ErrUnavailable wraps every transport, timeout and upstream status failure.
var ErrUnavailable = errors.New("text service unavailable")

// ErrEmptyReply is returned when the service answers without any text.
var ErrEmptyReply = errors.New("text service returned an empty reply")

// Role tags a content block.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Part is one content block: either text or an image reference.
type Part struct {
	Text     string
	ImageURL string
}

// Message is a role-tagged list of content blocks.
type Message struct {
	Role  Role
	Parts []Part
}

// Text builds a single-block text message.
func Text(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

// WithImage appends an image reference to m.
func (m Message) WithImage(url string) Message {
	m.Parts = append(append([]Part(nil), m.Parts...), Part{ImageURL: url})
	return m
}

// Request is a single, self-contained call. No conversation state is kept between calls.
type Request struct {
	Messages []Message
}

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// ParseClient normalises a configured provider type.
func ParseClient(s string) (Client, error) {
	switch c := Client(strings.ToLower(strings.TrimSpace(s))); c {
	case OpenAI, Gemini:
		return c, nil
	}
	return "", errors.New("unsupported LLM provider: " + s)
}
