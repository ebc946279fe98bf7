package conversation

import (
	"context"
	"errors"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "model"
)

// ChatMessage is one role-tagged message in the shape the remote model expects.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InlineData is a binary attachment inlined into the newest user turn.
type InlineData struct {
	MIMEType string
	Data     []byte
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest describes one completion call. Attachment, when set, is sent as
// an inline part of the final message. ResponseMIMEType "application/json"
// asks the model for a JSON-constrained response.
type LLMRequest struct {
	Model            string
	System           string
	Messages         []ChatMessage
	Attachment       *InlineData
	MaxTokens        int32
	Temperature      float32
	TopP             float32
	ResponseMIMEType string
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the opaque external collaborator producing replies.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// UnavailableLLMClient fails every call. It keeps the pipeline running when
// no API key is configured: callers see the same degraded behavior as a
// remote outage.
type UnavailableLLMClient struct{}

func (UnavailableLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	return LLMResponse{}, errors.New("conversation: llm client not configured")
}
