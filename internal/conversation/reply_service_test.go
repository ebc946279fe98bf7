package conversation

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botmitra/whatsbiz-platform/internal/business"
)

// fakeLLM returns canned responses and records the requests it saw.
type fakeLLM struct {
	resp     LLMResponse
	err      error
	requests []LLMRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func newReplyService(llm LLMClient) *ReplyService {
	return NewReplyService(llm, ReplyServiceConfig{
		ReplyModel: "gemini-3-flash-preview",
		FAQModel:   "gemini-3-pro-preview",
		MaxTokens:  1024,
	}, nil, nil)
}

func TestGetBotReply_ReturnsModelText(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "Sure Rahul! Our batch starts Monday."}}
	svc := newReplyService(llm)

	got := svc.GetBotReply(context.Background(), "Tell me about the batch", nil, business.DefaultProfile(), nil)

	assert.Equal(t, "Sure Rahul! Our batch starts Monday.", got)
	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, "gemini-3-flash-preview", req.Model)
	assert.InDelta(t, 0.7, req.Temperature, 1e-6)
	assert.InDelta(t, 0.95, req.TopP, 1e-6)
	assert.Contains(t, req.System, "Elite Coaching Classes")
}

func TestGetBotReply_AppendsHistoryBeforeMessage(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "ok"}}
	svc := newReplyService(llm)

	history := []ChatMessage{
		{Role: ChatRoleUser, Content: "hi"},
		{Role: ChatRoleAssistant, Content: "hello"},
	}
	svc.GetBotReply(context.Background(), "what are the fees?", history, business.DefaultProfile(), nil)

	require.Len(t, llm.requests, 1)
	msgs := llm.requests[0].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "what are the fees?", msgs[2].Content)
	assert.Equal(t, ChatRoleUser, msgs[2].Role)
}

func TestGetBotReply_FallbackOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("deadline exceeded")}
	svc := newReplyService(llm)

	got := svc.GetBotReply(context.Background(), "hello", nil, business.DefaultProfile(), nil)

	assert.Equal(t, FallbackReply, got)
}

func TestGetBotReply_EmptyModelResponse(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "   "}}
	svc := newReplyService(llm)

	got := svc.GetBotReply(context.Background(), "hello", nil, business.DefaultProfile(), nil)

	assert.Equal(t, "I'm currently processing your request. Please wait.", got)
}

func TestGetBotReply_MediaOnlyTurn(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "Nice picture!"}}
	svc := newReplyService(llm)

	payload := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	attachment := &Attachment{Data: payload, MIMEType: "image/png", Name: "receipt.png"}

	got := svc.GetBotReply(context.Background(), "", nil, business.DefaultProfile(), attachment)

	assert.Equal(t, "Nice picture!", got)
	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, "The user sent a media file.", req.Messages[len(req.Messages)-1].Content)
	require.NotNil(t, req.Attachment)
	assert.Equal(t, "image/png", req.Attachment.MIMEType)
	assert.Equal(t, []byte("fake-image-bytes"), req.Attachment.Data)
}

func TestGetBotReply_DataURLAttachment(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "got it"}}
	svc := newReplyService(llm)

	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	svc.GetBotReply(context.Background(), "see this", nil, business.DefaultProfile(), &Attachment{Data: payload, MIMEType: "image/jpeg"})

	require.Len(t, llm.requests, 1)
	require.NotNil(t, llm.requests[0].Attachment)
	assert.Equal(t, []byte("jpeg-bytes"), llm.requests[0].Attachment.Data)
}

func TestGetBotReply_UndecodableAttachmentDropped(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "ok"}}
	svc := newReplyService(llm)

	svc.GetBotReply(context.Background(), "see this", nil, business.DefaultProfile(), &Attachment{Data: "%%%not-base64%%%", MIMEType: "image/png"})

	require.Len(t, llm.requests, 1)
	assert.Nil(t, llm.requests[0].Attachment)
}

func TestSuggestFAQs_ParsesJSON(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: `[{"question": "What are the timings?", "answer": "8 AM - 12 PM"}]`}}
	svc := newReplyService(llm)

	faqs := svc.SuggestFAQs(context.Background(), business.DefaultProfile())

	require.Len(t, faqs, 1)
	assert.Equal(t, "What are the timings?", faqs[0].Question)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, "gemini-3-pro-preview", req.Model)
	assert.Equal(t, "application/json", req.ResponseMIMEType)
}

func TestSuggestFAQs_EmptyOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}
	svc := newReplyService(llm)

	assert.Empty(t, svc.SuggestFAQs(context.Background(), business.DefaultProfile()))
}

func TestSuggestFAQs_EmptyOnInvalidJSON(t *testing.T) {
	llm := &fakeLLM{resp: LLMResponse{Text: "Here are some FAQs: 1. ..."}}
	svc := newReplyService(llm)

	assert.Empty(t, svc.SuggestFAQs(context.Background(), business.DefaultProfile()))
}
