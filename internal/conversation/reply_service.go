package conversation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/botmitra/whatsbiz-platform/internal/business"
	"github.com/botmitra/whatsbiz-platform/internal/observability/metrics"
	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

const (
	replyTemperature = 0.7
	replyTopP        = 0.95
	faqTemperature   = 0.7
	faqCount         = 5
)

// ReplyService calls the remote model for conversational replies and FAQ
// suggestions. Transport and API failures never escape it: replies degrade to
// FallbackReply and suggestions degrade to an empty list.
type ReplyService struct {
	llm        LLMClient
	replyModel string
	faqModel   string
	maxTokens  int32
	logger     *logging.Logger
	metrics    *metrics.ChatMetrics
}

// ReplyServiceConfig holds the model routing for the two call variants.
type ReplyServiceConfig struct {
	ReplyModel string
	FAQModel   string
	MaxTokens  int32
}

// NewReplyService wires the remote model behind the chat pipeline.
func NewReplyService(llm LLMClient, cfg ReplyServiceConfig, logger *logging.Logger, m *metrics.ChatMetrics) *ReplyService {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReplyService{
		llm:        llm,
		replyModel: cfg.ReplyModel,
		faqModel:   cfg.FAQModel,
		maxTokens:  cfg.MaxTokens,
		logger:     logger,
		metrics:    m,
	}
}

// GetBotReply sends the current message plus windowed history to the model
// and returns the raw reply text verbatim, including any embedded lead
// marker. On any failure it returns FallbackReply instead of an error.
func (s *ReplyService) GetBotReply(ctx context.Context, message string, history []ChatMessage, profile business.Profile, attachment *Attachment) string {
	text := strings.TrimSpace(message)
	if text == "" {
		text = mediaOnlyMessage
	}

	req := LLMRequest{
		Model:       s.replyModel,
		System:      BuildReplyInstruction(profile),
		Messages:    append(append([]ChatMessage(nil), history...), ChatMessage{Role: ChatRoleUser, Content: text}),
		MaxTokens:   s.maxTokens,
		Temperature: replyTemperature,
		TopP:        replyTopP,
	}

	if attachment != nil {
		if data, ok := decodeAttachment(attachment.Data); ok {
			req.Attachment = &InlineData{MIMEType: attachment.MIMEType, Data: data}
		} else {
			s.logger.Warn("dropping undecodable attachment", "name", attachment.Name, "mime_type", attachment.MIMEType)
		}
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, req)
	s.metrics.ObserveLLMLatency("reply", time.Since(start).Seconds())
	if err != nil {
		s.metrics.ObserveLLMFailure("reply")
		s.logger.Error("model reply failed", "error", err, "model", s.replyModel)
		return FallbackReply
	}

	if strings.TrimSpace(resp.Text) == "" {
		return emptyReplyText
	}
	return resp.Text
}

// SuggestFAQs asks the model for exactly faqCount question/answer pairs in a
// JSON-constrained response mode. Call or parse failure yields an empty
// slice; callers must treat empty as "nothing generated", not as an error.
func (s *ReplyService) SuggestFAQs(ctx context.Context, profile business.Profile) []business.FAQ {
	req := LLMRequest{
		Model:            s.faqModel,
		Messages:         []ChatMessage{{Role: ChatRoleUser, Content: BuildFAQPrompt(profile)}},
		MaxTokens:        s.maxTokens,
		Temperature:      faqTemperature,
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, req)
	s.metrics.ObserveLLMLatency("faq_suggest", time.Since(start).Seconds())
	if err != nil {
		s.metrics.ObserveLLMFailure("faq_suggest")
		s.metrics.ObserveFAQSuggestion("error")
		s.logger.Error("faq suggestion failed", "error", err, "model", s.faqModel)
		return nil
	}

	var faqs []business.FAQ
	if err := json.Unmarshal([]byte(resp.Text), &faqs); err != nil {
		s.metrics.ObserveFAQSuggestion("unparsable")
		s.logger.Warn("faq suggestion response not valid JSON", "error", err)
		return nil
	}

	s.metrics.ObserveFAQSuggestion("ok")
	return faqs
}

// decodeAttachment accepts either a bare base64 payload or a data: URL and
// returns the raw bytes.
func decodeAttachment(data string) ([]byte, bool) {
	if idx := strings.IndexByte(data, ','); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
