package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/botmitra/whatsbiz-platform/internal/business"
)

func TestBuildReplyInstruction(t *testing.T) {
	profile := business.DefaultProfile()
	got := BuildReplyInstruction(profile)

	assert.Contains(t, got, profile.Name)
	assert.Contains(t, got, profile.Description)
	assert.Contains(t, got, "What are the timings?")
	assert.Contains(t, got, string(profile.LanguagePreference))
	assert.Contains(t, got, HandoffPhrase)
	assert.Contains(t, got, "[LEAD_CAPTURE:")
}

func TestBuildReplyInstruction_EmptyKnowledgeBase(t *testing.T) {
	profile := business.Profile{Name: "Corner Bakery", LanguagePreference: business.LanguageEnglish}
	got := BuildReplyInstruction(profile)

	assert.Contains(t, got, "Knowledge Base: []")
}

func TestBuildFAQPrompt(t *testing.T) {
	profile := business.DefaultProfile()
	got := BuildFAQPrompt(profile)

	assert.Contains(t, got, "Suggest 5 common FAQs")
	assert.Contains(t, got, profile.Name)
	assert.Contains(t, got, `[{"question": "", "answer": ""}]`)
}
