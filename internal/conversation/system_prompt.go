package conversation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/botmitra/whatsbiz-platform/internal/business"
)

// FallbackReply is what the customer sees when the model call fails.
// Blocking the conversation is worse than a generic apology, so transport and
// API failures are absorbed into this string and never surfaced as errors.
const FallbackReply = "The assistant is momentarily busy. Please try sending your message again."

// HandoffPhrase is the fixed reply the model is instructed to use when the
// customer asks for a human agent.
const HandoffPhrase = "Connecting you to an agent..."

// emptyReplyText stands in when the model returns an empty candidate.
const emptyReplyText = "I'm currently processing your request. Please wait."

// mediaOnlyMessage substitutes for the message text when a turn carries an
// attachment but no text.
const mediaOnlyMessage = "The user sent a media file."

// BuildReplyInstruction renders the system instruction for conversational
// replies from the business profile. The knowledge base is serialized
// verbatim; the LEAD_CAPTURE directive is the producer side of the marker
// convention consumed by ExtractLeadCapture.
func BuildReplyInstruction(profile business.Profile) string {
	knowledge, err := json.Marshal(profile.FAQs)
	if err != nil {
		knowledge = []byte("[]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional business assistant for %q.\n", profile.Name)
	fmt.Fprintf(&b, "Business Description: %s\n", profile.Description)
	fmt.Fprintf(&b, "Knowledge Base: %s\n", knowledge)
	fmt.Fprintf(&b, "Language Preference: %s.\n", profile.LanguagePreference)
	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. Be polite and professional. Use the user's preferred language style.\n")
	b.WriteString("2. Collect \"name\" and \"requirement\" naturally. Do not ask for both in the first message.\n")
	b.WriteString("3. If the user sends an attachment, acknowledge it based on the business context.\n")
	fmt.Fprintf(&b, "4. If the user wants a human agent, say %q\n", HandoffPhrase)
	b.WriteString(`5. VERY IMPORTANT: Whenever you have captured the user's name OR requirement, append this at the end: [LEAD_CAPTURE: {"name": "...", "requirement": "..."}]`)
	b.WriteString("\n")
	return b.String()
}

// BuildFAQPrompt renders the single-user-turn prompt asking the model to
// suggest knowledge-base entries for the business.
func BuildFAQPrompt(profile business.Profile) string {
	var b strings.Builder
	b.WriteString("Suggest 5 common FAQs for:\n")
	fmt.Fprintf(&b, "Name: %s\n", profile.Name)
	fmt.Fprintf(&b, "Description: %s\n", profile.Description)
	b.WriteString(`Return ONLY JSON array: [{"question": "", "answer": ""}]`)
	return b.String()
}
