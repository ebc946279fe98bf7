package business

import (
	"errors"
	"strings"
)

// Language is the reply-language preference the bot is trained with.
type Language string

const (
	LanguageEnglish  Language = "English"
	LanguageHindi    Language = "Hindi"
	LanguageHinglish Language = "Hinglish"
)

// FAQ is one knowledge-base entry.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Profile is the business identity and knowledge base the bot is trained on.
// The chat pipeline reads it verbatim when building the model instruction.
type Profile struct {
	Name               string   `json:"name"`
	Industry           string   `json:"industry"`
	Description        string   `json:"description"`
	FAQs               []FAQ    `json:"faqs"`
	ContactPhone       string   `json:"contact_phone"`
	LanguagePreference Language `json:"language_preference"`
}

var (
	ErrMissingName     = errors.New("business: profile name is required")
	ErrInvalidLanguage = errors.New("business: unsupported language preference")
)

// Validate checks the fields a profile update must carry.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	switch p.LanguagePreference {
	case LanguageEnglish, LanguageHindi, LanguageHinglish:
		return nil
	default:
		return ErrInvalidLanguage
	}
}

// DefaultProfile returns the demo tenant every fresh install starts with.
func DefaultProfile() Profile {
	return Profile{
		Name:        "Elite Coaching Classes",
		Industry:    "Education",
		Description: "We provide 10th and 12th board coaching for Science and Commerce students in Mumbai. Our mission is to provide quality education at affordable prices with expert faculty.",
		FAQs: []FAQ{
			{Question: "What are the timings?", Answer: "Morning batch: 8 AM - 12 PM, Evening batch: 4 PM - 8 PM."},
			{Question: "Do you provide notes?", Answer: "Yes, we provide printed notes and weekly test series."},
			{Question: "Where is the branch located?", Answer: "We are located at 2nd Floor, Sai Commercial Center, Dadar West, Mumbai."},
			{Question: "Is there a demo lecture?", Answer: "Yes, we offer 2 days of free demo lectures for all new students."},
			{Question: "What is the fee for 12th Science?", Answer: "The total fee for 12th Science is ₹45,000, which can be paid in 3 installments."},
		},
		ContactPhone:       "+91 9876543210",
		LanguagePreference: LanguageHinglish,
	}
}
