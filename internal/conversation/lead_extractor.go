package conversation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// LeadCandidate is the structured lead data the model embeds in a reply when
// it believes it has captured the customer's name and/or requirement.
type LeadCandidate struct {
	Name        string `json:"name"`
	Requirement string `json:"requirement"`
}

// leadCaptureRE matches the private wire convention between the instruction
// prompt and this extractor: [LEAD_CAPTURE: {...}]. The literal prefix and
// bracket delimiter must match exactly what the prompt dictates.
var leadCaptureRE = regexp.MustCompile(`\[LEAD_CAPTURE: (.*?)\]`)

// ExtractLeadCapture scans raw reply text for the first lead-capture marker
// and parses its payload. ok is false when no marker is present or the
// payload is not a valid JSON object; a malformed marker is indistinguishable
// from no marker. Only the first match is considered.
func ExtractLeadCapture(text string) (LeadCandidate, bool) {
	m := leadCaptureRE.FindStringSubmatch(text)
	if m == nil {
		return LeadCandidate{}, false
	}

	payload := strings.TrimSpace(m[1])
	if !strings.HasPrefix(payload, "{") {
		return LeadCandidate{}, false
	}

	var candidate LeadCandidate
	if err := json.Unmarshal([]byte(payload), &candidate); err != nil {
		return LeadCandidate{}, false
	}
	return candidate, true
}

// HasLeadMarker reports whether raw reply text contains a lead-capture
// marker at all, parsable or not.
func HasLeadMarker(text string) bool {
	return leadCaptureRE.MatchString(text)
}

// StripLeadCapture removes every lead-capture marker from raw reply text and
// trims surrounding whitespace, leaving everything else byte-identical.
func StripLeadCapture(text string) string {
	return strings.TrimSpace(leadCaptureRE.ReplaceAllString(text, ""))
}
