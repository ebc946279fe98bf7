package leads

import (
	"strings"
	"time"
)

// Status is the CRM pipeline stage of a lead.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusClosed    Status = "Closed"
)

// Valid reports whether the status is one of the known pipeline stages.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	}
	return false
}

// Fallbacks for fields the bot could not elicit before capturing the lead.
const (
	anonymousName      = "Anonymous"
	unknownPhone       = "Unknown"
	noRequirementGiven = "No details provided"
)

// Lead is a prospective customer captured from a conversation or a web form.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Requirement string    `json:"requirement"`
	Source      string    `json:"source"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateLeadRequest represents the request body for creating a lead.
type CreateLeadRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Requirement string `json:"requirement"`
	Source      string `json:"source"`
}

// Validate rejects leads that carry no information at all.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.Phone) == "" && strings.TrimSpace(r.Requirement) == "" {
		return ErrEmptyLead
	}
	return nil
}

// FromCandidate builds a create request from chat-extracted lead data,
// substituting the demo fallbacks for anything the bot did not capture.
func FromCandidate(name, requirement string) CreateLeadRequest {
	if strings.TrimSpace(name) == "" {
		name = anonymousName
	}
	if strings.TrimSpace(requirement) == "" {
		requirement = noRequirementGiven
	}
	return CreateLeadRequest{
		Name:        name,
		Phone:       unknownPhone,
		Requirement: requirement,
		Source:      "chat",
	}
}
