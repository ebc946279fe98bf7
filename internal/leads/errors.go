package leads

import "errors"

var (
	ErrLeadNotFound  = errors.New("leads: lead not found")
	ErrEmptyLead     = errors.New("leads: lead carries no name, phone, or requirement")
	ErrInvalidStatus = errors.New("leads: invalid status")
)
