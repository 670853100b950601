package models

import (
	dErrors "certhub/pkg/domain-errors"
)

// Status is the lifecycle state of a certificate.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusRevisionRequested Status = "revision_requested"
)

// transitions lists every legal move. Approved and rejected have none.
var transitions = map[Status][]Status{
	StatusDraft:             {StatusSubmitted},
	StatusRevisionRequested: {StatusSubmitted},
	StatusSubmitted:         {StatusApproved, StatusRejected, StatusRevisionRequested},
}

// ParseStatus validates a status string from a query or request body.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown certificate status %q", raw)
	}
	return s, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusRevisionRequested:
		return true
	}
	return false
}

// IsEditable reports whether the certificate and its boards, circuits and
// observations may be changed.
func (s Status) IsEditable() bool {
	return s == StatusDraft || s == StatusRevisionRequested
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
