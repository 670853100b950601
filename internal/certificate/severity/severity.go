// Package severity holds the fixed observation classification codes and the
// classifier used for advisory warnings. Nothing here gates a transition.
package severity

import (
	"strings"

	dErrors "certhub/pkg/domain-errors"
)

// Code is an observation classification code.
type Code string

const (
	CodeC1   Code = "C1"
	CodeC2   Code = "C2"
	CodeC3   Code = "C3"
	CodeFI   Code = "FI"
	CodeNote Code = "NOTE"
	CodeLIM  Code = "LIM"
	CodeNA   Code = "NA"
	CodeNV   Code = "NV"
	CodeX    Code = "X"
)

// Priority ranks how quickly an observation must be acted on.
type Priority string

const (
	PriorityCritical      Priority = "critical"
	PriorityUrgent        Priority = "urgent"
	PriorityAdvisory      Priority = "advisory"
	PriorityInvestigate   Priority = "priority"
	PriorityInformational Priority = "informational"
)

// Definition describes one code.
type Definition struct {
	Code           Code     `json:"code"`
	Label          string   `json:"label"`
	Priority       Priority `json:"priority"`
	ActionRequired bool     `json:"action_required"`
}

// definitions is in display order.
var definitions = [...]Definition{
	{CodeC1, "Danger present", PriorityCritical, true},
	{CodeC2, "Potentially dangerous", PriorityUrgent, true},
	{CodeC3, "Improvement recommended", PriorityAdvisory, false},
	{CodeFI, "Further investigation required", PriorityInvestigate, true},
	{CodeNote, "Note", PriorityInformational, false},
	{CodeLIM, "Limitation", PriorityInformational, false},
	{CodeNA, "Not applicable", PriorityInformational, false},
	{CodeNV, "Not verified", PriorityInformational, false},
	{CodeX, "Not inspected", PriorityInformational, false},
}

// Definitions returns all codes in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions[:])
	return out
}

// Lookup returns the definition for code.
func Lookup(code Code) (Definition, bool) {
	for _, d := range definitions {
		if d.Code == code {
			return d, true
		}
	}
	return Definition{}, false
}

// Parse accepts a code case-insensitively.
func Parse(raw string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := Lookup(code); !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown observation code %q", raw)
	}
	return code, nil
}

// IsDangerous reports codes that must carry a remedial recommendation.
func (c Code) IsDangerous() bool {
	return c == CodeC1 || c == CodeC2
}

// ActionRequired reports whether the code demands remedial action.
func (c Code) ActionRequired() bool {
	d, ok := Lookup(c)
	return ok && d.ActionRequired
}

// Count tallies observations per code.
func Count(codes []Code) map[Code]int {
	counts := make(map[Code]int, len(definitions))
	for _, c := range codes {
		counts[c]++
	}
	return counts
}

// HasCriticalDefects reports any C1.
func HasCriticalDefects(codes []Code) bool {
	return contains(codes, CodeC1)
}

// HasUrgentDefects reports any C2.
func HasUrgentDefects(codes []Code) bool {
	return contains(codes, CodeC2)
}

func contains(codes []Code, target Code) bool {
	for _, c := range codes {
		if c == target {
			return true
		}
	}
	return false
}

// Summary is the classifier output surfaced as advisory warnings.
type Summary struct {
	Counts         map[Code]int `json:"counts"`
	Total          int          `json:"total"`
	ActionRequired int          `json:"action_required"`
	HasCritical    bool         `json:"has_critical"`
	HasUrgent      bool         `json:"has_urgent"`
}

// Summarize classifies a set of codes.
func Summarize(codes []Code) Summary {
	s := Summary{
		Counts:      Count(codes),
		Total:       len(codes),
		HasCritical: HasCriticalDefects(codes),
		HasUrgent:   HasUrgentDefects(codes),
	}
	for _, c := range codes {
		if c.ActionRequired() {
			s.ActionRequired++
		}
	}
	return s
}
