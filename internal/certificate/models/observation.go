package models

import (
	"strings"
	"time"

	"certhub/internal/certificate/severity"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
)

// Observation is a defect or note recorded against the installation.
//
// Invariants:
//   - Code is one of the fixed severity codes
//   - C1 and C2 observations carry a non-empty recommendation
//   - BoardID and CircuitID, when set, refer to the owning certificate
type Observation struct {
	ID             id.ObservationID `json:"id"`
	CertificateID  id.CertificateID `json:"certificate_id"`
	Code           severity.Code    `json:"code"`
	ItemNumber     int              `json:"item_number"`
	Location       string           `json:"location,omitempty"`
	Text           string           `json:"text"`
	Recommendation string           `json:"recommendation,omitempty"`
	BoardID        *id.BoardID      `json:"board_id,omitempty"`
	CircuitID      *id.CircuitID    `json:"circuit_id,omitempty"`
	QuoteID        string           `json:"quote_id,omitempty"`
	SortOrder      int              `json:"sort_order"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NeedsRecommendation reports a dangerous observation without remedial advice.
func (o Observation) NeedsRecommendation() bool {
	return o.Code.IsDangerous() && strings.TrimSpace(o.Recommendation) == ""
}

func (o Observation) validate() error {
	if _, ok := severity.Lookup(o.Code); !ok {
		return dErrors.Newf(dErrors.CodeValidation, "unknown observation code %q", o.Code)
	}
	if strings.TrimSpace(o.Text) == "" {
		return dErrors.New(dErrors.CodeValidation, "observation text is required")
	}
	if o.NeedsRecommendation() {
		return dErrors.Newf(dErrors.CodeValidation, "%s observations require a recommendation", o.Code)
	}
	return nil
}

func (o Observation) clone() Observation {
	o.BoardID = clonePtr(o.BoardID)
	o.CircuitID = clonePtr(o.CircuitID)
	return o
}

// ObservationPatch is a partial update. Nil fields are left unchanged.
type ObservationPatch struct {
	Code           *severity.Code
	Location       *string
	Text           *string
	Recommendation *string
	BoardID        *id.BoardID
	ClearBoard     bool
	CircuitID      *id.CircuitID
	ClearCircuit   bool
	QuoteID        *string
}

func (p ObservationPatch) apply(o *Observation, now time.Time) {
	if p.Code != nil {
		o.Code = *p.Code
	}
	if p.Location != nil {
		o.Location = *p.Location
	}
	if p.Text != nil {
		o.Text = *p.Text
	}
	if p.Recommendation != nil {
		o.Recommendation = *p.Recommendation
	}
	switch {
	case p.ClearBoard:
		o.BoardID = nil
	case p.BoardID != nil:
		o.BoardID = clonePtr(p.BoardID)
	}
	switch {
	case p.ClearCircuit:
		o.CircuitID = nil
	case p.CircuitID != nil:
		o.CircuitID = clonePtr(p.CircuitID)
	}
	if p.QuoteID != nil {
		o.QuoteID = *p.QuoteID
	}
	o.UpdatedAt = now
}

// ObservationCodes lists the codes of observations in display order.
func ObservationCodes(observations []Observation) []severity.Code {
	codes := make([]severity.Code, 0, len(observations))
	for _, o := range observations {
		codes = append(codes, o.Code)
	}
	return codes
}
