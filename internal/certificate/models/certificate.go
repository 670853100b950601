// Package models defines the certificate aggregate: the certificate itself,
// its distribution boards, their circuits, its observations and the review log
// entries produced by status transitions.
package models

import (
	"slices"
	"strings"
	"time"

	"certhub/internal/certificate/templates"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
)

// Approval records the outcome of review.
type Approval struct {
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CustomerVisible  bool       `json:"customer_visible"`
	RejectedBy       string     `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	ReviewerComments string     `json:"reviewer_comments,omitempty"`
	Fingerprint      string     `json:"fingerprint,omitempty"`
}

// Certificate is the aggregate root for one electrical test certificate.
//
// Invariants:
//   - Type is immutable after construction
//   - Boards, circuits and observations change only while Status.IsEditable()
//   - Status moves only along the transitions in status.go
//   - Version increases by one on every persisted change
type Certificate struct {
	ID                id.CertificateID      `json:"id"`
	Type              CertificateType       `json:"type"`
	Status            Status                `json:"status"`
	PropertyRef       string                `json:"property_ref,omitempty"`
	Client            ClientDetails         `json:"client"`
	Installation      InstallationDetails   `json:"installation"`
	Inspector         InspectorDetails      `json:"inspector"`
	Supply            SupplyCharacteristics `json:"supply"`
	OverallAssessment OverallAssessment     `json:"overall_assessment,omitempty"`
	Sections          Sections              `json:"sections"`
	Approval          Approval              `json:"approval"`
	Boards            []Board               `json:"boards"`
	Observations      []Observation         `json:"observations"`
	CreatedBy         string                `json:"created_by,omitempty"`
	SubmittedBy       string                `json:"submitted_by,omitempty"`
	SubmittedAt       *time.Time            `json:"submitted_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Version           int64                 `json:"version"`
}

// NewCertificate builds a draft certificate.
func NewCertificate(
	certificateID id.CertificateID,
	certType CertificateType,
	propertyRef string,
	client ClientDetails,
	installation InstallationDetails,
	createdBy string,
	now time.Time,
) (*Certificate, error) {
	if !certType.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown certificate type %q", certType)
	}
	return &Certificate{
		ID:           certificateID,
		Type:         certType,
		Status:       StatusDraft,
		PropertyRef:  strings.TrimSpace(propertyRef),
		Client:       client,
		Installation: installation,
		Boards:       []Board{},
		Observations: []Observation{},
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}, nil
}

// CanEdit fails with invalid_state once the certificate is locked for review
// or finalised.
func (c *Certificate) CanEdit() error {
	if !c.Status.IsEditable() {
		return dErrors.Newf(dErrors.CodeInvalidState, "certificate is locked (status %s)", c.Status)
	}
	return nil
}

// CertificatePatch is a partial update of the certificate's own fields.
type CertificatePatch struct {
	PropertyRef       *string
	Client            *ClientDetails
	Installation      *InstallationDetails
	Inspector         *InspectorDetails
	Supply            *SupplyCharacteristics
	OverallAssessment *OverallAssessment
	ConditionReport   *ConditionReportSection
	InstallationWork  *InstallationWorkSection
	MinorWorks        *MinorWorksSection
	EarthingBonding   *EarthingBondingSection
}

func (p CertificatePatch) sections() Sections {
	return Sections{
		ConditionReport:  p.ConditionReport,
		InstallationWork: p.InstallationWork,
		MinorWorks:       p.MinorWorks,
		EarthingBonding:  p.EarthingBonding,
	}
}

// UpdateFields applies a partial update to an editable certificate.
func (c *Certificate) UpdateFields(p CertificatePatch, now time.Time) error {
	if err := c.CanEdit(); err != nil {
		return err
	}
	if p.OverallAssessment != nil && *p.OverallAssessment != "" && !c.Type.IsConditionReport() {
		return dErrors.Newf(dErrors.CodeValidation, "overall assessment does not apply to %s certificates", c.Type)
	}
	if err := p.sections().ValidateFor(c.Type); err != nil {
		return err
	}
	if p.PropertyRef != nil {
		c.PropertyRef = strings.TrimSpace(*p.PropertyRef)
	}
	if p.Client != nil {
		c.Client = *p.Client
	}
	if p.Installation != nil {
		c.Installation = *p.Installation
		c.Installation.EstimatedAgeYears = clonePtr(p.Installation.EstimatedAgeYears)
	}
	if p.Inspector != nil {
		c.Inspector = *p.Inspector
	}
	if p.Supply != nil {
		c.Supply = cloneSupply(*p.Supply)
	}
	if p.OverallAssessment != nil {
		c.OverallAssessment = *p.OverallAssessment
	}
	incoming := p.sections().clone()
	if incoming.ConditionReport != nil {
		c.Sections.ConditionReport = incoming.ConditionReport
	}
	if incoming.InstallationWork != nil {
		c.Sections.InstallationWork = incoming.InstallationWork
	}
	if incoming.MinorWorks != nil {
		c.Sections.MinorWorks = incoming.MinorWorks
	}
	if incoming.EarthingBonding != nil {
		c.Sections.EarthingBonding = incoming.EarthingBonding
	}
	c.UpdatedAt = now
	return nil
}

// FindBoard returns a pointer into c.Boards.
func (c *Certificate) FindBoard(boardID id.BoardID) (*Board, error) {
	for i := range c.Boards {
		if c.Boards[i].ID == boardID {
			return &c.Boards[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "board not found")
}

// FindCircuit searches every board for a circuit.
func (c *Certificate) FindCircuit(circuitID id.CircuitID) (*Board, *Circuit, error) {
	for i := range c.Boards {
		if circuit, err := c.Boards[i].FindCircuit(circuitID); err == nil {
			return &c.Boards[i], circuit, nil
		}
	}
	return nil, nil, dErrors.New(dErrors.CodeNotFound, "circuit not found")
}

func (c *Certificate) AddBoard(p BoardPatch, now time.Time) (Board, error) {
	if err := c.CanEdit(); err != nil {
		return Board{}, err
	}
	next := 0
	for _, b := range c.Boards {
		next = max(next, b.SortOrder+1)
	}
	board, err := NewBoard(c.ID, p, next, now)
	if err != nil {
		return Board{}, err
	}
	c.Boards = append(c.Boards, board)
	c.UpdatedAt = now
	return board.clone(), nil
}

func (c *Certificate) UpdateBoard(boardID id.BoardID, p BoardPatch, now time.Time) (Board, error) {
	if err := c.CanEdit(); err != nil {
		return Board{}, err
	}
	if err := p.Validate(); err != nil {
		return Board{}, err
	}
	board, err := c.FindBoard(boardID)
	if err != nil {
		return Board{}, err
	}
	p.apply(board, now)
	c.UpdatedAt = now
	return board.clone(), nil
}

// RemoveBoard deletes a board with its circuits and detaches observations
// that referred to them.
func (c *Certificate) RemoveBoard(boardID id.BoardID, now time.Time) error {
	if err := c.CanEdit(); err != nil {
		return err
	}
	idx := slices.IndexFunc(c.Boards, func(b Board) bool { return b.ID == boardID })
	if idx < 0 {
		return dErrors.New(dErrors.CodeNotFound, "board not found")
	}
	removed := c.Boards[idx]
	c.Boards = slices.Delete(c.Boards, idx, idx+1)
	for i := range c.Observations {
		o := &c.Observations[i]
		if o.BoardID != nil && *o.BoardID == removed.ID {
			o.BoardID = nil
			o.CircuitID = nil
			o.UpdatedAt = now
		}
	}
	c.UpdatedAt = now
	return nil
}

func (c *Certificate) AddCircuit(boardID id.BoardID, p CircuitPatch, now time.Time) (Circuit, error) {
	board, err := c.editableBoard(boardID)
	if err != nil {
		return Circuit{}, err
	}
	circuit, err := board.AddCircuit(p, now)
	if err != nil {
		return Circuit{}, err
	}
	c.UpdatedAt = now
	return circuit, nil
}

func (c *Certificate) UpdateCircuit(boardID id.BoardID, circuitID id.CircuitID, p CircuitPatch, now time.Time) (Circuit, error) {
	board, err := c.editableBoard(boardID)
	if err != nil {
		return Circuit{}, err
	}
	circuit, err := board.UpdateCircuit(circuitID, p, now)
	if err != nil {
		return Circuit{}, err
	}
	c.UpdatedAt = now
	return circuit, nil
}

func (c *Certificate) RemoveCircuit(boardID id.BoardID, circuitID id.CircuitID, now time.Time) error {
	board, err := c.editableBoard(boardID)
	if err != nil {
		return err
	}
	if err := board.RemoveCircuit(circuitID, now); err != nil {
		return err
	}
	for i := range c.Observations {
		o := &c.Observations[i]
		if o.CircuitID != nil && *o.CircuitID == circuitID {
			o.CircuitID = nil
			o.UpdatedAt = now
		}
	}
	c.UpdatedAt = now
	return nil
}

func (c *Certificate) ApplyTemplate(boardID id.BoardID, tmpl templates.Template, now time.Time) (Circuit, error) {
	board, err := c.editableBoard(boardID)
	if err != nil {
		return Circuit{}, err
	}
	circuit := board.AddFromTemplate(tmpl, now)
	c.UpdatedAt = now
	return circuit, nil
}

func (c *Certificate) BulkAddCircuits(boardID id.BoardID, count int, now time.Time) ([]Circuit, error) {
	board, err := c.editableBoard(boardID)
	if err != nil {
		return nil, err
	}
	circuits, err := board.BulkAddSpares(count, now)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	return circuits, nil
}

// ReorderCircuits rewrites a board's circuit order. Either every circuit is
// reordered or nothing changes.
func (c *Certificate) ReorderCircuits(boardID id.BoardID, ordered []id.CircuitID, now time.Time) error {
	board, err := c.editableBoard(boardID)
	if err != nil {
		return err
	}
	if err := board.CanReorder(ordered); err != nil {
		return err
	}
	board.ApplyReorder(ordered, now)
	c.UpdatedAt = now
	return nil
}

func (c *Certificate) editableBoard(boardID id.BoardID) (*Board, error) {
	if err := c.CanEdit(); err != nil {
		return nil, err
	}
	return c.FindBoard(boardID)
}

// FindObservation returns a pointer into c.Observations.
func (c *Certificate) FindObservation(observationID id.ObservationID) (*Observation, error) {
	for i := range c.Observations {
		if c.Observations[i].ID == observationID {
			return &c.Observations[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "observation not found")
}

// AddObservation records a new observation with the next item number.
func (c *Certificate) AddObservation(p ObservationPatch, now time.Time) (Observation, error) {
	if err := c.CanEdit(); err != nil {
		return Observation{}, err
	}
	if p.Code == nil {
		return Observation{}, dErrors.New(dErrors.CodeValidation, "observation code is required")
	}
	nextItem, nextOrder := 1, 0
	for _, o := range c.Observations {
		nextItem = max(nextItem, o.ItemNumber+1)
		nextOrder = max(nextOrder, o.SortOrder+1)
	}
	o := Observation{
		ID:            id.NewObservationID(),
		CertificateID: c.ID,
		ItemNumber:    nextItem,
		SortOrder:     nextOrder,
		CreatedAt:     now,
	}
	p.apply(&o, now)
	if err := c.resolveReferences(&o); err != nil {
		return Observation{}, err
	}
	if err := o.validate(); err != nil {
		return Observation{}, err
	}
	c.Observations = append(c.Observations, o)
	c.UpdatedAt = now
	return o.clone(), nil
}

func (c *Certificate) UpdateObservation(observationID id.ObservationID, p ObservationPatch, now time.Time) (Observation, error) {
	if err := c.CanEdit(); err != nil {
		return Observation{}, err
	}
	existing, err := c.FindObservation(observationID)
	if err != nil {
		return Observation{}, err
	}
	candidate := existing.clone()
	p.apply(&candidate, now)
	if err := c.resolveReferences(&candidate); err != nil {
		return Observation{}, err
	}
	if err := candidate.validate(); err != nil {
		return Observation{}, err
	}
	*existing = candidate
	c.UpdatedAt = now
	return candidate.clone(), nil
}

func (c *Certificate) RemoveObservation(observationID id.ObservationID, now time.Time) error {
	if err := c.CanEdit(); err != nil {
		return err
	}
	idx := slices.IndexFunc(c.Observations, func(o Observation) bool { return o.ID == observationID })
	if idx < 0 {
		return dErrors.New(dErrors.CodeNotFound, "observation not found")
	}
	c.Observations = slices.Delete(c.Observations, idx, idx+1)
	c.UpdatedAt = now
	return nil
}

// resolveReferences checks board and circuit references belong to c and
// fills BoardID from the circuit when only the circuit is given.
func (c *Certificate) resolveReferences(o *Observation) error {
	if o.CircuitID != nil {
		board, _, err := c.FindCircuit(*o.CircuitID)
		if err != nil {
			return dErrors.New(dErrors.CodeOwnershipMismatch, "circuit does not belong to this certificate")
		}
		if o.BoardID != nil && *o.BoardID != board.ID {
			return dErrors.New(dErrors.CodeOwnershipMismatch, "circuit does not belong to the referenced board")
		}
		boardID := board.ID
		o.BoardID = &boardID
		return nil
	}
	if o.BoardID != nil {
		if _, err := c.FindBoard(*o.BoardID); err != nil {
			return dErrors.New(dErrors.CodeOwnershipMismatch, "board does not belong to this certificate")
		}
	}
	return nil
}

// Circuits returns every circuit across all boards in board order.
func (c *Certificate) Circuits() []Circuit {
	var out []Circuit
	for _, b := range c.Boards {
		for _, circuit := range b.Circuits {
			out = append(out, circuit.clone())
		}
	}
	return out
}

// NonCompliantCircuits returns circuits whose measured Zs exceeds MaxZs.
func (c *Certificate) NonCompliantCircuits() []Circuit {
	var out []Circuit
	for i := range c.Boards {
		out = append(out, c.Boards[i].NonCompliantCircuits()...)
	}
	return out
}

// Clone returns a deep copy safe to mutate independently.
func (c *Certificate) Clone() *Certificate {
	if c == nil {
		return nil
	}
	out := *c
	out.Installation.EstimatedAgeYears = clonePtr(c.Installation.EstimatedAgeYears)
	out.Supply = cloneSupply(c.Supply)
	out.Sections = c.Sections.clone()
	out.Approval.ApprovedAt = clonePtr(c.Approval.ApprovedAt)
	out.Approval.RejectedAt = clonePtr(c.Approval.RejectedAt)
	out.SubmittedAt = clonePtr(c.SubmittedAt)
	out.Boards = make([]Board, len(c.Boards))
	for i, b := range c.Boards {
		out.Boards[i] = b.clone()
	}
	out.Observations = make([]Observation, len(c.Observations))
	for i, o := range c.Observations {
		out.Observations[i] = o.clone()
	}
	return &out
}

func cloneSupply(s SupplyCharacteristics) SupplyCharacteristics {
	s.NominalVoltage = clonePtr(s.NominalVoltage)
	s.FrequencyHz = clonePtr(s.FrequencyHz)
	s.Ze = clonePtr(s.Ze)
	s.PFCkA = clonePtr(s.PFCkA)
	s.MainSwitchRating = clonePtr(s.MainSwitchRating)
	return s
}

// Document is the content that an approval fingerprint covers: everything a
// customer sees, without workflow state.
type Document struct {
	ID                id.CertificateID      `json:"id"`
	Type              CertificateType       `json:"type"`
	PropertyRef       string                `json:"property_ref"`
	Client            ClientDetails         `json:"client"`
	Installation      InstallationDetails   `json:"installation"`
	Inspector         InspectorDetails      `json:"inspector"`
	Supply            SupplyCharacteristics `json:"supply"`
	OverallAssessment OverallAssessment     `json:"overall_assessment"`
	Sections          Sections              `json:"sections"`
	Boards            []Board               `json:"boards"`
	Observations      []Observation         `json:"observations"`
}

func (c *Certificate) Document() Document {
	clone := c.Clone()
	return Document{
		ID:                clone.ID,
		Type:              clone.Type,
		PropertyRef:       clone.PropertyRef,
		Client:            clone.Client,
		Installation:      clone.Installation,
		Inspector:         clone.Inspector,
		Supply:            clone.Supply,
		OverallAssessment: clone.OverallAssessment,
		Sections:          clone.Sections,
		Boards:            clone.Boards,
		Observations:      clone.Observations,
	}
}
