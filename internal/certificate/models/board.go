package models

import (
	"slices"
	"time"

	"certhub/internal/certificate/templates"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
)

// MaxBulkCircuits caps a single bulk scaffold request.
const MaxBulkCircuits = 100

// Board is a distribution board and the final circuits it feeds. Circuits are
// kept in SortOrder order.
type Board struct {
	ID                     id.BoardID       `json:"id"`
	CertificateID          id.CertificateID `json:"certificate_id"`
	Name                   string           `json:"name"`
	Location               string           `json:"location,omitempty"`
	SupplySource           string           `json:"supply_source,omitempty"`
	Ways                   int              `json:"ways,omitempty"`
	Phases                 int              `json:"phases,omitempty"`
	SPDFitted              bool             `json:"spd_fitted"`
	SPDStatusConfirmed     bool             `json:"spd_status_confirmed"`
	Zdb                    *float64         `json:"zdb,omitempty"`
	Ipf                    *float64         `json:"ipf,omitempty"`
	PolarityConfirmed      bool             `json:"polarity_confirmed"`
	PhaseSequenceConfirmed bool             `json:"phase_sequence_confirmed"`
	SortOrder              int              `json:"sort_order"`
	Circuits               []Circuit        `json:"circuits"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// BoardPatch is a partial update. Nil fields are left unchanged.
type BoardPatch struct {
	Name                   *string
	Location               *string
	SupplySource           *string
	Ways                   *int
	Phases                 *int
	SPDFitted              *bool
	SPDStatusConfirmed     *bool
	Zdb                    *float64
	Ipf                    *float64
	PolarityConfirmed      *bool
	PhaseSequenceConfirmed *bool
}

func (p BoardPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "board name cannot be empty")
	}
	if p.Ways != nil && *p.Ways < 0 {
		return dErrors.New(dErrors.CodeValidation, "ways cannot be negative")
	}
	if p.Phases != nil && *p.Phases != 1 && *p.Phases != 3 {
		return dErrors.New(dErrors.CodeValidation, "phases must be 1 or 3")
	}
	return nil
}

func (p BoardPatch) apply(b *Board, now time.Time) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Location != nil {
		b.Location = *p.Location
	}
	if p.SupplySource != nil {
		b.SupplySource = *p.SupplySource
	}
	if p.Ways != nil {
		b.Ways = *p.Ways
	}
	if p.Phases != nil {
		b.Phases = *p.Phases
	}
	if p.SPDFitted != nil {
		b.SPDFitted = *p.SPDFitted
	}
	if p.SPDStatusConfirmed != nil {
		b.SPDStatusConfirmed = *p.SPDStatusConfirmed
	}
	if p.Zdb != nil {
		b.Zdb = clonePtr(p.Zdb)
	}
	if p.Ipf != nil {
		b.Ipf = clonePtr(p.Ipf)
	}
	if p.PolarityConfirmed != nil {
		b.PolarityConfirmed = *p.PolarityConfirmed
	}
	if p.PhaseSequenceConfirmed != nil {
		b.PhaseSequenceConfirmed = *p.PhaseSequenceConfirmed
	}
	b.UpdatedAt = now
}

// NewBoard builds a board from a patch; Name is required.
func NewBoard(certificateID id.CertificateID, p BoardPatch, sortOrder int, now time.Time) (Board, error) {
	if p.Name == nil {
		return Board{}, dErrors.New(dErrors.CodeValidation, "board name is required")
	}
	if err := p.Validate(); err != nil {
		return Board{}, err
	}
	b := Board{
		ID:            id.NewBoardID(),
		CertificateID: certificateID,
		Phases:        1,
		SortOrder:     sortOrder,
		Circuits:      []Circuit{},
		CreatedAt:     now,
	}
	p.apply(&b, now)
	return b, nil
}

// FindCircuit returns a pointer into b.Circuits.
func (b *Board) FindCircuit(circuitID id.CircuitID) (*Circuit, error) {
	for i := range b.Circuits {
		if b.Circuits[i].ID == circuitID {
			return &b.Circuits[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "circuit not found")
}

// NextCircuitNumber is one above the highest number in use.
func (b *Board) NextCircuitNumber() int {
	highest := 0
	for _, c := range b.Circuits {
		highest = max(highest, c.Number)
	}
	return highest + 1
}

func (b *Board) nextSortOrder() int {
	highest := -1
	for _, c := range b.Circuits {
		highest = max(highest, c.SortOrder)
	}
	return highest + 1
}

func (b *Board) numberTaken(number int, except id.CircuitID) bool {
	for _, c := range b.Circuits {
		if c.Number == number && c.ID != except {
			return true
		}
	}
	return false
}

// AddCircuit creates a circuit from a patch. A missing number takes the next
// available one.
func (b *Board) AddCircuit(p CircuitPatch, now time.Time) (Circuit, error) {
	if err := p.Validate(); err != nil {
		return Circuit{}, err
	}
	number := b.NextCircuitNumber()
	if p.Number != nil {
		number = *p.Number
	}
	if b.numberTaken(number, id.CircuitID{}) {
		return Circuit{}, dErrors.Newf(dErrors.CodeValidation, "circuit number %d already used on this board", number)
	}
	c := Circuit{
		ID:        id.NewCircuitID(),
		BoardID:   b.ID,
		SortOrder: b.nextSortOrder(),
		CreatedAt: now,
	}
	p.Number = &number
	p.apply(&c, now)
	b.Circuits = append(b.Circuits, c)
	b.UpdatedAt = now
	return c.clone(), nil
}

// AddFromTemplate appends a circuit scaffolded from tmpl with the next number.
func (b *Board) AddFromTemplate(tmpl templates.Template, now time.Time) Circuit {
	c := NewCircuitFromTemplate(b.ID, b.NextCircuitNumber(), b.nextSortOrder(), tmpl, now)
	b.Circuits = append(b.Circuits, c)
	b.UpdatedAt = now
	return c.clone()
}

// BulkAddSpares appends count blank circuits numbered consecutively after the
// current maximum.
func (b *Board) BulkAddSpares(count int, now time.Time) ([]Circuit, error) {
	if count < 1 || count > MaxBulkCircuits {
		return nil, dErrors.Newf(dErrors.CodeValidation, "count must be between 1 and %d", MaxBulkCircuits)
	}
	spare := templates.Spare()
	added := make([]Circuit, 0, count)
	for range count {
		added = append(added, b.AddFromTemplate(spare, now))
	}
	return added, nil
}

func (b *Board) UpdateCircuit(circuitID id.CircuitID, p CircuitPatch, now time.Time) (Circuit, error) {
	if err := p.Validate(); err != nil {
		return Circuit{}, err
	}
	c, err := b.FindCircuit(circuitID)
	if err != nil {
		return Circuit{}, err
	}
	if p.Number != nil && b.numberTaken(*p.Number, circuitID) {
		return Circuit{}, dErrors.Newf(dErrors.CodeValidation, "circuit number %d already used on this board", *p.Number)
	}
	p.apply(c, now)
	b.UpdatedAt = now
	return c.clone(), nil
}

func (b *Board) RemoveCircuit(circuitID id.CircuitID, now time.Time) error {
	idx := slices.IndexFunc(b.Circuits, func(c Circuit) bool { return c.ID == circuitID })
	if idx < 0 {
		return dErrors.New(dErrors.CodeNotFound, "circuit not found")
	}
	b.Circuits = slices.Delete(b.Circuits, idx, idx+1)
	b.UpdatedAt = now
	return nil
}

// CanReorder checks that ordered is a permutation of the board's circuits.
// A foreign id fails with ownership_mismatch; nothing is changed.
func (b *Board) CanReorder(ordered []id.CircuitID) error {
	owned := make(map[id.CircuitID]bool, len(b.Circuits))
	for _, c := range b.Circuits {
		owned[c.ID] = true
	}
	seen := make(map[id.CircuitID]bool, len(ordered))
	for _, cid := range ordered {
		if !owned[cid] {
			return dErrors.Newf(dErrors.CodeOwnershipMismatch, "circuit %s does not belong to board %s", cid, b.ID)
		}
		if seen[cid] {
			return dErrors.Newf(dErrors.CodeValidation, "circuit %s listed more than once", cid)
		}
		seen[cid] = true
	}
	if len(ordered) != len(b.Circuits) {
		return dErrors.New(dErrors.CodeValidation, "reorder must list every circuit on the board")
	}
	return nil
}

// ApplyReorder rewrites SortOrder to match ordered. Call CanReorder first.
func (b *Board) ApplyReorder(ordered []id.CircuitID, now time.Time) {
	position := make(map[id.CircuitID]int, len(ordered))
	for i, cid := range ordered {
		position[cid] = i
	}
	for i := range b.Circuits {
		b.Circuits[i].SortOrder = position[b.Circuits[i].ID]
		b.Circuits[i].UpdatedAt = now
	}
	b.sortCircuits()
	b.UpdatedAt = now
}

func (b *Board) sortCircuits() {
	slices.SortStableFunc(b.Circuits, func(x, y Circuit) int { return x.SortOrder - y.SortOrder })
}

// NonCompliantCircuits returns circuits whose measured Zs exceeds MaxZs.
func (b *Board) NonCompliantCircuits() []Circuit {
	var out []Circuit
	for _, c := range b.Circuits {
		if c.IsNonCompliant() {
			out = append(out, c.clone())
		}
	}
	return out
}

func (b Board) clone() Board {
	b.Zdb = clonePtr(b.Zdb)
	b.Ipf = clonePtr(b.Ipf)
	circuits := make([]Circuit, len(b.Circuits))
	for i, c := range b.Circuits {
		circuits[i] = c.clone()
	}
	b.Circuits = circuits
	return b
}
