package models

import (
	"time"

	"certhub/internal/certificate/compliance"
	"certhub/internal/certificate/templates"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
)

// CircuitResult is the inspector's outcome for a circuit.
type CircuitResult string

const (
	ResultPass          CircuitResult = "pass"
	ResultFail          CircuitResult = "fail"
	ResultNotApplicable CircuitResult = "na"
)

func ParseCircuitResult(raw string) (CircuitResult, error) {
	switch r := CircuitResult(raw); r {
	case "", ResultPass, ResultFail, ResultNotApplicable:
		return r, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown circuit result %q", raw)
}

// TestResults are the values measured on a circuit.
type TestResults struct {
	R1R2                *float64 `json:"r1_r2,omitempty"`
	R2                  *float64 `json:"r2,omitempty"`
	InsulationLiveLive  *float64 `json:"insulation_live_live,omitempty"`
	InsulationLiveEarth *float64 `json:"insulation_live_earth,omitempty"`
	MeasuredZs          *float64 `json:"measured_zs,omitempty"`
	PolarityConfirmed   *bool    `json:"polarity_confirmed,omitempty"`
	RCDTripTimeMs       *float64 `json:"rcd_trip_time_ms,omitempty"`
	RCDTestButton       *bool    `json:"rcd_test_button,omitempty"`
}

// Recorded reports whether any test value has been entered.
func (t TestResults) Recorded() bool {
	return t.R1R2 != nil || t.R2 != nil || t.InsulationLiveLive != nil ||
		t.InsulationLiveEarth != nil || t.MeasuredZs != nil || t.PolarityConfirmed != nil ||
		t.RCDTripTimeMs != nil
}

func (t TestResults) clone() TestResults {
	return TestResults{
		R1R2:                clonePtr(t.R1R2),
		R2:                  clonePtr(t.R2),
		InsulationLiveLive:  clonePtr(t.InsulationLiveLive),
		InsulationLiveEarth: clonePtr(t.InsulationLiveEarth),
		MeasuredZs:          clonePtr(t.MeasuredZs),
		PolarityConfirmed:   clonePtr(t.PolarityConfirmed),
		RCDTripTimeMs:       clonePtr(t.RCDTripTimeMs),
		RCDTestButton:       clonePtr(t.RCDTestButton),
	}
}

// Circuit is one final circuit on a board.
//
// Invariants:
//   - Number is positive and unique within its board
//   - SortOrder is unique within its board
//   - MaxZs follows the protective device unless MaxZsManual is set
type Circuit struct {
	ID              id.CircuitID          `json:"id"`
	BoardID         id.BoardID            `json:"board_id"`
	Number          int                   `json:"number"`
	Designation     string                `json:"designation"`
	CircuitType     string                `json:"circuit_type,omitempty"`
	WiringType      string                `json:"wiring_type,omitempty"`
	ReferenceMethod string                `json:"reference_method,omitempty"`
	LiveCSA         float64               `json:"live_csa,omitempty"`
	CPCCSA          float64               `json:"cpc_csa,omitempty"`
	DeviceType      compliance.DeviceType `json:"device_type,omitempty"`
	DeviceRating    int                   `json:"device_rating,omitempty"`
	DeviceStandard  string                `json:"device_standard,omitempty"`
	RCDType         compliance.RCDType    `json:"rcd_type,omitempty"`
	RCDRatingMA     int                   `json:"rcd_rating_ma,omitempty"`
	MaxZs           *float64              `json:"max_zs,omitempty"`
	MaxZsManual     bool                  `json:"max_zs_manual"`
	Tests           TestResults           `json:"tests"`
	Result          CircuitResult         `json:"result,omitempty"`
	SortOrder       int                   `json:"sort_order"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NewCircuitFromTemplate scaffolds a circuit from a catalogue template.
func NewCircuitFromTemplate(boardID id.BoardID, number, sortOrder int, tmpl templates.Template, now time.Time) Circuit {
	c := Circuit{
		ID:              id.NewCircuitID(),
		BoardID:         boardID,
		Number:          number,
		Designation:     tmpl.Designation,
		CircuitType:     tmpl.CircuitType,
		WiringType:      tmpl.WiringType,
		ReferenceMethod: tmpl.ReferenceMethod,
		LiveCSA:         tmpl.LiveCSA,
		CPCCSA:          tmpl.CPCCSA,
		DeviceType:      tmpl.DeviceType,
		DeviceRating:    tmpl.DeviceRating,
		DeviceStandard:  tmpl.DeviceStandard,
		RCDType:         tmpl.RCDType,
		RCDRatingMA:     tmpl.RCDRatingMA,
		SortOrder:       sortOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	c.recomputeMaxZs()
	return c
}

// ApplyDevice sets the protective device and refreshes the derived maximum
// impedance. A manual override is left untouched.
func (c *Circuit) ApplyDevice(device compliance.DeviceType, rating int) {
	c.DeviceType = device
	c.DeviceRating = rating
	if !c.MaxZsManual {
		c.recomputeMaxZs()
	}
}

// SetMaxZsOverride pins MaxZs to a manual value. Nil clears the override and
// falls back to the device table.
func (c *Circuit) SetMaxZsOverride(ohms *float64) {
	if ohms == nil {
		c.MaxZsManual = false
		c.recomputeMaxZs()
		return
	}
	v := *ohms
	c.MaxZs = &v
	c.MaxZsManual = true
}

func (c *Circuit) recomputeMaxZs() {
	c.MaxZs = compliance.LookupMaxImpedance(c.DeviceType, c.DeviceRating)
}

// IsNonCompliant reports a measured Zs above the maximum. Advisory only.
func (c *Circuit) IsNonCompliant() bool {
	return compliance.IsNonCompliant(c.Tests.MeasuredZs, c.MaxZs)
}

func (c Circuit) clone() Circuit {
	c.MaxZs = clonePtr(c.MaxZs)
	c.Tests = c.Tests.clone()
	return c
}

// CircuitPatch is a partial update. Nil fields are left unchanged.
type CircuitPatch struct {
	Number          *int
	Designation     *string
	CircuitType     *string
	WiringType      *string
	ReferenceMethod *string
	LiveCSA         *float64
	CPCCSA          *float64
	DeviceType      *compliance.DeviceType
	DeviceRating    *int
	DeviceStandard  *string
	RCDType         *compliance.RCDType
	RCDRatingMA     *int
	MaxZsOverride   *float64
	ClearMaxZs      bool
	Tests           *TestResults
	Result          *CircuitResult
}

// Validate checks values independent of the owning board.
func (p CircuitPatch) Validate() error {
	if p.Number != nil && *p.Number <= 0 {
		return dErrors.New(dErrors.CodeValidation, "circuit number must be positive")
	}
	if p.DeviceType != nil && *p.DeviceType != "" && !p.DeviceType.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown protective device type %q", *p.DeviceType)
	}
	if p.DeviceRating != nil && *p.DeviceRating < 0 {
		return dErrors.New(dErrors.CodeValidation, "device rating cannot be negative")
	}
	if p.MaxZsOverride != nil && *p.MaxZsOverride <= 0 {
		return dErrors.New(dErrors.CodeValidation, "max_zs must be positive")
	}
	if p.MaxZsOverride != nil && p.ClearMaxZs {
		return dErrors.New(dErrors.CodeValidation, "max_zs cannot be set and cleared together")
	}
	return nil
}

// apply mutates c. The caller has validated the patch and number uniqueness.
func (p CircuitPatch) apply(c *Circuit, now time.Time) {
	if p.Number != nil {
		c.Number = *p.Number
	}
	if p.Designation != nil {
		c.Designation = *p.Designation
	}
	if p.CircuitType != nil {
		c.CircuitType = *p.CircuitType
	}
	if p.WiringType != nil {
		c.WiringType = *p.WiringType
	}
	if p.ReferenceMethod != nil {
		c.ReferenceMethod = *p.ReferenceMethod
	}
	if p.LiveCSA != nil {
		c.LiveCSA = *p.LiveCSA
	}
	if p.CPCCSA != nil {
		c.CPCCSA = *p.CPCCSA
	}
	if p.DeviceStandard != nil {
		c.DeviceStandard = *p.DeviceStandard
	}
	if p.RCDType != nil {
		c.RCDType = *p.RCDType
	}
	if p.RCDRatingMA != nil {
		c.RCDRatingMA = *p.RCDRatingMA
	}
	if p.DeviceType != nil || p.DeviceRating != nil {
		device, rating := c.DeviceType, c.DeviceRating
		if p.DeviceType != nil {
			device = *p.DeviceType
		}
		if p.DeviceRating != nil {
			rating = *p.DeviceRating
		}
		c.ApplyDevice(device, rating)
	}
	switch {
	case p.ClearMaxZs:
		c.SetMaxZsOverride(nil)
	case p.MaxZsOverride != nil:
		c.SetMaxZsOverride(p.MaxZsOverride)
	}
	if p.Tests != nil {
		c.Tests = p.Tests.clone()
	}
	if p.Result != nil {
		c.Result = *p.Result
	}
	c.UpdatedAt = now
}
