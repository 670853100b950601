package models

import (
	"strings"

	dErrors "certhub/pkg/domain-errors"
)

// CertificateType is the statutory document a certificate represents.
type CertificateType string

const (
	TypePeriodicConditionReport CertificateType = "periodic_condition_report"
	TypeInstallationCertificate CertificateType = "installation_certificate"
	TypeMinorWorks              CertificateType = "minor_works"
	TypeMinorWorksMulti         CertificateType = "minor_works_multi"
	TypeSingleCircuit           CertificateType = "single_circuit"
	TypeVisualCondition         CertificateType = "visual_condition"
	TypeEarthingBonding         CertificateType = "earthing_bonding"
)

var certificateTypes = []CertificateType{
	TypePeriodicConditionReport,
	TypeInstallationCertificate,
	TypeMinorWorks,
	TypeMinorWorksMulti,
	TypeSingleCircuit,
	TypeVisualCondition,
	TypeEarthingBonding,
}

// CertificateTypes returns every supported certificate type.
func CertificateTypes() []CertificateType {
	return append([]CertificateType(nil), certificateTypes...)
}

// ParseCertificateType accepts kebab or snake case.
func ParseCertificateType(raw string) (CertificateType, error) {
	candidate := CertificateType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown certificate type %q", raw)
}

func (t CertificateType) IsValid() bool {
	for _, known := range certificateTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsConditionReport reports whether the type is an inspection report that
// must carry an overall assessment.
func (t CertificateType) IsConditionReport() bool {
	return t == TypePeriodicConditionReport || t == TypeVisualCondition
}

// RecordsCircuits reports whether a complete certificate of this type must
// carry a schedule of circuits.
func (t CertificateType) RecordsCircuits() bool {
	return t != TypeVisualCondition && t != TypeEarthingBonding
}

// DescribesWork reports whether the type certifies new or altered work.
func (t CertificateType) DescribesWork() bool {
	switch t {
	case TypeInstallationCertificate, TypeMinorWorks, TypeMinorWorksMulti, TypeSingleCircuit:
		return true
	}
	return false
}

// IsSingleCircuit reports whether the type covers exactly one circuit.
func (t CertificateType) IsSingleCircuit() bool {
	return t == TypeSingleCircuit || t == TypeMinorWorks
}

// OverallAssessment is the inspector's verdict on a condition report.
type OverallAssessment string

const (
	AssessmentSatisfactory   OverallAssessment = "satisfactory"
	AssessmentUnsatisfactory OverallAssessment = "unsatisfactory"
)

func ParseOverallAssessment(raw string) (OverallAssessment, error) {
	switch a := OverallAssessment(strings.ToLower(strings.TrimSpace(raw))); a {
	case AssessmentSatisfactory, AssessmentUnsatisfactory:
		return a, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown overall assessment %q", raw)
}

// EarthingArrangement is the system earthing type of the supply.
type EarthingArrangement string

const (
	EarthingTNS  EarthingArrangement = "TN-S"
	EarthingTNCS EarthingArrangement = "TN-C-S"
	EarthingTT   EarthingArrangement = "TT"
	EarthingIT   EarthingArrangement = "IT"
)

func ParseEarthingArrangement(raw string) (EarthingArrangement, error) {
	switch a := EarthingArrangement(strings.ToUpper(strings.TrimSpace(raw))); a {
	case "", EarthingTNS, EarthingTNCS, EarthingTT, EarthingIT:
		return a, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown earthing arrangement %q", raw)
}

type ClientDetails struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Postcode string `json:"postcode,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type InstallationDetails struct {
	Address               string `json:"address"`
	Postcode              string `json:"postcode,omitempty"`
	Occupier              string `json:"occupier,omitempty"`
	Description           string `json:"description,omitempty"`
	EstimatedAgeYears     *int   `json:"estimated_age_years,omitempty"`
	EvidenceOfAlterations bool   `json:"evidence_of_alterations"`
	RecordsAvailable      bool   `json:"records_available"`
}

type InspectorDetails struct {
	Name               string `json:"name"`
	Company            string `json:"company,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Position           string `json:"position,omitempty"`
}

// SupplyCharacteristics are measured or declared at the origin.
type SupplyCharacteristics struct {
	EarthingArrangement EarthingArrangement `json:"earthing_arrangement,omitempty"`
	LiveConductors      string              `json:"live_conductors,omitempty"`
	NominalVoltage      *float64            `json:"nominal_voltage,omitempty"`
	FrequencyHz         *float64            `json:"frequency_hz,omitempty"`
	Ze                  *float64            `json:"ze,omitempty"`
	PFCkA               *float64            `json:"pfc_ka,omitempty"`
	MainSwitchRating    *int                `json:"main_switch_rating,omitempty"`
}
