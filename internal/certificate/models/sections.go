package models

import (
	"time"

	dErrors "certhub/pkg/domain-errors"
)

// SectionKind names a type-specific part of a certificate.
type SectionKind string

const (
	SectionConditionReport  SectionKind = "condition_report"
	SectionInstallationWork SectionKind = "installation_work"
	SectionMinorWorks       SectionKind = "minor_works"
	SectionEarthingBonding  SectionKind = "earthing_bonding"
)

var allowedSections = map[CertificateType][]SectionKind{
	TypePeriodicConditionReport: {SectionConditionReport},
	TypeVisualCondition:         {SectionConditionReport},
	TypeInstallationCertificate: {SectionInstallationWork},
	TypeMinorWorks:              {SectionMinorWorks},
	TypeMinorWorksMulti:         {SectionMinorWorks},
	TypeSingleCircuit:           {SectionMinorWorks},
	TypeEarthingBonding:         {SectionEarthingBonding},
}

// AllowedSections returns the sections a certificate type may carry.
func AllowedSections(t CertificateType) []SectionKind {
	return append([]SectionKind(nil), allowedSections[t]...)
}

func sectionAllowed(t CertificateType, kind SectionKind) bool {
	for _, k := range allowedSections[t] {
		if k == kind {
			return true
		}
	}
	return false
}

type ConditionReportSection struct {
	Purpose              string     `json:"purpose,omitempty"`
	ExtentAndLimitations string     `json:"extent_and_limitations,omitempty"`
	AgreedLimitations    string     `json:"agreed_limitations,omitempty"`
	NextInspectionDue    *time.Time `json:"next_inspection_due,omitempty"`
	GeneralCondition     string     `json:"general_condition,omitempty"`
}

type InstallationWorkSection struct {
	DesignerName      string `json:"designer_name,omitempty"`
	ConstructorName   string `json:"constructor_name,omitempty"`
	InspectorName     string `json:"inspector_name,omitempty"`
	DescriptionOfWork string `json:"description_of_work,omitempty"`
	ExtentOfWork      string `json:"extent_of_work,omitempty"`
	Departures        string `json:"departures,omitempty"`
}

type MinorWorksSection struct {
	DescriptionOfWork     string     `json:"description_of_work,omitempty"`
	DateCompleted         *time.Time `json:"date_completed,omitempty"`
	Departures            string     `json:"departures,omitempty"`
	FaultProtectionMethod string     `json:"fault_protection_method,omitempty"`
}

type EarthingBondingSection struct {
	EarthingConductorCSA *float64 `json:"earthing_conductor_csa,omitempty"`
	MainBondingCSA       *float64 `json:"main_bonding_csa,omitempty"`
	BondedServices       []string `json:"bonded_services,omitempty"`
	ElectrodeResistance  *float64 `json:"electrode_resistance,omitempty"`
}

// Sections holds the optional type-specific parts. At most the kinds named
// by AllowedSections for the certificate type are set.
type Sections struct {
	ConditionReport  *ConditionReportSection  `json:"condition_report,omitempty"`
	InstallationWork *InstallationWorkSection `json:"installation_work,omitempty"`
	MinorWorks       *MinorWorksSection       `json:"minor_works,omitempty"`
	EarthingBonding  *EarthingBondingSection  `json:"earthing_bonding,omitempty"`
}

// Present lists the kinds that are set.
func (s Sections) Present() []SectionKind {
	var kinds []SectionKind
	if s.ConditionReport != nil {
		kinds = append(kinds, SectionConditionReport)
	}
	if s.InstallationWork != nil {
		kinds = append(kinds, SectionInstallationWork)
	}
	if s.MinorWorks != nil {
		kinds = append(kinds, SectionMinorWorks)
	}
	if s.EarthingBonding != nil {
		kinds = append(kinds, SectionEarthingBonding)
	}
	return kinds
}

// ValidateFor rejects sections the certificate type may not carry.
func (s Sections) ValidateFor(t CertificateType) error {
	for _, kind := range s.Present() {
		if !sectionAllowed(t, kind) {
			return dErrors.Newf(dErrors.CodeValidation, "section %s is not allowed on %s certificates", kind, t)
		}
	}
	return nil
}

// DescriptionOfWork returns the work description from whichever work section
// is present.
func (s Sections) DescriptionOfWork() string {
	switch {
	case s.InstallationWork != nil:
		return s.InstallationWork.DescriptionOfWork
	case s.MinorWorks != nil:
		return s.MinorWorks.DescriptionOfWork
	}
	return ""
}

func (s Sections) clone() Sections {
	out := Sections{}
	if s.ConditionReport != nil {
		cr := *s.ConditionReport
		cr.NextInspectionDue = clonePtr(cr.NextInspectionDue)
		out.ConditionReport = &cr
	}
	if s.InstallationWork != nil {
		iw := *s.InstallationWork
		out.InstallationWork = &iw
	}
	if s.MinorWorks != nil {
		mw := *s.MinorWorks
		mw.DateCompleted = clonePtr(mw.DateCompleted)
		out.MinorWorks = &mw
	}
	if s.EarthingBonding != nil {
		eb := *s.EarthingBonding
		eb.EarthingConductorCSA = clonePtr(eb.EarthingConductorCSA)
		eb.MainBondingCSA = clonePtr(eb.MainBondingCSA)
		eb.ElectrodeResistance = clonePtr(eb.ElectrodeResistance)
		eb.BondedServices = append([]string(nil), eb.BondedServices...)
		out.EarthingBonding = &eb
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
