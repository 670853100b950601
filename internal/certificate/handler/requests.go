package handler

import (
	"certhub/internal/certificate/compliance"
	"certhub/internal/certificate/models"
	"certhub/internal/certificate/severity"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
)

type CreateCertificateRequest struct {
	Type         string                     `json:"type" validate:"required"`
	PropertyRef  string                     `json:"property_ref" validate:"max=64"`
	Client       models.ClientDetails       `json:"client"`
	Installation models.InstallationDetails `json:"installation"`

	certType models.CertificateType
}

func (r *CreateCertificateRequest) Validate() error {
	t, err := models.ParseCertificateType(r.Type)
	if err != nil {
		return err
	}
	r.certType = t
	return nil
}

type UpdateCertificateRequest struct {
	PropertyRef       *string                         `json:"property_ref" validate:"omitempty,max=64"`
	Client            *models.ClientDetails           `json:"client"`
	Installation      *models.InstallationDetails     `json:"installation"`
	Inspector         *models.InspectorDetails        `json:"inspector"`
	Supply            *models.SupplyCharacteristics   `json:"supply"`
	OverallAssessment *string                         `json:"overall_assessment"`
	ConditionReport   *models.ConditionReportSection  `json:"condition_report"`
	InstallationWork  *models.InstallationWorkSection `json:"installation_work"`
	MinorWorks        *models.MinorWorksSection       `json:"minor_works"`
	EarthingBonding   *models.EarthingBondingSection  `json:"earthing_bonding"`

	patch models.CertificatePatch
}

func (r *UpdateCertificateRequest) Validate() error {
	r.patch = models.CertificatePatch{
		PropertyRef:      r.PropertyRef,
		Client:           r.Client,
		Installation:     r.Installation,
		Inspector:        r.Inspector,
		Supply:           r.Supply,
		ConditionReport:  r.ConditionReport,
		InstallationWork: r.InstallationWork,
		MinorWorks:       r.MinorWorks,
		EarthingBonding:  r.EarthingBonding,
	}
	if r.Supply != nil {
		arrangement, err := models.ParseEarthingArrangement(string(r.Supply.EarthingArrangement))
		if err != nil {
			return err
		}
		supply := *r.Supply
		supply.EarthingArrangement = arrangement
		r.patch.Supply = &supply
	}
	if r.OverallAssessment != nil {
		var assessment models.OverallAssessment
		if *r.OverallAssessment != "" {
			a, err := models.ParseOverallAssessment(*r.OverallAssessment)
			if err != nil {
				return err
			}
			assessment = a
		}
		r.patch.OverallAssessment = &assessment
	}
	return nil
}

type ApproveRequest struct {
	Comments string `json:"comments" validate:"max=4000"`
}

// RejectRequest and RequestRevisionRequest leave the required reason and
// comments to the workflow, which reports a finalised certificate as
// invalid_state before complaining about missing text.
type RejectRequest struct {
	Reason   string `json:"reason" validate:"max=2000"`
	Comments string `json:"comments" validate:"max=4000"`
}

type RequestRevisionRequest struct {
	Comments string `json:"comments" validate:"max=4000"`
}

type BoardRequest struct {
	Name                   *string  `json:"name" validate:"omitempty,min=1,max=64"`
	Location               *string  `json:"location" validate:"omitempty,max=128"`
	SupplySource           *string  `json:"supply_source" validate:"omitempty,max=128"`
	Ways                   *int     `json:"ways" validate:"omitempty,min=0,max=200"`
	Phases                 *int     `json:"phases" validate:"omitempty,oneof=1 3"`
	SPDFitted              *bool    `json:"spd_fitted"`
	SPDStatusConfirmed     *bool    `json:"spd_status_confirmed"`
	Zdb                    *float64 `json:"zdb" validate:"omitempty,gte=0"`
	Ipf                    *float64 `json:"ipf" validate:"omitempty,gte=0"`
	PolarityConfirmed      *bool    `json:"polarity_confirmed"`
	PhaseSequenceConfirmed *bool    `json:"phase_sequence_confirmed"`
}

func (r BoardRequest) toPatch() models.BoardPatch {
	return models.BoardPatch{
		Name:                   r.Name,
		Location:               r.Location,
		SupplySource:           r.SupplySource,
		Ways:                   r.Ways,
		Phases:                 r.Phases,
		SPDFitted:              r.SPDFitted,
		SPDStatusConfirmed:     r.SPDStatusConfirmed,
		Zdb:                    r.Zdb,
		Ipf:                    r.Ipf,
		PolarityConfirmed:      r.PolarityConfirmed,
		PhaseSequenceConfirmed: r.PhaseSequenceConfirmed,
	}
}

type CircuitRequest struct {
	Number          *int                `json:"number" validate:"omitempty,min=1"`
	Designation     *string             `json:"designation" validate:"omitempty,max=128"`
	CircuitType     *string             `json:"circuit_type" validate:"omitempty,max=64"`
	WiringType      *string             `json:"wiring_type" validate:"omitempty,max=64"`
	ReferenceMethod *string             `json:"reference_method" validate:"omitempty,max=16"`
	LiveCSA         *float64            `json:"live_csa" validate:"omitempty,gt=0"`
	CPCCSA          *float64            `json:"cpc_csa" validate:"omitempty,gt=0"`
	DeviceType      *string             `json:"device_type"`
	DeviceRating    *int                `json:"device_rating" validate:"omitempty,min=0"`
	DeviceStandard  *string             `json:"device_standard" validate:"omitempty,max=32"`
	RCDType         *string             `json:"rcd_type"`
	RCDRatingMA     *int                `json:"rcd_rating_ma" validate:"omitempty,min=0"`
	MaxZs           *float64            `json:"max_zs" validate:"omitempty,gt=0"`
	ClearMaxZs      bool                `json:"clear_max_zs"`
	Tests           *models.TestResults `json:"tests"`
	Result          *string             `json:"result"`

	patch models.CircuitPatch
}

func (r *CircuitRequest) Validate() error {
	r.patch = models.CircuitPatch{
		Number:          r.Number,
		Designation:     r.Designation,
		CircuitType:     r.CircuitType,
		WiringType:      r.WiringType,
		ReferenceMethod: r.ReferenceMethod,
		LiveCSA:         r.LiveCSA,
		CPCCSA:          r.CPCCSA,
		DeviceRating:    r.DeviceRating,
		DeviceStandard:  r.DeviceStandard,
		RCDRatingMA:     r.RCDRatingMA,
		MaxZsOverride:   r.MaxZs,
		ClearMaxZs:      r.ClearMaxZs,
		Tests:           r.Tests,
	}
	if r.DeviceType != nil {
		var device compliance.DeviceType
		if *r.DeviceType != "" {
			d, err := compliance.ParseDeviceType(*r.DeviceType)
			if err != nil {
				return err
			}
			device = d
		}
		r.patch.DeviceType = &device
	}
	if r.RCDType != nil {
		var rcd compliance.RCDType
		if *r.RCDType != "" {
			t, err := compliance.ParseRCDType(*r.RCDType)
			if err != nil {
				return err
			}
			rcd = t
		}
		r.patch.RCDType = &rcd
	}
	if r.Result != nil {
		result, err := models.ParseCircuitResult(*r.Result)
		if err != nil {
			return err
		}
		r.patch.Result = &result
	}
	return r.patch.Validate()
}

type BulkCircuitsRequest struct {
	Count int `json:"count" validate:"required,min=1,max=100"`
}

type TemplateRequest struct {
	Template string `json:"template" validate:"required"`
}

type ReorderCircuitsRequest struct {
	CircuitIDs []string `json:"circuit_ids" validate:"required,min=1,dive,required"`

	ordered []id.CircuitID
}

func (r *ReorderCircuitsRequest) Validate() error {
	r.ordered = make([]id.CircuitID, 0, len(r.CircuitIDs))
	for _, raw := range r.CircuitIDs {
		circuitID, err := id.ParseCircuitID(raw)
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "invalid circuit id %q", raw)
		}
		r.ordered = append(r.ordered, circuitID)
	}
	return nil
}

type ObservationRequest struct {
	Code           *string `json:"code"`
	Location       *string `json:"location" validate:"omitempty,max=256"`
	Text           *string `json:"text" validate:"omitempty,max=4000"`
	Recommendation *string `json:"recommendation" validate:"omitempty,max=4000"`
	BoardID        *string `json:"board_id"`
	CircuitID      *string `json:"circuit_id"`
	QuoteID        *string `json:"quote_id" validate:"omitempty,max=64"`

	patch models.ObservationPatch
}

// Validate maps an empty board_id or circuit_id to clearing the link.
func (r *ObservationRequest) Validate() error {
	r.patch = models.ObservationPatch{
		Location:       r.Location,
		Text:           r.Text,
		Recommendation: r.Recommendation,
		QuoteID:        r.QuoteID,
	}
	if r.Code != nil {
		code, err := severity.Parse(*r.Code)
		if err != nil {
			return err
		}
		r.patch.Code = &code
	}
	if r.BoardID != nil {
		if *r.BoardID == "" {
			r.patch.ClearBoard = true
		} else {
			boardID, err := id.ParseBoardID(*r.BoardID)
			if err != nil {
				return dErrors.Newf(dErrors.CodeValidation, "invalid board id %q", *r.BoardID)
			}
			r.patch.BoardID = &boardID
		}
	}
	if r.CircuitID != nil {
		if *r.CircuitID == "" {
			r.patch.ClearCircuit = true
		} else {
			circuitID, err := id.ParseCircuitID(*r.CircuitID)
			if err != nil {
				return dErrors.Newf(dErrors.CodeValidation, "invalid circuit id %q", *r.CircuitID)
			}
			r.patch.CircuitID = &circuitID
		}
	}
	return nil
}
