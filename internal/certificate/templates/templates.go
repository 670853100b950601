// Package templates is the catalogue of standard domestic circuit templates
// used to scaffold circuits onto a board.
package templates

import (
	"strings"

	"certhub/internal/certificate/compliance"
	dErrors "certhub/pkg/domain-errors"
)

// KeySpare is the blank template used for bulk placeholder circuits.
const KeySpare = "spare"

// Template holds the default settings for one circuit.
type Template struct {
	Key             string                `json:"key"`
	Designation     string                `json:"designation"`
	CircuitType     string                `json:"circuit_type"`
	WiringType      string                `json:"wiring_type,omitempty"`
	ReferenceMethod string                `json:"reference_method,omitempty"`
	LiveCSA         float64               `json:"live_csa,omitempty"`
	CPCCSA          float64               `json:"cpc_csa,omitempty"`
	DeviceType      compliance.DeviceType `json:"device_type,omitempty"`
	DeviceRating    int                   `json:"device_rating,omitempty"`
	DeviceStandard  string                `json:"device_standard,omitempty"`
	RCDRequired     bool                  `json:"rcd_required"`
	RCDType         compliance.RCDType    `json:"rcd_type,omitempty"`
	RCDRatingMA     int                   `json:"rcd_rating_ma,omitempty"`
	MaxZs           *float64              `json:"max_zs,omitempty"`
}

func ohms(v float64) *float64 { return &v }

const (
	twinAndEarth = "T&E"
	swa          = "SWA"
	bsen60898    = "BS EN 60898"
	bsen61009    = "BS EN 61009"
)

// catalogue is in display order.
var catalogue = [...]Template{
	ring("ring_final_downstairs", "Ring final downstairs sockets"),
	ring("ring_final_upstairs", "Ring final upstairs sockets"),
	ring("ring_final_kitchen", "Ring final kitchen sockets"),
	lighting("lighting_downstairs", "Lighting downstairs"),
	lighting("lighting_upstairs", "Lighting upstairs"),
	{
		Key: "cooker", Designation: "Cooker", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 6.0, CPCCSA: 2.5,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 32, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(1.37),
	},
	{
		Key: "shower", Designation: "Electric shower", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 10.0, CPCCSA: 4.0,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 40, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(1.09),
	},
	{
		Key: "immersion_heater", Designation: "Immersion heater", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 2.5, CPCCSA: 1.5,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 16, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(2.73),
	},
	{
		Key: "smoke_alarm", Designation: "Smoke / heat alarms", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 1.0, CPCCSA: 1.0,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 6, DeviceStandard: bsen60898,
		RCDRequired: false, MaxZs: ohms(7.28),
	},
	{
		Key: "boiler_heating", Designation: "Boiler / central heating", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 1.5, CPCCSA: 1.0,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 6, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(7.28),
	},
	{
		Key: "external_sockets", Designation: "External sockets", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 2.5, CPCCSA: 1.5,
		DeviceType: compliance.DeviceTypeRCBO, DeviceRating: 20, DeviceStandard: bsen61009,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(2.19),
	},
	{
		Key: "garage_outbuilding", Designation: "Garage / outbuilding supply", CircuitType: "submain",
		WiringType: swa, ReferenceMethod: "D", LiveCSA: 6.0, CPCCSA: 6.0,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 32, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(1.37),
	},
	{
		Key: "ev_charger", Designation: "EV charge point", CircuitType: "radial",
		WiringType: swa, ReferenceMethod: "C", LiveCSA: 6.0, CPCCSA: 6.0,
		DeviceType: compliance.DeviceTypeRCBO, DeviceRating: 32, DeviceStandard: bsen61009,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(1.37),
	},
	{
		Key: "spur_fcu", Designation: "Fused spur / FCU", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 2.5, CPCCSA: 1.5,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 16, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(2.73),
	},
	{
		Key: "general_appliance_radial", Designation: "Appliance radial", CircuitType: "radial",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 2.5, CPCCSA: 1.5,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 20, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(2.19),
	},
	{Key: KeySpare, Designation: "Spare", CircuitType: "spare"},
}

func ring(key, designation string) Template {
	return Template{
		Key: key, Designation: designation, CircuitType: "ring",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 2.5, CPCCSA: 1.5,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 32, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(1.37),
	}
}

func lighting(key, designation string) Template {
	return Template{
		Key: key, Designation: designation, CircuitType: "lighting",
		WiringType: twinAndEarth, ReferenceMethod: "C", LiveCSA: 1.0, CPCCSA: 1.0,
		DeviceType: compliance.DeviceTypeB, DeviceRating: 6, DeviceStandard: bsen60898,
		RCDRequired: true, RCDType: compliance.RCDTypeA, RCDRatingMA: 30, MaxZs: ohms(7.28),
	}
}

// All returns the catalogue in display order. Each template is a copy.
func All() []Template {
	out := make([]Template, 0, len(catalogue))
	for _, t := range catalogue {
		out = append(out, t.clone())
	}
	return out
}

// Lookup finds a template by key. Labels such as "Ring final downstairs" are
// normalised to keys.
func Lookup(key string) (Template, error) {
	normalised := strings.ToLower(strings.Join(strings.Fields(key), "_"))
	for _, t := range catalogue {
		if t.Key == normalised {
			return t.clone(), nil
		}
	}
	return Template{}, dErrors.Newf(dErrors.CodeValidation, "unknown circuit template %q", key)
}

// Spare returns the blank placeholder template.
func Spare() Template {
	t, _ := Lookup(KeySpare)
	return t
}

func (t Template) clone() Template {
	if t.MaxZs != nil {
		v := *t.MaxZs
		t.MaxZs = &v
	}
	return t
}
