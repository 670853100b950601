// Package compliance derives maximum permissible earth fault loop impedance
// (Zs) for final circuits from their protective device.
//
// Values are for 0.4 s disconnection at 230 V nominal with Cmin 0.95. Only the
// listed device/rating combinations are known; everything else is an
// "unknown" result rather than an error.
package compliance

import (
	"slices"
	"strings"

	dErrors "certhub/pkg/domain-errors"
)

// DeviceType identifies a protective device family.
type DeviceType string

const (
	DeviceTypeB      DeviceType = "B"
	DeviceTypeC      DeviceType = "C"
	DeviceTypeD      DeviceType = "D"
	DeviceTypeRCBO   DeviceType = "RCBO"
	DeviceTypeBS88   DeviceType = "BS88"
	DeviceTypeBS1361 DeviceType = "BS1361"
	DeviceTypeBS1362 DeviceType = "BS1362"
	DeviceTypeBS3036 DeviceType = "BS3036"
)

var deviceTypes = []DeviceType{
	DeviceTypeB, DeviceTypeC, DeviceTypeD, DeviceTypeRCBO,
	DeviceTypeBS88, DeviceTypeBS1361, DeviceTypeBS1362, DeviceTypeBS3036,
}

// ParseDeviceType accepts a recognised device family (case-insensitive).
// Fuses are recognised even though the impedance table does not cover them.
func ParseDeviceType(raw string) (DeviceType, error) {
	candidate := DeviceType(strings.ToUpper(strings.TrimSpace(raw)))
	if slices.Contains(deviceTypes, candidate) {
		return candidate, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown protective device type %q", raw)
}

// IsValid reports whether d is a recognised device family.
func (d DeviceType) IsValid() bool {
	return slices.Contains(deviceTypes, d)
}

// StandardRatings are the device ratings covered by the table, in amps.
var standardRatings = [...]int{6, 10, 16, 20, 25, 32, 40, 50, 63}

// maxZs is indexed by device then position in standardRatings.
var maxZs = map[DeviceType][len(standardRatings)]float64{
	DeviceTypeB:    {7.28, 4.37, 2.73, 2.19, 1.75, 1.37, 1.09, 0.87, 0.69},
	DeviceTypeC:    {3.64, 2.19, 1.37, 1.09, 0.87, 0.68, 0.55, 0.44, 0.35},
	DeviceTypeD:    {1.82, 1.09, 0.68, 0.55, 0.44, 0.34, 0.27, 0.22, 0.17},
	DeviceTypeRCBO: {7.28, 4.37, 2.73, 2.19, 1.75, 1.37, 1.09, 0.87, 0.69},
}

// MaxImpedance returns the maximum permissible Zs in ohms for the device and
// rating. ok is false when the combination is not in the table.
func MaxImpedance(device DeviceType, ratingAmps int) (ohms float64, ok bool) {
	row, found := maxZs[device]
	if !found {
		return 0, false
	}
	idx := slices.Index(standardRatings[:], ratingAmps)
	if idx < 0 {
		return 0, false
	}
	return row[idx], true
}

// LookupMaxImpedance is MaxImpedance in pointer form for optional fields:
// nil means unknown.
func LookupMaxImpedance(device DeviceType, ratingAmps int) *float64 {
	ohms, ok := MaxImpedance(device, ratingAmps)
	if !ok {
		return nil
	}
	return &ohms
}

// IsNonCompliant reports a measured Zs above the permitted maximum. Missing
// values never flag.
func IsNonCompliant(measured, maximum *float64) bool {
	if measured == nil || maximum == nil {
		return false
	}
	return *measured > *maximum
}

// Entry is one row of the impedance table.
type Entry struct {
	Device DeviceType `json:"device"`
	Rating int        `json:"rating"`
	MaxZs  float64    `json:"max_zs"`
}

// Table lists every known combination, ordered by device then rating.
func Table() []Entry {
	entries := make([]Entry, 0, len(maxZs)*len(standardRatings))
	for _, device := range deviceTypes {
		row, ok := maxZs[device]
		if !ok {
			continue
		}
		for i, rating := range standardRatings {
			entries = append(entries, Entry{Device: device, Rating: rating, MaxZs: row[i]})
		}
	}
	return entries
}

// RCDType identifies residual current device sensitivity to waveforms.
type RCDType string

const (
	RCDTypeAC RCDType = "AC"
	RCDTypeA  RCDType = "A"
	RCDTypeF  RCDType = "F"
	RCDTypeB  RCDType = "B"
)

// ParseRCDType accepts a recognised RCD type; empty means no RCD.
func ParseRCDType(raw string) (RCDType, error) {
	candidate := RCDType(strings.ToUpper(strings.TrimSpace(raw)))
	switch candidate {
	case "", RCDTypeAC, RCDTypeA, RCDTypeF, RCDTypeB:
		return candidate, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown RCD type %q", raw)
}
