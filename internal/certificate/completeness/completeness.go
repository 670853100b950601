// Package completeness runs the fixed battery of section and field checks
// against a certificate snapshot. The report is advisory; the service decides
// whether required failures block submission.
package completeness

import (
	"fmt"
	"strings"

	"certhub/internal/certificate/models"
	"certhub/internal/certificate/severity"
)

// Severity of a failed check.
type Severity string

const (
	SeverityRequired    Severity = "required"
	SeverityRecommended Severity = "recommended"
)

// Section groups checks for display.
const (
	SectionClient       = "client"
	SectionInstallation = "installation"
	SectionInspector    = "inspector"
	SectionSupply       = "supply"
	SectionBoards       = "boards"
	SectionCircuits     = "circuits"
	SectionAssessment   = "assessment"
	SectionWork         = "work"
	SectionBonding      = "bonding"
	SectionObservations = "observations"
)

// Result is the outcome of one named check.
type Result struct {
	Section  string   `json:"section"`
	Check    string   `json:"check"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
}

// Report lists every applicable check in a stable order.
type Report struct {
	Results []Result `json:"results"`
}

// Complete reports whether no required check failed.
func (r Report) Complete() bool {
	return len(r.RequiredFailures()) == 0
}

func (r Report) RequiredFailures() []Result {
	return r.failures(SeverityRequired)
}

func (r Report) RecommendedFailures() []Result {
	return r.failures(SeverityRecommended)
}

func (r Report) failures(sev Severity) []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed && res.Severity == sev {
			out = append(out, res)
		}
	}
	return out
}

// check is one entry in the battery. applies gates type-specific checks.
type check struct {
	section  string
	name     string
	severity Severity
	applies  func(*models.Certificate) bool
	run      func(*models.Certificate) (bool, string)
}

func always(*models.Certificate) bool { return true }

func present(s string) bool { return strings.TrimSpace(s) != "" }

func field(ok bool, msg string) (bool, string) {
	if ok {
		return true, ""
	}
	return false, msg
}

var battery = []check{
	{SectionClient, "client_name", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Client.Name), "client name is missing")
	}},
	{SectionClient, "client_address", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Client.Address), "client address is missing")
	}},
	{SectionClient, "client_contact", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Client.Email) || present(c.Client.Phone), "no client email or phone recorded")
	}},
	{SectionInstallation, "installation_address", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Installation.Address), "installation address is missing")
	}},
	{SectionInstallation, "installation_postcode", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Installation.Postcode), "installation postcode is missing")
	}},
	{SectionInstallation, "installation_description", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Installation.Description), "installation description is missing")
	}},
	{SectionInspector, "inspector_name", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Inspector.Name), "inspector name is missing")
	}},
	{SectionInspector, "inspector_registration", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		return field(present(c.Inspector.RegistrationNumber), "inspector registration number is missing")
	}},
	{SectionSupply, "earthing_arrangement", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		return field(c.Supply.EarthingArrangement != "", "earthing arrangement is missing")
	}},
	{SectionSupply, "ze_recorded", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		return field(c.Supply.Ze != nil, "external loop impedance Ze not recorded")
	}},
	{SectionBoards, "board_present", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		return field(len(c.Boards) > 0, "no distribution board recorded")
	}},
	{SectionCircuits, "circuits_recorded", SeverityRequired, recordsCircuits, circuitsRecorded},
	{SectionCircuits, "circuits_recorded", SeverityRecommended, notRecordsCircuits, circuitsRecorded},
	{SectionCircuits, "all_boards_have_circuits", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		var empty []string
		for _, b := range c.Boards {
			if len(b.Circuits) == 0 {
				empty = append(empty, b.Name)
			}
		}
		return field(len(empty) == 0, "boards without circuits: "+strings.Join(empty, ", "))
	}},
	{SectionCircuits, "circuit_test_results", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		var missing []string
		for _, circuit := range c.Circuits() {
			if circuit.CircuitType != "spare" && !circuit.Tests.Recorded() {
				missing = append(missing, fmt.Sprint(circuit.Number))
			}
		}
		return field(len(missing) == 0, "circuits without test results: "+strings.Join(missing, ", "))
	}},
	{SectionCircuits, "non_compliant_circuits", SeverityRecommended, always, func(c *models.Certificate) (bool, string) {
		var flagged []string
		for _, circuit := range c.NonCompliantCircuits() {
			flagged = append(flagged, fmt.Sprint(circuit.Number))
		}
		return field(len(flagged) == 0, "measured Zs exceeds maximum on circuits: "+strings.Join(flagged, ", "))
	}},
	{SectionCircuits, "single_circuit", SeverityRequired, isSingleCircuit, func(c *models.Certificate) (bool, string) {
		n := len(c.Circuits())
		return field(n == 1, fmt.Sprintf("exactly one circuit expected, found %d", n))
	}},
	{SectionAssessment, "overall_assessment", SeverityRequired, isConditionReport, func(c *models.Certificate) (bool, string) {
		return field(c.OverallAssessment != "", "overall assessment is required for condition reports")
	}},
	{SectionAssessment, "assessment_consistent", SeverityRecommended, isConditionReport, func(c *models.Certificate) (bool, string) {
		codes := models.ObservationCodes(c.Observations)
		dangerous := severity.HasCriticalDefects(codes) || severity.HasUrgentDefects(codes)
		return field(!dangerous || c.OverallAssessment == models.AssessmentUnsatisfactory,
			"C1 or C2 observations recorded but assessment is not unsatisfactory")
	}},
	{SectionAssessment, "extent_and_limitations", SeverityRecommended, isConditionReport, func(c *models.Certificate) (bool, string) {
		cr := c.Sections.ConditionReport
		return field(cr != nil && present(cr.ExtentAndLimitations), "extent and limitations not recorded")
	}},
	{SectionAssessment, "next_inspection_due", SeverityRecommended, isConditionReport, func(c *models.Certificate) (bool, string) {
		cr := c.Sections.ConditionReport
		return field(cr != nil && cr.NextInspectionDue != nil, "next inspection date not set")
	}},
	{SectionWork, "description_of_work", SeverityRequired, describesWork, func(c *models.Certificate) (bool, string) {
		return field(present(c.Sections.DescriptionOfWork()), "description of work is missing")
	}},
	{SectionBonding, "main_bonding", SeverityRequired, isEarthingBonding, func(c *models.Certificate) (bool, string) {
		eb := c.Sections.EarthingBonding
		return field(eb != nil && eb.MainBondingCSA != nil, "main protective bonding conductor size not recorded")
	}},
	{SectionObservations, "dangerous_observations_have_recommendations", SeverityRequired, always, func(c *models.Certificate) (bool, string) {
		var items []string
		for _, o := range c.Observations {
			if o.NeedsRecommendation() {
				items = append(items, fmt.Sprint(o.ItemNumber))
			}
		}
		return field(len(items) == 0, "C1/C2 observations without a recommendation: "+strings.Join(items, ", "))
	}},
}

func isConditionReport(c *models.Certificate) bool { return c.Type.IsConditionReport() }
func describesWork(c *models.Certificate) bool     { return c.Type.DescribesWork() }
func isSingleCircuit(c *models.Certificate) bool   { return c.Type.IsSingleCircuit() }
func isEarthingBonding(c *models.Certificate) bool { return c.Type == models.TypeEarthingBonding }
func recordsCircuits(c *models.Certificate) bool   { return c.Type.RecordsCircuits() }
func notRecordsCircuits(c *models.Certificate) bool {
	return !c.Type.RecordsCircuits()
}

func circuitsRecorded(c *models.Certificate) (bool, string) {
	return field(len(c.Circuits()) > 0, "no circuits recorded")
}

// Check runs every applicable check against cert. It never mutates cert.
func Check(cert *models.Certificate) Report {
	report := Report{Results: make([]Result, 0, len(battery))}
	for _, chk := range battery {
		if !chk.applies(cert) {
			continue
		}
		passed, msg := chk.run(cert)
		report.Results = append(report.Results, Result{
			Section:  chk.section,
			Check:    chk.name,
			Passed:   passed,
			Severity: chk.severity,
			Message:  msg,
		})
	}
	return report
}
