package recon

import (
	"fmt"

	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// ErrorType classifies a discrepancy row.
type ErrorType string

// Discrepancy classifications. These are output rows, never errors: the
// engine always recovers them into the result table.
const (
	ErrorPlanNameMismatch       ErrorType = "Plan Name Mismatch"
	ErrorEmployeeAmountMismatch ErrorType = "Employee Amount Mismatch"
	ErrorEmployerAmountMismatch ErrorType = "Employer Amount Mismatch"
	ErrorDuplicateIdentity      ErrorType = "Duplicate Identity with Different Plans"
)

// MissingIn builds the classification for a key present in every compared
// source except the named one.
func MissingIn(source table.Source) ErrorType {
	return ErrorType(fmt.Sprintf("Missing in %s", source))
}

// String returns the display form of the error type.
func (e ErrorType) String() string {
	return string(e)
}

// Discrepancy is one detected inconsistency. Created during matching and
// immutable afterwards; suppression passes remove whole rows, never edit
// them.
type Discrepancy struct {
	Type ErrorType

	Identity  string
	FirstName string
	LastName  string
	PlanName  string

	// SourceA and SourceB name the two compared sources for this row; the
	// cost pairs below are ordered to match.
	SourceA table.Source
	SourceB table.Source

	EmployeeCostA table.Money
	EmployeeCostB table.Money
	EmployerCostA table.Money
	EmployerCostB table.Money

	// Similarity carries the plan-name similarity score for
	// PlanNameMismatch rows. HasSimilarity distinguishes 0 from unset.
	Similarity    float64
	HasSimilarity bool
}

// dedupKey identifies a discrepancy for three-way de-duplication: rows
// representing the same (error type, identity, plan) triple collapse to the
// first occurrence.
func (d Discrepancy) dedupKey() string {
	return string(d.Type) + "|" + d.Identity + "|" + d.PlanName
}

// FrequencyResolution records that an apparent amount mismatch was accepted
// because the amounts were equal under a pay-frequency multiplier. Reporting
// only; the underlying data is never altered.
type FrequencyResolution struct {
	Identity string
	PlanName string
	Field    string // "employee_cost" or "employer_cost"
	Factor   int64
}
