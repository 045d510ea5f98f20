package models

import "fmt"

// Status is the result of processing one unit of work.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome records what happened to a single file, sheet, or row.
type Outcome struct {
	Unit   string
	Status Status
	Reason string
}

// RunSummary aggregates outcomes and warnings for one run.
type RunSummary struct {
	Outcomes []Outcome
	Warnings []string
}

// Succeed records a successful unit.
func (s *RunSummary) Succeed(unit string) {
	s.Outcomes = append(s.Outcomes, Outcome{Unit: unit, Status: StatusSucceeded})
}

// Skip records a unit skipped for the given reason.
func (s *RunSummary) Skip(unit, reason string) {
	s.Outcomes = append(s.Outcomes, Outcome{Unit: unit, Status: StatusSkipped, Reason: reason})
}

// Fail records a unit that failed with err.
func (s *RunSummary) Fail(unit string, err error) {
	s.Outcomes = append(s.Outcomes, Outcome{Unit: unit, Status: StatusFailed, Reason: err.Error()})
}

// Warn records a non-fatal warning.
func (s *RunSummary) Warn(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Count returns how many outcomes have the given status.
func (s *RunSummary) Count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
