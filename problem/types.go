// Package problem defines the Time, Job, Constraint, and Problem types
// shared by every feasibility-analysis package in this module, along
// with the invariants a Problem must satisfy before it can be analyzed.
//
// A Problem is produced externally (see the parser package) and then
// successively strengthened in place by the permutation, precedence, and
// occupation packages. It carries no behavior of its own beyond simple
// derived getters and validation; the actual sufficient-infeasibility
// tests live in the sibling packages.
package problem

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Time is a signed instant or duration, measured in an arbitrary but
// consistent unit shared by every Job and Constraint in a Problem.
type Time = int64

// Job is a single unit of non-preemptive work.
//
// Index must match the job's position within its owning Problem's Jobs
// slice; ExecutionTime must be strictly positive. EarliestStart and
// LatestStart are bounds that the strengthening passes tighten in place.
type Job struct {
	// Index identifies this Job's position in Problem.Jobs.
	Index int

	// ExecutionTime is how long the job runs once started. Always > 0.
	ExecutionTime Time

	// EarliestStart is the earliest time this job may start.
	EarliestStart Time

	// LatestStart is the latest time this job may start without missing
	// its deadline.
	LatestStart Time
}

// ReleaseToDeadline builds a Job from a release time, an execution time,
// and a deadline: EarliestStart = release, LatestStart = deadline - exec.
func ReleaseToDeadline(index int, release, execution, deadline Time) Job {
	if execution <= 0 {
		panic(fmt.Sprintf("problem: execution time must be positive, got %d", execution))
	}

	return Job{
		Index:         index,
		ExecutionTime: execution,
		EarliestStart: release,
		LatestStart:   deadline - execution,
	}
}

// EarliestFinish returns EarliestStart + ExecutionTime.
func (j Job) EarliestFinish() Time {
	return j.EarliestStart + j.ExecutionTime
}

// LatestFinish returns LatestStart + ExecutionTime.
func (j Job) LatestFinish() Time {
	return j.LatestStart + j.ExecutionTime
}

// SetEarliestFinish adjusts EarliestStart so that EarliestFinish() equals
// earliestFinish, keeping ExecutionTime fixed.
func (j *Job) SetEarliestFinish(earliestFinish Time) {
	j.EarliestStart = earliestFinish - j.ExecutionTime
}

// SetLatestFinish adjusts LatestStart so that LatestFinish() equals
// latestFinish, keeping ExecutionTime fixed.
func (j *Job) SetLatestFinish(latestFinish Time) {
	j.LatestStart = latestFinish - j.ExecutionTime
}

// IsCertainlyInfeasible reports whether this Job's own bounds already
// prove it cannot be scheduled (EarliestStart > LatestStart).
func (j Job) IsCertainlyInfeasible() bool {
	return j.EarliestStart > j.LatestStart
}

// ConstraintType distinguishes the two supported precedence semantics.
type ConstraintType int

const (
	// FinishToStart requires start(after) >= finish(before) + delay.
	FinishToStart ConstraintType = iota
	// StartToStart requires start(after) >= start(before) + delay.
	StartToStart
)

// String renders a ConstraintType using the CSV shorthand ("f-s"/"s-s").
func (t ConstraintType) String() string {
	if t == StartToStart {
		return "s-s"
	}

	return "f-s"
}

// Constraint is an ordered precedence edge: Before must satisfy
// Type's ordering relation against After, with a non-negative Delay.
type Constraint struct {
	Before int
	After  int
	Delay  Time
	Type   ConstraintType
}

// Problem is a complete feasibility-analysis instance: a dense-indexed
// set of Jobs, a set of precedence Constraints between them, and the
// number of identical cores available.
type Problem struct {
	Jobs        []Job
	Constraints []Constraint
	NumCores    uint32
}

// Validate checks the structural invariants spec'd for a Problem:
//   - Jobs[i].Index == i for every i
//   - every Constraint references in-range job indices
//   - every Constraint.Delay is non-negative
//   - every Job.ExecutionTime is positive
//
// All violations found are aggregated into a single error via
// go-multierror, rather than stopping at the first one, since this is a
// library boundary a caller may want full diagnostics from.
func (p *Problem) Validate() error {
	var result *multierror.Error

	for i, job := range p.Jobs {
		if job.Index != i {
			result = multierror.Append(result, fmt.Errorf("problem: job at position %d has index %d", i, job.Index))
		}
		if job.ExecutionTime <= 0 {
			result = multierror.Append(result, fmt.Errorf("problem: job %d has non-positive execution time %d", job.Index, job.ExecutionTime))
		}
	}

	for i, c := range p.Constraints {
		if c.Delay < 0 {
			result = multierror.Append(result, fmt.Errorf("problem: constraint %d has negative delay %d", i, c.Delay))
		}
		if c.Before < 0 || c.Before >= len(p.Jobs) {
			result = multierror.Append(result, fmt.Errorf("problem: constraint %d references out-of-range before-index %d", i, c.Before))
		}
		if c.After < 0 || c.After >= len(p.Jobs) {
			result = multierror.Append(result, fmt.Errorf("problem: constraint %d references out-of-range after-index %d", i, c.After))
		}
	}

	if p.NumCores < 1 {
		result = multierror.Append(result, fmt.Errorf("problem: num_cores must be at least 1, got %d", p.NumCores))
	}

	return result.ErrorOrNil()
}

// IsCertainlyInfeasible reports whether any job's bounds alone already
// prove the Problem cannot be scheduled.
func (p *Problem) IsCertainlyInfeasible() bool {
	for _, job := range p.Jobs {
		if job.IsCertainlyInfeasible() {
			return true
		}
	}

	return false
}

// UpdateJobIndices rewrites Jobs[i].Index to i for every i, restoring the
// dense-index invariant after a reorder.
func (p *Problem) UpdateJobIndices() {
	for i := range p.Jobs {
		p.Jobs[i].Index = i
	}
}

// IsJobOrderPossible reports whether Before < After already holds for
// every constraint, i.e. whether the current job order is topological.
func (p *Problem) IsJobOrderPossible() bool {
	for _, c := range p.Constraints {
		if c.Before >= c.After {
			return false
		}
	}

	return true
}
