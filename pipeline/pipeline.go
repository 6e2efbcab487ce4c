// Package pipeline composes the permutation, precedence, occupation, load,
// and interval packages into the three-valued feasibility verdict: a
// Problem is either proved INFEASIBLE, proved CYCLIC (which trivially
// implies infeasibility), or left UNKNOWN when no sufficient test found a
// proof.
//
// Run never reports a problem feasible — it is a battery of sufficient
// infeasibility tests, not an exact solver.
package pipeline

import (
	"github.com/knokko/np-feasibility/interval"
	"github.com/knokko/np-feasibility/load"
	"github.com/knokko/np-feasibility/occupation"
	"github.com/knokko/np-feasibility/permutation"
	"github.com/knokko/np-feasibility/precedence"
	"github.com/knokko/np-feasibility/problem"
)

// Verdict is the outcome of running the full analysis pipeline on a
// Problem.
type Verdict int

const (
	// Unknown means no test in the pipeline found a proof of
	// infeasibility. The problem may or may not actually be schedulable.
	Unknown Verdict = iota
	// Infeasible means some sufficient test proved the problem cannot be
	// scheduled.
	Infeasible
	// Cyclic means the precedence constraints contain a cycle, which
	// trivially implies Infeasible, but is reported separately since it
	// is diagnosed differently (no topological order exists at all,
	// rather than a bound conflict).
	Cyclic
)

// String renders a Verdict the way the CLI prints it.
func (v Verdict) String() string {
	switch v {
	case Infeasible:
		return "INFEASIBLE"
	case Cyclic:
		return "CYCLIC"
	default:
		return "UNKNOWN"
	}
}

// Run executes the full battery of sufficient infeasibility tests against
// p, mutating p's job bounds in place as it goes (callers that need the
// original bounds should copy p first). The stages run in order, each
// given the chance to short-circuit with a definitive verdict:
//
//  1. topologically permute p (Cyclic if impossible)
//  2. strengthen bounds via precedence propagation
//  3. strengthen bounds via certain-core occupation, to a fixed point
//     (Infeasible if a conflict is found)
//  4. permute p back to its original job/constraint order
//  5. check whether any job's own bounds are self-contradictory
//  6. run the feasibility load test
//  7. run the feasibility interval test
//
// If none of these find a proof, the verdict is Unknown.
func Run(p *problem.Problem) Verdict {
	handle, err := permutation.Possible(p)
	if err != nil {
		return Cyclic
	}

	precedence.Strengthen(p)

	if occupation.Strengthen(p) == occupation.Infeasible {
		return Infeasible
	}

	permutation.TransformBack(handle, p)

	if p.IsCertainlyInfeasible() {
		return Infeasible
	}

	if load.RunFeasibilityLoadTest(p) {
		return Infeasible
	}

	if interval.RunFeasibilityIntervalTest(p) {
		return Infeasible
	}

	return Unknown
}
