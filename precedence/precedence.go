// Package precedence tightens a Problem's job bounds by propagating
// earliest/latest start times along its precedence constraints.
//
// Strengthen requires the Problem to already be in topological order
// (every constraint's Before index strictly less than its After index —
// see the permutation package), a precondition the pipeline guarantees by
// always calling permutation.Possible first.
//
// Complexity:
//
//   - Time:   O(V + E) (one forward pass, one backward pass over a CSR
//     adjacency layout)
//   - Memory: O(V + E)
package precedence

import (
	"fmt"

	"github.com/knokko/np-feasibility/problem"
)

// Result reports what Strengthen accomplished.
type Result int

const (
	// Nothing means no bound moved.
	Nothing Result = iota
	// Modified means at least one bound moved.
	Modified
)

// gap returns the minimum time that must elapse between before.Before's
// own bound and after's corresponding bound, for a given constraint.
func gap(c problem.Constraint, beforeExecutionTime problem.Time) problem.Time {
	g := c.Delay
	if c.Type == problem.FinishToStart {
		g += beforeExecutionTime
	}

	return g
}

// Strengthen runs one forward sweep (tightening EarliestStart) followed
// by one backward sweep (tightening LatestStart) over p's constraints, in
// topological order. Panics if p.IsJobOrderPossible() is false, since the
// CSR passes below assume c.Before < c.After for every c — the pipeline
// must always topologically permute p first, so this indicates a
// programmer error rather than a possible runtime condition.
func Strengthen(p *problem.Problem) Result {
	if !p.IsJobOrderPossible() {
		panic(fmt.Sprintf("precedence: Strengthen called on a Problem that is not in topological order (%d constraints)", len(p.Constraints)))
	}

	n := len(p.Jobs)

	// outgoing[i] lists the constraints where job i is the Before job;
	// incoming[i] lists the constraints where job i is the After job.
	outgoingCount := make([]int, n)
	incomingCount := make([]int, n)
	for _, c := range p.Constraints {
		outgoingCount[c.Before]++
		incomingCount[c.After]++
	}

	outgoingOffset := make([]int, n+1)
	incomingOffset := make([]int, n+1)
	for i := 0; i < n; i++ {
		outgoingOffset[i+1] = outgoingOffset[i] + outgoingCount[i]
		incomingOffset[i+1] = incomingOffset[i] + incomingCount[i]
	}

	outgoing := make([]problem.Constraint, len(p.Constraints))
	incoming := make([]problem.Constraint, len(p.Constraints))
	outgoingCursor := append([]int(nil), outgoingOffset[:n]...)
	incomingCursor := append([]int(nil), incomingOffset[:n]...)
	for _, c := range p.Constraints {
		outgoing[outgoingCursor[c.Before]] = c
		outgoingCursor[c.Before]++
		incoming[incomingCursor[c.After]] = c
		incomingCursor[c.After]++
	}

	result := Nothing

	// Forward pass: jobs are already in topological order, so by the time
	// we reach job i, its EarliestStart is final.
	for i := 0; i < n; i++ {
		before := p.Jobs[i]
		for _, c := range outgoing[outgoingOffset[i]:outgoingOffset[i+1]] {
			bound := before.EarliestStart + gap(c, before.ExecutionTime)
			if bound > p.Jobs[c.After].EarliestStart {
				p.Jobs[c.After].EarliestStart = bound
				result = Modified
			}
		}
	}

	// Backward pass: iterate in reverse topological order, so by the time
	// we reach job i, its LatestStart is final.
	for i := n - 1; i >= 0; i-- {
		after := p.Jobs[i]
		for _, c := range incoming[incomingOffset[i]:incomingOffset[i+1]] {
			before := p.Jobs[c.Before]
			bound := after.LatestStart - gap(c, before.ExecutionTime)
			if bound < p.Jobs[c.Before].LatestStart {
				p.Jobs[c.Before].LatestStart = bound
				result = Modified
			}
		}
	}

	return result
}
