// Package permutation reorders a Problem's jobs and constraints into a
// topological order, where every constraint's Before index is strictly
// less than its After index — a precondition the precedence package relies
// on.
//
// Complexity:
//
//   - Time:   O(V + E) (Kahn-style traversal over a CSR adjacency layout)
//   - Memory: O(V + E)
package permutation

import (
	"errors"

	"github.com/knokko/np-feasibility/problem"
)

// ErrCyclic is returned by Possible when the precedence graph contains a
// cycle, so no topological order exists.
var ErrCyclic = errors.New("permutation: precedence constraints are cyclic")

// jobBuilder accumulates the CSR offsets for one job's outgoing
// constraints, plus its remaining unprocessed predecessor count.
type jobBuilder struct {
	job                   int
	numSuccessors         int
	offset                int
	remainingPredecessors int
}

// Handle is a reversible record of how Possible reordered a Problem's jobs
// and constraints. Passing it to TransformBack restores the original
// positions and indices exactly.
type Handle struct {
	// jobs[newIndex] is the original index of the job now at newIndex.
	jobs []int
	// constraints[newIndex] is the original index of the constraint now
	// at newIndex.
	constraints []int
}

// Possible reorders p's jobs into a topological order — one where
// c.Before < c.After holds for every constraint c — and re-stamps job and
// constraint indices to match. Constraints are additionally grouped by
// their Before job, with the groups in order of the Before jobs' original
// indices.
//
// When multiple jobs have zero remaining predecessors, any relative order
// between them is acceptable.
//
// Returns ErrCyclic (and leaves p unmodified) if the constraints are
// cyclic, in which case no topological order exists.
func Possible(p *problem.Problem) (*Handle, error) {
	n := len(p.Jobs)
	builders := make([]jobBuilder, n)
	for i := range builders {
		builders[i].job = i
	}

	sortedConstraints := make([]problem.Constraint, len(p.Constraints))
	constraintOwner := make([]int, len(p.Constraints))

	for _, c := range p.Constraints {
		builders[c.Before].numSuccessors++
		builders[c.After].remainingPredecessors++
	}

	offset := 0
	for i := range builders {
		builders[i].offset = offset
		offset += builders[i].numSuccessors
		builders[i].numSuccessors = 0
	}

	for originalIndex, c := range p.Constraints {
		predecessor := &builders[c.Before]
		slot := predecessor.offset + predecessor.numSuccessors
		sortedConstraints[slot] = c
		constraintOwner[slot] = originalIndex
		predecessor.numSuccessors++
	}

	completedJobs := make([]int, 0, n)
	nextJobs := make([]int, 0, n)
	for _, b := range builders {
		if b.remainingPredecessors == 0 {
			nextJobs = append(nextJobs, b.job)
		}
	}

	for len(nextJobs) > 0 {
		predecessor := nextJobs[len(nextJobs)-1]
		nextJobs = nextJobs[:len(nextJobs)-1]

		start := builders[predecessor].offset
		bound := start + builders[predecessor].numSuccessors
		for _, c := range sortedConstraints[start:bound] {
			successor := &builders[c.After]
			successor.remainingPredecessors--
			if successor.remainingPredecessors < 0 {
				panic("permutation: remaining predecessor count went negative")
			}
			if successor.remainingPredecessors == 0 {
				nextJobs = append(nextJobs, successor.job)
			}
		}
		completedJobs = append(completedJobs, predecessor)
	}

	if len(completedJobs) != n {
		return nil, ErrCyclic
	}

	newJobs := make([]problem.Job, n)
	for newIndex, oldIndex := range completedJobs {
		newJobs[newIndex] = p.Jobs[oldIndex]
	}
	p.Jobs = newJobs
	p.UpdateJobIndices()

	// inverse[oldIndex] = newIndex, used to remap constraint endpoints.
	inverse := make([]int, n)
	for newIndex, oldIndex := range completedJobs {
		inverse[oldIndex] = newIndex
	}

	newConstraints := make([]problem.Constraint, len(sortedConstraints))
	for i, old := range sortedConstraints {
		newConstraints[i] = problem.Constraint{
			Before: inverse[old.Before],
			After:  inverse[old.After],
			Delay:  old.Delay,
			Type:   old.Type,
		}
	}
	p.Constraints = newConstraints

	return &Handle{jobs: completedJobs, constraints: constraintOwner}, nil
}

// TransformBack undoes the reordering recorded by h, restoring p's jobs
// and constraints to their original positions and indices. Calling
// Possible followed by TransformBack is the identity on p.
func TransformBack(h *Handle, p *problem.Problem) {
	reverseJobMapping := make([]int, len(p.Jobs))
	newJobs := make([]problem.Job, len(p.Jobs))
	for currentIndex, originalIndex := range h.jobs {
		newJobs[originalIndex] = p.Jobs[currentIndex]
		reverseJobMapping[currentIndex] = originalIndex
	}
	p.Jobs = newJobs
	p.UpdateJobIndices()

	newConstraints := make([]problem.Constraint, len(p.Constraints))
	for currentIndex, originalIndex := range h.constraints {
		current := p.Constraints[currentIndex]
		newConstraints[originalIndex] = problem.Constraint{
			Before: reverseJobMapping[current.Before],
			After:  reverseJobMapping[current.After],
			Delay:  current.Delay,
			Type:   current.Type,
		}
	}
	p.Constraints = newConstraints
}
