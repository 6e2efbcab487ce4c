package interval

import (
	"github.com/knokko/np-feasibility/binpack"
	"github.com/knokko/np-feasibility/problem"
)

type result int

const (
	resultFinished result = iota
	resultRunning
	resultCertainlyInfeasible
)

type test struct {
	p    *problem.Problem
	tree *Tree

	nextJobIndex int

	relevantJobs []JobInterval
	startTime    problem.Time
	endTime      problem.Time

	requiredLoads     []problem.Time
	correspondingJobs []int
}

func newTest(p *problem.Problem) *test {
	tree := New()
	for _, job := range p.Jobs {
		tree.Insert(JobInterval{Job: job.Index, Start: job.EarliestStart, End: job.LatestFinish()})
	}
	tree.Split()

	return &test{p: p, tree: tree}
}

func max64(a, b problem.Time) problem.Time {
	if a > b {
		return a
	}
	return b
}

func min64(a, b problem.Time) problem.Time {
	if a < b {
		return a
	}
	return b
}

func (t *test) next() result {
	nextJob := t.p.Jobs[t.nextJobIndex]
	t.nextJobIndex++

	t.startTime = nextJob.EarliestStart
	t.endTime = nextJob.LatestFinish()

	// Jobs whose earliest start is before endTime and whose latest finish
	// is after startTime might have to run somewhere inside this window.
	t.relevantJobs = t.tree.Query(JobInterval{
		Job:   nextJob.Index,
		Start: t.startTime,
		End:   t.endTime,
	}, t.relevantJobs[:0])

	t.requiredLoads = t.requiredLoads[:0]
	t.correspondingJobs = t.correspondingJobs[:0]

	for _, iv := range t.relevantJobs {
		var nonOverlappingTime problem.Time
		if iv.Start < t.startTime {
			nonOverlappingTime = t.startTime - iv.Start
		}
		if iv.End > t.endTime {
			nonOverlappingTime = max64(nonOverlappingTime, iv.End-t.endTime)
		}

		execTime := t.p.Jobs[iv.Job].ExecutionTime
		if execTime > nonOverlappingTime {
			t.requiredLoads = append(t.requiredLoads, min64(execTime-nonOverlappingTime, t.endTime-t.startTime))
			t.correspondingJobs = append(t.correspondingJobs, iv.Job)
		}
	}

	if binpack.IsCertainlyUnpackable(t.p.NumCores, t.endTime-t.startTime, t.requiredLoads) {
		return resultCertainlyInfeasible
	}
	if t.nextJobIndex < len(t.p.Jobs) {
		return resultRunning
	}
	return resultFinished
}

// RunFeasibilityIntervalTest reports whether p is certainly infeasible,
// according to the feasibility interval test: for some job's
// earliest-start/latest-finish window, the jobs that might overlap it
// cannot possibly all fit in that window on the available cores.
//
// A false result does not mean p is feasible — only that this test found
// no proof of infeasibility.
func RunFeasibilityIntervalTest(p *problem.Problem) bool {
	if len(p.Jobs) == 0 {
		return false
	}

	t := newTest(p)
	for {
		switch t.next() {
		case resultCertainlyInfeasible:
			return true
		case resultFinished:
			return false
		}
	}
}
