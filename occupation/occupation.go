// Package occupation strengthens a Problem's job bounds by reasoning about
// which cores are certainly occupied at which times.
//
// Consider a job that is released at time 10, has an execution time of 15,
// and a deadline at time 30. When started at the earliest possible time
// (10), it finishes at 25; when finished at the latest acceptable time
// (30), it started at 15. In every schedule that meets its deadline, the
// job therefore occupies a core between time 15 and 25 — its certain
// occupation interval.
//
// When more cores are certainly occupied at some instant than the problem
// has available, the problem is infeasible. When exactly as many cores as
// are available are certainly occupied during some interval, other jobs
// cannot execute during that interval, which can tighten their bounds —
// and tightening one job's bounds can grow its own certain occupation
// interval, possibly cascading further. Strengthen iterates
// this reasoning to a fixed point.
//
// Complexity:
//
//   - Time:   O(n^2) worst case (each of n jobs may trigger a timeline
//     insert/remove that touches O(n) intervals, across O(n) fixed-point
//     iterations)
//   - Memory: O(n)
package occupation

import (
	"github.com/knokko/np-feasibility/problem"
)

// Result reports what Strengthen accomplished.
type Result int

const (
	// Unchanged means no job bound moved.
	Unchanged Result = iota
	// Modified means at least one job bound moved, and the problem was not
	// proven infeasible.
	Modified
	// Infeasible means more cores were proven certainly occupied at some
	// instant than the problem has available, or some job's bounds were
	// tightened until its EarliestStart exceeded its LatestStart.
	Infeasible
)

// Strengthen repeatedly tightens every job's EarliestStart and LatestStart
// by analyzing intervals during which cores are certainly occupied, until
// no further bound moves (a fixed point) or the problem is proven
// infeasible.
func Strengthen(p *problem.Problem) Result {
	timeline := newTimeline(p.NumCores)
	for _, job := range p.Jobs {
		if timeline.insert(job) {
			return Infeasible
		}
	}

	modifiedAnything := false
	for {
		modifiedInterval := false
		for i := range p.Jobs {
			result := timeline.refine(&p.Jobs[i])
			if result == refineInfeasible {
				return Infeasible
			}
			if result == refineModifiedJobAndIntervals {
				modifiedInterval = true
				modifiedAnything = true
			}
			if result == refineModifiedJob {
				modifiedAnything = true
			}
		}

		if !modifiedInterval {
			break
		}
	}

	if modifiedAnything {
		return Modified
	}

	return Unchanged
}

// interval is a half-open span [start, next interval's start) during which
// exactly numCores cores are certainly occupied.
type interval struct {
	start    problem.Time
	numCores uint32
}

type refineResult int

const (
	refineUnchanged refineResult = iota
	refineModifiedJob
	refineModifiedJobAndIntervals
	refineInfeasible
)

// timeline is a sorted run-length encoding of certain core occupation over
// time: intervals[i].numCores cores are occupied from intervals[i].start
// up to (but excluding) intervals[i+1].start; the final interval extends
// to infinity.
type timeline struct {
	intervals []interval
	maxCores  uint32
}

func newTimeline(numCores uint32) *timeline {
	return &timeline{
		intervals: []interval{{start: 0, numCores: 0}},
		maxCores:  numCores,
	}
}

// lowerBound returns the index of the last interval whose start is <= t.
func (tl *timeline) lowerBound(t problem.Time) int {
	lo, hi := 0, len(tl.intervals)
	for lo < hi {
		mid := (lo + hi) / 2
		if tl.intervals[mid].start <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

// exactIndex returns the index of the interval whose start equals t, and
// whether one exists.
func (tl *timeline) exactIndex(t problem.Time) (int, bool) {
	lo, hi := 0, len(tl.intervals)
	for lo < hi {
		mid := (lo + hi) / 2
		if tl.intervals[mid].start < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(tl.intervals) && tl.intervals[lo].start == t {
		return lo, true
	}
	return lo, false
}

// insert adds job's certain occupation interval (if any) to the timeline,
// incrementing numCores for every interval it covers. Returns true if
// doing so would occupy more cores than maxCores at some instant, meaning
// the problem is certainly infeasible.
func (tl *timeline) insert(job problem.Job) bool {
	if job.EarliestFinish() <= job.LatestStart {
		return false
	}

	var endIndex int
	boundIndex, exactBound := tl.exactIndex(job.EarliestFinish())
	if exactBound {
		endIndex = boundIndex - 1
	} else {
		endIndex = boundIndex - 1
		tl.insertAt(boundIndex, interval{
			start:    job.EarliestFinish(),
			numCores: tl.intervals[endIndex].numCores,
		})
	}

	var startIndex int
	nextStartIndex, exactStart := tl.exactIndex(job.LatestStart)
	if exactStart {
		startIndex = nextStartIndex
	} else {
		numCores := tl.intervals[nextStartIndex-1].numCores
		if nextStartIndex < len(tl.intervals) &&
			numCores+1 == tl.intervals[nextStartIndex].numCores &&
			tl.intervals[nextStartIndex].start >= job.EarliestFinish() {
			tl.intervals[nextStartIndex].start = job.LatestStart
		} else {
			tl.insertAt(nextStartIndex, interval{start: job.LatestStart, numCores: numCores})
			endIndex++
		}
		startIndex = nextStartIndex
	}

	for index := startIndex; index <= endIndex; index++ {
		moreCores := tl.intervals[index].numCores + 1
		if moreCores > tl.maxCores {
			return true
		}
		tl.intervals[index].numCores = moreCores
	}

	for startIndex > 0 && tl.intervals[startIndex].numCores == tl.intervals[startIndex-1].numCores {
		tl.removeAt(startIndex)
		endIndex--
	}
	for endIndex+1 < len(tl.intervals) && tl.intervals[endIndex].numCores == tl.intervals[endIndex+1].numCores {
		tl.removeAt(endIndex + 1)
	}

	return false
}

// findInterruption returns the index of an interval within [start, bound)
// where every core is certainly occupied, if one exists.
func (tl *timeline) findInterruption(start, bound problem.Time) (int, bool) {
	startIndex := tl.lowerBound(start)
	boundIndex, _ := tl.exactIndex(bound)

	for index := startIndex; index < boundIndex; index++ {
		if tl.intervals[index].numCores == tl.maxCores {
			return index, true
		}
	}

	return 0, false
}

// refine attempts to tighten job's EarliestStart and LatestStart using the
// certain occupation intervals already recorded on the timeline, and
// inserts job's own (possibly changed) certain occupation interval back
// into the timeline when it moves.
func (tl *timeline) refine(job *problem.Job) refineResult {
	if job.EarliestStart >= job.LatestStart {
		return refineUnchanged
	}

	old := *job
	for {
		interruptionBound := job.EarliestFinish()
		if old.EarliestFinish() > old.LatestStart {
			interruptionBound = min64(interruptionBound, old.LatestStart)
		}
		index, found := tl.findInterruption(job.EarliestStart, interruptionBound)
		if !found {
			break
		}
		job.EarliestStart = tl.intervals[index+1].start
		if old.EarliestFinish() > old.LatestStart {
			job.EarliestStart = min64(job.EarliestStart, old.LatestStart)
			if job.EarliestStart == job.LatestStart {
				break
			}
		}
	}

	for {
		index, found := tl.findInterruption(max64(job.LatestStart, job.EarliestFinish()), job.LatestFinish())
		if !found {
			break
		}
		job.SetLatestFinish(tl.intervals[index].start)
		if old.EarliestFinish() > old.LatestStart {
			job.SetLatestFinish(max64(job.LatestFinish(), old.EarliestFinish()))
			if job.EarliestStart == job.LatestStart {
				break
			}
		}
	}

	if job.IsCertainlyInfeasible() {
		return refineInfeasible
	}

	result := refineUnchanged
	if *job != old {
		result = refineModifiedJob
		if old.EarliestFinish() > old.LatestStart {
			if job.LatestStart < old.LatestStart {
				tl.insert(problem.ReleaseToDeadline(
					job.Index, job.LatestStart,
					old.LatestStart-job.LatestStart,
					old.LatestStart,
				))
				result = refineModifiedJobAndIntervals
			}
			if job.EarliestFinish() > old.EarliestFinish() {
				tl.insert(problem.ReleaseToDeadline(
					job.Index, old.EarliestFinish(),
					job.EarliestFinish()-old.EarliestFinish(),
					job.EarliestFinish(),
				))
				result = refineModifiedJobAndIntervals
			}
		} else if job.EarliestFinish() > job.LatestStart {
			tl.insert(*job)
			result = refineModifiedJobAndIntervals
		}
	}

	return result
}

func (tl *timeline) insertAt(index int, iv interval) {
	tl.intervals = append(tl.intervals, interval{})
	copy(tl.intervals[index+1:], tl.intervals[index:])
	tl.intervals[index] = iv
}

func (tl *timeline) removeAt(index int) {
	tl.intervals = append(tl.intervals[:index], tl.intervals[index+1:]...)
}

func min64(a, b problem.Time) problem.Time {
	if a < b {
		return a
	}
	return b
}

func max64(a, b problem.Time) problem.Time {
	if a > b {
		return a
	}
	return b
}
