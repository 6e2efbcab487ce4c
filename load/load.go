// Package load implements the feasibility load test: a sufficient test for
// infeasibility that sweeps a fixed set of "interesting" time instants and,
// at each one, bounds the minimum and maximum amount of core-time that
// must have been spent executing jobs so far. If the minimum provably
// exceeds the maximum at any instant, the problem is certainly infeasible.
package load

import (
	"sort"

	"github.com/knokko/np-feasibility/problem"
	"github.com/knokko/np-feasibility/sortedjobs"
)

type result int

const (
	resultFinished result = iota
	resultRunning
	resultCertainlyInfeasible
)

// loadJob tracks a job whose fate (finished or not) at the current sweep
// instant is still uncertain, along with an upper bound on how much
// execution time it has left.
type loadJob struct {
	job                  int
	maximumRemainingTime problem.Time
}

func (j loadJob) minimumSpentTime(executionTime problem.Time) problem.Time {
	return executionTime - j.maximumRemainingTime
}

// test holds the running state of one feasibility load test sweep over a
// Problem's jobs.
type test struct {
	p *problem.Problem

	byEarliestStart *sortedjobs.Iterator
	byLatestStart   *sortedjobs.Iterator

	timesOfInterest []problem.Time
	currentTime     problem.Time
	timeIndex       int

	certainlyFinishedJobsLoad problem.Time
	minimumExecutedLoad       problem.Time
	maximumExecutedLoad       problem.Time

	possiblyRunningJobs  []loadJob
	certainlyStartedJobs []loadJob
}

func newTest(p *problem.Problem) *test {
	byEarliestStart := sortedjobs.New(p.Jobs, func(j problem.Job) problem.Time { return j.EarliestStart })
	byLatestStart := sortedjobs.New(p.Jobs, func(j problem.Job) problem.Time { return j.LatestStart })

	seen := make(map[problem.Time]struct{}, 2*len(p.Jobs))
	for _, job := range p.Jobs {
		seen[job.LatestStart] = struct{}{}
		seen[job.LatestFinish()] = struct{}{}
	}
	delete(seen, 0)

	timesOfInterest := make([]problem.Time, 0, len(seen))
	for t := range seen {
		timesOfInterest = append(timesOfInterest, t)
	}
	sort.Slice(timesOfInterest, func(i, j int) bool { return timesOfInterest[i] < timesOfInterest[j] })

	return &test{
		p:               p,
		byEarliestStart: byEarliestStart,
		byLatestStart:   byLatestStart,
		timesOfInterest: timesOfInterest,
	}
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

func (t *test) next() result {
	nextTime := t.timesOfInterest[t.timeIndex]
	t.timeIndex++
	spentTime := nextTime - t.currentTime

	earliestStepArrival := nextTime
	for _, running := range t.possiblyRunningJobs {
		earliestStepArrival = min64(earliestStepArrival, t.p.Jobs[running.job].EarliestStart)
	}

	var maximumLoadThisStep problem.Time
	stillRunning := t.possiblyRunningJobs[:0]
	for _, running := range t.possiblyRunningJobs {
		if running.maximumRemainingTime > spentTime {
			maximumLoadThisStep += spentTime
			running.maximumRemainingTime -= spentTime
			stillRunning = append(stillRunning, running)
		} else {
			t.certainlyFinishedJobsLoad += t.p.Jobs[running.job].ExecutionTime
			maximumLoadThisStep += running.maximumRemainingTime
		}
	}
	t.possiblyRunningJobs = stillRunning

	for {
		earlyIndex, ok := t.byEarliestStart.Next(func(time problem.Time) bool { return time <= nextTime })
		if !ok {
			break
		}
		earlyJob := t.p.Jobs[earlyIndex]
		if earlyJob.LatestFinish() > nextTime {
			t.possiblyRunningJobs = append(t.possiblyRunningJobs, loadJob{
				job:                  earlyIndex,
				maximumRemainingTime: earlyJob.LatestFinish() - nextTime,
			})
			maximumLoadThisStep += min64(earlyJob.ExecutionTime, nextTime-earlyJob.EarliestStart)
		} else {
			t.certainlyFinishedJobsLoad += earlyJob.ExecutionTime
			maximumLoadThisStep += earlyJob.ExecutionTime
			earliestStepArrival = min64(earliestStepArrival, earlyJob.EarliestStart)
		}
	}

	stillStarted := t.certainlyStartedJobs[:0]
	for _, started := range t.certainlyStartedJobs {
		if started.maximumRemainingTime > spentTime {
			started.maximumRemainingTime = t.p.Jobs[started.job].LatestFinish() - nextTime
			stillStarted = append(stillStarted, started)
		}
	}
	t.certainlyStartedJobs = stillStarted

	for {
		lateIndex, ok := t.byLatestStart.Next(func(time problem.Time) bool { return time <= nextTime })
		if !ok {
			break
		}
		lateJob := t.p.Jobs[lateIndex]
		if lateJob.LatestFinish() > nextTime {
			t.certainlyStartedJobs = append(t.certainlyStartedJobs, loadJob{
				job:                  lateIndex,
				maximumRemainingTime: lateJob.LatestFinish() - nextTime,
			})
		}
	}

	// Minimize (finished jobs' execution time) + (unfinished started jobs'
	// minimum spent time). Since every job here must have already started,
	// at least len(certainlyStartedJobs) - numCores of them must have
	// already finished, so attribute their full execution time to the
	// jobs with the least remaining time first.
	sort.Slice(t.certainlyStartedJobs, func(i, j int) bool {
		return t.certainlyStartedJobs[i].maximumRemainingTime < t.certainlyStartedJobs[j].maximumRemainingTime
	})
	t.minimumExecutedLoad = t.certainlyFinishedJobsLoad
	startIndex := 0

	numCores := int(t.p.NumCores)
	if numCores < len(t.certainlyStartedJobs) {
		for startIndex < len(t.certainlyStartedJobs)-numCores {
			job := t.p.Jobs[t.certainlyStartedJobs[startIndex].job]
			t.minimumExecutedLoad += job.ExecutionTime
			startIndex++
		}
	}

	for startIndex < len(t.certainlyStartedJobs) {
		job := t.p.Jobs[t.certainlyStartedJobs[startIndex].job]
		t.minimumExecutedLoad += t.certainlyStartedJobs[startIndex].minimumSpentTime(job.ExecutionTime)
		startIndex++
	}

	maxLoadBound2 := t.certainlyFinishedJobsLoad
	for _, running := range t.possiblyRunningJobs {
		job := t.p.Jobs[running.job]
		maxLoadBound2 += job.ExecutionTime
		earliestStepArrival = min64(earliestStepArrival, job.EarliestStart)
	}

	earliestStepArrival = max64(earliestStepArrival, t.currentTime)
	t.maximumExecutedLoad += min64(problem.Time(numCores)*(nextTime-earliestStepArrival), maximumLoadThisStep)
	t.maximumExecutedLoad = min64(t.maximumExecutedLoad, maxLoadBound2)
	t.currentTime = nextTime

	if t.minimumExecutedLoad > t.maximumExecutedLoad {
		return resultCertainlyInfeasible
	}
	if t.timeIndex < len(t.timesOfInterest) {
		return resultRunning
	}
	return resultFinished
}

// RunFeasibilityLoadTest reports whether p is certainly infeasible,
// according to the feasibility load test. A false result does not mean p
// is feasible — only that this test found no proof of infeasibility.
func RunFeasibilityLoadTest(p *problem.Problem) bool {
	t := newTest(p)
	if len(t.timesOfInterest) == 0 {
		return false
	}
	for {
		switch t.next() {
		case resultCertainlyInfeasible:
			return true
		case resultFinished:
			return false
		}
	}
}
