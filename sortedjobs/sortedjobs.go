// Package sortedjobs provides a lazy, value-sorted walk over a Problem's
// jobs, used by the load package to sweep jobs in earliest-start and
// latest-start order without re-sorting for each sweep event.
package sortedjobs

import (
	"sort"

	"github.com/knokko/np-feasibility/problem"
)

type fatJob struct {
	job   int
	value problem.Time
}

// Iterator walks a fixed set of jobs in ascending order of a value computed
// once at construction time, yielding the next job only while it satisfies
// a caller-supplied condition.
type Iterator struct {
	jobs  []fatJob
	index int
}

// New sorts jobs by computeValue(job) and returns an Iterator over them.
// The sort is stable, so jobs with equal values keep their relative order.
func New(jobs []problem.Job, computeValue func(problem.Job) problem.Time) *Iterator {
	fatJobs := make([]fatJob, len(jobs))
	for i, job := range jobs {
		fatJobs[i] = fatJob{job: job.Index, value: computeValue(job)}
	}
	sort.SliceStable(fatJobs, func(i, j int) bool {
		return fatJobs[i].value < fatJobs[j].value
	})

	return &Iterator{jobs: fatJobs}
}

// Next returns the index of the next job in order, and true, if that job's
// value satisfies condition. Otherwise it returns false without advancing,
// so a later call with a looser condition can still observe the same job.
func (it *Iterator) Next(condition func(problem.Time) bool) (int, bool) {
	if it.index >= len(it.jobs) || !condition(it.jobs[it.index].value) {
		return 0, false
	}

	job := it.jobs[it.index].job
	it.index++
	return job, true
}
