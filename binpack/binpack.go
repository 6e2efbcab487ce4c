// Package binpack provides a sufficient (one-directional) test for whether
// a set of job durations cannot possibly be packed into a fixed number of
// equal-size bins. It never claims packability — only unpackability — so a
// false result means "no proof found", not "definitely packable".
package binpack

import (
	"sort"

	"github.com/knokko/np-feasibility/problem"
)

// IsCertainlyUnpackable reports whether durations certainly cannot all fit
// into numProcessors bins of size binSize, using a staged sequence of
// increasingly expensive necessary conditions:
//
//  1. any single duration exceeds binSize
//  2. (never unpackable when there are no more durations than bins, since
//     each can get its own bin)
//  3. total duration exceeds total capacity
//  4. for 3 jobs on 2 processors, the two smallest can't share a bin
//  5. for 4+ jobs, a wasted-space lower bound derived from pairing each
//     large duration against the bin's unusable remainder exceeds the
//     total slack available
//
// durations may be sorted in place by this call.
func IsCertainlyUnpackable(numProcessors uint32, binSize problem.Time, durations []problem.Time) bool {
	if numProcessors < 1 {
		panic("binpack: numProcessors must be at least 1")
	}
	if len(durations) == 0 {
		return false
	}

	var total problem.Time
	for _, d := range durations {
		if d > binSize {
			return true
		}
		total += d
	}

	if uint32(len(durations)) <= numProcessors {
		return false
	}
	if total > problem.Time(numProcessors)*binSize {
		return true
	}
	if numProcessors == 1 || len(durations) <= 2 {
		return false
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	if len(durations) == 3 {
		return durations[0]+durations[1] > binSize
	}

	smallest2 := min64(durations[2], durations[0]+durations[1])
	var minWastedSpace problem.Time
	for index := len(durations) - 1; index >= 1; index-- {
		duration := durations[index]

		if duration+durations[0] > binSize {
			minWastedSpace += binSize - duration
			continue
		}

		if index > 1 && duration+durations[1] > binSize {
			minWastedSpace += binSize - durations[0] - duration
			continue
		}

		if index > 2 && duration+smallest2 > binSize {
			minWastedSpace += binSize - durations[1] - duration
		}
	}

	return total+minWastedSpace > problem.Time(numProcessors)*binSize
}

func min64(a, b problem.Time) problem.Time {
	if a < b {
		return a
	}
	return b
}
