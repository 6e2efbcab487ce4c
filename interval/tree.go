// Package interval implements the feasibility interval test: a sufficient
// test for infeasibility that, for every job's earliest-start/latest-finish
// window, collects the other jobs that might overlap it and asks the
// binpack package whether their required loads could possibly fit in that
// window on the problem's cores.
package interval

import (
	"sort"

	"github.com/knokko/np-feasibility/problem"
)

// JobInterval records that job might need to run somewhere within
// [Start, End).
type JobInterval struct {
	Job   int
	Start problem.Time
	End   problem.Time
}

// Tree is a static interval tree: built once via repeated Insert calls,
// then frozen with Split, after which Query can be called any number of
// times (including concurrently, since Query never mutates tree
// structure). Unlike the original's Rc-linked nodes with a reusable query
// stack — needed there because a node's children are shared owners of the
// same subtree — plain Go pointers suffice, since a Tree never needs more
// than one query in flight against the same stack at a time; each Query
// call keeps its own.
type Tree struct {
	splitTime problem.Time
	middle    []JobInterval

	before *Tree
	after  *Tree
}

// New returns an empty Tree, ready for Insert calls.
func New() *Tree {
	return &Tree{}
}

// Insert adds interval to the tree. Must not be called after Split.
func (t *Tree) Insert(interval JobInterval) {
	t.middle = append(t.middle, interval)
}

// minNodeSize is the smallest middle bucket size worth splitting further.
const minNodeSize = 50

// Split recursively partitions the tree's intervals around their
// midpoints' median, so that Query only has to scan a small "middle"
// bucket at each visited node plus the subtrees whose range the query
// interval actually crosses. Intervals that straddle a node's split point
// stay in that node's middle bucket forever.
func (t *Tree) Split() {
	if len(t.middle) < minNodeSize {
		return
	}

	before := New()
	after := New()
	sort.Slice(t.middle, func(i, j int) bool {
		return t.middle[i].Start+t.middle[i].End < t.middle[j].Start+t.middle[j].End
	})
	splitInterval := t.middle[len(t.middle)/2]
	t.splitTime = (splitInterval.Start + splitInterval.End) / 2

	remaining := t.middle[:0]
	for _, iv := range t.middle {
		switch {
		case iv.End <= t.splitTime:
			before.Insert(iv)
		case iv.Start >= t.splitTime:
			after.Insert(iv)
		default:
			remaining = append(remaining, iv)
		}
	}
	t.middle = remaining

	before.Split()
	after.Split()
	t.before = before
	t.after = after
}

// Query appends every stored interval that overlaps [query.Start,
// query.End) to output. query.Job is not inspected.
func (t *Tree) Query(query JobInterval, output []JobInterval) []JobInterval {
	stack := []*Tree{t}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.before != nil && query.Start < node.splitTime {
			stack = append(stack, node.before)
		}
		if node.after != nil && query.End > node.splitTime {
			stack = append(stack, node.after)
		}
		for _, candidate := range node.middle {
			if candidate.Start < query.End && candidate.End > query.Start {
				output = append(output, candidate)
			}
		}
	}

	return output
}
