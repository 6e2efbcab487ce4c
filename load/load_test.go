package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knokko/np-feasibility/occupation"
	"github.com/knokko/np-feasibility/problem"
)

func TestFeasibilityLoadWith1JobVariant1(t *testing.T) {
	p := &problem.Problem{
		Jobs:     []problem.Job{problem.ReleaseToDeadline(0, 0, 1000, 1000)},
		NumCores: 1,
	}
	lt := newTest(p)
	assert.Equal(t, resultFinished, lt.next())
	assert.Equal(t, problem.Time(1000), lt.currentTime)
	assert.Equal(t, problem.Time(1000), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(1000), lt.maximumExecutedLoad)

	assert.False(t, RunFeasibilityLoadTest(p))
}

func TestFeasibilityLoadWith1JobVariant2(t *testing.T) {
	p := &problem.Problem{
		Jobs:     []problem.Job{problem.ReleaseToDeadline(0, 0, 999, 1000)},
		NumCores: 1,
	}
	lt := newTest(p)
	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(1), lt.currentTime)
	assert.Equal(t, problem.Time(0), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(1), lt.maximumExecutedLoad)

	assert.Equal(t, resultFinished, lt.next())
	assert.Equal(t, problem.Time(1000), lt.currentTime)
	assert.Equal(t, problem.Time(999), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(999), lt.maximumExecutedLoad)

	assert.False(t, RunFeasibilityLoadTest(p))
}

func TestFeasibilityLoadWith1JobVariant3(t *testing.T) {
	p := &problem.Problem{
		Jobs:     []problem.Job{problem.ReleaseToDeadline(0, 0, 1001, 1000)},
		NumCores: 1,
	}
	assert.True(t, RunFeasibilityLoadTest(p))
}

func TestTightFeasibleCaseArrivingAt0(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 0, 5, 16),
			problem.ReleaseToDeadline(1, 0, 3, 10),
			problem.ReleaseToDeadline(2, 0, 8, 11),
		},
		NumCores: 1,
	}

	lt := newTest(p)
	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(3), lt.currentTime)
	assert.Equal(t, problem.Time(0), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(3), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(7), lt.currentTime)
	assert.Equal(t, problem.Time(7), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(7), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(10), lt.currentTime)
	assert.Equal(t, problem.Time(10), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(10), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(11), lt.currentTime)
	assert.Equal(t, problem.Time(11), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(11), lt.maximumExecutedLoad)

	assert.Equal(t, resultFinished, lt.next())
	assert.Equal(t, problem.Time(16), lt.currentTime)
	assert.Equal(t, problem.Time(16), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(16), lt.maximumExecutedLoad)

	assert.False(t, RunFeasibilityLoadTest(p))
}

func TestTightInfeasibleCaseArrivingAt0(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 0, 5, 16),
			problem.ReleaseToDeadline(1, 0, 3, 10),
			problem.ReleaseToDeadline(2, 0, 8, 10),
		},
		NumCores: 1,
	}

	lt := newTest(p)
	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(2), lt.currentTime)
	assert.Equal(t, problem.Time(0), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(2), lt.maximumExecutedLoad)

	assert.Equal(t, resultCertainlyInfeasible, lt.next())
	assert.Equal(t, problem.Time(7), lt.currentTime)
	assert.Equal(t, problem.Time(8), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(7), lt.maximumExecutedLoad)

	assert.True(t, RunFeasibilityLoadTest(p))
}

func TestFeasibleWhenLongestJobFirst(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 3, 6, 18),
			problem.ReleaseToDeadline(1, 4, 5, 19),
		},
		NumCores: 1,
	}

	lt := newTest(p)
	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(12), lt.currentTime)
	assert.Equal(t, problem.Time(0), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(9), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(14), lt.currentTime)
	assert.Equal(t, problem.Time(6), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(11), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(18), lt.currentTime)
	assert.Equal(t, problem.Time(10), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(11), lt.maximumExecutedLoad)

	assert.Equal(t, resultFinished, lt.next())
	assert.Equal(t, problem.Time(19), lt.currentTime)
	assert.Equal(t, problem.Time(11), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(11), lt.maximumExecutedLoad)

	assert.False(t, RunFeasibilityLoadTest(p))
}

func TestFeasibleWhenShortestJobFirst(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 3, 6, 18),
			problem.ReleaseToDeadline(1, 4, 7, 20),
		},
		NumCores: 1,
	}

	lt := newTest(p)
	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(12), lt.currentTime)
	assert.Equal(t, problem.Time(0), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(9), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(13), lt.currentTime)
	assert.Equal(t, problem.Time(6), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(10), lt.maximumExecutedLoad)

	assert.Equal(t, resultRunning, lt.next())
	assert.Equal(t, problem.Time(18), lt.currentTime)
	assert.Equal(t, problem.Time(11), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(13), lt.maximumExecutedLoad)

	assert.Equal(t, resultFinished, lt.next())
	assert.Equal(t, problem.Time(20), lt.currentTime)
	assert.Equal(t, problem.Time(13), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(13), lt.maximumExecutedLoad)
}

func TestTightFeasibleWith2CoresAndMoreJobs(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 2, 5, 10),
			problem.ReleaseToDeadline(1, 0, 13, 30),
			problem.ReleaseToDeadline(2, 0, 3, 25),
			problem.ReleaseToDeadline(3, 10, 2, 25),
			problem.ReleaseToDeadline(4, 0, 7, 20),
			problem.ReleaseToDeadline(5, 2, 5, 10),
			problem.ReleaseToDeadline(6, 0, 8, 25),
			problem.ReleaseToDeadline(7, 0, 3, 30),
			problem.ReleaseToDeadline(8, 10, 8, 30),
			problem.ReleaseToDeadline(9, 0, 6, 20),
		},
		NumCores: 2,
	}

	lt := newTest(p)
	for {
		next := lt.next()
		if next == resultFinished {
			break
		}
		require.Equal(t, resultRunning, next)
	}
	assert.Equal(t, problem.Time(30), lt.currentTime)
	assert.Equal(t, problem.Time(60), lt.minimumExecutedLoad)
	assert.Equal(t, problem.Time(60), lt.maximumExecutedLoad)
}

func TestTightInfeasibleWith2CoresAndMoreJobs(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 2, 5, 10),
			problem.ReleaseToDeadline(1, 0, 13, 30),
			problem.ReleaseToDeadline(2, 0, 3, 25),
			problem.ReleaseToDeadline(3, 10, 2, 25),
			problem.ReleaseToDeadline(4, 0, 7, 20),
			problem.ReleaseToDeadline(5, 2, 5, 10),
			problem.ReleaseToDeadline(6, 0, 9, 25),
			problem.ReleaseToDeadline(7, 0, 3, 30),
			problem.ReleaseToDeadline(8, 10, 8, 30),
			problem.ReleaseToDeadline(9, 0, 6, 20),
		},
		NumCores: 2,
	}

	assert.True(t, RunFeasibilityLoadTest(p))
}

func TestAlmostInfeasibleEarlyLoad(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 1, 3, 10),
			problem.ReleaseToDeadline(1, 1, 3, 10),
			problem.ReleaseToDeadline(2, 1, 3, 10),
			problem.ReleaseToDeadline(3, 8, 5, 20),
			problem.ReleaseToDeadline(4, 30, 5, 40),
		},
		NumCores: 1,
	}

	assert.False(t, RunFeasibilityLoadTest(p))
	assert.NotEqual(t, occupation.Infeasible, occupation.Strengthen(p))
}

func TestInfeasibleEarlyOverload(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 1, 3, 10),
			problem.ReleaseToDeadline(1, 1, 4, 10),
			problem.ReleaseToDeadline(2, 1, 3, 10),
			problem.ReleaseToDeadline(3, 8, 5, 20),
			problem.ReleaseToDeadline(4, 30, 5, 40),
		},
		NumCores: 1,
	}

	assert.True(t, RunFeasibilityLoadTest(p))
}

func TestAlmostInfeasibleMiddleLoad(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 1, 3, 10),
			problem.ReleaseToDeadline(1, 1, 3, 10),
			problem.ReleaseToDeadline(2, 12, 3, 20),
			problem.ReleaseToDeadline(3, 12, 5, 20),
			problem.ReleaseToDeadline(4, 30, 5, 40),
		},
		NumCores: 1,
	}
	assert.False(t, RunFeasibilityLoadTest(p))
	assert.NotEqual(t, occupation.Infeasible, occupation.Strengthen(p))
}

func middleOverloadJobs() []problem.Job {
	return []problem.Job{
		problem.ReleaseToDeadline(0, 1, 3, 10),
		problem.ReleaseToDeadline(1, 1, 3, 10),
		problem.ReleaseToDeadline(2, 12, 4, 20),
		problem.ReleaseToDeadline(3, 12, 5, 20),
		problem.ReleaseToDeadline(4, 30, 5, 40),
	}
}

func TestInfeasibleMiddleOverload(t *testing.T) {
	p := &problem.Problem{Jobs: middleOverloadJobs(), NumCores: 1}
	assert.True(t, RunFeasibilityLoadTest(p))
}

func TestAlmostInfeasibleLateLoad(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 1, 3, 10),
			problem.ReleaseToDeadline(1, 1, 3, 10),
			problem.ReleaseToDeadline(2, 12, 6, 20),
			problem.ReleaseToDeadline(3, 30, 5, 40),
			problem.ReleaseToDeadline(4, 30, 5, 40),
		},
		NumCores: 1,
	}
	assert.False(t, RunFeasibilityLoadTest(p))
	assert.NotEqual(t, occupation.Infeasible, occupation.Strengthen(p))
}

func TestInfeasibleLateOverload(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 1, 3, 10),
			problem.ReleaseToDeadline(1, 1, 3, 10),
			problem.ReleaseToDeadline(2, 12, 6, 20),
			problem.ReleaseToDeadline(3, 30, 6, 40),
			problem.ReleaseToDeadline(4, 30, 5, 40),
		},
		NumCores: 1,
	}
	assert.True(t, RunFeasibilityLoadTest(p))
}

func TestFeasibilityIntervalRegression(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 0, 98, 100),
			problem.ReleaseToDeadline(1, 38, 16, 88),
			problem.ReleaseToDeadline(2, 0, 48, 65),
			problem.ReleaseToDeadline(3, 60, 34, 100),
		},
		NumCores: 2,
	}

	assert.False(t, RunFeasibilityLoadTest(p))
	assert.NotEqual(t, occupation.Infeasible, occupation.Strengthen(p))
	assert.False(t, RunFeasibilityLoadTest(p))
}

func TestFeasibilityIntervalRegressionSuboptimal(t *testing.T) {
	p := &problem.Problem{
		Jobs: []problem.Job{
			problem.ReleaseToDeadline(0, 23, 68, 100),
			problem.ReleaseToDeadline(1, 10, 78, 100),
			problem.ReleaseToDeadline(2, 0, 18, 20),
			problem.ReleaseToDeadline(3, 0, 34, 38),
		},
		NumCores: 2,
	}

	assert.False(t, RunFeasibilityLoadTest(p))
	assert.Equal(t, occupation.Infeasible, occupation.Strengthen(p))
}
