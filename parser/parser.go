// Package parser turns the two CSV input files (jobs, constraints) into a
// problem.Problem. It is a thin boundary component: it performs file I/O
// and string parsing, but contributes no analysis logic of its own.
//
// Every malformed row in a file is collected into a single aggregated
// error via go-multierror instead of stopping at the first bad row, so a
// caller sees every problem with an input file in one pass.
package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/knokko/np-feasibility/problem"
)

// externalJobID identifies a job by the (task, job) pair used in the
// 8-field jobs CSV format and the 6-7-field constraints CSV format,
// rather than by its dense Problem.Jobs index.
type externalJobID struct {
	task uint32
	job  uint32
}

// ParseJobs reads jobsFilePath and returns the parsed jobs along with the
// mapping from external (task_id, job_id) identifiers to dense job
// indices, for 8-field rows that supplied one. Rows that fail to parse do
// not stop the scan; every failure is collected and returned together.
func ParseJobs(jobsFilePath string) ([]problem.Job, map[externalJobID]int, error) {
	raw, err := os.ReadFile(jobsFilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("parser: couldn't read jobs file %q: %w", jobsFilePath, err)
	}

	var jobs []problem.Job
	idMap := make(map[externalJobID]int)
	var errs *multierror.Error

	allowHeader := true
	for lineNumber, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if allowHeader {
			allowHeader = false
			if containsAlpha(line) {
				continue
			}
		}

		fields := splitTrimmed(line)

		job, externalID, err := parseJobRow(len(jobs), fields)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("parser: jobs file %q line %d: %w", jobsFilePath, lineNumber+1, err))
			continue
		}

		if externalID != nil {
			idMap[*externalID] = len(jobs)
		}
		jobs = append(jobs, job)
	}

	return jobs, idMap, errs.ErrorOrNil()
}

func parseJobRow(index int, fields []string) (problem.Job, *externalJobID, error) {
	switch len(fields) {
	case 8:
		taskID, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse task ID %q: %w", fields[0], err)
		}
		jobID, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse job ID %q: %w", fields[1], err)
		}
		latestArrival, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse latest arrival time %q: %w", fields[3], err)
		}
		worstCaseExec, err := strconv.ParseInt(fields[5], 10, 64)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse worst-case execution time %q: %w", fields[5], err)
		}
		deadline, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse deadline %q: %w", fields[6], err)
		}

		job := problem.ReleaseToDeadline(index, latestArrival, worstCaseExec, deadline)
		return job, &externalJobID{task: uint32(taskID), job: uint32(jobID)}, nil
	case 3:
		latestArrival, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse latest arrival time %q: %w", fields[0], err)
		}
		worstCaseExec, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse worst-case execution time %q: %w", fields[1], err)
		}
		deadline, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return problem.Job{}, nil, fmt.Errorf("couldn't parse deadline %q: %w", fields[2], err)
		}

		job := problem.ReleaseToDeadline(index, latestArrival, worstCaseExec, deadline)
		return job, nil, nil
	default:
		return problem.Job{}, nil, fmt.Errorf("unexpected number of fields (%d), want 3 or 8", len(fields))
	}
}

// ParseConstraints reads constraintsFilePath and returns the parsed
// constraints. Rows with 6 or 7 fields are keyed by external
// (task_id, job_id) identifiers, resolved through idMap (the map
// returned by ParseJobs for the same problem).
func ParseConstraints(constraintsFilePath string, idMap map[externalJobID]int) ([]problem.Constraint, error) {
	raw, err := os.ReadFile(constraintsFilePath)
	if err != nil {
		return nil, fmt.Errorf("parser: couldn't read constraints file %q: %w", constraintsFilePath, err)
	}

	var constraints []problem.Constraint
	var errs *multierror.Error

	allowHeader := true
	for lineNumber, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if allowHeader {
			allowHeader = false
			if containsConstraintHeaderAlpha(line) {
				continue
			}
		}

		fields := splitTrimmed(line)

		constraint, err := parseConstraintRow(fields, idMap)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("parser: constraints file %q line %d: %w", constraintsFilePath, lineNumber+1, err))
			continue
		}

		constraints = append(constraints, constraint)
	}

	return constraints, errs.ErrorOrNil()
}

func parseConstraintRow(fields []string, idMap map[externalJobID]int) (problem.Constraint, error) {
	// Rows with up to 4 fields are index-keyed (before, after[, delay[,
	// type]]); longer rows are keyed by external identifiers.
	indexKeyed := len(fields) <= 4

	if indexKeyed {
		if len(fields) < 2 {
			return problem.Constraint{}, fmt.Errorf("unexpected number of fields (%d), want at least 2", len(fields))
		}

		before, err := strconv.Atoi(fields[0])
		if err != nil {
			return problem.Constraint{}, fmt.Errorf("couldn't parse 'before' job index %q: %w", fields[0], err)
		}
		after, err := strconv.Atoi(fields[1])
		if err != nil {
			return problem.Constraint{}, fmt.Errorf("couldn't parse 'after' job index %q: %w", fields[1], err)
		}

		var delay problem.Time
		if len(fields) >= 3 {
			delay, err = strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				return problem.Constraint{}, fmt.Errorf("couldn't parse delay %q: %w", fields[2], err)
			}
		}

		constraintType := problem.FinishToStart
		if len(fields) >= 4 {
			constraintType, err = parseConstraintType(fields[3])
			if err != nil {
				return problem.Constraint{}, err
			}
		}

		return problem.Constraint{Before: before, After: after, Delay: delay, Type: constraintType}, nil
	}

	if len(fields) < 6 {
		return problem.Constraint{}, fmt.Errorf("unexpected number of fields (%d), want 6 or 7", len(fields))
	}

	before, err := lookupExternalJob(idMap, fields[0], fields[1])
	if err != nil {
		return problem.Constraint{}, fmt.Errorf("'before' job: %w", err)
	}
	after, err := lookupExternalJob(idMap, fields[2], fields[3])
	if err != nil {
		return problem.Constraint{}, fmt.Errorf("'after' job: %w", err)
	}

	var delay problem.Time
	if len(fields) >= 6 {
		delay, err = strconv.ParseInt(fields[5], 10, 64)
		if err != nil {
			return problem.Constraint{}, fmt.Errorf("couldn't parse delay %q: %w", fields[5], err)
		}
	}

	constraintType := problem.FinishToStart
	if len(fields) >= 7 {
		constraintType, err = parseConstraintType(fields[6])
		if err != nil {
			return problem.Constraint{}, err
		}
	}

	return problem.Constraint{Before: before, After: after, Delay: delay, Type: constraintType}, nil
}

func lookupExternalJob(idMap map[externalJobID]int, taskField, jobField string) (int, error) {
	taskID, err := strconv.ParseUint(taskField, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("couldn't parse task ID %q: %w", taskField, err)
	}
	jobID, err := strconv.ParseUint(jobField, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("couldn't parse job ID %q: %w", jobField, err)
	}

	index, ok := idMap[externalJobID{task: uint32(taskID), job: uint32(jobID)}]
	if !ok {
		return 0, fmt.Errorf("unknown external identifier (task %d, job %d)", taskID, jobID)
	}
	return index, nil
}

func parseConstraintType(field string) (problem.ConstraintType, error) {
	switch field {
	case "f-s":
		return problem.FinishToStart, nil
	case "s-s":
		return problem.StartToStart, nil
	default:
		return 0, fmt.Errorf("unexpected constraint type %q, want \"f-s\" or \"s-s\"", field)
	}
}

// ParseProblem reads jobsFilePath and, if constraintsFilePath is
// non-empty, constraintsFilePath, combining them with numCores into a
// problem.Problem. It does not call Problem.Validate; callers that need
// the structural invariants checked should call it themselves.
func ParseProblem(jobsFilePath, constraintsFilePath string, numCores uint32) (*problem.Problem, error) {
	jobs, idMap, err := ParseJobs(jobsFilePath)
	if err != nil {
		return nil, err
	}

	p := &problem.Problem{Jobs: jobs, NumCores: numCores}

	if constraintsFilePath != "" {
		constraints, err := ParseConstraints(constraintsFilePath, idMap)
		if err != nil {
			return nil, err
		}
		p.Constraints = constraints
	}

	return p, nil
}

func splitTrimmed(line string) []string {
	parts := strings.Split(line, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func containsAlpha(line string) bool {
	for _, c := range line {
		if isAlpha(c) {
			return true
		}
	}
	return false
}

// containsConstraintHeaderAlpha matches the original's header heuristic
// for the constraints file: an 's' or 'f' alone does not count, since
// those also appear in the "f-s"/"s-s" type column of a data row.
func containsConstraintHeaderAlpha(line string) bool {
	for _, c := range line {
		if c != 's' && c != 'f' && isAlpha(c) {
			return true
		}
	}
	return false
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
