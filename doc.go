// Package npfeasibility is a non-preemptive real-time feasibility test.
//
// Given a set of jobs (release time, worst-case execution time, deadline),
// optional precedence constraints between them, and a fixed number of
// identical cores, it decides whether the job set is *certainly
// infeasible* to schedule. There is no general exact solver here: the
// result is always one of three verdicts — INFEASIBLE, CYCLIC, or
// UNKNOWN — never "feasible", since a negative result from every
// sufficient test in the battery does not prove a valid schedule exists.
//
// The analysis is organized as a pipeline of independent packages, each
// contributing one sufficient test or one supporting data structure:
//
//	problem/     — Time, Job, Constraint, Problem types and invariants
//	permutation/ — topological reordering and cycle detection
//	precedence/  — forward/backward bound strengthening along constraints
//	occupation/  — certain-core-occupation timeline strengthening
//	sortedjobs/  — reusable sorted-iteration helper over a Problem's jobs
//	binpack/     — sufficient bin-packing-infeasibility oracle
//	load/        — event-driven feasibility load test
//	interval/    — static interval tree and feasibility interval test
//	pipeline/    — composes the above into the final Verdict
//	parser/      — CSV jobs/constraints file parsing
//	cmd/npfeasibility/ — command-line entry point
//
// See DESIGN.md for the reasoning behind each package's design.
package npfeasibility
