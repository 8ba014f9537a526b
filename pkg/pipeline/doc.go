// Package pipeline provides a sequential, fail-fast runner for build steps.
//
// A pipeline is an ordered list of steps. Each step wraps a Runner, usually an external
// command such as a linter, a compiler or a test suite. Steps run one after the other in the
// order they were added, and every step blocks until its runner returns.
//
// The pipeline stops on the first failing strict step. Every step registered after it is
// reported as skipped and its runner is never invoked. The error returned by Run carries the
// name of the failing step and its exit code, so a command line tool can exit with the same
// status as the tool that failed. Lenient steps are the exception: their failures are
// recorded as tolerated and the pipeline moves on.
//
// Pipeline options observe a run through hooks (see model.PipelineOption). They are used to
// log progress, measure step durations, draw the executed graph or export metrics.
package pipeline
