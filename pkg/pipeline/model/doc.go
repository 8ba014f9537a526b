// Package model provides the data structures shared by the pipeline package and its options.
// It defines the description of a step, the outcome of running it,
// and the hooks a pipeline option implements to observe a run.
package model
