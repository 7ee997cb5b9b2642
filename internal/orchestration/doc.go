// Package orchestration coordinates concurrent execution of ALU engines
// and cross-validates their results. It decouples the run logic from
// presentation via ProgressReporter and ResultPresenter interfaces.
package orchestration
