// Package control implements the k parameter sync controller.
//
// The controller owns the only path by which a host changes the engine's k.
// A proposal runs a small state machine:
//
//	Idle → Validating → Committed | Rejected → Idle
//
// The raw entry text is first checked with [Feasible]: ASCII decimal digits
// only, value greater than 1. An infeasible proposal, or one the engine
// refuses, is rejected with the problem text "<raw> not feasible". A
// feasible proposal equal to the current k is rejected without calling the
// engine and leaves the problem text as it was; if another session moved k
// since this one last looked, its table rows are pulled again. A digit
// string too large for an int counts as feasible and is rejected like an
// engine refusal, with [ErrKOutOfRange]. Any other proposal is
// committed with SetK, after which the index table rows are rebuilt and the
// problem text is cleared. The graph is not redrawn on a k change.
//
// In every outcome the entry mirror ends up showing the engine's current k.
//
// Hosts drive the controller with typed commands through [Controller.Dispatch]:
// [CommitK], [RequestTableRefresh] and [RequestGraphRedraw]. Dispatches are
// serialized, so the engine is never reentered even when the web host
// serves concurrent requests.
package control
