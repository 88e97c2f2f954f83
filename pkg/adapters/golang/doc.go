// Package golang extracts workflow control flow from Go source.
//
// # Overview
//
// The extractor lowers one workflow function into the flat, position-ordered
// element list consumed by the model builder. It never type-checks or runs the
// code: every element comes from syntax alone.
//
// # Recognized forms
//
//	err := workflow.ExecuteActivity(ctx, Withdraw, in).Get(ctx, &out) // activity
//	if ToDecision(amount > 1000, "NeedsReview") { ... } else { ... }  // decision
//	if !WaitSignal(ctx, "Approval", time.Hour) { ... }               // signal, arms swapped
//	} else if ToDecision(...) { ... }                                // nested decision in the else arm
//
// # Rejected forms
//
// Loops, switch/select statements, goroutines, defers and function literals
// that contain activity or helper calls are reported as
// domain.UnsupportedConstructError, as are activity targets that are not a
// string literal or a statically known function, plain if statements whose arms
// call activities, and early returns from a branch followed by more activities.
//
// # Directives
//
//	//branchmap:workflow  marks a workflow function regardless of its signature
//	//branchmap:activity  adds a function to the activity registry
package golang
