/*
Package dsl provides a Go DSL for declaring workflow shapes programmatically.

It builds the same flat element lists the Go and YAML front ends produce
(positions in declaration order, explicit scope metadata) without parsing any
source. This is useful for unit tests, for generating diagrams of flows that
only exist as configuration, and for feeding the analyzer from other tools.

Example usage:

	b := dsl.New()

	b.Workflow("ProcessOrder", func(w *dsl.Block) {
		w.Activity("ValidateOrder")
		w.If("NeedsReview", func(then *dsl.Block) {
			then.Activity("Review")
		}, nil)
		w.Await("Approval", func(ok *dsl.Block) {
			ok.Activity("Ship")
		}, func(timeout *dsl.Block) {
			timeout.Activity("Cancel")
		})
	})
	b.Register("Archive")

	// The resulting loader can be passed to Analyzer.AnalyzeFrom.
	loader, err := b.Build()
*/
package dsl
