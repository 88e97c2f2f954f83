/*
Package branchmap statically maps every execution path of a branching workflow program.

It reads a workflow function (Go source written against a Temporal-style SDK, or a
YAML element document), builds a control-flow model of its activities, decisions
and signal waits, replays that model once per boolean assignment of the gates, and
renders the distinct paths as a deduplicated Mermaid flowchart. Nothing is executed.

# Pipeline

  - Extraction: a front end lowers the workflow to a flat, position-ordered element list with scope metadata.
  - Model: elements are partitioned into nested sequences and binary branches.
  - Enumeration: all 2^g gate assignments are replayed; paths differing only in unreached gates collapse.
  - Diagram: consecutive pairs of every path become deduplicated edges, rendered in full or compact form.
  - Validation: activities declared in the registry but never called are reported as warnings.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/branchmap"
	)

	func main() {
		a := branchmap.New(branchmap.WithRegistry("Refund"))

		result, err := a.AnalyzeFile(context.Background(), "./workflows", "OrderWorkflow")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(a.Render(result))
	}

Analysis is bounded by two ceilings: more than max_gates gates fails with
domain.PathExplosionError before any replay, and more than max_paths distinct
paths fails with domain.PathLimitExceededError.
*/
package branchmap
