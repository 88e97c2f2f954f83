package branchmap_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/branchmap"
	"github.com/aretw0/branchmap/pkg/domain"
	"github.com/aretw0/branchmap/pkg/dsl"
)

// ExampleAnalyzer_AnalyzeElements feeds an already extracted element list to
// the analyzer, bypassing any source front end.
func ExampleAnalyzer_AnalyzeElements() {
	elements := []domain.SourceElement{
		domain.Activity("A", domain.Line(1)),
		domain.Decision("d1", "D1", domain.Line(2)),
		domain.Activity("B", domain.Line(3), domain.Then("d1")),
		domain.Activity("C", domain.Line(5), domain.Else("d1")),
		domain.Activity("D", domain.Line(7)),
	}

	a := branchmap.New()
	result, err := a.AnalyzeElements("example", elements)
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range result.Paths.Paths {
		fmt.Println(p.Index, p.ID)
	}
	// Output:
	// 1 d1=F
	// 2 d1=T
}

func ExampleAnalyzer_AnalyzeFrom() {
	b := dsl.New()
	b.Workflow("Checkout", func(w *dsl.Block) {
		w.Activity("Reserve")
		w.If("NeedsReview", func(then *dsl.Block) {
			then.Activity("Review")
		}, nil)
		w.Await("Payment", func(ok *dsl.Block) {
			ok.Activity("Ship")
		}, func(timeout *dsl.Block) {
			timeout.Activity("Release")
		})
	})
	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	result, err := branchmap.New().AnalyzeFrom(context.Background(), loader, "")
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range result.Paths.Paths {
		fmt.Println(p.Index, p.ID)
	}
	// Output:
	// 1 d0=F,s0=F
	// 2 d0=F,s0=T
	// 3 d0=T,s0=F
	// 4 d0=T,s0=T
}
