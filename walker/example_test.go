package walker_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/wikiwalk/frontier"
	"github.com/katalvlaran/wikiwalk/heuristic"
	"github.com/katalvlaran/wikiwalk/oracle"
	"github.com/katalvlaran/wikiwalk/walker"
)

// ExampleWalker_breadthFirst walks a small offline link table.
// Two routes lead from "Dog" to "Wolf"; breadth-first returns the shorter.
func ExampleWalker_breadthFirst() {
	m := oracle.NewMemory()
	// Route 1: Dog → Pet → Animal → Mammal → Wolf
	m.AddLink("Dog", "Pet")
	m.AddLink("Pet", "Animal")
	m.AddLink("Animal", "Mammal")
	m.AddLink("Mammal", "Wolf")
	// Route 2: Dog → Canis → Wolf
	m.AddLink("Dog", "Canis")
	m.AddLink("Canis", "Wolf")

	ctx := context.Background()
	w, err := walker.New(ctx, "Dog", "Wolf", m)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	res, err := w.Walk(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Outcome)
	fmt.Println(strings.Join(res.Path, " > "))
	fmt.Println("requests:", res.Requests)
	// Output:
	// found
	// Dog > Canis > Wolf
	// requests: 3
}

// ExampleWalker_greedy orders the frontier by title similarity, so the
// article sharing the longest run of letters with the target goes first.
func ExampleWalker_greedy() {
	m := oracle.NewMemory()
	m.AddLink("Physics", "Chemistry")
	m.AddLink("Physics", "Quantum mechanics")
	m.AddLink("Physics", "Albert Einstein")
	m.AddLink("Albert Einstein", "Einstein ring")
	m.AddLink("Chemistry", "Einstein ring")

	ctx := context.Background()
	w, err := walker.New(ctx, "Physics", "Einstein ring", m,
		walker.WithAlgorithm(frontier.GreedyBestFirst),
		walker.WithHeuristics(heuristic.LongestCommonSubstring),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	res, _ := w.Walk(ctx)

	fmt.Println(strings.Join(res.Path, " > "))
	fmt.Println("expansions:", res.Expansions)
	// Output:
	// Physics > Albert Einstein > Einstein ring
	// expansions: 2
}

// ExampleNotFoundError shows how a missing endpoint is reported.
func ExampleNotFoundError() {
	m := oracle.NewMemory()
	m.AddLink("Dog", "Wolf")

	_, err := walker.New(context.Background(), "Dog", "Unicorn", m)
	fmt.Println(err)
	// Output:
	// walker: page "Unicorn" not found
}
