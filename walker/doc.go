// Package walker searches the link graph of a wiki for a chain of articles
// leading from a start article to an end article.
//
// What:
//
//	The graph is never loaded. A walk asks an oracle.Oracle for the links of
//	one article at a time and stops when it reaches the end, when there is
//	nothing left to expand, or when it has spent its call budget. Results are
//	one of three outcomes:
//
//	  Found     a path start → … → end, every step a real link
//	  DeadEnd   the frontier emptied without reaching the end
//	  TimedOut  the call budget ran out first
//
// Algorithms:
//
//   - Breadth-first (frontier.BreadthFirst) expands articles in discovery
//     order. With MaxLinks unbounded it finds a shortest path.
//   - Greedy best-first (frontier.GreedyBestFirst) expands the article whose
//     title or categories look most like the target first, using the
//     heuristic package. The score is not a lower bound, so the path found is
//     a path, not necessarily the shortest one.
//
// Directions:
//
//	Unidirectional walks sweep forward from the start. Bidirectional walks
//	also sweep backward from the end over "what links here" and stop when the
//	sweeps meet. The two sweeps run in their own goroutines and share the
//	explored set, the found flag and the call budget. A sweep notices the
//	other side's success at its next loop check, so one extra expansion may
//	happen after the path is found.
//
// Budget:
//
//	Every Expand and Categories call counts against MaxRequests. The budget is
//	checked before each expansion; category lookups made while scoring the
//	neighbors of that expansion may cross it.
//
// Errors:
//
//   - ErrOracleNil if the oracle is nil.
//   - ErrOptionViolation for an invalid Option.
//   - *NotFoundError (matching ErrNotFound) if start or end does not exist.
//     Start is checked first.
//   - ctx.Err() if the context is cancelled during a walk.
//
// Usage:
//
//	w, err := walker.New(ctx, "Dog", "Wolf", oracle.NewMediaWiki(),
//	    walker.WithAlgorithm(frontier.GreedyBestFirst),
//	    walker.WithHeuristics(heuristic.LongestCommonSubstring),
//	    walker.WithBidirectional(true),
//	)
//	if err != nil { … }
//	res, err := w.Walk(ctx)
//	fmt.Println(strings.Join(res.Path, " > "))
package walker
