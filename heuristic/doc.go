// Package heuristic scores how close an article title looks to a target title,
// producing the priority used by a greedy best-first frontier.
//
// Signals
//
//   - Hamming:    rune mismatches over the shorter title plus the length gap; contributes 1/d.
//   - LCS:        longest common contiguous substring (dynamic programming); contributes its length.
//   - Categories: number of categories shared with the target; contributes the count.
//
// Cost
//
//	cost = K / hits²   (K defaults to 1000)
//
//	hits == 0 → +Inf (explored last); an exact hamming match → 0.
//
// The score is not admissible. Greedy ordering under it is not guaranteed to
// find a shortest path, only some path. Breadth-first walks never consult it.
//
// Usage
//
//	ev, err := heuristic.New(heuristic.Options{
//	    Enabled: heuristic.NewSet(heuristic.Hamming, heuristic.LongestCommonSubstring),
//	    K:       heuristic.DefaultK,
//	})
//	cost := ev.Cost(candidate, target)
package heuristic
