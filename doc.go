// Package wikiwalk finds a chain of hyperlinks between two wiki articles
// without ever loading the link graph: the graph is asked about one article
// at a time, under a hard cap on the number of questions.
//
// Layout
//
//	core/        Node model, Direction, per-direction parent Tree and path Join
//	heuristic/   title and category similarity, cost = K / hits²
//	frontier/    FIFO (breadth-first) and cost-ordered (greedy best-first) queues
//	explored/    striped concurrent set arbitrating which sweep expanded a title
//	oracle/      the Oracle contract, a MediaWiki client, an in-memory link
//	              table and a call-counting wrapper
//	walker/      the search engine: sweeps, budget, meeting and path reconstruction
//	config/      YAML preferences validated with struct tags
//	cmd/wikiwalk  walk, repl and serve commands
//
// A walk is breadth-first or greedy best-first, unidirectional or
// bidirectional. Greedy ordering is a heuristic and finds a path, not
// necessarily the shortest one.
package wikiwalk
