// Package oracle defines the contract between a walk and the live article
// link graph, plus three implementations of it.
//
// What
//
//   - Oracle:    Exists / Expand / Categories, all failure-tolerant.
//   - Metered:   wraps any Oracle and counts every call atomically; the count
//     is the walk's budget signal. Also feeds prometheus counters.
//   - MediaWiki: HTTP client for a MediaWiki Action API (Wikipedia by default),
//     rate-limited, traced with OpenTelemetry, category lookups deduplicated
//     with singleflight.
//   - Memory:    an in-memory link table for tests and offline walks, loadable
//     from YAML.
//
// Ordering
//
//	Expand results are shuffled so that walks do not favor alphabetically early
//	links. A non-zero seed makes the order reproducible; seed 0 draws one from
//	the clock.
//
// Errors
//
//	None are returned. Transport and decoding failures are logged at debug level
//	and degrade to an empty answer, which the walker treats as a dead end at
//	that node.
package oracle
