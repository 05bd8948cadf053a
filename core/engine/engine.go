// Package engine implements the issue metric engines.
//
// Every engine is a pure function over a read-only collection. Engines hold no state
// between calls and may run concurrently on the same collection. Each result type
// carries an Empty method so callers can skip rendering when there is nothing to show.
package engine

// DefaultTopN is the number of contributors kept by Overlap when no limit is given.
const DefaultTopN = 10
