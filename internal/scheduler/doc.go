// Package scheduler provides the selection strategies used by the execution
// plan to decide which runnable node a worker receives next.
//
// # Why Scheduler Exists
//
// The plan knows which nodes are runnable; it does not know which of them is
// the best one to start. When several nodes are ready at once and there are
// fewer free workers than candidates, the order in which they are handed out
// changes the total wall time of the run. Keeping that decision behind a
// small interface lets the plan stay a pure bookkeeping structure.
//
// # How It Works
//
// The plan calls Init once with its full node table, before any node is
// claimed. Each time a worker asks for work, the plan filters its runnable
// frontier and uses Less to pick the smallest candidate; among equal
// candidates the one that became runnable first wins. A Selector never
// mutates nodes and is only called while the plan holds its lock, so
// implementations do not need their own synchronisation.
//
// # Strategies
//
//   - fifo: nodes are handed out in the order they became runnable.
//   - critical-path: nodes that unblock the most downstream work go first.
package scheduler
