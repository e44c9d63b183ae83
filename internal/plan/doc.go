// Package plan holds the execution plan: the single mutable source of truth
// for the progress of one run.
//
// A plan is built once from a linked node table (see dag.Graph.Build) and is
// then mutated only through its claim, report and restrict operations. All of
// them are serialised behind one mutex, so a node is never handed to two
// workers and a terminal node never changes state again. Workers that find
// nothing runnable wait on a condition variable until a report frees more
// work or the plan settles.
//
// A node becomes runnable once every predecessor is Complete. A Failed or
// Skipped predecessor instead causes the node, and transitively everything
// downstream of it, to be Skipped without running. Unless the plan was built
// with WithContinueOnFailure(true), the first failure also aborts the run:
// every other Pending node is Skipped with ErrAborted while nodes already
// executing are allowed to finish.
package plan
