// Package builder turns a loaded grid model into the dependency graph the
// execution plan is built from.
//
// # Why Builder Exists
//
// Loaders only know about syntax; the plan only knows about nodes and edges.
// The builder is the bridge: it resolves every task's handler in the registry,
// binds the task's arguments, and wires depends_on lists into graph edges.
//
// This separation provides several benefits:
//   - **Early Failure:** Unknown handlers, unknown dependencies and bad
//     arguments are reported before anything runs
//   - **Testability:** Graph construction can be tested without executing tasks
//   - **Clarity:** The executor receives plain node.Work values
//
// # How It Works
//
//  1. **Validate:** Reject empty or duplicate task names
//  2. **Bind:** Look up each handler and decode its arguments once
//  3. **Link:** Add a node per task, then an edge per dependency
//  4. **Check:** Reject cycles
//
// Every problem found in steps 1 to 3 is reported together.
package builder
