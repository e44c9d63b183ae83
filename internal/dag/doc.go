// Package dag builds the dependency graph that an execution plan is made
// from. Nodes and edges are added by string ID while the graph is mutable;
// Build validates the graph and freezes it into an index-linked node table
// ready for plan.New.
package dag
