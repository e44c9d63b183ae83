// Package ctyconv converts between cty values, as produced by the grid
// loaders, and the Go types used by task handlers. It is format-agnostic:
// HCL and YAML grids both end up as cty values before they reach it.
package ctyconv
