/*
Package nodeid provides the structured identity of a task node.

An identifier is a dot-separated path of segments, each optionally carrying
an index, e.g. `app.compile` or `deploy.region[2].smoke`. Paths double as the
unit of subgraph selection: `app` selects `app.compile`, `app.test` and any
other node below it.
*/
package nodeid
