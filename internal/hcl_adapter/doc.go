// Package hcl_adapter loads grids written in HCL.
//
// A grid file holds any number of task blocks:
//
//	task "shell" "app.compile" {
//	  depends_on = ["app.generate"]
//	  arguments {
//	    command = "go build ./..."
//	  }
//	}
//
// The first label names the handler, the second the task. Expressions are
// evaluated once at load time and may refer to environment variables through
// env.NAME and call a small set of string functions.
package hcl_adapter
