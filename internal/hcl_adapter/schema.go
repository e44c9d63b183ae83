package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all top-level blocks of a grid file.
type fileRoot struct {
	Tasks []*taskBlock `hcl:"task,block"`
}

// taskBlock is the HCL shape of a task.
type taskBlock struct {
	Handler   string          `hcl:"handler,label"`
	Name      string          `hcl:"name,label"`
	DependsOn []string        `hcl:"depends_on,optional"`
	Arguments *argumentsBlock `hcl:"arguments,block"`
	DeclRange hcl.Range       `hcl:",def_range"`
}

// argumentsBlock captures the free-form arguments of a task.
type argumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
