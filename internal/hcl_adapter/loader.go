package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL grid loader.
func NewLoader() *Loader {
	return &Loader{environ: defaultEnviron}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses every file and translates its task blocks into the model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}
	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.environ())

	for _, file := range paths {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Tasks {
			t, err := translateTask(block, evalCtx)
			if err != nil {
				return nil, err
			}
			model.Tasks = append(model.Tasks, t)
		}
	}

	logger.Debug("HCL loading complete.", "tasks", len(model.Tasks))
	return model, nil
}

func translateTask(block *taskBlock, evalCtx *hcl.EvalContext) (*config.Task, error) {
	t := &config.Task{
		Handler:   block.Handler,
		Name:      block.Name,
		DependsOn: block.DependsOn,
		Arguments: map[string]cty.Value{},
		Source:    block.DeclRange.String(),
	}
	if block.Arguments == nil || block.Arguments.Body == nil {
		return t, nil
	}

	attrs, diags := block.Arguments.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("task %q arguments at %s: %w", block.Name, t.Source, diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("task %q argument %q: %w", block.Name, name, diags)
		}
		t.Arguments[name] = val
	}
	return t, nil
}
