package hcl_adapter

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions are callable from any grid expression.
var functions = map[string]function.Function{
	"upper":     stdlib.UpperFunc,
	"lower":     stdlib.LowerFunc,
	"join":      stdlib.JoinFunc,
	"format":    stdlib.FormatFunc,
	"concat":    stdlib.ConcatFunc,
	"length":    stdlib.LengthFunc,
	"trimspace": stdlib.TrimSpaceFunc,
}

// newEvalContext exposes the given environment, in os.Environ form, as the
// env variable.
func newEvalContext(environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, e := range environ {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
		Functions: functions,
	}
}

func defaultEnviron() []string {
	return os.Environ()
}
