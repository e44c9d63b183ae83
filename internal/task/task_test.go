package task

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctyconv"
	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type greetInput struct {
	Name string `cty:"name"`
}

type greetOutput struct {
	Greeting string `cty:"greeting"`
}

var greet = handlers.Typed(func(_ context.Context, in *greetInput) (any, error) {
	if in.Name == "nobody" {
		return nil, errors.New("no one to greet")
	}
	return greetOutput{Greeting: "hello " + in.Name}, nil
})

func TestTask_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes arguments and converts output", func(t *testing.T) {
		def := &config.Task{Name: "hi", Handler: "greet", Arguments: map[string]cty.Value{"name": cty.StringVal("ops")}}
		tk := New(def, greet, ctyconv.New())

		require.NoError(t, tk.Validate(ctx))
		out, err := tk.Execute(ctx)
		require.NoError(t, err)
		val, ok := out.(cty.Value)
		require.True(t, ok)
		assert.Equal(t, cty.StringVal("hello ops"), val.GetAttr("greeting"))
	})

	t.Run("handler error is returned as is", func(t *testing.T) {
		def := &config.Task{Name: "hi", Handler: "greet", Arguments: map[string]cty.Value{"name": cty.StringVal("nobody")}}
		_, err := New(def, greet, ctyconv.New()).Execute(ctx)
		assert.EqualError(t, err, "no one to greet")
	})

	t.Run("bad arguments fail validation", func(t *testing.T) {
		def := &config.Task{Name: "hi", Handler: "greet", Arguments: map[string]cty.Value{}}
		err := New(def, greet, ctyconv.New()).Validate(ctx)
		assert.ErrorContains(t, err, `task hi: missing required argument "name"`)
	})

	t.Run("handler without inputs rejects arguments", func(t *testing.T) {
		noArgs := handlers.NoInput(func(context.Context) (any, error) { return nil, nil })
		def := &config.Task{Name: "x", Handler: "env", Arguments: map[string]cty.Value{"a": cty.True}}
		err := New(def, noArgs, ctyconv.New()).Validate(ctx)
		assert.ErrorContains(t, err, `handler "env" takes no arguments`)

		def.Arguments = nil
		out, err := New(def, noArgs, ctyconv.New()).Execute(ctx)
		require.NoError(t, err)
		assert.True(t, out.(cty.Value).IsNull())
	})
}
