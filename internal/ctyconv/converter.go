package ctyconv

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the default implementation of config.Converter.
type Converter struct{}

var _ config.Converter = (*Converter)(nil)

// New creates a new Converter.
func New() *Converter {
	return &Converter{}
}

// DecodeArguments iterates through the fields of a Go struct, finds the
// corresponding arguments by their `cty` tag and uses the recursive decode
// helper to populate them.
//
// A field is required unless its tag carries ",optional" or the field is a
// pointer. Arguments that match no field are rejected so typos surface at
// load time.
func (c *Converter) DecodeArguments(ctx context.Context, args map[string]cty.Value, target any) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting argument decoding.", "count", len(args))

	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("target must point to a struct, got %s", structVal.Kind())
	}
	structType := structVal.Type()

	known := make(map[string]bool)
	for i := 0; i < structType.NumField(); i++ {
		fieldDef := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tagName, optional := parseTag(fieldDef.Tag.Get("cty"))
		if tagName == "" || tagName == "-" {
			continue
		}
		known[tagName] = true

		val, provided := args[tagName]
		if !provided || val.IsNull() {
			if optional || fieldDef.Type.Kind() == reflect.Ptr {
				continue
			}
			return fmt.Errorf("missing required argument %q", tagName)
		}

		if err := c.decode(ctx, val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", tagName, err)
		}
	}

	for name := range args {
		if !known[name] {
			return fmt.Errorf("unsupported argument %q", name)
		}
	}

	logger.Debug("Finished argument decoding successfully.")
	return nil
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
// cty values pass through unchanged, and nil becomes a null value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return val, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

func parseTag(tag string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p == "optional" {
			optional = true
		}
	}
	return parts[0], optional
}
