package ctyconv

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	ctyValueType = reflect.TypeOf(cty.Value{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// decode is a recursive function that populates the Go value goVal points to
// from a cty.Value, guided by the Go type.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	goPtr := reflect.ValueOf(goVal).Elem()
	goType := goPtr.Type()
	logger := ctxlog.FromContext(ctx).With("go_kind", goType.Kind().String())

	// A cty.Value target takes the value as is.
	if goType == ctyValueType {
		if val.IsKnown() {
			goPtr.Set(reflect.ValueOf(val))
		}
		return nil
	}

	if !val.IsKnown() || val.IsNull() {
		return nil
	}

	switch goType.Kind() {
	case reflect.Ptr:
		elem := reflect.New(goType.Elem())
		if err := c.decode(ctx, val, elem.Interface()); err != nil {
			return err
		}
		goPtr.Set(elem)
		return nil

	case reflect.Struct:
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return fmt.Errorf("type mismatch: cannot decode cty value of type %s into Go struct %s", val.Type().FriendlyName(), goType.String())
		}
		attrMap := val.AsValueMap()
		for i := 0; i < goType.NumField(); i++ {
			fieldDef := goType.Field(i)
			fieldVal := goPtr.Field(i)
			if !fieldDef.IsExported() || !fieldVal.CanSet() {
				continue
			}
			tagName := strings.Split(fieldDef.Tag.Get("cty"), ",")[0]
			if tagName == "" || tagName == "-" {
				continue
			}
			attrVal, ok := attrMap[tagName]
			if !ok {
				continue
			}
			if err := c.decode(ctx, attrVal, fieldVal.Addr().Interface()); err != nil {
				return fmt.Errorf("in attribute '%s': %w", tagName, err)
			}
		}
		return nil

	case reflect.Interface:
		nativeVal, err := ToNative(val)
		if err != nil {
			return err
		}
		if nativeVal != nil {
			goPtr.Set(reflect.ValueOf(nativeVal))
		}
		return nil

	case reflect.Map:
		return c.decodeMap(ctx, val, goPtr)

	case reflect.Slice:
		if !val.Type().IsListType() && !val.Type().IsTupleType() && !val.Type().IsSetType() {
			return fmt.Errorf("type mismatch: cannot decode cty.%s into Go slice %s", val.Type().FriendlyName(), goType.String())
		}
		newSlice := reflect.MakeSlice(goType, val.LengthInt(), val.LengthInt())
		it := val.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, elemVal := it.Element()
			if err := c.decode(ctx, elemVal, newSlice.Index(i).Addr().Interface()); err != nil {
				return fmt.Errorf("in slice element %d: %w", i, err)
			}
		}
		goPtr.Set(newSlice)
		return nil

	default:
		logger.Debug("Decoding as primitive.")
		if goType == durationType {
			return decodeDuration(val, goPtr)
		}
		want, err := gocty.ImpliedType(goPtr.Interface())
		if err != nil {
			return fmt.Errorf("unsupported Go type %s: %w", goType.String(), err)
		}
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("cannot convert value of type %s to %s: %w", val.Type().FriendlyName(), want.FriendlyName(), err)
		}
		return gocty.FromCtyValue(converted, goVal)
	}
}

// decodeMap handles the recursive decoding of a cty.Value into a Go map.
func (c *Converter) decodeMap(ctx context.Context, val cty.Value, goPtr reflect.Value) error {
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return fmt.Errorf("type mismatch: cannot decode cty.%s into Go map %s", val.Type().FriendlyName(), goPtr.Type().String())
	}

	// Fast path for generic objects into map[string]any.
	if goPtr.Type() == reflect.TypeOf((map[string]any)(nil)) {
		nativeVal, err := ToNative(val)
		if err != nil {
			return err
		}
		if nativeVal != nil {
			goPtr.Set(reflect.ValueOf(nativeVal))
		}
		return nil
	}

	newMap := reflect.MakeMap(goPtr.Type())
	it := val.ElementIterator()
	for it.Next() {
		key, elemVal := it.Element()
		keyStr := key.AsString()
		newElemPtr := reflect.New(goPtr.Type().Elem())
		if err := c.decode(ctx, elemVal, newElemPtr.Interface()); err != nil {
			return fmt.Errorf("failed to decode map element '%s': %w", keyStr, err)
		}
		newMap.SetMapIndex(reflect.ValueOf(keyStr), newElemPtr.Elem())
	}
	goPtr.Set(newMap)
	return nil
}

// decodeDuration accepts either a Go duration string or a number of seconds.
func decodeDuration(val cty.Value, goPtr reflect.Value) error {
	switch val.Type() {
	case cty.String:
		d, err := time.ParseDuration(val.AsString())
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		goPtr.Set(reflect.ValueOf(d))
		return nil
	case cty.Number:
		var secs float64
		if err := gocty.FromCtyValue(val, &secs); err != nil {
			return err
		}
		goPtr.Set(reflect.ValueOf(time.Duration(secs * float64(time.Second))))
		return nil
	default:
		return fmt.Errorf("type mismatch: cannot decode cty.%s into a duration", val.Type().FriendlyName())
	}
}
