// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is implemented by param types that register their own
// flags. When a struct field's type implements it, [BindFlags] calls
// AddFlags instead of reading struct tags, which suits flag surfaces
// tags cannot express (computed defaults, cross-flag validation).
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// FlagsFromParams builds a [pflag.FlagSet] bound to the tagged fields
// of params, which must be a pointer to a struct. Invalid input is a
// programming error and panics.
//
// The usual shape:
//
//	var params myParams
//	command := &cli.Command{
//	    Params: func() any { return &params },
//	    Run: func(args []string) error {
//	        // fields are populated once flags are parsed
//	    },
//	}
//
// [Command.Execute] calls this for every command that sets Params.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers a pflag entry for every tagged field of params,
// which must be a pointer to a struct.
//
// Three tags drive the binding:
//
//   - flag:"name" or flag:"name,n": the long name plus an optional
//     one-letter shorthand. Fields with no flag tag are skipped.
//   - desc:"...": the help text.
//   - default:"...": the default, parsed per the field's Go type;
//     absent means the zero value.
//
// Fields may be string, bool, int, int64, float64, [time.Duration],
// or []string.
//
// Struct-typed fields compose: a field whose address implements
// [FlagBinder] contributes flags through AddFlags, and any other
// embedded struct is walked recursively (this is how [JSONOutput]
// supplies --json). Exported fields reached through an unexported
// embedded struct stay bindable.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindFields(value.Elem(), flagSet)
}

// flagSpec is the binding read off one struct field's tags.
type flagSpec struct {
	name      string
	shorthand string
	help      string
	fallback  string
}

func bindFields(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()

	for i := range structType.NumField() {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Type.Kind() == reflect.Struct {
			// A field that registers its own flags. Its address is
			// only interface-able when the field is exported.
			if field.IsExported() && fieldValue.CanAddr() {
				if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
					binder.AddFlags(flagSet)
					continue
				}
			}
			if field.Anonymous {
				if err := bindFields(fieldValue, flagSet); err != nil {
					return fmt.Errorf("embedded %s: %w", field.Name, err)
				}
				continue
			}
		}

		tag := field.Tag.Get("flag")
		if tag == "" {
			continue
		}
		spec := flagSpec{
			help:     field.Tag.Get("desc"),
			fallback: field.Tag.Get("default"),
		}
		spec.name, spec.shorthand, _ = strings.Cut(tag, ",")

		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s: not addressable", field.Name)
		}
		if err := bindField(fieldValue.Addr().Interface(), flagSet, spec); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// bindField registers one flag for the field behind target.
func bindField(target any, flagSet *pflag.FlagSet, spec flagSpec) error {
	switch pointer := target.(type) {
	case *string:
		flagSet.StringVarP(pointer, spec.name, spec.shorthand, spec.fallback, spec.help)

	case *bool:
		fallback, err := parseDefault(spec, strconv.ParseBool)
		if err != nil {
			return err
		}
		flagSet.BoolVarP(pointer, spec.name, spec.shorthand, fallback, spec.help)

	case *int:
		fallback, err := parseDefault(spec, strconv.Atoi)
		if err != nil {
			return err
		}
		flagSet.IntVarP(pointer, spec.name, spec.shorthand, fallback, spec.help)

	case *int64:
		fallback, err := parseDefault(spec, parseInt64)
		if err != nil {
			return err
		}
		flagSet.Int64VarP(pointer, spec.name, spec.shorthand, fallback, spec.help)

	case *float64:
		fallback, err := parseDefault(spec, parseFloat64)
		if err != nil {
			return err
		}
		flagSet.Float64VarP(pointer, spec.name, spec.shorthand, fallback, spec.help)

	case *time.Duration:
		fallback, err := parseDefault(spec, time.ParseDuration)
		if err != nil {
			return err
		}
		flagSet.DurationVarP(pointer, spec.name, spec.shorthand, fallback, spec.help)

	case *[]string:
		var fallback []string
		if spec.fallback != "" {
			fallback = strings.Split(spec.fallback, ",")
		}
		flagSet.StringSliceVarP(pointer, spec.name, spec.shorthand, fallback, spec.help)

	default:
		return fmt.Errorf("unsupported type %T for flag --%s", target, spec.name)
	}
	return nil
}

// parseDefault applies parse to the field's default tag; an absent
// default is the type's zero value.
func parseDefault[T any](spec flagSpec, parse func(string) (T, error)) (T, error) {
	if spec.fallback == "" {
		var zero T
		return zero, nil
	}
	value, err := parse(spec.fallback)
	if err != nil {
		return value, fmt.Errorf("default for --%s: %w", spec.name, err)
	}
	return value, nil
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
