// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"os"
	"reflect"
)

// JSONOutput adds machine-readable output to a command. Embedding it
// in a parameter struct contributes the --json flag (through the tag
// binding in [BindFlags]) and the EmitJSON method:
//
//	type statusParams struct {
//	    cli.JSONOutput
//	    Dir string `json:"project_dir" flag:"project-dir" desc:"project directory"`
//	}
//
//	if done, err := params.EmitJSON(status); done {
//	    return err
//	}
//	// text rendering follows
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result to stdout as indented JSON when --json was
// passed. The first return reports whether it did; when true the
// command's text rendering must be skipped. A nil slice result is
// serialized as [], never null.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	if value := reflect.ValueOf(result); value.Kind() == reflect.Slice && value.IsNil() {
		result = reflect.MakeSlice(value.Type(), 0, 0).Interface()
	}
	return true, WriteJSON(result)
}

// WriteJSON marshals value to stdout as indented JSON. Commands with
// a --json flag should go through [JSONOutput.EmitJSON], which also
// handles the flag check and nil slices.
func WriteJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
