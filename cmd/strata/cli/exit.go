// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "strconv"

// ExitError carries an exit code for commands whose non-zero exit is a
// reported result, not a failure to explain. `cache verify` prints its
// findings and returns ExitError{Code: 1}; main recognizes the
// ExitCode method and exits without writing an "error:" line on top of
// output the command already produced.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// ExitCode reports the process exit code main should use.
func (e *ExitError) ExitCode() int {
	return e.Code
}
