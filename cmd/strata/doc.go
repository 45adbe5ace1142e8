// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Strata is the CLI for incremental parsing of SQL transformation
// projects. It provides subcommands for running parse passes (parse),
// inspecting and managing the on-disk parse cache (cache status, list,
// show, verify, diag, clear), and browsing cached documentation
// (docs list, docs show).
package main
