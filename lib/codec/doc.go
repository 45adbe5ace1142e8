// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the single CBOR configuration every strata
// package encodes with.
//
// Strata keeps a hard boundary between its two serialization formats.
// JSON faces outward: --json command output and the JSONC project file.
// CBOR faces inward: the parse cache payload on disk, and the encoded
// images that configuration fingerprints are computed over. The
// encoder is pinned to Core Deterministic Encoding, so two equal vars
// maps produce the same bytes (and the same fingerprint) regardless of
// map iteration order.
//
// Struct tag convention: a `cbor` tag marks a type that only ever
// lives in the cache payload; a `json` tag marks one that appears in
// both the payload and --json output (fxamacker/cbor reads `json` tags
// when no `cbor` tag is present). A field never carries both.
package codec
