// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package cachefile reads and writes the on-disk parse cache.
//
// A cache file is a fixed binary header followed by a CBOR payload.
// The header carries a magic string, the format version, the payload
// compression algorithm, and CRC32C checksums over both the header
// and the stored payload, so torn writes and bit rot are detected
// before decoding is attempted. The payload is an envelope holding
// the writing tool's release string and the serialized registry.
//
// Writes go through a temp file and an atomic rename: a crash mid-
// write leaves the previous cache intact. Readers distinguish a
// missing cache (os.ErrNotExist) from a corrupt one (*FormatError);
// both are recoverable by parsing the project from scratch.
package cachefile
