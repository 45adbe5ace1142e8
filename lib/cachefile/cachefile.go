// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cachefile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/strata-build/strata/lib/codec"
	"github.com/strata-build/strata/lib/registry"
)

// Cache file format constants.
const (
	fileMagic     = "SPRC" // Strata Parse Result Cache
	formatVersion = 1

	// Fixed header: magic(4) + version(4) + compression(1) +
	// reserved(3) + storedSize(8) + rawSize(8) + payloadCRC(4) +
	// headerCRC(4) = 36 bytes. All integers little-endian. The header
	// CRC covers the preceding 32 bytes; the payload CRC covers the
	// stored (post-compression) payload bytes.
	headerSize = 36
)

// crc32cTable is the CRC32C (Castagnoli) table for file checksums.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// envelope is the CBOR document stored as the payload. The writing
// tool's release string is recorded here, next to the registry rather
// than inside it, so the loader can reject caches written by a
// different release before looking at the registry at all.
type envelope struct {
	Version  string             `json:"version"`
	Registry *registry.Registry `json:"registry"`
}

// Info describes a cache file's envelope. Returned by Read and Write
// for logging and for the cache status command.
type Info struct {
	// Version is the release string of the tool that wrote the file.
	Version string `json:"version"`

	// Compression is the algorithm applied to the payload.
	Compression Compression `json:"compression"`

	// PayloadSize is the stored (post-compression) payload length.
	PayloadSize int64 `json:"payload_size"`

	// RawSize is the decompressed CBOR payload length.
	RawSize int64 `json:"raw_size"`
}

// FormatError reports a cache file that exists but cannot be decoded:
// wrong magic, unsupported format version, checksum mismatch,
// truncation, or an unreadable payload. Callers treat this the same
// as a missing cache and parse from scratch.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cache file %s: %s", e.Path, e.Reason)
}

// IsFormat reports whether err indicates a structurally invalid cache
// file (as opposed to an I/O failure).
func IsFormat(err error) bool {
	var formatError *FormatError
	return errors.As(err, &formatError)
}

// Write persists a completed registry to path. The file is written to
// a temporary location in the same directory and renamed into place,
// so readers never observe a partially-written cache. The version
// string is stamped into the envelope; compression falls back to
// CompressionNone when the payload does not shrink.
func Write(path string, version string, reg *registry.Registry, algorithm Compression) (Info, error) {
	raw, err := codec.Marshal(envelope{Version: version, Registry: reg})
	if err != nil {
		return Info{}, fmt.Errorf("encoding parse cache: %w", err)
	}

	stored, err := compress(raw, algorithm)
	if err != nil {
		if !errors.Is(err, errIncompressible) {
			return Info{}, fmt.Errorf("compressing parse cache: %w", err)
		}
		algorithm = CompressionNone
		stored = raw
	}

	var header [headerSize]byte
	copy(header[0:4], fileMagic)
	binary.LittleEndian.PutUint32(header[4:8], formatVersion)
	header[8] = byte(algorithm)
	binary.LittleEndian.PutUint64(header[12:20], uint64(len(stored)))
	binary.LittleEndian.PutUint64(header[20:28], uint64(len(raw)))
	binary.LittleEndian.PutUint32(header[28:32], crc32.Checksum(stored, crc32cTable))
	binary.LittleEndian.PutUint32(header[32:36], crc32.Checksum(header[:32], crc32cTable))

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return Info{}, fmt.Errorf("creating cache directory %s: %w", directory, err)
	}

	tmpFile, err := os.CreateTemp(directory, filepath.Base(path)+".tmp-*")
	if err != nil {
		return Info{}, fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(header[:]); err != nil {
		return Info{}, fmt.Errorf("writing cache header: %w", err)
	}
	if _, err := tmpFile.Write(stored); err != nil {
		return Info{}, fmt.Errorf("writing cache payload: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return Info{}, fmt.Errorf("syncing temp cache file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Info{}, fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return Info{}, fmt.Errorf("renaming cache file to %s: %w", path, err)
	}

	success = true
	return Info{
		Version:     version,
		Compression: algorithm,
		PayloadSize: int64(len(stored)),
		RawSize:     int64(len(raw)),
	}, nil
}

// Read loads a cache file and returns the registry it holds. A
// missing file surfaces as an error wrapping os.ErrNotExist; a
// present but undecodable file surfaces as a *FormatError. Both mean
// the caller starts from an empty registry.
func Read(path string) (*registry.Registry, Info, error) {
	raw, info, err := readPayload(path)
	if err != nil {
		return nil, Info{}, err
	}

	var decoded envelope
	if err := codec.Unmarshal(raw, &decoded); err != nil {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("decoding payload: %v", err)}
	}
	if decoded.Registry == nil {
		return nil, Info{}, &FormatError{Path: path, Reason: "payload holds no registry"}
	}

	info.Version = decoded.Version
	return decoded.Registry, info, nil
}

// Diagnose returns the decompressed payload in CBOR diagnostic
// notation. Used by the cache diag command to inspect a cache file
// without loading it as a registry.
func Diagnose(path string) (string, error) {
	raw, _, err := readPayload(path)
	if err != nil {
		return "", err
	}
	notation, err := codec.Diagnose(raw)
	if err != nil {
		return "", &FormatError{Path: path, Reason: fmt.Sprintf("diagnosing payload: %v", err)}
	}
	return notation, nil
}

// readPayload validates the envelope and returns the decompressed
// CBOR payload. Info.Version is left empty because it lives inside
// the payload.
func readPayload(path string) ([]byte, Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("reading cache file: %w", err)
	}

	if len(data) < headerSize {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("truncated header: %d bytes", len(data))}
	}

	if magic := string(data[0:4]); magic != fileMagic {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("invalid magic: got %q, want %q", magic, fileMagic)}
	}

	if version := binary.LittleEndian.Uint32(data[4:8]); version != formatVersion {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("unsupported format version %d (this code supports %d)", version, formatVersion)}
	}

	headerCRC := binary.LittleEndian.Uint32(data[32:36])
	if actual := crc32.Checksum(data[:32], crc32cTable); actual != headerCRC {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("header CRC mismatch: expected %08x, got %08x", headerCRC, actual)}
	}

	algorithm := Compression(data[8])
	storedSize := binary.LittleEndian.Uint64(data[12:20])
	rawSize := binary.LittleEndian.Uint64(data[20:28])
	payloadCRC := binary.LittleEndian.Uint32(data[28:32])

	stored := data[headerSize:]
	if uint64(len(stored)) != storedSize {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("payload is %d bytes, header records %d", len(stored), storedSize)}
	}
	if actual := crc32.Checksum(stored, crc32cTable); actual != payloadCRC {
		return nil, Info{}, &FormatError{Path: path, Reason: fmt.Sprintf("payload CRC mismatch: expected %08x, got %08x", payloadCRC, actual)}
	}

	raw, err := decompress(stored, algorithm, int(rawSize))
	if err != nil {
		return nil, Info{}, &FormatError{Path: path, Reason: err.Error()}
	}

	return raw, Info{
		Compression: algorithm,
		PayloadSize: int64(len(stored)),
		RawSize:     int64(len(raw)),
	}, nil
}
