// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest. All strata fingerprints (file
// contents, configuration images) are this size. The zero value is the
// empty fingerprint carried by ephemeral registries that have no
// configuration inputs.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same input bytes produce different
// hashes in different contexts, preventing cross-domain collisions.
type domainKey [32]byte

// Domain separation keys. These are fixed constants; changing them
// invalidates every fingerprint in that domain and therefore every
// existing parse cache. The byte values are the ASCII encoding of the
// domain name, zero-padded to 32 bytes. Using readable ASCII makes the
// keys inspectable in hex dumps and debuggers without sacrificing any
// cryptographic property (BLAKE3 keyed mode treats the key as an
// opaque 32-byte value).
var (
	fileDomainKey = domainKey{
		's', 't', 'r', 'a', 't', 'a', '.', 'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i',
		'n', 't', '.', 'f', 'i', 'l', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	configDomainKey = domainKey{
		's', 't', 'r', 'a', 't', 'a', '.', 'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i',
		'n', 't', '.', 'c', 'o', 'n', 'f', 'i', 'g', 0, 0, 0, 0, 0, 0, 0,
	}
)

// HashFile computes the file-domain BLAKE3 keyed hash of raw file
// contents. This is the staleness fingerprint stored on every source
// file record: two files with equal contents have equal fingerprints,
// and any content change produces a different one.
func HashFile(data []byte) Hash {
	return keyedHash(fileDomainKey, data)
}

// HashConfig computes the config-domain BLAKE3 keyed hash of a
// configuration image. Callers must pass canonical bytes (strata uses
// deterministic CBOR from lib/codec) so that logically equal
// configurations hash identically regardless of map ordering.
func HashConfig(data []byte) Hash {
	return keyedHash(configDomainKey, data)
}

// FormatHash returns the hex-encoded string representation of a hash.
// This is the canonical format used in logs and CLI output.
func FormatHash(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != 32 {
		return hash, fmt.Errorf("fingerprint is %d bytes, want 32", len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// FormatShort returns the first 12 hex characters of a hash, the
// abbreviated form used in pass summaries and status listings.
func FormatShort(hash Hash) string {
	return hex.EncodeToString(hash[:6])
}

// MarshalText encodes the hash as 64 hex characters, so fingerprints
// render as text in JSON reports and CBOR payloads rather than as raw
// byte arrays.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(FormatHash(h)), nil
}

// UnmarshalText parses the hex form produced by MarshalText.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// keyedHash computes BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	// The error is only returned for wrong key length, so this cannot
	// fail with our fixed-size type.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
