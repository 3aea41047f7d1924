// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"io"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// hashes maps the algorithm names of the Hash context to their
// constructors.
var hashes = map[string]func() hash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512/256": sha512.New512_256,
	"sha3-224":   sha3.New224,
	"sha3-256":   sha3.New256,
	"sha3-384":   sha3.New384,
	"sha3-512":   sha3.New512,
	"blake2b-256": func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	},
	"blake2b-512": func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	},
	"blake2s-256": func() hash.Hash {
		h, _ := blake2s.New256(nil)
		return h
	},
	"crc32": func() hash.Hash { return crc32.NewIEEE() },
}

// Algorithms returns the names of the hash algorithms, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Digest returns the hexadecimal digest of s computed with the named
// algorithm. The name is case-insensitive and "sha-256" is the same as
// "sha256". If the algorithm does not exist, Digest returns false.
func Digest(algorithm, s string) (string, bool) {
	name := strings.ToLower(algorithm)
	if strings.HasPrefix(name, "sha-") {
		name = "sha" + name[len("sha-"):]
	}
	newHash, ok := hashes[name]
	if !ok {
		return "", false
	}
	h := newHash()
	_, _ = io.WriteString(h, s)
	return hex.EncodeToString(h.Sum(nil)), true
}
