// Package digest computes the hash functions available to Bitcoin
// script (RIPEMD160, SHA1, SHA256, HASH160 and HASH256) so that
// hash builtins over literal arguments can be evaluated at compile time.
//
// Hash160(data) is ripemd160(sha256(data)) as defined in Bitcoin Core;
// Hash256(data) is sha256(sha256(data)).
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/ripemd160"
)

// Size160 is the size of a HASH160 or RIPEMD160 checksum in bytes.
const Size160 = ripemd160.Size

// New160 returns a new hash.Hash computing the HASH160 checksum.
func New160() hash.Hash {
	return &chained{inner: sha256.New(), outer: ripemd160.New(), size: Size160}
}

// New256 returns a new hash.Hash computing the HASH256 checksum.
func New256() hash.Hash {
	return &chained{inner: sha256.New(), outer: sha256.New(), size: sha256.Size}
}

// chained feeds the inner digest's sum to the outer digest.
type chained struct {
	inner hash.Hash
	outer hash.Hash
	size  int
}

func (d *chained) Reset()         { d.inner.Reset() }
func (d *chained) Size() int      { return d.size }
func (d *chained) BlockSize() int { return d.inner.BlockSize() }
func (d *chained) Write(p []byte) (int, error) {
	return d.inner.Write(p)
}

func (d *chained) Sum(in []byte) []byte {
	d.outer.Reset()
	d.outer.Write(d.inner.Sum(nil))
	return d.outer.Sum(in)
}

func sum(h hash.Hash, data []byte) []byte {
	h.Write(data)
	return h.Sum(nil)
}

// RIPEMD160 returns the RIPEMD-160 checksum of data.
func RIPEMD160(data []byte) []byte { return sum(ripemd160.New(), data) }

// SHA1 returns the SHA-1 checksum of data.
func SHA1(data []byte) []byte { return sum(sha1.New(), data) }

// SHA256 returns the SHA-256 checksum of data.
func SHA256(data []byte) []byte { return sum(sha256.New(), data) }

// Hash160 returns ripemd160(sha256(data)).
func Hash160(data []byte) []byte { return sum(New160(), data) }

// Hash256 returns sha256(sha256(data)).
func Hash256(data []byte) []byte { return sum(New256(), data) }

var byName = map[string]func([]byte) []byte{
	"RIPEMD160": RIPEMD160,
	"SHA1":      SHA1,
	"SHA256":    SHA256,
	"HASH160":   Hash160,
	"HASH256":   Hash256,
}

// Lookup returns the hash function for the opcode name
// (without any OP_ prefix), if one exists.
func Lookup(name string) (func([]byte) []byte, bool) {
	f, ok := byName[name]
	return f, ok
}
