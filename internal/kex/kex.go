// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package kex defines the Diffie-Hellman key-exchange primitive that
// underlies an HPKE KEM, and the only implementation the library supports:
// X25519.
package kex

import (
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// PrivateKey and PublicKey are opaque fixed-size octet strings. Their length
// is determined by the KEX implementation; for X25519 both are 32 bytes.
type PrivateKey []byte
type PublicKey []byte

// KEX is the Diffie-Hellman primitive an HPKE KEM is built on. It is the
// only primitive family in this library with a single registered
// implementation (X25519); the interface exists so the KEM layer above it
// stays generic in shape, the way the spec's primitive-trait design intends.
type KEX interface {
	// ScalarSize is the length in bytes of a PrivateKey.
	ScalarSize() int
	// PointSize is the length in bytes of a marshaled PublicKey, Npk.
	PointSize() int

	// GenerateKeyPair draws a fresh key pair from rnd.
	GenerateKeyPair(rnd io.Reader) (PrivateKey, PublicKey, error)
	// SkToPk derives the public key for a private key.
	SkToPk(sk PrivateKey) (PublicKey, error)
	// DH computes the Diffie-Hellman shared point between sk and pk.
	DH(sk PrivateKey, pk PublicKey) ([]byte, error)

	// Marshal and Unmarshal convert a PublicKey to and from its canonical
	// fixed-length octet encoding.
	Marshal(pk PublicKey) []byte
	Unmarshal(b []byte) (PublicKey, error)
	// UnmarshalPrivate parses a PrivateKey from its octet encoding.
	UnmarshalPrivate(b []byte) (PrivateKey, error)
}

// X25519 is the Curve25519-based KEX from RFC 7748 used by
// X25519-HKDF-SHA256, the only KEM this library implements.
var X25519 KEX = x25519Kex{}

type x25519Kex struct{}

// basepoint is the canonical Curve25519 generator, kept as its own slice
// (rather than inlined at each call site) so curve25519.X25519 can use its
// precomputed-basepoint fast path when it sees this exact backing array.
var basepoint = []byte{
	0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func (x25519Kex) ScalarSize() int { return curve25519.ScalarSize }
func (x25519Kex) PointSize() int  { return curve25519.PointSize }

func (x25519Kex) GenerateKeyPair(rnd io.Reader) (PrivateKey, PublicKey, error) {
	sk := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(rnd, sk); err != nil {
		return nil, nil, fmt.Errorf("kex: failed to generate private key: %w", err)
	}
	pk, err := curve25519.X25519(sk, basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("kex: failed to derive public key: %w", err)
	}
	return PrivateKey(sk), PublicKey(pk), nil
}

func (x25519Kex) SkToPk(sk PrivateKey) (PublicKey, error) {
	if l := len(sk); l != curve25519.ScalarSize {
		return nil, fmt.Errorf("kex: bad private key length: %d, expected %d", l, curve25519.ScalarSize)
	}
	pk, err := curve25519.X25519(sk, basepoint)
	if err != nil {
		return nil, fmt.Errorf("kex: failed to derive public key: %w", err)
	}
	return PublicKey(pk), nil
}

// DH returns the low-order-point-checked scalar multiplication sk*pk. A
// point that reduces the shared secret to all-zeroes (a low-order point) is
// rejected, since HPKE's security argument requires the Diffie-Hellman
// output to be uniform.
func (x25519Kex) DH(sk PrivateKey, pk PublicKey) ([]byte, error) {
	if l := len(sk); l != curve25519.ScalarSize {
		return nil, fmt.Errorf("kex: bad private key length: %d, expected %d", l, curve25519.ScalarSize)
	}
	if l := len(pk); l != curve25519.PointSize {
		return nil, fmt.Errorf("kex: bad public key length: %d, expected %d", l, curve25519.PointSize)
	}
	shared, err := curve25519.X25519(sk, pk)
	if err != nil {
		// curve25519.X25519 itself rejects known low-order inputs; the
		// all-zero check below covers the case it doesn't catch.
		return nil, fmt.Errorf("kex: invalid key exchange: %w", err)
	}
	var zero [32]byte
	if subtle.ConstantTimeCompare(shared, zero[:]) == 1 {
		return nil, fmt.Errorf("kex: invalid key exchange: bad input point, low order point")
	}
	return shared, nil
}

func (x25519Kex) Marshal(pk PublicKey) []byte {
	out := make([]byte, len(pk))
	copy(out, pk)
	return out
}

func (x25519Kex) Unmarshal(b []byte) (PublicKey, error) {
	if l := len(b); l != curve25519.PointSize {
		return nil, fmt.Errorf("kex: bad public key length: %d, expected %d", l, curve25519.PointSize)
	}
	pk := make([]byte, curve25519.PointSize)
	copy(pk, b)
	return PublicKey(pk), nil
}

func (x25519Kex) UnmarshalPrivate(b []byte) (PrivateKey, error) {
	if l := len(b); l != curve25519.ScalarSize {
		return nil, fmt.Errorf("kex: bad private key length: %d, expected %d", l, curve25519.ScalarSize)
	}
	sk := make([]byte, curve25519.ScalarSize)
	copy(sk, b)
	return PrivateKey(sk), nil
}
