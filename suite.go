// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package hpke implements the HPKE (draft-02) setup and key-schedule core:
// a Key Encapsulation Mechanism, a Key Derivation Function, and an
// Authenticated Encryption with Associated Data scheme composed into a
// single public-key encryption construction with four operation modes
// (Base, PSK, Auth, AuthPSK).
package hpke

import (
	"io"

	"github.com/filippo-hpke/hpke/internal/aead"
	"github.com/filippo-hpke/hpke/internal/kdf"
	"github.com/filippo-hpke/hpke/internal/kem"
)

// Suite selects one of the nine registered cipher-suite combinations (one
// KEM times three KDFs times three AEADs) that setup and the key schedule
// are generic over. It plays the role the spec's "primitive traits" design
// note assigns to a statically-typed implementation's type parameters: Go
// has no type-level generics over interface-bound algorithm families here,
// so the selection is carried as a value instead and threaded through
// SetupSender/SetupReceiver.
type Suite struct {
	KEM  *kem.KEM
	KDF  kdf.KDF
	AEAD aead.AEAD
}

// NewSuite builds a Suite from explicit KEM/KDF/AEAD choices. Only
// X25519HKDFSHA256 is a registered KEM; it is exported so callers building
// a custom combination don't have to reach into the package's predefined
// Suite values.
func NewSuite(k *kem.KEM, kd kdf.KDF, a aead.AEAD) *Suite {
	return &Suite{KEM: k, KDF: kd, AEAD: a}
}

// The nine registered cipher-suite combinations from section 6's registry.
var (
	X25519Sha256AES128GCM        = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA256, aead.AES128GCM)
	X25519Sha256AES256GCM        = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA256, aead.AES256GCM)
	X25519Sha256ChaCha20Poly1305 = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA256, aead.ChaCha20Poly1305)
	X25519Sha384AES128GCM        = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA384, aead.AES128GCM)
	X25519Sha384AES256GCM        = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA384, aead.AES256GCM)
	X25519Sha384ChaCha20Poly1305 = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA384, aead.ChaCha20Poly1305)
	X25519Sha512AES128GCM        = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA512, aead.AES128GCM)
	X25519Sha512AES256GCM        = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA512, aead.AES256GCM)
	X25519Sha512ChaCha20Poly1305 = NewSuite(kem.X25519HKDFSHA256, kdf.HKDFSHA512, aead.ChaCha20Poly1305)
)

// GenerateKeyPair draws a fresh recipient key pair for this suite's KEM.
func (s *Suite) GenerateKeyPair(rnd io.Reader) (PrivateKey, PublicKey, error) {
	return s.KEM.Kex().GenerateKeyPair(rnd)
}
