// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package aead defines the registered HPKE AEAD algorithms: AES-128-GCM,
// AES-256-GCM, and ChaCha20-Poly1305. AES-GCM is built on the standard
// library's crypto/aes and crypto/cipher, since neither the teacher nor any
// other example in the retrieval pack imports a third-party AES-GCM
// implementation — cipher.NewGCM is the idiomatic choice the ecosystem
// itself reaches for. ChaCha20-Poly1305 follows the teacher directly and
// uses golang.org/x/crypto/chacha20poly1305.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD is the registered HPKE AEAD algorithm: a cipher.AEAD factory plus the
// fixed byte-lengths (Nk, Nn, Nt) and wire identifier the key schedule and
// context need.
type AEAD interface {
	ID() uint16
	Nk() int
	Nn() int
	Nt() int
	New(key []byte) (cipher.AEAD, error)
}

var (
	AES128GCM         AEAD = aesGCM{id: 0x0001, nk: 16}
	AES256GCM         AEAD = aesGCM{id: 0x0002, nk: 32}
	ChaCha20Poly1305  AEAD = chachaPoly{}
)

type aesGCM struct {
	id uint16
	nk int
}

func (a aesGCM) ID() uint16 { return a.id }
func (a aesGCM) Nk() int    { return a.nk }
func (aesGCM) Nn() int      { return 12 }
func (aesGCM) Nt() int      { return 16 }

func (a aesGCM) New(key []byte) (cipher.AEAD, error) {
	if l := len(key); l != a.nk {
		return nil, fmt.Errorf("aead: bad key length: %d, expected %d", l, a.nk)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aead: failed to initialize AES-GCM: %w", err)
	}
	return cipher.NewGCM(block)
}

type chachaPoly struct{}

func (chachaPoly) ID() uint16 { return 0x0003 }
func (chachaPoly) Nk() int    { return chacha20poly1305.KeySize }
func (chachaPoly) Nn() int    { return chacha20poly1305.NonceSize }
func (chachaPoly) Nt() int    { return chacha20poly1305.Overhead }

func (chachaPoly) New(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.New(key)
}
