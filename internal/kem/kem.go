// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package kem implements the HPKE KEM layer: encapsulation and
// decapsulation of a shared secret, built from a KEX and a KDF. Only
// X25519-HKDF-SHA256 (KEM_ID 0x0020) is registered, per the library's
// non-goal of supporting other KEMs.
package kem

import (
	"errors"
	"fmt"
	"io"

	"github.com/filippo-hpke/hpke/internal/kdf"
	"github.com/filippo-hpke/hpke/internal/kex"
)

// ErrInvalidKeyExchange is returned when a KEX operation fails: a malformed
// peer key, or a Diffie-Hellman output that lands on a low-order point. It
// is the only error Encap/Decap (and therefore setup_sender/setup_receiver)
// can return.
var ErrInvalidKeyExchange = errors.New("hpke: invalid key exchange")

// KEM composes a KEX and a KDF into the DH-based HPKE KEM construction.
type KEM struct {
	id  uint16
	kex kex.KEX
	kdf kdf.KDF
	nzz int
}

// X25519HKDFSHA256 is the only registered KEM, identified by KEM_ID 0x0020.
var X25519HKDFSHA256 = &KEM{
	id:  0x0020,
	kex: kex.X25519,
	kdf: kdf.HKDFSHA256,
	nzz: 32,
}

func (k *KEM) ID() uint16    { return k.id }
func (k *KEM) Npk() int      { return k.kex.PointSize() }
func (k *KEM) Nsk() int      { return k.kex.ScalarSize() }
func (k *KEM) Nzz() int      { return k.nzz }
func (k *KEM) Kex() kex.KEX  { return k.kex }

// Encap draws a fresh ephemeral key pair and performs encapsulation to
// pkRecip. If senderSK is non-nil, the encapsulation is authenticated: the
// sender's static Diffie-Hellman contribution is folded into the shared
// secret, tying the ciphertext to the sender's identity.
func (k *KEM) Encap(rnd io.Reader, pkRecip kex.PublicKey, senderSK kex.PrivateKey) (sharedSecret, enc []byte, err error) {
	skE, _, err := k.kex.GenerateKeyPair(rnd)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
	}
	return k.EncapWithEph(pkRecip, senderSK, skE)
}

// EncapWithEph performs encapsulation using a caller-supplied ephemeral
// private key, instead of one drawn from an RNG. It exists to let the
// known-answer tests reproduce a fixed enc value; production code should
// call Encap.
func (k *KEM) EncapWithEph(pkRecip kex.PublicKey, senderSK kex.PrivateKey, skE kex.PrivateKey) (sharedSecret, enc []byte, err error) {
	pkE, err := k.kex.SkToPk(skE)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
	}

	dh, err := k.kex.DH(skE, pkRecip)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
	}

	enc = k.kex.Marshal(pkE)
	kemContext := append(append([]byte{}, enc...), k.kex.Marshal(pkRecip)...)
	ikm := dh

	if senderSK != nil {
		pkSender, err := k.kex.SkToPk(senderSK)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
		}
		dh2, err := k.kex.DH(senderSK, pkRecip)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
		}
		ikm = append(append([]byte{}, ikm...), dh2...)
		kemContext = append(kemContext, k.kex.Marshal(pkSender)...)
	}

	return k.deriveSharedSecret(ikm, kemContext), enc, nil
}

// Decap is the mirror of Encap, run from the recipient's side. pkSenderID
// must be non-nil iff the encapsulation was authenticated.
func (k *KEM) Decap(skRecip kex.PrivateKey, pkSenderID kex.PublicKey, enc []byte) (sharedSecret []byte, err error) {
	pkE, err := k.kex.Unmarshal(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
	}
	dh, err := k.kex.DH(skRecip, pkE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
	}
	pkRecip, err := k.kex.SkToPk(skRecip)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
	}

	kemContext := append(append([]byte{}, enc...), k.kex.Marshal(pkRecip)...)
	ikm := dh

	if pkSenderID != nil {
		dh2, err := k.kex.DH(skRecip, pkSenderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeyExchange, err)
		}
		ikm = append(append([]byte{}, ikm...), dh2...)
		kemContext = append(kemContext, k.kex.Marshal(pkSenderID)...)
	}

	return k.deriveSharedSecret(ikm, kemContext), nil
}

// deriveSharedSecret implements the KEM's extract-then-expand derivation of
// the shared secret from the Diffie-Hellman output(s) and the kem_context
// transcript (enc || recipient pubkey || optional sender pubkey).
func (k *KEM) deriveSharedSecret(dh, kemContext []byte) []byte {
	eaePrk := kdf.LabeledExtract(k.kdf, kdf.Zero(k.kdf.Nh()), []byte("dh"), dh)
	return kdf.LabeledExpand(k.kdf, eaePrk, []byte("prk"), kemContext, k.nzz)
}
