// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package hpke

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"math"

	"github.com/filippo-hpke/hpke/internal/kdf"
)

// ErrAuthenticationFailed is returned by AeadCtx.Open when the AEAD tag
// doesn't verify.
var ErrAuthenticationFailed = errors.New("hpke: authentication failed")

// ErrSeqOverflow is returned by AeadCtx.Seal or Open when the per-context
// sequence counter is exhausted.
var ErrSeqOverflow = errors.New("hpke: sequence number overflow")

// AeadCtx is the encryption context produced by the key schedule: an AEAD
// key, a base nonce, a monotonic sequence counter, and an exporter secret.
// It is the sole owner of that key material.
//
// An AeadCtx is single-owner and not safe for concurrent Seal/Open calls,
// since seq mutates on every call; concurrent use must be externally
// serialized. Two contexts derived from independent setups never share
// state and may be used in parallel.
type AeadCtx struct {
	kdf kdf.KDF

	key            []byte
	baseNonce      []byte
	exporterSecret []byte

	seq    uint64
	maxSeq uint64

	sealer cipher.AEAD
}

func newAeadCtx(kd kdf.KDF, sealer cipher.AEAD, key, baseNonce, exporterSecret []byte) *AeadCtx {
	return &AeadCtx{
		kdf:            kd,
		key:            key,
		baseNonce:      baseNonce,
		exporterSecret: exporterSecret,
		maxSeq:         maxSeqForNonce(len(baseNonce)),
		sealer:         sealer,
	}
}

// maxSeqForNonce returns 2^(8*nn) - 1, saturating at math.MaxUint64 for any
// nn of 8 bytes or more (true of every registered AEAD, whose Nn is 12):
// the 64-bit seq counter can never reach a genuine 96-bit overflow, so the
// bound collapses to "the counter itself is exhausted".
func maxSeqForNonce(nn int) uint64 {
	bits := nn * 8
	if bits >= 64 {
		return math.MaxUint64
	}
	return (uint64(1) << uint(bits)) - 1
}

// nonceFor XORs the base nonce with the big-endian encoding of seq, per
// section 4.6: nonce = base_nonce XOR encode_big_endian(seq, Nn). Since Nn
// is always >= 8 for the registered AEADs, seq is encoded into the low 8
// bytes of the Nn-byte buffer; the high bytes of base_nonce pass through
// unchanged.
func (c *AeadCtx) nonceFor(seq uint64) []byte {
	nonce := make([]byte, len(c.baseNonce))
	copy(nonce, c.baseNonce)
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	off := len(nonce) - 8
	for i := 0; i < 8; i++ {
		nonce[off+i] ^= seqBytes[i]
	}
	return nonce
}

// Seal encrypts and authenticates plaintext under aad, returning
// ciphertext || tag, and advances the sequence counter.
func (c *AeadCtx) Seal(aad, plaintext []byte) ([]byte, error) {
	if c.seq == c.maxSeq {
		return nil, ErrSeqOverflow
	}
	nonce := c.nonceFor(c.seq)
	ct := c.sealer.Seal(nil, nonce, plaintext, aad)
	c.seq++
	return ct, nil
}

// Open authenticates and decrypts a ciphertext || tag produced by Seal. The
// sequence counter advances whether or not authentication succeeds, so that
// sender and receiver stay in lockstep under a lossy channel where opens can
// fail independently of seals (see SPEC_FULL.md section 9 for the locked
// rationale).
func (c *AeadCtx) Open(aad, ciphertext []byte) ([]byte, error) {
	if c.seq == c.maxSeq {
		return nil, ErrSeqOverflow
	}
	nonce := c.nonceFor(c.seq)
	pt, err := c.sealer.Open(nil, nonce, ciphertext, aad)
	c.seq++
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return pt, nil
}

// Export derives an application-chosen secret of the given length from the
// context's exporter secret, independent of seq and the AEAD key.
func (c *AeadCtx) Export(exporterContext []byte, length int) []byte {
	return kdf.LabeledExpand(c.kdf, c.exporterSecret, []byte("sec"), exporterContext, length)
}

// Seq returns the current sequence counter, mostly useful for tests
// asserting sender/receiver lockstep.
func (c *AeadCtx) Seq() uint64 { return c.seq }
