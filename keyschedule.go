// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package hpke

import (
	"encoding/binary"

	"github.com/filippo-hpke/hpke/internal/kdf"
)

// deriveEncCtx is the KeySchedule function from draft-02 section 6.1: it
// runs the labeled KDF over the cipher-suite identifiers, the op-mode, the
// shared secret, and the application info, and produces the AEAD context
// the sender and receiver will independently but identically arrive at.
//
// Every label byte here (pskID_hash, info, psk_hash, zz, key, nonce, exp)
// is load-bearing — see SPEC_FULL.md and DESIGN.md for why these exact
// bytes, not a later draft's, are what this library reproduces.
func deriveEncCtx(s *Suite, m mode, sharedSecret, info []byte) *AeadCtx {
	nh := s.KDF.Nh()
	zeros := kdf.Zero(nh)

	// context = kem_id || kdf_id || aead_id || mode_id || pskID_hash || info_hash
	ctx := make([]byte, 0, 2+2+2+1+2*nh)
	ctx = append(ctx, be16(s.KEM.ID())...)
	ctx = append(ctx, be16(s.KDF.ID())...)
	ctx = append(ctx, be16(s.AEAD.ID())...)
	ctx = append(ctx, m.ModeID())

	pskIDHash := kdf.LabeledExtract(s.KDF, zeros, []byte("pskID_hash"), m.pskID())
	infoHash := kdf.LabeledExtract(s.KDF, zeros, []byte("info"), info)
	ctx = append(ctx, pskIDHash...)
	ctx = append(ctx, infoHash...)

	extractedPsk := kdf.LabeledExtract(s.KDF, zeros, []byte("psk_hash"), m.pskBytes(nh))
	secretPrk := kdf.LabeledExtract(s.KDF, extractedPsk, []byte("zz"), sharedSecret)

	key := kdf.LabeledExpand(s.KDF, secretPrk, []byte("key"), ctx, s.AEAD.Nk())
	baseNonce := kdf.LabeledExpand(s.KDF, secretPrk, []byte("nonce"), ctx, s.AEAD.Nn())
	exporterSecret := kdf.LabeledExpand(s.KDF, secretPrk, []byte("exp"), ctx, nh)

	sealer, err := s.AEAD.New(key)
	if err != nil {
		// Nk is a compile-time constant of the chosen AEAD; a key of the
		// wrong length here would mean the AEAD registry itself is wrong.
		panic("hpke: internal error: failed to initialize AEAD with a correctly sized key: " + err.Error())
	}

	return newAeadCtx(s.KDF, sealer, key, baseNonce, exporterSecret)
}

func be16(v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b[:]
}
