// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package hpke

import "io"

// SetupSender initiates an encryption context to pkRecip under the given
// Suite and operation mode. If mode carries a sender identity key (Auth or
// AuthPsk), encapsulation is authenticated. It returns the encapsulated key
// to send to the recipient alongside the context, or ErrInvalidKeyExchange
// if the KEX step fails — the only error this function can return.
func SetupSender(s *Suite, rnd io.Reader, pkRecip PublicKey, mode *OpModeS, info []byte) (enc []byte, ctx *AeadCtx, err error) {
	sharedSecret, enc, err := s.KEM.Encap(rnd, pkRecip, mode.senderIdentityKey())
	if err != nil {
		return nil, nil, err
	}
	return enc, deriveEncCtx(s, mode, sharedSecret, info), nil
}

// SetupReceiver initiates an encryption context given the recipient's
// private key and the encapsulated key produced by SetupSender. If mode
// carries a sender public key (Auth or AuthPsk), decapsulation verifies the
// sender's identity contribution. Returns ErrInvalidKeyExchange if the KEX
// step fails — the only error this function can return.
func SetupReceiver(s *Suite, skRecip PrivateKey, mode *OpModeR, enc, info []byte) (*AeadCtx, error) {
	sharedSecret, err := s.KEM.Decap(skRecip, mode.senderPublicKey(), enc)
	if err != nil {
		return nil, err
	}
	return deriveEncCtx(s, mode, sharedSecret, info), nil
}

// setupSenderWithEph is the deterministic counterpart to SetupSender used
// by the known-answer tests: it takes the ephemeral private key directly
// instead of drawing one from an RNG, so a fixed input always reproduces
// the test vector's enc value. Production code must use SetupSender.
func setupSenderWithEph(s *Suite, pkRecip PublicKey, mode *OpModeS, skE PrivateKey, info []byte) (enc []byte, ctx *AeadCtx, err error) {
	sharedSecret, enc, err := s.KEM.EncapWithEph(pkRecip, mode.senderIdentityKey(), skE)
	if err != nil {
		return nil, nil, err
	}
	return enc, deriveEncCtx(s, mode, sharedSecret, info), nil
}
