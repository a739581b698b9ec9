// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package hpke

import "github.com/filippo-hpke/hpke/internal/kex"

// PrivateKey and PublicKey are the fixed-length octet key types for the
// library's one registered KEX, X25519.
type PrivateKey = kex.PrivateKey
type PublicKey = kex.PublicKey

// PskBundle is the optional pre-shared-key input to a PSK or AuthPSK mode:
// the PSK itself (whose length must equal the chosen KDF's Nh) and an
// application-chosen identifier for it. Its lifetime is owned by the
// caller, not by the resulting context.
type PskBundle struct {
	PSK   []byte
	PSKID []byte
}

type opModeKind uint8

const (
	modeBase    opModeKind = 0
	modePsk     opModeKind = 1
	modeAuth    opModeKind = 2
	modeAuthPsk opModeKind = 3
)

func (k opModeKind) usesPsk() bool  { return k == modePsk || k == modeAuthPsk }
func (k opModeKind) usesAuth() bool { return k == modeAuth || k == modeAuthPsk }

// mode is the common shape setup and the key schedule need from either an
// OpModeS or an OpModeR: the pieces that feed derive_enc_ctx (section 4.5).
// Which auxiliary inputs are present, and who carries the sender identity
// key as a keypair versus a bare public key, is the only difference between
// the four variants and the sender/receiver sides.
type mode interface {
	ModeID() uint8
	pskBytes(nh int) []byte
	pskID() []byte
}

// OpModeS is the sender-side operation mode: Base carries no extras, Psk
// carries a PskBundle, Auth and AuthPsk carry the sender's own identity
// keypair (only the private half is needed to drive encapsulation; the
// public half is derived from it).
type OpModeS struct {
	kind     opModeKind
	psk      PskBundle
	senderSK PrivateKey
}

func NewOpModeSBase() *OpModeS { return &OpModeS{kind: modeBase} }

func NewOpModeSPsk(psk PskBundle) *OpModeS {
	return &OpModeS{kind: modePsk, psk: psk}
}

func NewOpModeSAuth(senderSK PrivateKey) *OpModeS {
	if len(senderSK) == 0 {
		panic("hpke: NewOpModeSAuth requires a non-empty sender identity key")
	}
	return &OpModeS{kind: modeAuth, senderSK: senderSK}
}

// NewOpModeSAuthPsk builds an authenticated, PSK-bound sender mode.
// Construction is eager: both senderSK and a complete psk are required, or
// this panics as a programming error, per section 4.4.
func NewOpModeSAuthPsk(senderSK PrivateKey, psk PskBundle) *OpModeS {
	if len(senderSK) == 0 || psk.PSK == nil || psk.PSKID == nil {
		panic("hpke: NewOpModeSAuthPsk requires both a sender identity key and a complete PSK bundle")
	}
	return &OpModeS{kind: modeAuthPsk, senderSK: senderSK, psk: psk}
}

func (m *OpModeS) ModeID() uint8 { return uint8(m.kind) }

func (m *OpModeS) pskBytes(nh int) []byte {
	if m.kind.usesPsk() {
		return m.psk.PSK
	}
	return make([]byte, nh)
}

func (m *OpModeS) pskID() []byte {
	if m.kind.usesPsk() {
		return m.psk.PSKID
	}
	return []byte{}
}

// senderIdentityKey returns the sender's private key when the mode is
// authenticated, or nil for Base/Psk.
func (m *OpModeS) senderIdentityKey() PrivateKey {
	if m.kind.usesAuth() {
		return m.senderSK
	}
	return nil
}

// OpModeR is the receiver-side operation mode: identical in shape to
// OpModeS except that Auth and AuthPsk carry only the sender's public key,
// since the receiver has no business holding the sender's private key.
type OpModeR struct {
	kind   opModeKind
	psk    PskBundle
	pkSend PublicKey
}

func NewOpModeRBase() *OpModeR { return &OpModeR{kind: modeBase} }

func NewOpModeRPsk(psk PskBundle) *OpModeR {
	return &OpModeR{kind: modePsk, psk: psk}
}

func NewOpModeRAuth(senderPK PublicKey) *OpModeR {
	if len(senderPK) == 0 {
		panic("hpke: NewOpModeRAuth requires a non-empty sender public key")
	}
	return &OpModeR{kind: modeAuth, pkSend: senderPK}
}

func NewOpModeRAuthPsk(senderPK PublicKey, psk PskBundle) *OpModeR {
	if len(senderPK) == 0 || psk.PSK == nil || psk.PSKID == nil {
		panic("hpke: NewOpModeRAuthPsk requires both a sender public key and a complete PSK bundle")
	}
	return &OpModeR{kind: modeAuthPsk, pkSend: senderPK, psk: psk}
}

func (m *OpModeR) ModeID() uint8 { return uint8(m.kind) }

func (m *OpModeR) pskBytes(nh int) []byte {
	if m.kind.usesPsk() {
		return m.psk.PSK
	}
	return make([]byte, nh)
}

func (m *OpModeR) pskID() []byte {
	if m.kind.usesPsk() {
		return m.psk.PSKID
	}
	return []byte{}
}

// senderPublicKey returns the sender's public key when the mode is
// authenticated, or nil for Base/Psk.
func (m *OpModeR) senderPublicKey() PublicKey {
	if m.kind.usesAuth() {
		return m.pkSend
	}
	return nil
}
