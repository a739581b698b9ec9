// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package hpke

import (
	"bytes"
	"crypto/rand"
	"testing"
)

var allSuites = map[string]*Suite{
	"x25519-sha256-aes128gcm":  X25519Sha256AES128GCM,
	"x25519-sha256-aes256gcm":  X25519Sha256AES256GCM,
	"x25519-sha256-chachapoly": X25519Sha256ChaCha20Poly1305,
	"x25519-sha384-aes128gcm":  X25519Sha384AES128GCM,
	"x25519-sha384-aes256gcm":  X25519Sha384AES256GCM,
	"x25519-sha384-chachapoly": X25519Sha384ChaCha20Poly1305,
	"x25519-sha512-aes128gcm":  X25519Sha512AES128GCM,
	"x25519-sha512-aes256gcm":  X25519Sha512AES256GCM,
	"x25519-sha512-chachapoly": X25519Sha512ChaCha20Poly1305,
}

// modePair builds a matching sender/receiver OpMode pair for the given
// kind, generating a fresh sender identity key and PSK bundle as needed.
func modePair(t *testing.T, s *Suite, kind opModeKind) (*OpModeS, *OpModeR) {
	t.Helper()
	switch kind {
	case modeBase:
		return NewOpModeSBase(), NewOpModeRBase()
	case modePsk:
		psk := PskBundle{PSK: randBytes(t, s.KDF.Nh()), PSKID: []byte("example psk id")}
		return NewOpModeSPsk(psk), NewOpModeRPsk(psk)
	case modeAuth:
		senderSK, senderPK, err := s.KEM.Kex().GenerateKeyPair(rand.Reader)
		if err != nil {
			t.Fatalf("generating sender identity key: %v", err)
		}
		return NewOpModeSAuth(senderSK), NewOpModeRAuth(senderPK)
	case modeAuthPsk:
		senderSK, senderPK, err := s.KEM.Kex().GenerateKeyPair(rand.Reader)
		if err != nil {
			t.Fatalf("generating sender identity key: %v", err)
		}
		psk := PskBundle{PSK: randBytes(t, s.KDF.Nh()), PSKID: []byte("example psk id")}
		return NewOpModeSAuthPsk(senderSK, psk), NewOpModeRAuthPsk(senderPK, psk)
	default:
		t.Fatalf("unknown mode kind %d", kind)
		return nil, nil
	}
}

func randBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return b
}

func ctxEqual(a, b *AeadCtx) bool {
	return bytes.Equal(a.key, b.key) &&
		bytes.Equal(a.baseNonce, b.baseNonce) &&
		bytes.Equal(a.exporterSecret, b.exporterSecret) &&
		a.seq == b.seq
}

// TestSetupCorrectness checks, for every registered cipher suite and every
// operation mode, that SetupSender and SetupReceiver derive byte-equal
// contexts, that Seal/Open round-trip and keep seq in lockstep, and that
// Export produces identical output on both sides. This is section 8's
// round-trip/correctness property.
func TestSetupCorrectness(t *testing.T) {
	info := []byte("why would you think in a million years that that would actually work")

	for suiteName, suite := range allSuites {
		suite := suite
		t.Run(suiteName, func(t *testing.T) {
			skRecip, pkRecip, err := suite.KEM.Kex().GenerateKeyPair(rand.Reader)
			if err != nil {
				t.Fatalf("generating recipient key: %v", err)
			}

			for _, kind := range []opModeKind{modeBase, modePsk, modeAuth, modeAuthPsk} {
				kind := kind
				t.Run(modeName(kind), func(t *testing.T) {
					senderMode, recipMode := modePair(t, suite, kind)

					enc, ctx1, err := SetupSender(suite, rand.Reader, pkRecip, senderMode, info)
					if err != nil {
						t.Fatalf("SetupSender: %v", err)
					}
					ctx2, err := SetupReceiver(suite, skRecip, recipMode, enc, info)
					if err != nil {
						t.Fatalf("SetupReceiver: %v", err)
					}

					if !ctxEqual(ctx1, ctx2) {
						t.Fatal("sender and receiver contexts are not byte-equal")
					}

					plaintext := []byte("Beauty is truth, truth beauty")
					ct, err := ctx1.Seal(nil, plaintext)
					if err != nil {
						t.Fatalf("Seal: %v", err)
					}
					pt, err := ctx2.Open(nil, ct)
					if err != nil {
						t.Fatalf("Open: %v", err)
					}
					if !bytes.Equal(pt, plaintext) {
						t.Fatalf("opened plaintext %q != sealed plaintext %q", pt, plaintext)
					}
					if ctx1.Seq() != ctx2.Seq() {
						t.Fatalf("seq counters diverged: sender=%d receiver=%d", ctx1.Seq(), ctx2.Seq())
					}

					exp1 := ctx1.Export([]byte("export test"), 32)
					exp2 := ctx2.Export([]byte("export test"), 32)
					if !bytes.Equal(exp1, exp2) {
						t.Fatal("exporter secrets disagree between sender and receiver")
					}
				})
			}
		})
	}
}

func modeName(k opModeKind) string {
	switch k {
	case modeBase:
		return "base"
	case modePsk:
		return "psk"
	case modeAuth:
		return "auth"
	case modeAuthPsk:
		return "authpsk"
	default:
		return "unknown"
	}
}

// TestSetupSoundness checks that a receiver context built with a different
// info, secret key, or encapped key diverges from the sender's context.
func TestSetupSoundness(t *testing.T) {
	suite := X25519Sha256ChaCha20Poly1305
	info := []byte("why would you think in a million years that that would actually work")

	skRecip, pkRecip, err := suite.KEM.Kex().GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("generating recipient key: %v", err)
	}
	senderMode, recipMode := modePair(t, suite, modeBase)

	enc, ctx1, err := SetupSender(suite, rand.Reader, pkRecip, senderMode, info)
	if err != nil {
		t.Fatalf("SetupSender: %v", err)
	}

	t.Run("different info", func(t *testing.T) {
		ctx2, err := SetupReceiver(suite, skRecip, recipMode, enc, []byte("something else"))
		if err != nil {
			t.Fatalf("SetupReceiver: %v", err)
		}
		if ctxEqual(ctx1, ctx2) {
			t.Fatal("contexts should differ with mismatched info")
		}
	})

	t.Run("different secret key", func(t *testing.T) {
		badSK, _, err := suite.KEM.Kex().GenerateKeyPair(rand.Reader)
		if err != nil {
			t.Fatalf("generating bad key: %v", err)
		}
		ctx2, err := SetupReceiver(suite, badSK, recipMode, enc, info)
		if err != nil {
			t.Fatalf("SetupReceiver: %v", err)
		}
		if ctxEqual(ctx1, ctx2) {
			t.Fatal("contexts should differ with mismatched secret key")
		}
	})

	t.Run("different encapped key", func(t *testing.T) {
		badEnc, _, err := SetupSender(suite, rand.Reader, pkRecip, senderMode, info)
		if err != nil {
			t.Fatalf("SetupSender: %v", err)
		}
		ctx2, err := SetupReceiver(suite, skRecip, recipMode, badEnc, info)
		if err != nil {
			t.Fatalf("SetupReceiver: %v", err)
		}
		if ctxEqual(ctx1, ctx2) {
			t.Fatal("contexts should differ with mismatched encapped key")
		}
	})

	t.Run("authentication failure on tampered info", func(t *testing.T) {
		ctx2, err := SetupReceiver(suite, skRecip, recipMode, enc, []byte("something else"))
		if err != nil {
			t.Fatalf("SetupReceiver: %v", err)
		}
		ct, err := ctx1.Seal(nil, []byte("hello"))
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		if _, err := ctx2.Open(nil, ct); err == nil {
			t.Fatal("expected Open to fail with mismatched info")
		} else if err != ErrAuthenticationFailed {
			t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
		}
	})
}

// TestEncapWithEphDeterminism checks that setupSenderWithEph called with
// identical inputs produces identical encapped keys and contexts.
func TestEncapWithEphDeterminism(t *testing.T) {
	suite := X25519Sha256AES128GCM
	info := []byte("deterministic test")

	skRecip, pkRecip, err := suite.KEM.Kex().GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("generating recipient key: %v", err)
	}
	skE, _, err := suite.KEM.Kex().GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("generating ephemeral key: %v", err)
	}
	mode := NewOpModeSBase()

	enc1, ctx1, err := setupSenderWithEph(suite, pkRecip, mode, skE, info)
	if err != nil {
		t.Fatalf("setupSenderWithEph: %v", err)
	}
	enc2, ctx2, err := setupSenderWithEph(suite, pkRecip, mode, skE, info)
	if err != nil {
		t.Fatalf("setupSenderWithEph: %v", err)
	}

	if !bytes.Equal(enc1, enc2) {
		t.Fatal("encapped keys differ across identical EncapWithEph calls")
	}
	if !ctxEqual(ctx1, ctx2) {
		t.Fatal("contexts differ across identical EncapWithEph calls")
	}

	recipMode := NewOpModeRBase()
	ctx3, err := SetupReceiver(suite, skRecip, recipMode, enc1, info)
	if err != nil {
		t.Fatalf("SetupReceiver: %v", err)
	}
	if !ctxEqual(ctx1, ctx3) {
		t.Fatal("receiver context should match the deterministic sender context")
	}
}

// TestSeqIncrementsOnFailedOpen locks in the chosen resolution to the
// spec's open question: seq advances on every Open call, successful or
// not, so sender and receiver stay in lockstep even across dropped or
// corrupted messages.
func TestSeqIncrementsOnFailedOpen(t *testing.T) {
	suite := X25519Sha256AES128GCM
	info := []byte("seq test")

	skRecip, pkRecip, err := suite.KEM.Kex().GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("generating recipient key: %v", err)
	}
	enc, ctx1, err := SetupSender(suite, rand.Reader, pkRecip, NewOpModeSBase(), info)
	if err != nil {
		t.Fatalf("SetupSender: %v", err)
	}
	ctx2, err := SetupReceiver(suite, skRecip, NewOpModeRBase(), enc, info)
	if err != nil {
		t.Fatalf("SetupReceiver: %v", err)
	}

	ct, err := ctx1.Seal(nil, []byte("message"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	tampered := append([]byte{}, ct...)
	tampered[0] ^= 0xFF

	before := ctx2.Seq()
	if _, err := ctx2.Open(nil, tampered); err != ErrAuthenticationFailed {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if ctx2.Seq() != before+1 {
		t.Fatalf("seq did not advance on failed open: before=%d after=%d", before, ctx2.Seq())
	}
}
