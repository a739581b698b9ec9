// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package kdf defines the HKDF-based key derivation primitive and the
// labeled Extract/Expand wrappers that bind every KDF call in the HPKE
// transcript to the protocol's draft-02 version tag.
package kdf

import (
	"encoding/binary"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KDF is HKDF over a fixed hash function, identified by a 16-bit KDF_ID and
// producing Nh()-byte outputs from Extract.
type KDF interface {
	ID() uint16
	Nh() int

	// Extract and Expand are the unlabeled HKDF-Extract/HKDF-Expand
	// primitives. Every call site in this library goes through
	// LabeledExtract/LabeledExpand instead; these are exposed so other
	// packages (and tests) can exercise HKDF directly.
	Extract(salt, ikm []byte) []byte
	Expand(prk, info []byte, length int) ([]byte, error)
}

type hkdfKDF struct {
	newHash func() hash.Hash
	id      uint16
	nh      int
}

var (
	HKDFSHA256 KDF = hkdfKDF{newHashSHA256, 0x0001, 32}
	HKDFSHA384 KDF = hkdfKDF{newHashSHA384, 0x0002, 48}
	HKDFSHA512 KDF = hkdfKDF{newHashSHA512, 0x0003, 64}
)

func (k hkdfKDF) ID() uint16 { return k.id }
func (k hkdfKDF) Nh() int    { return k.nh }

func (k hkdfKDF) Extract(salt, ikm []byte) []byte {
	return hkdf.Extract(k.newHash, ikm, salt)
}

// maxExpandFactor is the HKDF-Expand limit of 255 hash blocks of output.
const maxExpandFactor = 255

func (k hkdfKDF) Expand(prk, info []byte, length int) ([]byte, error) {
	if length > maxExpandFactor*k.nh {
		return nil, fmt.Errorf("kdf: requested output length %d exceeds %d*Nh", length, maxExpandFactor)
	}
	out := make([]byte, length)
	r := hkdf.Expand(k.newHash, prk, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("kdf: expand failed: %w", err)
	}
	return out, nil
}

// Zero returns a fresh all-zero buffer of length n, used as the salt for
// every top-level LabeledExtract call in the key schedule and KEM.
func Zero(n int) []byte {
	return make([]byte, n)
}

// versionLabel is the draft-02 HPKE version tag mixed into every labeled
// Extract/Expand call. This is load-bearing: it must match byte-for-byte
// what the draft-02 known-answer-test vectors were generated against.
var versionLabel = []byte("RFCXXXX ")

// LabeledExtract implements the draft-02 LabeledExtract:
//
//	LabeledExtract(salt, label, ikm) = Extract(salt, "RFCXXXX " || label || ikm)
func LabeledExtract(k KDF, salt, label, ikm []byte) []byte {
	labeledIKM := make([]byte, 0, len(versionLabel)+len(label)+len(ikm))
	labeledIKM = append(labeledIKM, versionLabel...)
	labeledIKM = append(labeledIKM, label...)
	labeledIKM = append(labeledIKM, ikm...)
	return k.Extract(salt, labeledIKM)
}

// LabeledExpand implements the draft-02 LabeledExpand:
//
//	LabeledExpand(prk, label, info, L) = Expand(prk, encode_big_endian(L, 2) || "RFCXXXX " || label || info, L)
//
// The key schedule and the KEM pass compile-time-fixed lengths, so for them
// the only failure mode (L > 255*Nh) is unreachable. AeadCtx.Export passes
// its caller's length through unchanged, so an Export longer than 255*Nh
// reaches it. In every case the error is not returned: LabeledExpand panics.
func LabeledExpand(k KDF, prk, label, info []byte, length int) []byte {
	labeledInfo := make([]byte, 0, 2+len(versionLabel)+len(label)+len(info))
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(length))
	labeledInfo = append(labeledInfo, lenBuf[:]...)
	labeledInfo = append(labeledInfo, versionLabel...)
	labeledInfo = append(labeledInfo, label...)
	labeledInfo = append(labeledInfo, info...)

	out, err := k.Expand(prk, labeledInfo, length)
	if err != nil {
		panic("kdf: internal error: " + err.Error())
	}
	return out
}
