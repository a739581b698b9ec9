// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package kdf_test

import (
	"bytes"
	"testing"

	"github.com/filippo-hpke/hpke/internal/kdf"
)

var all = map[string]kdf.KDF{
	"sha256": kdf.HKDFSHA256,
	"sha384": kdf.HKDFSHA384,
	"sha512": kdf.HKDFSHA512,
}

func TestExpandProducesRequestedLength(t *testing.T) {
	for name, k := range all {
		k := k
		t.Run(name, func(t *testing.T) {
			prk := k.Extract(nil, []byte("ikm"))
			for _, l := range []int{1, 16, k.Nh(), 3 * k.Nh()} {
				out, err := k.Expand(prk, []byte("info"), l)
				if err != nil {
					t.Fatalf("Expand(%d): %v", l, err)
				}
				if len(out) != l {
					t.Fatalf("Expand(%d) returned %d bytes", l, len(out))
				}
			}
		})
	}
}

func TestExpandRejectsOversizedLength(t *testing.T) {
	k := kdf.HKDFSHA256
	prk := k.Extract(nil, []byte("ikm"))
	if _, err := k.Expand(prk, []byte("info"), 256*k.Nh()); err == nil {
		t.Fatal("expected Expand to reject a length beyond 255*Nh")
	}
}

func TestLabeledExtractBindsLabelAndIKM(t *testing.T) {
	k := kdf.HKDFSHA256
	zeros := kdf.Zero(k.Nh())

	a := kdf.LabeledExtract(k, zeros, []byte("zz"), []byte("shared secret"))
	b := kdf.LabeledExtract(k, zeros, []byte("psk_hash"), []byte("shared secret"))
	if bytes.Equal(a, b) {
		t.Fatal("LabeledExtract produced the same output for different labels")
	}

	c := kdf.LabeledExtract(k, zeros, []byte("zz"), []byte("different secret"))
	if bytes.Equal(a, c) {
		t.Fatal("LabeledExtract produced the same output for different ikm")
	}
}

func TestLabeledExpandBindsLabelAndInfo(t *testing.T) {
	k := kdf.HKDFSHA256
	prk := k.Extract(nil, []byte("secret"))

	a := kdf.LabeledExpand(k, prk, []byte("key"), []byte("context"), 32)
	b := kdf.LabeledExpand(k, prk, []byte("nonce"), []byte("context"), 32)
	if bytes.Equal(a, b) {
		t.Fatal("LabeledExpand produced the same output for different labels")
	}

	c := kdf.LabeledExpand(k, prk, []byte("key"), []byte("different context"), 32)
	if bytes.Equal(a, c) {
		t.Fatal("LabeledExpand produced the same output for different info")
	}
}

func TestZeroLength(t *testing.T) {
	for _, n := range []int{0, 1, 32, 64} {
		z := kdf.Zero(n)
		if len(z) != n {
			t.Fatalf("Zero(%d) returned %d bytes", n, len(z))
		}
		for _, b := range z {
			if b != 0 {
				t.Fatalf("Zero(%d) returned a non-zero byte", n)
			}
		}
	}
}
