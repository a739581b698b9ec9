// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package kdf

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

func newHashSHA256() hash.Hash { return sha256.New() }
func newHashSHA384() hash.Hash { return sha512.New384() }
func newHashSHA512() hash.Hash { return sha512.New() }
