// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package encoding provides the raw-base64 key encoding used by cmd/hpke
// to print and parse keys on the command line.
package encoding

import (
	"encoding/base64"
	"errors"
	"strings"
)

var b64 = base64.RawStdEncoding.Strict()

// DecodeString decodes s, rejecting embedded newlines so that a key pasted
// with accidental line breaks fails loudly instead of silently truncating.
func DecodeString(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\n\r") {
		return nil, errors.New("unexpected newline character")
	}
	return b64.DecodeString(s)
}

// EncodeToString is the unpadded standard-base64 encoding used for every
// key cmd/hpke prints.
var EncodeToString = b64.EncodeToString
