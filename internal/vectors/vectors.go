// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package vectors decodes the draft-02 known-answer-test JSON format, so
// hpke_vectors_test.go can be run against the official test file without
// hardcoding any vector bytes into the module.
package vectors

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hexBytes decodes like a []byte, but tolerates the odd-length hex strings
// the draft-02 vector file emits for single-nibble leading zeroes.
type hexBytes []byte

func (h *hexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) == 0 {
		*h = nil
		return nil
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("vectors: invalid hex string %q: %w", s, err)
	}
	*h = b
	return nil
}

// Encryption is one seal/open known-answer pair under a Vector's context.
type Encryption struct {
	Plaintext  hexBytes `json:"plaintext"`
	AAD        hexBytes `json:"aad"`
	Nonce      hexBytes `json:"nonce"`
	Ciphertext hexBytes `json:"ciphertext"`
}

// Export is one exporter-secret known-answer pair under a Vector's context.
type Export struct {
	Context     hexBytes `json:"context"`
	ExportLen   int      `json:"exportLength"`
	ExportValue hexBytes `json:"exportValue"`
}

// Vector is a single draft-02 test case: a cipher suite, op mode, and
// keying material, the values the key schedule should derive from them,
// and a list of encryption and export known-answer pairs run against the
// resulting context.
type Vector struct {
	Mode   uint8  `json:"mode"`
	KEMID  uint16 `json:"kemID"`
	KDFID  uint16 `json:"kdfID"`
	AEADID uint16 `json:"aeadID"`

	Info hexBytes `json:"info"`

	SkRecip hexBytes `json:"skR"`
	SkSender hexBytes `json:"skS"`
	SkEph   hexBytes `json:"skE"`
	PSK     hexBytes `json:"psk"`
	PSKID   hexBytes `json:"pskID"`

	PkRecip  hexBytes `json:"pkR"`
	PkSender hexBytes `json:"pkS"`
	PkEph    hexBytes `json:"pkE"`

	Enc            hexBytes `json:"enc"`
	SharedSecret   hexBytes `json:"zz"`
	Context        hexBytes `json:"context"`
	Secret         hexBytes `json:"secret"`
	Key            hexBytes `json:"key"`
	Nonce          hexBytes `json:"nonce"`
	ExporterSecret hexBytes `json:"exporterSecret"`

	Encryptions []Encryption `json:"encryptions"`
	Exports     []Export     `json:"exports"`
}

// Parse decodes a draft-02 test-vector JSON file (a top-level array of
// test cases, as produced by the reference implementation's test suite).
func Parse(data []byte) ([]Vector, error) {
	var vectors []Vector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("vectors: failed to parse test vectors: %w", err)
	}
	return vectors, nil
}

// ModeBase, ModePsk, ModeAuth, and ModeAuthPsk are the four op-mode
// identifiers used by the Mode field, matching the registry in section 4.4.
const (
	ModeBase = iota
	ModePsk
	ModeAuth
	ModeAuthPsk
)
