// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package hpke

import "github.com/filippo-hpke/hpke/internal/kem"

// ErrInvalidKeyExchange is returned by SetupSender and SetupReceiver when
// the underlying Diffie-Hellman key exchange fails — a malformed peer key,
// or a shared point of low order. It is the only error either function can
// return. ErrAuthenticationFailed and ErrSeqOverflow, the other two errors
// in the library's taxonomy, are defined in context.go alongside AeadCtx,
// the type that returns them.
var ErrInvalidKeyExchange = kem.ErrInvalidKeyExchange
