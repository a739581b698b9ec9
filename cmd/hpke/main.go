// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Command hpke is a small CLI over the hpke package: generate a key pair,
// seal a message to a recipient, and open a sealed message back.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/filippo-hpke/hpke"
	"github.com/filippo-hpke/hpke/internal/encoding"
	"github.com/filippo-hpke/hpke/internal/logger"
)

const usage = `Usage:
    hpke -keygen [-suite NAME]
    hpke -seal -r RECIPIENT [-suite NAME] [-info STRING] [-auth IDENTITY] [-o OUTPUT] [INPUT]
    hpke -open -i IDENTITY [-suite NAME] [-info STRING] [-auth-pub RECIPIENT] [-o OUTPUT] [INPUT]

Options:
    -keygen               Generate a fresh key pair for -suite and print it.
    -seal                 Seal the input to the output for -r.
    -open                 Open the input, sealed by -seal, to the output.
    -suite NAME            Cipher suite (default "x25519-sha256-chachapoly").
    -r RECIPIENT           Base64-encoded recipient public key.
    -i IDENTITY            Base64-encoded recipient private key.
    -auth IDENTITY         Authenticate the seal with this sender private key.
    -auth-pub RECIPIENT    Verify the open against this sender public key.
    -info STRING           Application info string bound into the key schedule.
    -o OUTPUT              Write the result to the file at path OUTPUT.

INPUT defaults to standard input, OUTPUT defaults to standard output.

A sealed message is the length-prefixed encapsulated key followed by the
ciphertext; -open expects exactly that framing on its input.`

var suites = map[string]*hpke.Suite{
	"x25519-sha256-aes128gcm":  hpke.X25519Sha256AES128GCM,
	"x25519-sha256-aes256gcm":  hpke.X25519Sha256AES256GCM,
	"x25519-sha256-chachapoly": hpke.X25519Sha256ChaCha20Poly1305,
	"x25519-sha384-aes128gcm":  hpke.X25519Sha384AES128GCM,
	"x25519-sha384-aes256gcm":  hpke.X25519Sha384AES256GCM,
	"x25519-sha384-chachapoly": hpke.X25519Sha384ChaCha20Poly1305,
	"x25519-sha512-aes128gcm":  hpke.X25519Sha512AES128GCM,
	"x25519-sha512-aes256gcm":  hpke.X25519Sha512AES256GCM,
	"x25519-sha512-chachapoly": hpke.X25519Sha512ChaCha20Poly1305,
}

func main() {
	flag.Usage = func() { fmt.Fprintf(os.Stderr, "%s\n", usage) }

	var (
		keygenFlag, sealFlag, openFlag bool
		suiteFlag                      string
		recipientFlag, identityFlag    string
		authFlag, authPubFlag          string
		infoFlag                       string
		outFlag                        string
	)
	flag.BoolVar(&keygenFlag, "keygen", false, "generate a key pair")
	flag.BoolVar(&sealFlag, "seal", false, "seal the input")
	flag.BoolVar(&openFlag, "open", false, "open the input")
	flag.StringVar(&suiteFlag, "suite", "x25519-sha256-chachapoly", "cipher suite")
	flag.StringVar(&recipientFlag, "r", "", "recipient public key")
	flag.StringVar(&identityFlag, "i", "", "recipient private key")
	flag.StringVar(&authFlag, "auth", "", "sender private key, for authenticated seal")
	flag.StringVar(&authPubFlag, "auth-pub", "", "sender public key, for authenticated open")
	flag.StringVar(&infoFlag, "info", "", "application info string")
	flag.StringVar(&outFlag, "o", "", "output file (default stdout)")
	flag.Parse()

	if flag.NArg() > 1 {
		logger.Global.Errorf("too many arguments: %q", flag.Args())
	}

	suite, ok := suites[suiteFlag]
	if !ok {
		logger.Global.Errorf("unknown suite %q", suiteFlag)
	}

	switch {
	case keygenFlag:
		runKeygen(suite)
	case sealFlag:
		runSeal(suite, recipientFlag, authFlag, infoFlag, inputFile(), outputFile(outFlag))
	case openFlag:
		runOpen(suite, identityFlag, authPubFlag, infoFlag, inputFile(), outputFile(outFlag))
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func inputFile() io.Reader {
	if flag.NArg() == 1 && flag.Arg(0) != "-" {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.Global.Errorf("failed to open input: %v", err)
		}
		return f
	}
	return os.Stdin
}

func outputFile(name string) io.Writer {
	if name == "" || name == "-" {
		return os.Stdout
	}
	f, err := os.Create(name)
	if err != nil {
		logger.Global.Errorf("failed to create output: %v", err)
	}
	return f
}

func runKeygen(suite *hpke.Suite) {
	sk, pk, err := suite.GenerateKeyPair(rand.Reader)
	if err != nil {
		logger.Global.Errorf("failed to generate key pair: %v", err)
	}
	fmt.Printf("public:  %s\n", encoding.EncodeToString(pk))
	fmt.Printf("private: %s\n", encoding.EncodeToString(sk))
}

func runSeal(suite *hpke.Suite, recipientB64, authB64, info string, in io.Reader, out io.Writer) {
	if recipientB64 == "" {
		logger.Global.Errorf("-seal requires -r RECIPIENT")
	}
	pkRecip, err := encoding.DecodeString(recipientB64)
	if err != nil {
		logger.Global.Errorf("invalid recipient key: %v", err)
	}

	mode := hpke.NewOpModeSBase()
	if authB64 != "" {
		skAuth, err := encoding.DecodeString(authB64)
		if err != nil {
			logger.Global.Errorf("invalid auth identity: %v", err)
		}
		mode = hpke.NewOpModeSAuth(skAuth)
	}

	enc, ctx, err := hpke.SetupSender(suite, rand.Reader, pkRecip, mode, []byte(info))
	if err != nil {
		logger.Global.Errorf("setup failed: %v", err)
	}

	plaintext, err := io.ReadAll(in)
	if err != nil {
		logger.Global.Errorf("failed to read input: %v", err)
	}
	ciphertext, err := ctx.Seal(nil, plaintext)
	if err != nil {
		logger.Global.Errorf("seal failed: %v", err)
	}

	w := bufio.NewWriter(out)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(enc)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		logger.Global.Errorf("failed to write output: %v", err)
	}
	if _, err := w.Write(enc); err != nil {
		logger.Global.Errorf("failed to write output: %v", err)
	}
	if _, err := w.Write(ciphertext); err != nil {
		logger.Global.Errorf("failed to write output: %v", err)
	}
	if err := w.Flush(); err != nil {
		logger.Global.Errorf("failed to write output: %v", err)
	}
}

func runOpen(suite *hpke.Suite, identityB64, authPubB64, info string, in io.Reader, out io.Writer) {
	if identityB64 == "" {
		logger.Global.Errorf("-open requires -i IDENTITY")
	}
	skRecip, err := encoding.DecodeString(identityB64)
	if err != nil {
		logger.Global.Errorf("invalid identity key: %v", err)
	}

	mode := hpke.NewOpModeRBase()
	if authPubB64 != "" {
		pkAuth, err := encoding.DecodeString(authPubB64)
		if err != nil {
			logger.Global.Errorf("invalid auth public key: %v", err)
		}
		mode = hpke.NewOpModeRAuth(pkAuth)
	}

	r := bufio.NewReader(in)
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		logger.Global.Errorf("failed to read input header: %v", err)
	}
	enc := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, enc); err != nil {
		logger.Global.Errorf("failed to read encapsulated key: %v", err)
	}
	ciphertext, err := io.ReadAll(r)
	if err != nil {
		logger.Global.Errorf("failed to read ciphertext: %v", err)
	}

	ctx, err := hpke.SetupReceiver(suite, skRecip, mode, enc, []byte(info))
	if err != nil {
		logger.Global.Errorf("setup failed: %v", err)
	}
	plaintext, err := ctx.Open(nil, ciphertext)
	if err != nil {
		logger.Global.Errorf("open failed: %v", err)
	}
	if _, err := out.Write(plaintext); err != nil {
		logger.Global.Errorf("failed to write output: %v", err)
	}
}
