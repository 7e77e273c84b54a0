package atecc

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// pubKeySlotSize is the size of a public key stored in a data slot.
//
// Slots store public keys as 72 bytes: 4 pad bytes, the X coordinate,
// 4 pad bytes and the Y coordinate.
const pubKeySlotSize = 72

func rawPublicKey(pk []byte) (crypto.PublicKey, error) {
	if len(pk) != 64 {
		return nil, errors.New("atecc: unexpected public key size")
	}
	var x, y big.Int
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     x.SetBytes(pk[:32]),
		Y:     y.SetBytes(pk[32:]),
	}, nil
}

func publicKeyRaw(pub crypto.PublicKey) ([64]byte, error) {
	var pk [64]byte
	switch pub := pub.(type) {
	case *ecdsa.PublicKey:
		pub.X.FillBytes(pk[:32])
		pub.Y.FillBytes(pk[32:])
		return pk, nil
	default:
		return pk, errors.New("atecc: unsupported public key")
	}
}

// publicKeySlotBytes pads a raw public key into the data slot storage format.
func publicKeySlotBytes(pk [64]byte) []byte {
	buf := make([]byte, pubKeySlotSize)
	copy(buf[4:36], pk[:32])
	copy(buf[40:72], pk[32:])
	return buf
}

// encodeASN1Signature encodes a raw R||S signature as an ASN.1 sequence.
func encodeASN1Signature(sig []byte) ([]byte, error) {
	if len(sig) != 64 {
		return nil, errors.New("atecc: unexpected signature size")
	}
	var r, s big.Int
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r.SetBytes(sig[:32]))
		b.AddASN1BigInt(s.SetBytes(sig[32:]))
	})
	return b.Bytes()
}

// decodeASN1Signature decodes an ASN.1 signature into raw R||S format.
func decodeASN1Signature(sig []byte) ([64]byte, error) {
	var (
		raw   [64]byte
		r, s  = big.Int{}, big.Int{}
		inner cryptobyte.String
	)
	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&r) ||
		!inner.ReadASN1Integer(&s) ||
		!inner.Empty() {
		return raw, errors.New("atecc: invalid signature")
	}
	r.FillBytes(raw[:32])
	s.FillBytes(raw[32:])
	return raw, nil
}
