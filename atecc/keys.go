package atecc

import (
	"context"
	"errors"
)

func (d *Dev) generateKey(ctx context.Context, keyId uint8, publicKey []byte) (int, error) {
	return d.genKeyBase(ctx, genKeyModePrivate, keyId, nil, publicKey)
}

func (d *Dev) publicKey(ctx context.Context, keyId uint8, publicKey []byte) (int, error) {
	return d.genKeyBase(ctx, genKeyModePublic, keyId, nil, publicKey)
}

// genKeyBase issues the GenKey command which does various things.
//
// This function generates and executes the GenKey command, which generate a
// private key, compute a public key and/or compute a digest of a public key.
func (d *Dev) genKeyBase(ctx context.Context, mode uint8, keyId uint8, otherData []byte, publicKey []byte) (int, error) {
	command, err := newGenKeyCommand(mode, keyId, otherData)
	if err != nil {
		return 0, err
	}

	var recv [64]byte
	n, err := d.executeResponse(ctx, command, recv[:])
	if err != nil {
		return 0, err
	}

	if publicKey != nil {
		return copy(publicKey, recv[:n]), nil
	} else {
		return 0, nil
	}
}

// sign signs the message using the private key in the specified slot.
//
// This function executes the sign command to sign a 32-byte external message
// using the private key in the specified slot.
//
// The message to be signed will be loaded into the Message Digest Buffer of
// the ATECC608 device or TempKey for other devices.
//
// Signature format is R and S integers in big-endian format. 64 bytes for P256
// curve.
func (d *Dev) sign(ctx context.Context, keyId uint16, msg []byte, sig []byte) (int, error) {
	// make sure RNG has updated its seed
	if _, err := d.random(ctx, nil); err != nil {
		return 0, err
	}

	var (
		target = nonceTargetTempKey
		source = signSourceTempKey
	)
	if d.cfg.DeviceType == DeviceATECC608 {
		target = nonceTargetMsgDigBuf
		source = signSourceMsgDigBuf
	}

	if err := d.nonceLoad(ctx, target, msg); err != nil {
		return 0, err
	}
	return d.signBase(ctx, signModeExternal, source, keyId, sig)
}

// signBase executes the Sign command, which generates a signature using the
// ECDSA algorithm.
func (d *Dev) signBase(ctx context.Context, mode signMode, source signSource, keyId uint16, sig []byte) (int, error) {
	if sig == nil {
		return 0, errors.New("atecc: signature buffer was nil")
	}

	command, err := newSignCommand(mode, source, keyId)
	if err != nil {
		return 0, err
	}

	return d.executeResponse(ctx, command, sig)
}

// verifyStored verifies a signature against a public key stored in a slot.
//
// Executes the Verify command in stored mode, which verifies a signature
// (ECDSA verify operation) against the public key held in the given slot.
//
// The message will be loaded into the Message Digest Buffer of the ATECC608
// device or TempKey for other devices.
func (d *Dev) verifyStored(ctx context.Context, keyId uint16, msg, sig []byte) (bool, error) {
	if msg == nil || sig == nil {
		return false, errors.New("atecc: expected message and signature")
	}

	var (
		target = nonceTargetTempKey
		source = verifySourceTempKey
	)
	if d.cfg.DeviceType == DeviceATECC608 {
		target = nonceTargetMsgDigBuf
		source = verifySourceMsgDigBuf
	}

	if err := d.nonceLoad(ctx, target, msg); err != nil {
		return false, err
	}

	command, err := newVerifyCommand(verifyModeStored, source, keyId, sig, nil)
	if err != nil {
		return false, err
	}
	err = d.execute(ctx, command)
	if errors.Is(err, errCheckMacVerifyFailed) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// random executes the random command, which generates a 32 byte random number.
func (d *Dev) random(ctx context.Context, dst []byte) (int, error) {
	command, err := newRandomCommand(randomModeUpdateSeed)
	if err != nil {
		return 0, err
	}

	var recv [32]byte
	n, err := d.executeResponse(ctx, command, recv[:])
	if err != nil {
		return 0, err
	} else if n != 32 {
		return 0, errors.New("atecc: unexpected random response size")
	}

	if dst != nil {
		return copy(dst, recv[:]), nil
	} else {
		return 0, nil
	}
}

func (d *Dev) nonceLoad(ctx context.Context, target nonceTarget, numIn []byte) error {
	if numIn == nil {
		return errors.New("atecc: requires input for nonce")
	}

	command, err := newNonceCommand(nonceModePassthrough, target, 0, numIn)
	if err != nil {
		return err
	}
	return d.execute(ctx, command)
}
