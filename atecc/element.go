package atecc

import (
	"context"
	"crypto"
	"fmt"
	"io"
)

// Revision gets the device revision.
//
// This information is hard coded into the device. Use it to determine the
// version of the device.
func (d *Dev) Revision(ctx context.Context) ([]byte, error) {
	var recv [4]byte
	p, err := newInfoCommand(infoModeRevision)
	if err != nil {
		return nil, err
	}
	n, err := d.executeResponse(ctx, p, recv[:])
	return recv[:n], err
}

// SerialNumber returns the serial number of the device.
//
// The returned serial number will be 9 bytes.
func (d *Dev) SerialNumber(ctx context.Context) ([]byte, error) {
	return d.serialNumber(ctx)
}

// ReadConfigZone reads the complete device configuration zone.
func (d *Dev) ReadConfigZone(ctx context.Context) ([]byte, error) {
	var buf [zoneSizeConfig]byte
	n, err := d.readConfigZone(ctx, buf[:])
	return buf[:n], err
}

// WriteConfigZone writes the data into the config zone.
//
// The permanent manufacture header is skipped, and UserExtra and UserExtraAdd
// are written through the UpdateExtra command once all other data was written
// successfully.
func (d *Dev) WriteConfigZone(ctx context.Context, data []byte) error {
	_, err := d.writeConfigZone(ctx, data)
	return err
}

// IsConfigZoneLocked returns true if the configuration zone is locked.
func (d *Dev) IsConfigZoneLocked(ctx context.Context) (bool, error) {
	conf, err := d.readLockBytes(ctx)
	if err != nil {
		return false, err
	}
	return conf.LockConfig.IsLocked(), nil
}

// IsDataZoneLocked returns true if the data zone is locked.
func (d *Dev) IsDataZoneLocked(ctx context.Context) (bool, error) {
	conf, err := d.readLockBytes(ctx)
	if err != nil {
		return false, err
	}
	return conf.LockValue.IsLocked(), nil
}

// IsSlotLocked returns true if the given data slot is individually locked.
func (d *Dev) IsSlotLocked(ctx context.Context, slot uint8) (bool, error) {
	conf, err := d.readSlotLockBytes(ctx)
	if err != nil {
		return false, err
	}
	return conf.SlotLocked.IsLocked(int(slot)), nil
}

// LockConfigZone locks the configuration zone.
//
// Warning: this is irreversible!
func (d *Dev) LockConfigZone(ctx context.Context) error {
	return d.lockConfigZone(ctx)
}

// LockDataZone locks the data/OTP zone.
//
// Warning: this is irreversible!
func (d *Dev) LockDataZone(ctx context.Context) error {
	return d.lockDataZone(ctx)
}

// GenerateKey generates a new random private key in the slot and returns the
// corresponding public key.
func (d *Dev) GenerateKey(ctx context.Context, slot uint8) (crypto.PublicKey, error) {
	var pk [64]byte
	n, err := d.generateKey(ctx, slot, pk[:])
	if err != nil {
		return nil, err
	} else if n != 64 {
		return nil, fmt.Errorf("atecc: unexpected public key size: %d", n)
	}
	return rawPublicKey(pk[:])
}

// PublicKey computes the public key for the private key in the slot.
func (d *Dev) PublicKey(ctx context.Context, slot uint8) (crypto.PublicKey, error) {
	var pk [64]byte
	n, err := d.publicKey(ctx, slot, pk[:])
	if err != nil {
		return nil, err
	} else if n != 64 {
		return nil, fmt.Errorf("atecc: unexpected public key size: %d", n)
	}
	return rawPublicKey(pk[:])
}

// ImportPublicKey writes a public key into a data slot.
//
// Only slots 9 to 15 are large enough to hold a public key in the padded
// storage format. The data zone needs to allow clear writes to the slot.
func (d *Dev) ImportPublicKey(ctx context.Context, slot uint8, pub crypto.PublicKey) error {
	pk, err := publicKeyRaw(pub)
	if err != nil {
		return err
	}
	_, err = d.writeBytesZone(ctx, ZoneData, uint16(slot), 0, publicKeySlotBytes(pk))
	return err
}

// Sign signs the digest using the private key in the specified slot.
//
// This function executes the sign command to sign a 32-byte external digest
// using the private key in the specified slot. It returns the ASN.1 encoded
// signature.
func (d *Dev) Sign(ctx context.Context, slot uint8, digest []byte) ([]byte, error) {
	var sig [64]byte
	n, err := d.sign(ctx, uint16(slot), digest, sig[:])
	if err != nil {
		return nil, err
	} else if n != 64 {
		return nil, fmt.Errorf("atecc: unexpected signature size: %d", n)
	}
	return encodeASN1Signature(sig[:])
}

// Verify verifies a signature using the public key stored in the slot.
//
// The signature provided is expected to be in ASN.1 format.
func (d *Dev) Verify(ctx context.Context, slot uint8, digest, sig []byte) (bool, error) {
	raw, err := decodeASN1Signature(sig)
	if err != nil {
		return false, err
	}
	return d.verifyStored(ctx, uint16(slot), digest, raw[:])
}

// SHA256 computes a SHA-256 digest of msg on the device.
func (d *Dev) SHA256(ctx context.Context, msg []byte) ([]byte, error) {
	var digest [32]byte
	_, err := d.sha256(ctx, msg, digest[:])
	if err != nil {
		return nil, err
	}
	return digest[:], nil
}

// Random returns a random reader.
//
// The underlying reader reads 32 byte random data from the device at a time.
//
// Use io.ReadFull to fill a buffer.
func (d *Dev) Random(ctx context.Context) io.Reader {
	return &randReader{ctx, d}
}

// ReadSlot reads len(p) bytes in the clear from the start of a data slot.
func (d *Dev) ReadSlot(ctx context.Context, slot uint8, p []byte) (int, error) {
	return d.readBytesZone(ctx, ZoneData, uint16(slot), 0, p)
}

// WriteSlot writes p in the clear to the start of a data slot.
//
// The length must be a multiple of the word size.
func (d *Dev) WriteSlot(ctx context.Context, slot uint8, p []byte) error {
	_, err := d.writeBytesZone(ctx, ZoneData, uint16(slot), 0, p)
	return err
}

type randReader struct {
	ctx context.Context
	d   *Dev
}

func (r *randReader) Read(b []byte) (int, error) {
	return r.d.random(r.ctx, b)
}
