package shell

import (
	"context"
	"crypto"
	"io"
)

// SecureElement is the capability set the shell needs from a device.
//
// *atecc.Dev implements this interface. Tests use a fake.
type SecureElement interface {
	// SerialNumber returns the 9 byte device serial number.
	SerialNumber(ctx context.Context) ([]byte, error)

	// ReadConfigZone reads the complete configuration zone.
	ReadConfigZone(ctx context.Context) ([]byte, error)

	// WriteConfigZone writes a full configuration zone image.
	WriteConfigZone(ctx context.Context, data []byte) error

	// IsConfigZoneLocked reports whether the configuration zone is locked.
	IsConfigZoneLocked(ctx context.Context) (bool, error)

	// IsDataZoneLocked reports whether the data/OTP zone is locked.
	IsDataZoneLocked(ctx context.Context) (bool, error)

	// IsSlotLocked reports whether the data slot is individually locked.
	IsSlotLocked(ctx context.Context, slot uint8) (bool, error)

	// LockConfigZone irreversibly locks the configuration zone.
	LockConfigZone(ctx context.Context) error

	// LockDataZone irreversibly locks the data/OTP zone.
	LockDataZone(ctx context.Context) error

	// GenerateKey generates a private key in the slot, returning the public key.
	GenerateKey(ctx context.Context, slot uint8) (crypto.PublicKey, error)

	// PublicKey computes the public key for the private key in the slot.
	PublicKey(ctx context.Context, slot uint8) (crypto.PublicKey, error)

	// ImportPublicKey writes a public key into a data slot.
	ImportPublicKey(ctx context.Context, slot uint8, pub crypto.PublicKey) error

	// Sign signs a 32 byte digest with the private key in the slot.
	//
	// The returned signature is ASN.1 encoded.
	Sign(ctx context.Context, slot uint8, digest []byte) ([]byte, error)

	// Verify verifies an ASN.1 signature against the public key in the slot.
	Verify(ctx context.Context, slot uint8, digest, sig []byte) (bool, error)

	// SHA256 computes a SHA-256 digest on the device.
	SHA256(ctx context.Context, msg []byte) ([]byte, error)

	// Random returns a reader producing device random data.
	Random(ctx context.Context) io.Reader

	// ReadSlot reads len(p) clear text bytes from the start of a data slot.
	ReadSlot(ctx context.Context, slot uint8, p []byte) (int, error)

	// WriteSlot writes clear text bytes to the start of a data slot.
	WriteSlot(ctx context.Context, slot uint8, p []byte) error
}
