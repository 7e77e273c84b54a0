package shell

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// clearWriteSlot is the slot used by the clear write and read test.
//
// Slot 8 is the largest slot (416 bytes) and is commonly configured for
// clear text storage of certificates or signatures.
const clearWriteSlot = 8

// testDigest is the 32 byte digest signed by the key tests.
var testDigest = sha256.Sum256([]byte("device self test digest"))

// SelfTest runs the built-in test sequence against the device.
//
// The sequence stops at the first failure and returns its error. Tests that
// need a locked config or data zone report the missing lock as a failure
// instead of exercising undefined device behavior.
func (s *Shell) SelfTest(ctx context.Context) error {
	fmt.Fprintln(s.out, "Running tests...")

	if err := s.testSHA256(ctx); err != nil {
		return err
	}

	// Key slots only behave according to their configuration once the
	// config zone is locked.
	locked, err := s.se.IsConfigZoneLocked(ctx)
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("config zone is not locked, run write_lock_config first")
	}

	if err := s.testGenerateImport(ctx); err != nil {
		return err
	}
	if err := s.testExportImport(ctx); err != nil {
		return err
	}
	if err := s.testSignVerify(ctx); err != nil {
		return err
	}
	if err := s.testSignHostVerify(ctx); err != nil {
		return err
	}

	// Clear text reads require a locked data zone.
	locked, err = s.se.IsDataZoneLocked(ctx)
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("data zone is not locked, run lock_data first")
	}

	if err := s.testWriteReadSlot(ctx); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "All tests successful.")
	return nil
}

// testSHA256 compares device digests against host digests for a short
// message and the empty message.
func (s *Shell) testSHA256(ctx context.Context) error {
	for _, input := range []string{"abc", ""} {
		want := sha256.Sum256([]byte(input))
		got, err := s.se.SHA256(ctx, []byte(input))
		if err != nil {
			return fmt.Errorf("sha256 test: %w", err)
		}
		if !bytes.Equal(got, want[:]) {
			return fmt.Errorf("sha256 test: digest mismatch for input %q", input)
		}
	}
	fmt.Fprintln(s.out, "SHA-256 test successful.")
	return nil
}

// testGenerateImport generates a key pair and imports the returned public
// key into the public key slot.
func (s *Shell) testGenerateImport(ctx context.Context) error {
	pub, err := s.se.GenerateKey(ctx, s.session.PrivateSlot)
	if err != nil {
		return fmt.Errorf("generate and import test: %w", err)
	}
	if err := s.se.ImportPublicKey(ctx, s.session.PublicSlot, pub); err != nil {
		return fmt.Errorf("generate and import test: %w", err)
	}
	fmt.Fprintln(s.out, "Generate and import test successful.")
	return nil
}

// testExportImport recomputes the public key from the private key slot and
// imports it into the public key slot.
func (s *Shell) testExportImport(ctx context.Context) error {
	pub, err := s.se.PublicKey(ctx, s.session.PrivateSlot)
	if err != nil {
		return fmt.Errorf("export and import test: %w", err)
	}
	if err := s.se.ImportPublicKey(ctx, s.session.PublicSlot, pub); err != nil {
		return fmt.Errorf("export and import test: %w", err)
	}
	fmt.Fprintln(s.out, "Export and import test successful.")
	return nil
}

// testSignVerify signs a digest with the private key slot and verifies the
// signature on the device against the imported public key.
func (s *Shell) testSignVerify(ctx context.Context) error {
	sig, err := s.se.Sign(ctx, s.session.PrivateSlot, testDigest[:])
	if err != nil {
		return fmt.Errorf("sign and verify test: %w", err)
	}
	ok, err := s.se.Verify(ctx, s.session.PublicSlot, testDigest[:], sig)
	if err != nil {
		return fmt.Errorf("sign and verify test: %w", err)
	}
	if !ok {
		return errors.New("sign and verify test: signature did not verify")
	}
	fmt.Fprintln(s.out, "Sign and verify test successful.")
	return nil
}

// testSignHostVerify signs a digest on the device and verifies the
// signature on the host with the exported public key.
func (s *Shell) testSignHostVerify(ctx context.Context) error {
	sig, err := s.se.Sign(ctx, s.session.PrivateSlot, testDigest[:])
	if err != nil {
		return fmt.Errorf("sign and host verify test: %w", err)
	}
	pub, err := s.se.PublicKey(ctx, s.session.PrivateSlot)
	if err != nil {
		return fmt.Errorf("sign and host verify test: %w", err)
	}
	if !hostVerify(pub, testDigest[:], sig) {
		return errors.New("sign and host verify test: signature did not verify")
	}
	fmt.Fprintln(s.out, "Sign and host verify test successful.")
	return nil
}

// testWriteReadSlot writes device random data to the clear write slot and
// reads it back.
func (s *Shell) testWriteReadSlot(ctx context.Context) error {
	var data [32]byte
	if _, err := io.ReadFull(s.se.Random(ctx), data[:]); err != nil {
		return fmt.Errorf("write and read test: %w", err)
	}
	if err := s.se.WriteSlot(ctx, clearWriteSlot, data[:]); err != nil {
		return fmt.Errorf("write and read test: %w", err)
	}
	var read [32]byte
	if _, err := s.se.ReadSlot(ctx, clearWriteSlot, read[:]); err != nil {
		return fmt.Errorf("write and read test: %w", err)
	}
	if !bytes.Equal(data[:], read[:]) {
		return errors.New("write and read test: read back data differs")
	}
	fmt.Fprintln(s.out, "Write and read test successful.")
	return nil
}
