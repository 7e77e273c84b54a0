package atecc

import (
	"context"
	"errors"
)

// sha256 computes a SHA-256 digest on the device.
//
// The message is streamed to the device in 64 byte blocks using the SHA
// command. The End mode returns the 32 byte digest.
func (d *Dev) sha256(ctx context.Context, msg []byte, digest []byte) (int, error) {
	if len(digest) < 32 {
		return 0, errors.New("atecc: digest buffer too small")
	}

	command, err := newSHACommand(shaModeStart, 0, nil)
	if err != nil {
		return 0, err
	}
	if err := d.execute(ctx, command); err != nil {
		return 0, err
	}

	rest := msg
	for len(rest) >= shaBlockSize {
		command, err := newSHACommand(shaModeUpdate, shaBlockSize, rest[:shaBlockSize])
		if err != nil {
			return 0, err
		}
		if err := d.execute(ctx, command); err != nil {
			return 0, err
		}
		rest = rest[shaBlockSize:]
	}

	command, err = newSHACommand(shaModeEnd, uint16(len(rest)), rest)
	if err != nil {
		return 0, err
	}

	n, err := d.executeResponse(ctx, command, digest[:32])
	if err != nil {
		return 0, err
	} else if n != 32 {
		return 0, errors.New("atecc: unexpected digest size")
	}
	return n, nil
}
