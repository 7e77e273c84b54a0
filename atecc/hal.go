package atecc

import "errors"

type HAL interface {
	// Read reads up to len(p) bytes into p from the device.
	Read(p []byte) (int, error)
	// Write writes len(p) bytes from p to the device.
	Write(p []byte) (int, error)
	// Idle puts the device into idle state.
	Idle() error
	// Wake wakes the device up.
	Wake() error
}

// checkWakeUp validates the device response after a wake pulse.
//
// A woken device answers with a 4 byte frame where the status byte is the
// wake successful code.
func checkWakeUp(data []byte) error {
	if len(data) < 2 {
		return errors.New("atecc: short wake response")
	}

	err := validateResponseStatusCode(data[1:2])
	if errors.Is(err, errWakeSuccessful) {
		return nil
	} else if err != nil {
		return err
	}
	return errors.New("atecc: unexpected wake response")
}
