package atecc

import (
	"context"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Word address values selecting the device function on I²C writes.
const (
	wordAddressReset   = 0x00
	wordAddressSleep   = 0x01
	wordAddressIdle    = 0x02
	wordAddressCommand = 0x03
)

// NewI2CDev returns a device that communicates over I²C.
//
// The bus in the configuration stays owned by the caller and must outlive
// the device.
func NewI2CDev(ctx context.Context, cfg IfaceConfig) (*Dev, error) {
	return New(ctx, newHALI2C(cfg), cfg)
}

type halI2C struct {
	dev i2c.Dev
	bus i2c.Bus
	cfg IfaceConfig
}

func newHALI2C(cfg IfaceConfig) *halI2C {
	return &halI2C{
		dev: i2c.Dev{Bus: cfg.I2C.Bus, Addr: cfg.I2C.Address},
		bus: cfg.I2C.Bus,
		cfg: cfg,
	}
}

func (h *halI2C) Wake() error {
	// Addressing 0x00 holds SDA low long enough to generate the wake pulse.
	// The transfer is NACKed, so the error is discarded.
	_ = h.bus.Tx(0x00, []byte{wordAddressReset}, nil)

	time.Sleep(h.cfg.WakeDelay)

	var buf [4]byte
	if err := h.dev.Tx(nil, buf[:]); err != nil {
		return err
	}
	return checkWakeUp(buf[:])
}

func (h *halI2C) Idle() error {
	return h.dev.Tx([]byte{wordAddressIdle}, nil)
}

func (h *halI2C) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+1)
	buf = append(buf, wordAddressCommand)
	buf = append(buf, p...)
	if err := h.dev.Tx(buf, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (h *halI2C) Read(p []byte) (int, error) {
	if err := h.dev.Tx(nil, p); err != nil {
		return 0, err
	}

	// The first byte of the frame is the total frame length.
	n := int(p[0])
	if n > len(p) {
		return 0, errRecvBuffer
	}
	return n, nil
}
