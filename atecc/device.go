package atecc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/northvolt/go-atecc-provision/atecc/ateccconf"
)

// DeviceType represents a physical device type.
type DeviceType int

const (
	DeviceATECC608 DeviceType = iota
)

func (dt DeviceType) String() string {
	switch dt {
	case DeviceATECC608:
		return "ATECC608"
	default:
		return "unknown"
	}
}

// DeviceTypeFromInfo returns the device type based on the info byte array.
func DeviceTypeFromInfo(revision []byte) (DeviceType, error) {
	if len(revision) < 3 {
		return 0, errors.New("atecc: device type revision too small")
	}
	switch revision[2] {
	case 0x60:
		return DeviceATECC608, nil
	default:
		return 0, errors.New("atecc: unknown device revision")
	}
}

type deviceState int

const (
	deviceStateUnknown deviceState = iota
	deviceStateIdle
	deviceStateActive
)

// Zone is a configuration zone.
type Zone uint8

// Configuration zones.
const (
	ZoneConfig Zone = 0x00
	ZoneOTP    Zone = 0x01
	ZoneData   Zone = 0x02
)

const (
	zoneSizeConfig = 128
	zoneSizeOTP    = 64
)

func getZoneSize(zone Zone, slot uint16) (int, error) {
	switch zone {
	case ZoneConfig:
		return zoneSizeConfig, nil
	case ZoneOTP:
		return zoneSizeOTP, nil
	case ZoneData:
		if slot < 8 {
			return 36, nil
		} else if slot == 8 {
			return 416, nil
		} else if slot < 16 {
			return 72, nil
		} else {
			return 0, errors.New("atecc: invalid slot received")
		}
	default:
		return 0, errors.New("atecc: invalid zone received")
	}
}

const (
	deviceExecutionTime608M0 = iota
	deviceExecutionTime608M1
	deviceExecutionTime608M2
)

// deviceExecutionTimes holds execution times for device supported commands.
var deviceExecutionTimes = []map[uint8]time.Duration{
	// ATECC608-M0
	{
		atcaAES:         27 * time.Millisecond,
		atcaCheckMac:    40 * time.Millisecond,
		atcaCounter:     25 * time.Millisecond,
		atcaDeriveKey:   50 * time.Millisecond,
		atcaECDH:        75 * time.Millisecond,
		atcaGenDig:      25 * time.Millisecond,
		atcaGenKey:      115 * time.Millisecond,
		atcaInfo:        5 * time.Millisecond,
		atcaKDF:         165 * time.Millisecond,
		atcaLock:        35 * time.Millisecond,
		atcaMAC:         55 * time.Millisecond,
		atcaNonce:       20 * time.Millisecond,
		atcaPrivWrite:   50 * time.Millisecond,
		atcaRandom:      23 * time.Millisecond,
		atcaRead:        5 * time.Millisecond,
		atcaSecureBoot:  80 * time.Millisecond,
		atcaSelfTest:    250 * time.Millisecond,
		atcaSHA:         36 * time.Millisecond,
		atcaSign:        115 * time.Millisecond,
		atcaUpdateExtra: 10 * time.Millisecond,
		atcaVerify:      105 * time.Millisecond,
		atcaWrite:       45 * time.Millisecond,
	},

	// ATECC608-M1
	{
		atcaAES:         27 * time.Millisecond,
		atcaCheckMac:    40 * time.Millisecond,
		atcaCounter:     25 * time.Millisecond,
		atcaDeriveKey:   50 * time.Millisecond,
		atcaECDH:        172 * time.Millisecond,
		atcaGenDig:      35 * time.Millisecond,
		atcaGenKey:      215 * time.Millisecond,
		atcaInfo:        5 * time.Millisecond,
		atcaKDF:         165 * time.Millisecond,
		atcaLock:        35 * time.Millisecond,
		atcaMAC:         55 * time.Millisecond,
		atcaNonce:       20 * time.Millisecond,
		atcaPrivWrite:   50 * time.Millisecond,
		atcaRandom:      23 * time.Millisecond,
		atcaRead:        5 * time.Millisecond,
		atcaSecureBoot:  160 * time.Millisecond,
		atcaSelfTest:    625 * time.Millisecond,
		atcaSHA:         42 * time.Millisecond,
		atcaSign:        220 * time.Millisecond,
		atcaUpdateExtra: 10 * time.Millisecond,
		atcaVerify:      295 * time.Millisecond,
		atcaWrite:       45 * time.Millisecond,
	},
	// ATECC608-M2
	{
		atcaAES:         27 * time.Millisecond,
		atcaCheckMac:    40 * time.Millisecond,
		atcaCounter:     25 * time.Millisecond,
		atcaDeriveKey:   50 * time.Millisecond,
		atcaECDH:        531 * time.Millisecond,
		atcaGenDig:      35 * time.Millisecond,
		atcaGenKey:      653 * time.Millisecond,
		atcaInfo:        5 * time.Millisecond,
		atcaKDF:         165 * time.Millisecond,
		atcaLock:        35 * time.Millisecond,
		atcaMAC:         55 * time.Millisecond,
		atcaNonce:       20 * time.Millisecond,
		atcaPrivWrite:   50 * time.Millisecond,
		atcaRandom:      23 * time.Millisecond,
		atcaRead:        5 * time.Millisecond,
		atcaSecureBoot:  480 * time.Millisecond,
		atcaSelfTest:    2324 * time.Millisecond,
		atcaSHA:         75 * time.Millisecond,
		atcaSign:        665 * time.Millisecond,
		atcaUpdateExtra: 10 * time.Millisecond,
		atcaVerify:      1085 * time.Millisecond,
		atcaWrite:       45 * time.Millisecond,
	},
}

func getDeviceExecutionTime(dt DeviceType, div ateccconf.ClockDivider) (map[uint8]time.Duration, error) {
	switch dt {
	case DeviceATECC608:
		switch div {
		case ateccconf.ClockDividerM0:
			return deviceExecutionTimes[deviceExecutionTime608M0], nil
		case ateccconf.ClockDividerM1:
			return deviceExecutionTimes[deviceExecutionTime608M1], nil
		case ateccconf.ClockDividerM2:
			return deviceExecutionTimes[deviceExecutionTime608M2], nil
		default:
			return nil, errors.New("atecc: unknown clock divider")
		}
	default:
		return nil, errors.New("atecc: unknown execution time for device")
	}
}

func getExecutionTime(dt DeviceType, div ateccconf.ClockDivider, opcode uint8) (time.Duration, error) {
	executionTimes, err := getDeviceExecutionTime(dt, div)
	if err != nil {
		return 0, err
	}

	if t, ok := executionTimes[opcode]; !ok {
		return 0, errors.New("atecc: unknown execution time for op")
	} else {
		return t, nil
	}
}

// Dev is a handle to an ATECC device.
type Dev struct {
	hal   HAL
	state deviceState
	cfg   IfaceConfig
	enc   packetEncoder
	log   Logger

	clockDivider ateccconf.ClockDivider
}

// New returns a new ATECC device using the supplied HAL for communication.
func New(ctx context.Context, hal HAL, cfg IfaceConfig) (*Dev, error) {
	d := &Dev{
		hal:   hal,
		state: deviceStateUnknown,
		cfg:   cfg,
		log:   getLogger(cfg),
	}
	d.hal = &halDebug{"ecc", getLogger(cfg), d.hal}
	return d, d.init(ctx)
}

func (d *Dev) init(ctx context.Context) error {
	var buf [1]byte
	_, err := d.readBytesZone(ctx, ZoneConfig, 0, ateccconf.ChipModeOffset, buf[:])
	if err != nil {
		return err
	}

	var conf ateccconf.Config608
	err = ateccconf.UnmarshalPartial(buf[:], ateccconf.ChipModeOffset, &conf)
	if err != nil {
		return err
	}

	d.clockDivider = conf.ChipMode.ClockDivider()
	return nil
}

// execute executes the command and returns any error encountered.
func (d *Dev) execute(ctx context.Context, p *packet) error {
	var buf [1]byte
	_, err := d.executeResponse(ctx, p, buf[:])
	return err
}

// executeResponse executes the command and returns bytes written and error.
//
// The command is encoded and transfered to the device. It returns the number
// of bytes read into recv together with any error encountered.
func (d *Dev) executeResponse(ctx context.Context, p *packet, recv []byte) (int, error) {
	b, err := d.enc.Encode(p)
	if err != nil {
		return 0, err
	}

	// send the command to the device
	for i := -1; i < d.cfg.RxRetries; i++ {
		if d.state != deviceStateActive {
			if err = d.hal.Wake(); err == nil {
				d.state = deviceStateActive
			}
		}

		if _, err = d.hal.Write(b); err == nil {
			d.state = deviceStateActive
			break
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(d.cfg.WakeDelay):
		}
	}
	if err != nil {
		return 0, err
	}

	// Put device back into idle mode once finished. This function is called even
	// if we would encounter a panic.
	defer func() {
		_ = d.hal.Idle()
		d.state = deviceStateIdle
	}()

	// wait for the operation to finish
	t, err := getExecutionTime(d.cfg.DeviceType, d.clockDivider, p.opcode)
	if err != nil {
		return 0, err
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(t):
	}

	// make room for 1 byte size and 2 byte crc
	buf := make([]byte, len(recv)+3)
	size, err := d.hal.Read(buf[:])
	if err != nil {
		if errors.Is(err, errRecvBuffer) {
			fmt.Fprintf(os.Stderr, "atecc: receive buffer overflowed\n")
			debug.PrintStack()
		}

		return 0, err
	}

	if len(buf) == 0 {
		return 0, errors.New("atecc: no response")
	} else if len(buf) < 4 {
		return 0, errors.New("atecc: receive failed")
	}

	// response is 1 byte size, payload and 2 bytes crc
	sizedResponse, crc := buf[0:size-2], buf[size-2:]
	if crc16(sizedResponse) != binary.LittleEndian.Uint16(crc) {
		return 0, errors.New("atecc: received crc missmatch")
	}

	// error responses are always 4 bytes long
	if size == 4 {
		if err = validateResponseStatusCode(sizedResponse[1:]); err != nil {
			if d.log != nullLogger {
				d.log.Printf("invalid status code: %v\n", err)
				d.log.Printf("%s", string(debug.Stack()))
			}
			return 0, err
		}
	}

	return copy(recv, sizedResponse[1:]), nil
}
