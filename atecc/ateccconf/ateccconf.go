// Package ateccconf reads and writes the ATECC configuration zone.
//
// The configuration zone is a 128 byte binary structure. The first 16 bytes
// are fixed by the factory and cannot be written.
package ateccconf

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Default608 is the provisioning template for ATECC608A.
//
// First 16 bytes as expected from a normal configuration is not included.
// These are fixed by the factory.
var Default608 = []byte{
	0x6a, 0x00, 0x00, 0x01, 0x85, 0x00, 0x82, 0x00, 0x85, 0x20, 0x85, 0x20, 0x85, 0x20, 0xc6, 0x46,
	0x8f, 0x0f, 0x9f, 0x8f, 0x0f, 0x0f, 0x8f, 0x0f, 0x0f, 0x0f, 0x0f, 0x0f, 0x0f, 0x0f, 0x0f, 0x0f,
	0x0d, 0x1f, 0x0f, 0x0f, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0xf7, 0x00, 0x69, 0x76, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x55, 0x55, 0xff, 0xff, 0x0e, 0x60, 0x00, 0x00, 0x00, 0x00,
	0x53, 0x00, 0x53, 0x00, 0x73, 0x00, 0x73, 0x00, 0x73, 0x00, 0x38, 0x00, 0x7c, 0x00, 0x1c, 0x00,
	0x3c, 0x00, 0x1a, 0x00, 0x3c, 0x00, 0x30, 0x00, 0x3c, 0x00, 0x30, 0x00, 0x12, 0x00, 0x30, 0x00,
}

// DefaultConfig608 returns the provisioning template as a parsed config.
func DefaultConfig608() *Config608 {
	var conf Config608
	err := UnmarshalPartial(Default608, PermanentOffset608, &conf)
	if err != nil {
		panic(err)
	}
	return &conf
}

const (
	// ChipModeOffset is the byte offset within the configuration zone
	ChipModeOffset = 19

	// PermanentOffset608 is the device offset which cannot be written to.
	PermanentOffset608 = 16

	LockOffsetBlock = 2
	LockOffsetWord  = 5

	// LockOffset is the byte offset to the lock bytes.
	//
	// Note: this offset is bigger than one block size.
	LockOffset = LockOffsetBlock*32 + LockOffsetWord*4

	// SlotLockedOffset is the byte offset to the slot lock bitmap.
	SlotLockedOffset = 88
)

type ClockDivider uint8

const (
	// ClockDividerM0 is high speed.
	ClockDividerM0 = ClockDivider(0x00 >> 3)
	ClockDividerM1 = ClockDivider(0x28 >> 3)
	ClockDividerM2 = ClockDivider(0x68 >> 3)
)

func (c ClockDivider) String() string {
	switch c {
	case ClockDividerM0:
		return "m0"
	case ClockDividerM1:
		return "m1"
	case ClockDividerM2:
		return "m2"
	default:
		return "unknown"
	}
}

type ChipMode608 struct {
	// Bits consists of:
	// * UserExtraAdd     1
	//   1 Alternate I2C address mode is enabled
	// * TTLenable        1
	//   0 I/O's use Fixed Reference mode
	// * WatchdogDuration 1
	//   0 Watchdog Time is set to 1.3s
	// * ClockDivider     5
	Bits uint8
}

func (cm ChipMode608) UserExtraAdd() bool {
	return cm.Bits&0x01 != 0
}

func (cm ChipMode608) TTLEnabled() bool {
	return (cm.Bits & 0x02) != 0
}

func (cm ChipMode608) WatchdogDuration() bool {
	return (cm.Bits & 0x04) != 0
}

func (cm ChipMode608) ClockDivider() ClockDivider {
	return ClockDivider(cm.Bits & 0xf8 >> 3)
}

type LockState byte

const (
	// LockStateLocked indicates a locked zone.
	LockStateLocked = LockState(0x00)
	// LockStateUnlocked indicates an unlocked zone.
	LockStateUnlocked = LockState(0x55)
)

func (m LockState) IsLocked() bool {
	return m != LockStateUnlocked
}

func (m LockState) String() string {
	switch m {
	case LockStateLocked:
		return "locked"
	case LockStateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// SlotLocked is the per slot lock bitmap.
type SlotLocked uint16

func (l SlotLocked) IsLocked(slot int) bool {
	if slot >= 16 {
		panic("slot locked contains only 16 slots")
	}
	return int(l)&(1<<slot) == 0
}

type SlotConfig struct {
	// Bits1 consists of
	// * ReadKey (4)
	// * NoMac (1)
	// * LimitedUse (1)
	// * EncryptRead (1)
	// * IsSecret (1)
	Bits1 byte
	// Bits2 consists of
	// * WriteKey (4)
	// * WriteConfig (4)
	Bits2 byte
}

func (sc SlotConfig) IsSecret() bool {
	return sc.Bits1&0x80 != 0
}

type KeyConfig struct {
	// Bits1 consists of
	// * Private           1
	// * PubInfo           1
	// * KeyType           3
	// * Lockable          1
	// * ReqRandom         1
	// * ReqAuth           1
	Bits1 byte
	// Bits2 consists of
	// * AuthKey           4
	// * PersistentDisable 1
	// * RFU               1
	// * X509id            2
	Bits2 byte
}

func (kc KeyConfig) Private() bool {
	return kc.Bits1&0x01 != 0
}

// Config608 represents the configuration used in ATECC608 devices.
//
// Fields the driver does not interpret are kept as raw bytes.
type Config608 struct {
	SN03                  [4]byte
	RevNum                [4]byte
	SN48                  [5]byte
	AESEnable             byte
	I2CEnable             byte
	Reserved15            byte
	I2CAddress            byte
	Reserved17            byte
	CountMatch            byte
	ChipMode              ChipMode608
	SlotConfig            [16]SlotConfig
	Counter               [2][8]byte
	UseLock               byte
	VolatileKeyPermission byte
	SecureBoot            [2]byte
	KdfIvLoc              byte
	KdfIvStr              [2]byte
	Reserved68            [9]byte
	UserExtra             byte
	UserExtraAdd          byte

	// LockValue indicates if the data zone has been locked.
	LockValue LockState
	// LockConfig indicates if the config zone has been locked.
	LockConfig LockState

	SlotLocked  SlotLocked
	ChipOptions [2]byte
	X509Format  [4]byte
	KeyConfig   [16]KeyConfig
}

func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	err := binary.Write(&buf, binary.BigEndian, v)
	return buf.Bytes(), err
}

func Unmarshal(config []byte, data any) error {
	r := bytes.NewReader(config)
	return binary.Read(r, binary.BigEndian, data)
}

// UnmarshalPartial unmarshals a config fragment found at offset.
//
// The fragment is zero padded on both sides to the full config size before
// unmarshaling.
func UnmarshalPartial(config []byte, offset int, data any) error {
	var size int
	switch data.(type) {
	case *Config608:
		size = PermanentOffset608 + len(Default608)
	default:
		return errors.New("atecc: unsupported config")
	}

	pad := []byte{0x0}
	c := bytes.Repeat(pad, offset)
	c = append(c, config...)
	if len(c) > size {
		return errors.New("atecc: config exceeds maximum size")
	}
	c = append(c, bytes.Repeat(pad, size-len(c))...)
	return Unmarshal(c, data)
}
