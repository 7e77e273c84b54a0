package ateccconf

import (
	"bytes"
	"encoding/hex"
	"reflect"
	"testing"
)

var golden608 = append(
	// 16 first bytes are static inside of the device
	[]byte{
		0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7,
		0x8, 0x9, 0xa, 0xb, 0xc, 0xd, 0xe, 0xf,
	}, Default608...,
)

func TestUnmarshal(t *testing.T) {
	var (
		want = Config608{
			SN03:       [4]byte{0x0, 0x1, 0x2, 0x3},
			RevNum:     [4]byte{0x4, 0x5, 0x6, 0x7},
			SN48:       [5]byte{0x8, 0x9, 0xa, 0xb, 0xc},
			AESEnable:  0xd,
			I2CEnable:  0xe,
			Reserved15: 0xf,

			// Default608...
			I2CAddress: 0x6a,
			Reserved17: 0,
			CountMatch: 0,
			ChipMode:   ChipMode608{Bits: 1},
			SlotConfig: [16]SlotConfig{
				{Bits1: 0x85, Bits2: 0x00},
				{Bits1: 0x82, Bits2: 0x00},
				{Bits1: 0x85, Bits2: 0x20},
				{Bits1: 0x85, Bits2: 0x20},
				{Bits1: 0x85, Bits2: 0x20},
				{Bits1: 0xc6, Bits2: 0x46},
				{Bits1: 0x8f, Bits2: 0x0f},
				{Bits1: 0x9f, Bits2: 0x8f},
				{Bits1: 0x0f, Bits2: 0x0f},
				{Bits1: 0x8f, Bits2: 0x0f},
				{Bits1: 0x0f, Bits2: 0x0f},
				{Bits1: 0x0f, Bits2: 0x0f},
				{Bits1: 0x0f, Bits2: 0x0f},
				{Bits1: 0x0f, Bits2: 0x0f},
				{Bits1: 0x0d, Bits2: 0x1f},
				{Bits1: 0x0f, Bits2: 0x0f},
			},

			Counter: [2][8]byte{
				{0xff, 0xff, 0xff, 0xff, 0x0, 0x0, 0x0, 0x0},
				{0xff, 0xff, 0xff, 0xff, 0x0, 0x0, 0x0, 0x0},
			},

			UseLock:               0x0,
			VolatileKeyPermission: 0x0,
			SecureBoot:            [2]byte{0x3, 0xf7},

			KdfIvLoc:     0x0,
			KdfIvStr:     [2]byte{0x69, 0x76},
			Reserved68:   [9]byte{},
			UserExtra:    0x0,
			UserExtraAdd: 0x0,
			LockValue:    LockStateUnlocked,
			LockConfig:   LockStateUnlocked,
			SlotLocked:   0xffff,
			ChipOptions:  [2]byte{0xe, 0x60},
			X509Format:   [4]byte{},
			KeyConfig: [16]KeyConfig{
				{Bits1: 0x53, Bits2: 0x0},
				{Bits1: 0x53, Bits2: 0x0},
				{Bits1: 0x73, Bits2: 0x0},
				{Bits1: 0x73, Bits2: 0x0},
				{Bits1: 0x73, Bits2: 0x0},
				{Bits1: 0x38, Bits2: 0x0},
				{Bits1: 0x7c, Bits2: 0x0},
				{Bits1: 0x1c, Bits2: 0x0},
				{Bits1: 0x3c, Bits2: 0x0},
				{Bits1: 0x1a, Bits2: 0x0},
				{Bits1: 0x3c, Bits2: 0x0},
				{Bits1: 0x30, Bits2: 0x0},
				{Bits1: 0x3c, Bits2: 0x0},
				{Bits1: 0x30, Bits2: 0x0},
				{Bits1: 0x12, Bits2: 0x0},
				{Bits1: 0x30, Bits2: 0x0},
			}}
		got Config608
	)
	if err := Unmarshal(golden608, &got); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf(" got: %v", got)
		t.Errorf("want: %v", want)
	}
}

func TestMarshal(t *testing.T) {
	c := Config608{
		I2CAddress: 0x6a,
		Reserved17: 0,
		CountMatch: 0,
		ChipMode:   ChipMode608{Bits: 1},
		SlotConfig: [16]SlotConfig{
			{Bits1: 0x85, Bits2: 0x00},
			{Bits1: 0x82, Bits2: 0x00},
		},
	}

	b, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	got := b[16 : 16+8]
	want := Default608[:8]

	if !bytes.Equal(got, want) {
		t.Errorf(" got: %s", hex.Dump(got))
		t.Errorf("want: %s", hex.Dump(want))
	}
}

func TestMarshalRoundtrip(t *testing.T) {
	c := DefaultConfig608()

	b, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	got := b[16:]
	want := Default608

	if !bytes.Equal(got, want) {
		t.Errorf(" got: %s", hex.Dump(got))
		t.Errorf("want: %s", hex.Dump(want))
	}
}

func TestUnmarshalPartial(t *testing.T) {
	var (
		want = Config608{
			I2CAddress: 0x6a,
			Reserved17: 0,
			CountMatch: 0,
			ChipMode:   ChipMode608{Bits: 1},
			SlotConfig: [16]SlotConfig{
				{Bits1: 0x85, Bits2: 0x00},
				{Bits1: 0x82, Bits2: 0x00},
			},
		}
		got Config608
	)
	if err := UnmarshalPartial(Default608[:8], 16, &got); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf(" got: %v", got)
		t.Errorf("want: %v", want)
	}
}

func TestConfigSize(t *testing.T) {
	b, err := Marshal(Config608{})
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != PermanentOffset608+len(Default608) {
		t.Errorf("config size = %d, want %d", len(b), PermanentOffset608+len(Default608))
	}
}

func TestLockState(t *testing.T) {
	if LockStateUnlocked.IsLocked() {
		t.Error("unlocked state reported as locked")
	}
	if !LockStateLocked.IsLocked() {
		t.Error("locked state reported as unlocked")
	}
	// Any other value counts as locked.
	if !LockState(0x01).IsLocked() {
		t.Error("unknown state reported as unlocked")
	}
}

func TestSlotLocked(t *testing.T) {
	var l SlotLocked = 0xfffe
	if !l.IsLocked(0) {
		t.Error("slot 0 with a cleared bit reported as unlocked")
	}
	for slot := 1; slot < 16; slot++ {
		if l.IsLocked(slot) {
			t.Errorf("slot %d with a set bit reported as locked", slot)
		}
	}
}

func TestChipModeClockDivider(t *testing.T) {
	testCases := []struct {
		bits uint8
		want ClockDivider
	}{
		{0x00, ClockDividerM0},
		{0x28, ClockDividerM1},
		{0x68, ClockDividerM2},
	}
	for _, tc := range testCases {
		cm := ChipMode608{Bits: tc.bits}
		if got := cm.ClockDivider(); got != tc.want {
			t.Errorf("bits %#x: divider %v, want %v", tc.bits, got, tc.want)
		}
	}
}
