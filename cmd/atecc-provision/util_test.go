package main

import (
	"bytes"
	"testing"
)

func TestPrettyHexIndent(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		prefix string
		space  string
		want   string
	}{
		{"empty", []byte{}, "  ", "", ""},
		{"one", []byte{0x00}, "  ", "", "  00"},
		{"two", []byte{0x00, 0x01}, "  ", "", "  00 01"},
		{"three", []byte{0x00, 0x01, 0x02}, "    ", "", "    00 01 02"},
		{
			"big", bytes.Repeat([]byte{0x00}, 32), "    ", "",
			"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00",
		},
		{
			"space", bytes.Repeat([]byte{0x00}, 32), "    ", " ",
			"    00 00 00 00 00 00 00 00  00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00  00 00 00 00 00 00 00 00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := prettyHexIndent(tc.in, tc.prefix, tc.space)
			if got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGetI2CAddress(t *testing.T) {
	testCases := []struct {
		addr          string
		trustPlatform bool
		want          uint16
	}{
		{"", false, 0x60},
		{"0x60", false, 0x60},
		{"6a", false, 0x6a},
		{"0xc0", true, 0x60},
	}

	for _, tc := range testCases {
		got, err := getI2CAddress(tc.addr, tc.trustPlatform)
		if err != nil {
			t.Errorf("getI2CAddress(%q, %v) error: %v", tc.addr, tc.trustPlatform, err)
			continue
		}
		if got != tc.want {
			t.Errorf("getI2CAddress(%q, %v) = %#x, want %#x", tc.addr, tc.trustPlatform, got, tc.want)
		}
	}
}

func TestGetHIDDeviceIdentity(t *testing.T) {
	testCases := []struct {
		id            string
		trustPlatform bool
		want          uint8
	}{
		{"", false, 0},
		{"TNGTLS", false, 0x6a},
		{"TNGTLS", true, 0x35},
		{"0x36", true, 0x36},
	}

	for _, tc := range testCases {
		got, err := getHIDDeviceIdentity(tc.id, tc.trustPlatform)
		if err != nil {
			t.Errorf("getHIDDeviceIdentity(%q, %v) error: %v", tc.id, tc.trustPlatform, err)
			continue
		}
		if got != tc.want {
			t.Errorf("getHIDDeviceIdentity(%q, %v) = %#x, want %#x", tc.id, tc.trustPlatform, got, tc.want)
		}
	}
}
