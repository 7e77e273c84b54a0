package shell

import (
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: KindNone}},
		{"   ", Command{Kind: KindNone}},
		{"info", Command{Kind: KindInfo, Keyword: "info"}},
		{"test", Command{Kind: KindTest, Keyword: "test"}},
		{"exit", Command{Kind: KindExit, Keyword: "exit"}},
		{"  exit  ", Command{Kind: KindExit, Keyword: "exit"}},
		{"exit now", Command{Kind: KindExit, Keyword: "exit"}},
		{"write_lock_config", Command{Kind: KindWriteLockConfig, Keyword: "write_lock_config"}},
		{"lock_data", Command{Kind: KindLockData, Keyword: "lock_data"}},
		{"generate_private", Command{Kind: KindGeneratePrivate, Keyword: "generate_private", Slot: 0}},
		{"generate_private=", Command{Kind: KindGeneratePrivate, Keyword: "generate_private", Slot: 0}},
		{"generate_private=5", Command{Kind: KindGeneratePrivate, Keyword: "generate_private", Slot: 5}},
		{"generate_private=15", Command{Kind: KindGeneratePrivate, Keyword: "generate_private", Slot: 15}},
		{"generate_public=0_9", Command{Kind: KindGeneratePublic, Keyword: "generate_public", PrivateSlot: 0, PublicSlot: 9}},
		{"generate_public=2_15", Command{Kind: KindGeneratePublic, Keyword: "generate_public", PrivateSlot: 2, PublicSlot: 15}},
		{"private_slot=3", Command{Kind: KindPrivateSlot, Keyword: "private_slot", Slot: 3}},
		{"public_slot=10", Command{Kind: KindPublicSlot, Keyword: "public_slot", Slot: 10}},
	}
	for _, tc := range tests {
		got, err := ParseLine(tc.line)
		if err != nil {
			t.Errorf("ParseLine(%q) error: %v", tc.line, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseLineUnknown(t *testing.T) {
	lines := []string{
		"bogus",
		"generate",
		"generate_privateX",
		"inf",
		"info=1",
		"exit=now",
		"lock_data=2",
	}
	for _, line := range lines {
		got, err := ParseLine(line)
		if err != nil {
			t.Errorf("ParseLine(%q) error: %v", line, err)
			continue
		}
		if got.Kind != KindUnknown {
			t.Errorf("ParseLine(%q).Kind = %v, want KindUnknown", line, got.Kind)
		}
	}
}

func TestParseLineRejects(t *testing.T) {
	lines := []string{
		"generate_private=16",
		"generate_private=-1",
		"generate_private=abc",
		"generate_public",
		"generate_public=",
		"generate_public=09",
		"generate_public=0_",
		"generate_public=_9",
		"generate_public=0_16",
		"generate_public=16_9",
		"private_slot",
		"private_slot=",
		"private_slot=99",
		"public_slot",
		"public_slot=",
		"public_slot=x",
	}
	for _, line := range lines {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q) succeeded, want error", line)
		}
	}
}

func TestParseLineTruncates(t *testing.T) {
	// A valid keyword followed by padding past the line bound still parses
	// as that keyword.
	line := "info " + strings.Repeat("x", 200)
	got, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	if got.Kind != KindInfo {
		t.Fatalf("ParseLine(long line).Kind = %v, want KindInfo", got.Kind)
	}

	// A keyword split by the bound does not match any command.
	line = strings.Repeat("a", maxLineLen-2) + "exit"
	got, err = ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	if got.Kind != KindUnknown {
		t.Fatalf("ParseLine(split keyword).Kind = %v, want KindUnknown", got.Kind)
	}
}
