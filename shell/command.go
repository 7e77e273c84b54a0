package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// maxLineLen bounds one command line. Longer input is truncated before
// parsing.
const maxLineLen = 79

// Valid slot numbers form a closed range.
const (
	minSlot = 0
	maxSlot = 15
)

type Kind int

const (
	// KindNone is an empty line.
	KindNone Kind = iota
	// KindUnknown is a keyword outside of the command vocabulary.
	KindUnknown
	KindInfo
	KindTest
	KindExit
	KindGeneratePrivate
	KindGeneratePublic
	KindPrivateSlot
	KindPublicSlot
	KindWriteLockConfig
	KindLockData
)

// Command is one parsed and validated command.
type Command struct {
	Kind Kind

	// Keyword is the token as typed, kept for error reporting.
	Keyword string

	// Slot is the argument of the single slot commands.
	Slot uint8

	// PrivateSlot and PublicSlot are the arguments of generate_public.
	PrivateSlot uint8
	PublicSlot  uint8
}

// ParseLine parses one line of input into a command.
//
// The first whitespace separated token is the command. An argument follows
// the first "=" and, for generate_public, the two slots are separated by the
// last "_". Slot arguments outside of 0-15 are rejected here so that no
// device operation ever sees them.
func ParseLine(line string) (Command, error) {
	if len(line) > maxLineLen {
		line = line[:maxLineLen]
	}

	fields, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("invalid command line: %v", err)
	}
	if len(fields) == 0 {
		return Command{Kind: KindNone}, nil
	}

	token := fields[0]
	name, arg, hasArg := strings.Cut(token, "=")

	switch name {
	case "info", "test", "exit", "write_lock_config", "lock_data":
		if hasArg {
			return Command{Kind: KindUnknown, Keyword: token}, nil
		}
		return Command{Kind: bareCommandKind(name), Keyword: name}, nil

	case "generate_private":
		cmd := Command{Kind: KindGeneratePrivate, Keyword: name}
		if !hasArg || arg == "" {
			cmd.Slot = defaultPrivateSlot
			return cmd, nil
		}
		if cmd.Slot, err = parseSlot(arg); err != nil {
			return Command{}, fmt.Errorf("generate_private: %v", err)
		}
		return cmd, nil

	case "generate_public":
		cmd := Command{Kind: KindGeneratePublic, Keyword: name}
		i := strings.LastIndex(arg, "_")
		if !hasArg || i <= 0 || i == len(arg)-1 {
			return Command{}, errors.New(
				"generate_public: specify both slots, eg generate_public=0_9",
			)
		}
		if cmd.PrivateSlot, err = parseSlot(arg[:i]); err != nil {
			return Command{}, fmt.Errorf("generate_public: %v", err)
		}
		if cmd.PublicSlot, err = parseSlot(arg[i+1:]); err != nil {
			return Command{}, fmt.Errorf("generate_public: %v", err)
		}
		return cmd, nil

	case "private_slot":
		cmd := Command{Kind: KindPrivateSlot, Keyword: name}
		if !hasArg || arg == "" {
			return Command{}, errors.New(
				"private_slot: specify a slot to use as the private key slot",
			)
		}
		if cmd.Slot, err = parseSlot(arg); err != nil {
			return Command{}, fmt.Errorf("private_slot: %v", err)
		}
		return cmd, nil

	case "public_slot":
		cmd := Command{Kind: KindPublicSlot, Keyword: name}
		if !hasArg || arg == "" {
			return Command{}, errors.New(
				"public_slot: specify a slot to use as the public key slot",
			)
		}
		if cmd.Slot, err = parseSlot(arg); err != nil {
			return Command{}, fmt.Errorf("public_slot: %v", err)
		}
		return cmd, nil

	default:
		return Command{Kind: KindUnknown, Keyword: token}, nil
	}
}

func bareCommandKind(name string) Kind {
	switch name {
	case "info":
		return KindInfo
	case "test":
		return KindTest
	case "exit":
		return KindExit
	case "write_lock_config":
		return KindWriteLockConfig
	case "lock_data":
		return KindLockData
	default:
		return KindUnknown
	}
}

func parseSlot(s string) (uint8, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q", s)
	}
	if n < minSlot || n > maxSlot {
		return 0, fmt.Errorf("slot %d is outside of range %d-%d", n, minSlot, maxSlot)
	}
	return uint8(n), nil
}
