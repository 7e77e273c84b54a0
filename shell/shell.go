package shell

import (
	"bufio"
	"context"
	"crypto"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/northvolt/go-atecc-provision/atecc/ateccconf"
)

const usage = `Available commands:
 - info - print device and configuration information;
 - test - run all tests on the device;
 - exit - exit the interactive loop;
 - generate_private[=N] - generate a private key in slot N (0-15),
                          default slot - 0;
 - generate_public=A_B - export the public key from private key slot A (0-15)
                         and import it into slot B (0-15);
 - private_slot=N - designate slot N as the private key slot for the tests;
 - public_slot=N - designate slot N as the public key slot for the tests;
 - write_lock_config - write the default configuration and lock the config
                       zone;
 - lock_data - lock the data and OTP zones.
`

const (
	warningLockConfig = `Warning: this operation writes a new configuration and locks the config
zone. It cannot be undone. Type y to continue: `
	warningLockData = `Warning: this operation locks the data and OTP zones. It cannot be
undone. Type y to continue: `
)

// Shell is an interactive command interpreter driving one secure element.
type Shell struct {
	se      SecureElement
	out     io.Writer
	scanner *bufio.Scanner
	session Session
}

// New returns a shell reading commands from in and printing to out.
func New(se SecureElement, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		se:      se,
		out:     out,
		scanner: bufio.NewScanner(in),
		session: NewSession(),
	}
}

// Session returns the current session state.
func (s *Shell) Session() Session {
	return s.session
}

// Run reads and evaluates commands until exit or the end of input.
//
// Device errors are reported and the loop continues. Only the exit command
// and the end of input terminate the loop.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, usage)
	for fmt.Fprint(s.out, "> "); s.scanner.Scan(); fmt.Fprint(s.out, "> ") {
		if s.Eval(ctx, s.scanner.Text()) {
			break
		}
	}
	if err := s.scanner.Err(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Exiting.")
	return nil
}

// Eval evaluates one line of input. It returns true when the shell should
// terminate.
func (s *Shell) Eval(ctx context.Context, line string) bool {
	cmd, err := ParseLine(line)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}

	switch cmd.Kind {
	case KindNone:
	case KindExit:
		return true
	case KindInfo:
		if err := s.printInfo(ctx); err != nil {
			fmt.Fprintf(s.out, "Failed to read device info: %v\n", err)
		}
	case KindTest:
		if err := s.SelfTest(ctx); err != nil {
			fmt.Fprintf(s.out, "Tests aborted: %v\n", err)
		}
	case KindGeneratePrivate:
		s.generatePrivate(ctx, cmd.Slot)
	case KindGeneratePublic:
		s.generatePublic(ctx, cmd.PrivateSlot, cmd.PublicSlot)
	case KindPrivateSlot:
		s.session.PrivateSlot = cmd.Slot
		fmt.Fprintf(s.out, "The private key slot in use is now %d.\n", cmd.Slot)
	case KindPublicSlot:
		s.session.PublicSlot = cmd.Slot
		fmt.Fprintf(s.out, "The public key slot in use is now %d.\n", cmd.Slot)
	case KindWriteLockConfig:
		s.writeLockConfig(ctx)
	case KindLockData:
		s.lockData(ctx)
	default:
		fmt.Fprintf(s.out, "Unrecognized command - %q.\n", cmd.Keyword)
	}
	return false
}

func (s *Shell) generatePrivate(ctx context.Context, slot uint8) {
	fmt.Fprintf(s.out, "Generating a private key in slot %d... ", slot)
	if _, err := s.se.GenerateKey(ctx, slot); err != nil {
		fmt.Fprintf(s.out, "Failed! %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Done.")
}

func (s *Shell) generatePublic(ctx context.Context, privSlot, pubSlot uint8) {
	fmt.Fprintf(s.out, "Exporting the public key from private key slot %d... ", privSlot)
	pub, err := s.se.PublicKey(ctx, privSlot)
	if err != nil {
		fmt.Fprintf(s.out, "Failed! %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Done.\nImporting the public key into slot %d... ", pubSlot)
	if err := s.se.ImportPublicKey(ctx, pubSlot, pub); err != nil {
		fmt.Fprintf(s.out, "Failed! %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Done.")
}

func (s *Shell) writeLockConfig(ctx context.Context) {
	if !s.confirm(warningLockConfig) {
		fmt.Fprintln(s.out, "Aborted.")
		return
	}
	conf := make([]byte, ateccconf.PermanentOffset608+len(ateccconf.Default608))
	copy(conf[ateccconf.PermanentOffset608:], ateccconf.Default608)

	fmt.Fprint(s.out, "Writing the configuration... ")
	if err := s.se.WriteConfigZone(ctx, conf); err != nil {
		fmt.Fprintf(s.out, "Failed! %v\n", err)
		return
	}
	fmt.Fprint(s.out, "Done.\nLocking the config zone... ")
	if err := s.se.LockConfigZone(ctx); err != nil {
		fmt.Fprintf(s.out, "Failed! %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Done.")
}

func (s *Shell) lockData(ctx context.Context) {
	if !s.confirm(warningLockData) {
		fmt.Fprintln(s.out, "Aborted.")
		return
	}
	fmt.Fprint(s.out, "Locking the data zone... ")
	if err := s.se.LockDataZone(ctx); err != nil {
		fmt.Fprintf(s.out, "Failed! %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Done.")
}

// confirm prints the warning and reads the next input line. Only y or Y
// confirms, any other input and the end of input decline.
func (s *Shell) confirm(warning string) bool {
	fmt.Fprint(s.out, warning)
	if !s.scanner.Scan() {
		fmt.Fprintln(s.out)
		return false
	}
	answer := strings.TrimSpace(s.scanner.Text())
	return answer == "y" || answer == "Y"
}

func (s *Shell) printInfo(ctx context.Context) error {
	serial, err := s.se.SerialNumber(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Serial number: %s\n", strings.ToUpper(hex.EncodeToString(serial)))

	conf, err := s.se.ReadConfigZone(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Configuration zone:\n%s", hex.Dump(conf))

	configLocked, err := s.se.IsConfigZoneLocked(ctx)
	if err != nil {
		return err
	}
	dataLocked, err := s.se.IsDataZoneLocked(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Config zone: %s\n", lockString(configLocked))
	fmt.Fprintf(s.out, "Data zone: %s\n", lockString(dataLocked))

	var locked []string
	for slot := 0; slot < 16; slot++ {
		isLocked, err := s.se.IsSlotLocked(ctx, uint8(slot))
		if err != nil {
			return err
		}
		if isLocked {
			locked = append(locked, fmt.Sprintf("%d", slot))
		}
	}
	fmt.Fprintf(s.out, "Locked slots: %s\n", orNone(locked))

	var cfg ateccconf.Config608
	if err := ateccconf.Unmarshal(conf, &cfg); err == nil {
		var priv []string
		for slot, kc := range cfg.KeyConfig {
			if kc.Private() {
				priv = append(priv, fmt.Sprintf("%d", slot))
			}
		}
		fmt.Fprintf(s.out, "Private key capable slots: %s\n", orNone(priv))
	}

	fmt.Fprintf(s.out, "Private key slot: %d\n", s.session.PrivateSlot)
	fmt.Fprintf(s.out, "Public key slot: %d\n", s.session.PublicSlot)
	return nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func lockString(locked bool) string {
	if locked {
		return "locked"
	}
	return "unlocked"
}

// hostVerify verifies an ASN.1 signature on the host.
func hostVerify(pub crypto.PublicKey, digest, sig []byte) bool {
	key, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return false
	}
	return ecdsa.VerifyASN1(key, digest, sig)
}
