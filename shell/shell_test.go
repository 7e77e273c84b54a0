package shell

import (
	"bytes"
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"strings"
	"testing"
)

// fakeElement implements SecureElement in memory and records every call.
type fakeElement struct {
	configLocked bool
	dataLocked   bool
	lockedSlots  map[uint8]bool

	keys  map[uint8]*ecdsa.PrivateKey
	pubs  map[uint8]*ecdsa.PublicKey
	slots map[uint8][]byte

	calls map[string]int

	// failOn makes the named operation return an error.
	failOn map[string]error
}

func newFakeElement() *fakeElement {
	return &fakeElement{
		lockedSlots: make(map[uint8]bool),
		keys:        make(map[uint8]*ecdsa.PrivateKey),
		pubs:        make(map[uint8]*ecdsa.PublicKey),
		slots:       make(map[uint8][]byte),
		calls:       make(map[string]int),
		failOn:      make(map[string]error),
	}
}

func (f *fakeElement) record(op string) error {
	f.calls[op]++
	return f.failOn[op]
}

func (f *fakeElement) SerialNumber(ctx context.Context) ([]byte, error) {
	if err := f.record("SerialNumber"); err != nil {
		return nil, err
	}
	return []byte{0x01, 0x23, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xee}, nil
}

func (f *fakeElement) ReadConfigZone(ctx context.Context) ([]byte, error) {
	if err := f.record("ReadConfigZone"); err != nil {
		return nil, err
	}
	return make([]byte, 128), nil
}

func (f *fakeElement) WriteConfigZone(ctx context.Context, data []byte) error {
	return f.record("WriteConfigZone")
}

func (f *fakeElement) IsConfigZoneLocked(ctx context.Context) (bool, error) {
	if err := f.record("IsConfigZoneLocked"); err != nil {
		return false, err
	}
	return f.configLocked, nil
}

func (f *fakeElement) IsDataZoneLocked(ctx context.Context) (bool, error) {
	if err := f.record("IsDataZoneLocked"); err != nil {
		return false, err
	}
	return f.dataLocked, nil
}

func (f *fakeElement) IsSlotLocked(ctx context.Context, slot uint8) (bool, error) {
	if err := f.record("IsSlotLocked"); err != nil {
		return false, err
	}
	return f.lockedSlots[slot], nil
}

func (f *fakeElement) LockConfigZone(ctx context.Context) error {
	if err := f.record("LockConfigZone"); err != nil {
		return err
	}
	f.configLocked = true
	return nil
}

func (f *fakeElement) LockDataZone(ctx context.Context) error {
	if err := f.record("LockDataZone"); err != nil {
		return err
	}
	f.dataLocked = true
	return nil
}

func (f *fakeElement) GenerateKey(ctx context.Context, slot uint8) (crypto.PublicKey, error) {
	if err := f.record("GenerateKey"); err != nil {
		return nil, err
	}
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	f.keys[slot] = key
	return &key.PublicKey, nil
}

func (f *fakeElement) PublicKey(ctx context.Context, slot uint8) (crypto.PublicKey, error) {
	if err := f.record("PublicKey"); err != nil {
		return nil, err
	}
	key, ok := f.keys[slot]
	if !ok {
		return nil, errors.New("no key in slot")
	}
	return &key.PublicKey, nil
}

func (f *fakeElement) ImportPublicKey(ctx context.Context, slot uint8, pub crypto.PublicKey) error {
	if err := f.record("ImportPublicKey"); err != nil {
		return err
	}
	key, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("not an ecdsa public key")
	}
	f.pubs[slot] = key
	return nil
}

func (f *fakeElement) Sign(ctx context.Context, slot uint8, digest []byte) ([]byte, error) {
	if err := f.record("Sign"); err != nil {
		return nil, err
	}
	key, ok := f.keys[slot]
	if !ok {
		return nil, errors.New("no key in slot")
	}
	return ecdsa.SignASN1(rand.Reader, key, digest)
}

func (f *fakeElement) Verify(ctx context.Context, slot uint8, digest, sig []byte) (bool, error) {
	if err := f.record("Verify"); err != nil {
		return false, err
	}
	key, ok := f.pubs[slot]
	if !ok {
		return false, errors.New("no public key in slot")
	}
	return ecdsa.VerifyASN1(key, digest, sig), nil
}

func (f *fakeElement) SHA256(ctx context.Context, msg []byte) ([]byte, error) {
	if err := f.record("SHA256"); err != nil {
		return nil, err
	}
	digest := sha256.Sum256(msg)
	return digest[:], nil
}

func (f *fakeElement) Random(ctx context.Context) io.Reader {
	f.calls["Random"]++
	return rand.Reader
}

func (f *fakeElement) ReadSlot(ctx context.Context, slot uint8, p []byte) (int, error) {
	if err := f.record("ReadSlot"); err != nil {
		return 0, err
	}
	return copy(p, f.slots[slot]), nil
}

func (f *fakeElement) WriteSlot(ctx context.Context, slot uint8, p []byte) error {
	if err := f.record("WriteSlot"); err != nil {
		return err
	}
	f.slots[slot] = append([]byte(nil), p...)
	return nil
}

func newTestShell(se SecureElement, input string) (*Shell, *bytes.Buffer) {
	var out bytes.Buffer
	return New(se, strings.NewReader(input), &out), &out
}

func TestRunExitsOnExit(t *testing.T) {
	fake := newFakeElement()
	sh, out := newTestShell(fake, "exit\ninfo\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if fake.calls["SerialNumber"] != 0 {
		t.Fatal("commands after exit were evaluated")
	}
	if !strings.Contains(out.String(), "Exiting.") {
		t.Fatal("missing exit message")
	}
}

func TestRunExitsOnEOF(t *testing.T) {
	fake := newFakeElement()
	sh, _ := newTestShell(fake, "")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
}

func TestRunContinuesAfterDeviceError(t *testing.T) {
	fake := newFakeElement()
	fake.failOn["GenerateKey"] = errors.New("device gone")
	input := "generate_private=2\nprivate_slot=4\n"
	sh, out := newTestShell(fake, input)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "device gone") {
		t.Fatal("device error was not reported")
	}
	if sh.Session().PrivateSlot != 4 {
		t.Fatal("loop did not continue after device error")
	}
}

func TestEvalGeneratePrivateUsesParsedSlot(t *testing.T) {
	fake := newFakeElement()
	sh, _ := newTestShell(fake, "")

	sh.Eval(context.Background(), "generate_private=3")
	if fake.calls["GenerateKey"] != 1 {
		t.Fatalf("GenerateKey calls = %d, want 1", fake.calls["GenerateKey"])
	}
	if _, ok := fake.keys[3]; !ok {
		t.Fatal("no key generated in slot 3")
	}
}

func TestEvalGeneratePublicExportsThenImports(t *testing.T) {
	fake := newFakeElement()
	sh, out := newTestShell(fake, "")
	ctx := context.Background()

	sh.Eval(ctx, "generate_private=0")
	sh.Eval(ctx, "generate_public=0_9")
	if fake.calls["PublicKey"] != 1 || fake.calls["ImportPublicKey"] != 1 {
		t.Fatalf("calls = %v, want one PublicKey and one ImportPublicKey", fake.calls)
	}
	if fake.pubs[9] == nil {
		t.Fatal("public key was not imported into slot 9")
	}
	if !fake.pubs[9].Equal(&fake.keys[0].PublicKey) {
		t.Fatal("imported key differs from the exported key")
	}
	if strings.Contains(out.String(), "Failed") {
		t.Fatalf("unexpected failure output: %s", out.String())
	}
}

func TestEvalGeneratePublicStopsAfterExportFailure(t *testing.T) {
	fake := newFakeElement()
	fake.failOn["PublicKey"] = errors.New("export failed")
	sh, _ := newTestShell(fake, "")

	sh.Eval(context.Background(), "generate_public=0_9")
	if fake.calls["ImportPublicKey"] != 0 {
		t.Fatal("import was attempted after a failed export")
	}
}

func TestEvalSlotCommandsUpdateSession(t *testing.T) {
	fake := newFakeElement()
	sh, _ := newTestShell(fake, "")
	ctx := context.Background()

	if s := sh.Session(); s.PrivateSlot != 0 || s.PublicSlot != 9 {
		t.Fatalf("default session = %+v", s)
	}
	sh.Eval(ctx, "private_slot=3")
	sh.Eval(ctx, "public_slot=12")
	if s := sh.Session(); s.PrivateSlot != 3 || s.PublicSlot != 12 {
		t.Fatalf("session = %+v, want slots 3 and 12", s)
	}
}

func TestEvalRejectedArgumentLeavesSessionUnchanged(t *testing.T) {
	fake := newFakeElement()
	sh, out := newTestShell(fake, "")
	ctx := context.Background()

	sh.Eval(ctx, "private_slot=16")
	sh.Eval(ctx, "public_slot=abc")
	if s := sh.Session(); s.PrivateSlot != 0 || s.PublicSlot != 9 {
		t.Fatalf("session changed on rejected input: %+v", s)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("device was called on rejected input: %v", fake.calls)
	}
	if out.Len() == 0 {
		t.Fatal("rejected input produced no diagnostic")
	}
}

func TestEvalLockRequiresConfirmation(t *testing.T) {
	tests := []struct {
		answer  string
		confirm bool
	}{
		{"y", true},
		{"Y", true},
		{"n", false},
		{"no", false},
		{"yes", false},
		{"", false},
	}
	for _, tc := range tests {
		fake := newFakeElement()
		sh, out := newTestShell(fake, tc.answer+"\n")

		sh.Eval(context.Background(), "lock_data")
		locks := fake.calls["LockDataZone"]
		if tc.confirm && locks != 1 {
			t.Errorf("answer %q: LockDataZone calls = %d, want 1", tc.answer, locks)
		}
		if !tc.confirm {
			if locks != 0 {
				t.Errorf("answer %q: LockDataZone calls = %d, want 0", tc.answer, locks)
			}
			if !strings.Contains(out.String(), "Aborted.") {
				t.Errorf("answer %q: missing abort message", tc.answer)
			}
		}
	}
}

func TestEvalWriteLockConfigWritesThenLocks(t *testing.T) {
	fake := newFakeElement()
	sh, _ := newTestShell(fake, "y\n")

	sh.Eval(context.Background(), "write_lock_config")
	if fake.calls["WriteConfigZone"] != 1 || fake.calls["LockConfigZone"] != 1 {
		t.Fatalf("calls = %v, want one write and one lock", fake.calls)
	}
	if !fake.configLocked {
		t.Fatal("config zone is not locked")
	}
}

func TestEvalWriteLockConfigDeclined(t *testing.T) {
	fake := newFakeElement()
	sh, _ := newTestShell(fake, "n\n")

	sh.Eval(context.Background(), "write_lock_config")
	if fake.calls["WriteConfigZone"] != 0 || fake.calls["LockConfigZone"] != 0 {
		t.Fatalf("declined confirmation still called the device: %v", fake.calls)
	}
}

func TestEvalUnknownCommandReportsKeyword(t *testing.T) {
	fake := newFakeElement()
	sh, out := newTestShell(fake, "")

	sh.Eval(context.Background(), "frobnicate")
	if !strings.Contains(out.String(), "frobnicate") {
		t.Fatalf("output does not name the unknown command: %s", out.String())
	}
	if len(fake.calls) != 0 {
		t.Fatalf("unknown command called the device: %v", fake.calls)
	}
}

func TestEvalInfoPrintsState(t *testing.T) {
	fake := newFakeElement()
	fake.configLocked = true
	fake.lockedSlots[5] = true
	sh, out := newTestShell(fake, "")

	sh.Eval(context.Background(), "info")
	text := out.String()
	for _, want := range []string{
		"Serial number: 0123000000000000EE",
		"Config zone: locked",
		"Data zone: unlocked",
		"Locked slots: 5",
		"Private key slot: 0",
		"Public key slot: 9",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("info output missing %q:\n%s", want, text)
		}
	}
}
