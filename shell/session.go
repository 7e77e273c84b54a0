package shell

// Default slots used when no slot has been designated.
//
// Slot 0 commonly holds the primary private key. Slots 9 and up are large
// enough to store public keys.
const (
	defaultPrivateSlot = 0
	defaultPublicSlot  = 9
)

// Session holds the mutable state of one interactive session.
//
// The active slots are used by the built-in tests and can be changed with the
// private_slot and public_slot commands.
type Session struct {
	PrivateSlot uint8
	PublicSlot  uint8
}

// NewSession returns a session with the default active slots.
func NewSession() Session {
	return Session{
		PrivateSlot: defaultPrivateSlot,
		PublicSlot:  defaultPublicSlot,
	}
}
