// Package shell implements the interactive test and provisioning shell for
// ATECC secure elements.
//
// The shell reads one command per line, validates slot arguments and calls
// into a SecureElement. It owns no cryptography itself, which keeps it fully
// testable against a fake element.
package shell
