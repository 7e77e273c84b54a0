package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/northvolt/go-atecc-provision/shell"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type testConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

func (c *testConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "test\n")
	}

	d, closer, err := newATECC(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Run the same test sequence as the interactive test command, reading
	// from empty input so that nothing can block on a confirmation.
	return shell.New(d, strings.NewReader(""), c.out).SelfTest(ctx)
}

func newTestCmd(
	rootConfig *rootConfig, out io.Writer, err io.Writer,
) *ffcli.Command {
	cfg := testConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc-provision test", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "test",
		ShortUsage: "test",
		ShortHelp:  "Runs the built-in device test sequence once and exits.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}
