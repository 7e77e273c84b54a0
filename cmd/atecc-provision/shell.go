package main

import (
	"context"
	"flag"
	"io"

	"github.com/northvolt/go-atecc-provision/shell"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type shellConfig struct {
	rootConfig *rootConfig
	in         io.Reader
	out        io.Writer
}

func (c *shellConfig) Exec(ctx context.Context, _ []string) error {
	d, closer, err := newATECC(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	return shell.New(d, c.in, c.out).Run(ctx)
}

func newShellCmd(
	rootConfig *rootConfig, in io.Reader, out io.Writer,
) *ffcli.Command {
	cfg := shellConfig{
		rootConfig: rootConfig,
		in:         in,
		out:        out,
	}

	fs := flag.NewFlagSet("atecc-provision shell", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "shell",
		ShortUsage: "shell",
		ShortHelp:  "Starts the interactive test and provisioning loop.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}
