package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/laze/internal/lazelog"
	"github.com/standardbeagle/laze/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "laze",
		Usage:                  "declarative meta-build-file generator",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			generateCommand(),
			createCommand(),
			buildCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		lazelog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, "laze: error:", err)
		os.Exit(1)
	}
}
