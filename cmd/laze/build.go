package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/laze/internal/lazelog"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "generate the build graph and invoke the downstream build tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "project-file", Aliases: []string{"f"}, EnvVars: []string{"LAZE_PROJECT_FILE"},
				Value: defaultProjectFile,
			},
			&cli.StringFlag{
				Name: "project-root", Aliases: []string{"r"}, EnvVars: []string{"LAZE_PROJECT_ROOT"},
			},
			&cli.StringFlag{
				Name: "build-dir", Aliases: []string{"d"}, EnvVars: []string{"LAZE_BUILD_DIR"},
			},
			&cli.StringSliceFlag{
				Name: "builders", EnvVars: []string{"LAZE_BUILDERS"},
			},
			&cli.StringFlag{
				Name: "tool", EnvVars: []string{"LAZE_TOOL"}, Value: "ninja",
				Usage: "downstream build executor binary",
			},
			&cli.BoolFlag{
				Name: "global", EnvVars: []string{"LAZE_GLOBAL"},
				Usage: "pass targets through unfiltered instead of scoping them to --builders",
			},
			&cli.BoolFlag{
				Name: "verbose", Aliases: []string{"v"}, EnvVars: []string{"LAZE_VERBOSE"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("verbose") {
				lazelog.SetLevel(lazelog.LevelVerbose)
			}

			root, err := runGenerate(c.Context, generateOptions{
				Chdir:       c.String("project-root"),
				ProjectFile: c.String("project-file"),
				Whitelist:   c.StringSlice("builders"),
			})
			if err != nil {
				return err
			}

			targets := c.Args().Slice()
			// Local mode scopes bare target names to the selected builders;
			// global mode passes whatever the caller gave us straight through
			// (SPEC_FULL.md §4.8).
			if !c.Bool("global") {
				targets = scopeTargets(targets, c.StringSlice("builders"))
			}

			buildDir := c.String("build-dir")
			manifest := "build.ninja"
			if buildDir != "" {
				manifest = filepath.Join(buildDir, "build.ninja")
			} else {
				manifest = filepath.Join(root, "build.ninja")
			}

			tool := c.String("tool")
			args := append([]string{"-f", manifest}, targets...)
			cmd := exec.CommandContext(c.Context, tool, args...)
			cmd.Dir = root
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Stdin = os.Stdin
			return cmd.Run()
		},
	}
}

// scopeTargets prefixes a bare target name with each selected builder,
// so `laze build foo` under `--builders native` asks ninja for the
// `native`-scoped phony aggregation rather than a project-root-relative
// path (local-mode semantics, SPEC_FULL.md §4.8).
func scopeTargets(targets, builders []string) []string {
	if len(builders) == 0 || len(targets) == 0 {
		return targets
	}
	scoped := make([]string, 0, len(targets)*len(builders))
	for _, b := range builders {
		for _, t := range targets {
			scoped = append(scoped, b+"/"+t)
		}
	}
	return scoped
}
