package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/laze/internal/lazeerrors"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "scaffold a new app, module or subdir declaration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, EnvVars: []string{"LAZE_TYPE"}, Required: true, Usage: "app|module|subdir"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, EnvVars: []string{"LAZE_NAME"}},
			&cli.StringFlag{Name: "context", Aliases: []string{"c"}, EnvVars: []string{"LAZE_CONTEXT"}},
			&cli.StringSliceFlag{Name: "depends", EnvVars: []string{"LAZE_DEPENDS"}},
			&cli.StringSliceFlag{Name: "uses", EnvVars: []string{"LAZE_USES"}},
			&cli.StringSliceFlag{Name: "sources", EnvVars: []string{"LAZE_SOURCES"}},
		},
		Action: func(c *cli.Context) error {
			return runCreate(createOptions{
				Type:    c.String("type"),
				Name:    c.String("name"),
				Context: c.String("context"),
				Depends: c.StringSlice("depends"),
				Uses:    c.StringSlice("uses"),
				Sources: c.StringSlice("sources"),
			})
		},
	}
}

type createOptions struct {
	Type    string
	Name    string
	Context string
	Depends []string
	Uses    []string
	Sources []string
}

// runCreate scaffolds a new declaration file: a fresh laze.yml containing
// one `app:` or `module:` block for those two types, or an empty
// directory plus declaration file for `subdir` (spec.md §6's create
// verb).
func runCreate(opts createOptions) error {
	if opts.Name == "" {
		return lazeerrors.NewInvalidArgument("create requires --name")
	}

	switch opts.Type {
	case "subdir":
		dir := opts.Name
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		return writeDecl(filepath.Join(dir, defaultProjectFile), map[string]any{})
	case "app", "module":
		entry := map[string]any{"name": opts.Name}
		if opts.Context != "" {
			entry["context"] = opts.Context
		}
		if len(opts.Depends) > 0 {
			entry["depends"] = opts.Depends
		}
		if len(opts.Uses) > 0 {
			entry["uses"] = opts.Uses
		}
		if len(opts.Sources) > 0 {
			entry["sources"] = opts.Sources
		}
		dir := opts.Name
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		return writeDecl(filepath.Join(dir, defaultProjectFile), map[string]any{opts.Type: entry})
	default:
		return lazeerrors.NewInvalidArgument("unknown --type %q (want app, module or subdir)", opts.Type)
	}
}

func writeDecl(path string, doc map[string]any) error {
	if _, err := os.Stat(path); err == nil {
		return lazeerrors.NewInvalidArgument("refusing to overwrite existing %s", path)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}
