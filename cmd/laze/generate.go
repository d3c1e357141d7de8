package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/laze/internal/appbuild"
	"github.com/standardbeagle/laze/internal/depsolve"
	"github.com/standardbeagle/laze/internal/importfetch"
	"github.com/standardbeagle/laze/internal/lazelog"
	"github.com/standardbeagle/laze/internal/loader"
	"github.com/standardbeagle/laze/internal/ninja"
	"github.com/standardbeagle/laze/internal/registry"
	"github.com/standardbeagle/laze/internal/rules"
	"github.com/standardbeagle/laze/internal/sidecar"
)

const defaultProjectFile = "laze.yml"

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "load the project declaration tree and emit build.ninja",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "chdir", Aliases: []string{"C"}, EnvVars: []string{"LAZE_CHDIR"},
				Usage: "run as if laze was started in DIR",
			},
			&cli.StringFlag{
				Name: "project-file", Aliases: []string{"f"}, EnvVars: []string{"LAZE_PROJECT_FILE"},
				Usage: "top-level project declaration file", Value: defaultProjectFile,
			},
			&cli.StringSliceFlag{
				Name: "whitelist", EnvVars: []string{"LAZE_WHITELIST"},
				Usage: "only emit apps reachable from these builder names",
			},
			&cli.StringSliceFlag{
				Name: "apps", EnvVars: []string{"LAZE_APPS"},
				Usage: "only emit these app names",
			},
		},
		Action: func(c *cli.Context) error {
			_, err := runGenerate(c.Context, generateOptions{
				Chdir:       c.String("chdir"),
				ProjectFile: c.String("project-file"),
				Whitelist:   c.StringSlice("whitelist"),
				Apps:        c.StringSlice("apps"),
			})
			return err
		},
	}
}

type generateOptions struct {
	Chdir       string
	ProjectFile string
	Whitelist   []string
	Apps        []string
}

// runGenerate executes the full C2-C7 pipeline: load, construct,
// post-parse, solve, cascade and emit (spec.md §3's lifecycle). It
// returns the resolved project root so `build` can reuse it without
// re-parsing command-line flags.
func runGenerate(ctx context.Context, opts generateOptions) (string, error) {
	root := opts.Chdir
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	projectFile := filepath.Join(absRoot, opts.ProjectFile)

	dl := importfetch.NewGitProvider(filepath.Join(absRoot, ".laze", "imports"))
	ld := loader.New(absRoot, dl)

	docs, filesRead, err := ld.Load(ctx, projectFile)
	if err != nil {
		return "", err
	}

	gen := registry.NewGenerator()
	if err := gen.Construct(docs); err != nil {
		return "", err
	}
	if err := gen.PostParse(ctx, dl); err != nil {
		return "", err
	}

	applyFilters(gen, opts.Whitelist, opts.Apps)

	writer := ninja.NewWriter()
	engine := rules.NewEngine(writer)
	builder := appbuild.NewBuilder(gen, engine, depsolve.NewEditDistanceSuggester())

	if err := builder.EmitAll(); err != nil {
		return "", err
	}

	regenInputs := make([]string, 0, len(filesRead))
	for f := range filesRead {
		regenInputs = append(regenInputs, f)
	}
	sort.Strings(regenInputs)
	writer.Build(ninja.Build{
		Outputs:  []string{"build.ninja"},
		Rule:     "relaze",
		Implicit: regenInputs,
	})
	// No --chdir here: ninja always runs this rule with its own directory
	// as the working directory, so embedding absRoot would bake a
	// machine-specific absolute path into otherwise reproducible output.
	writer.Rule("relaze", "laze generate --project-file "+opts.ProjectFile, "", "")

	outFile := filepath.Join(absRoot, "build.ninja")
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := writer.WriteTo(f); err != nil {
		return "", err
	}

	args := map[string]string{
		"chdir":        absRoot,
		"project_file": opts.ProjectFile,
	}
	if err := sidecar.WriteArgs(absRoot, args); err != nil {
		return "", err
	}

	return absRoot, nil
}

func applyFilters(gen *registry.Generator, whitelist, apps []string) {
	if len(whitelist) == 0 && len(apps) == 0 {
		return
	}
	allowBuilders := map[string]bool{}
	for _, w := range whitelist {
		allowBuilders[w] = true
	}
	allowApps := map[string]bool{}
	for _, a := range apps {
		allowApps[a] = true
	}

	if len(allowApps) > 0 {
		filtered := gen.Apps[:0]
		for _, app := range gen.Apps {
			if allowApps[app.Name] {
				filtered = append(filtered, app)
			} else {
				lazelog.Verbosef("skipping app %q: not in --apps filter", app.Name)
			}
		}
		gen.Apps = filtered
	}
	if len(allowBuilders) > 0 {
		for _, app := range gen.Apps {
			if len(app.Whitelist) == 0 {
				app.Whitelist = map[string]bool{}
			}
			for w := range allowBuilders {
				app.Whitelist[w] = true
			}
		}
	}
}
