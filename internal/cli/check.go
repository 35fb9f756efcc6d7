package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/engine"
	"github.com/matzehuels/depstatus/pkg/integrations/github"
	"github.com/matzehuels/depstatus/pkg/manifest"
	"github.com/matzehuels/depstatus/pkg/status"
)

// checkOpts holds the flags of the check command.
type checkOpts struct {
	dev     bool
	build   bool
	branch  string
	path    string
	json    bool
	refresh bool
	strict  bool
	file    string
}

func (o checkOpts) class() manifest.Class {
	switch {
	case o.dev:
		return manifest.Development
	case o.build:
		return manifest.Build
	default:
		return manifest.Primary
	}
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [OWNER/NAME]",
		Short: "Check whether a repository's dependencies are up to date",
		Long: `Check fetches Cargo.toml from the repository, resolves it and prints the
status of every declared dependency.

By default [dependencies] is checked; use --dev or --build for the other
tables. A project without the requested table is up to date.

With --manifest a local Cargo.toml is checked instead of a repository.`,
		Example: `  depstatus check serde-rs/serde
  depstatus check tokio-rs/tokio --path tokio --branch master --dev
  depstatus check rust-lang/log --json
  depstatus check --manifest ./Cargo.toml`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.file != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file != "" {
				return c.runCheckFile(cmd, opts)
			}
			return c.runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dev, "dev", false, "check [dev-dependencies]")
	cmd.Flags().BoolVar(&opts.build, "build", false, "check [build-dependencies]")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "branch to read Cargo.toml from (default from config)")
	cmd.Flags().StringVar(&opts.path, "path", "", "directory of Cargo.toml within the repository")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore a cached report")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero unless every dependency is up to date")
	cmd.Flags().StringVar(&opts.file, "manifest", "", "check a local Cargo.toml instead of a repository")
	cmd.MarkFlagsMutuallyExclusive("dev", "build")
	cmd.MarkFlagsMutuallyExclusive("manifest", "branch")
	cmd.MarkFlagsMutuallyExclusive("manifest", "path")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, ref string, opts checkOpts) error {
	owner, name, err := github.ParseRepoRef(ref)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	eng, closeFn, err := c.newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	req := engine.Request{
		Owner:   owner,
		Name:    name,
		Branch:  opts.branch,
		Prefix:  opts.path,
		Class:   opts.class(),
		Refresh: opts.refresh,
	}

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if !opts.json {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %s/%s with %s...", owner, name, eng.ResolverName()))
		spinner.Start()
	}
	report, err := eng.Check(ctx, req)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if !opts.json {
			printError("%s", errs.UserMessage(err))
		}
		return err
	}
	prog.done(fmt.Sprintf("Checked %d dependencies", len(report.Entries)))

	return emitReport(fmt.Sprintf("%s/%s", owner, name), req.Class, report, opts)
}

func (c *CLI) runCheckFile(cmd *cobra.Command, opts checkOpts) error {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "read manifest")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	eng, closeFn, err := c.newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	var spinner *Spinner
	if !opts.json {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %s with %s...", opts.file, eng.ResolverName()))
		spinner.Start()
	}
	report, err := eng.CheckManifest(ctx, string(data), opts.class())
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if !opts.json {
			printError("%s", errs.UserMessage(err))
		}
		return err
	}
	return emitReport(opts.file, opts.class(), report, opts)
}

func emitReport(title string, class manifest.Class, report *status.Report, opts checkOpts) error {
	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(title, class, report)
	}

	if opts.strict && report.Status != status.UpToDate {
		return fmt.Errorf("%s is %s", title, report.Status.Label())
	}
	return nil
}
