package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/agentflare-ai/go-apidoc/internal/registry"
)

const rootLongDesc = `
go-apidoc writes reStructuredText API reference pages for a Go library.

It discovers the public surface of the package tree selected by --root, then
emits a title for MODULE followed by an anchored autoclass or autofunction
block for every exported type and function, in case-insensitive order:

  • go-apidoc layers                       document fluid/layers
  • go-apidoc "" --submodules layers io    one section per submodule of the root
  • go-apidoc manifest > fluid.yaml        dump the discovered registry
  • go-apidoc --manifest fluid.yaml layers document from a saved registry

Exported names that do not resolve in the current build (see --tags) are
skipped, as are constants and variables. A missing module or submodule aborts
the run with a non-zero exit status.
`

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "go-apidoc [flags] MODULE [--submodules NAME...]",
		Short:         "Generate reStructuredText API reference pages for a Go library",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&app.opts.root, "root", ".", "package pattern of the root namespace")
	persistent.StringVar(&app.opts.manifest, "manifest", "", "read the namespace registry from a YAML manifest instead of discovering packages")
	persistent.StringSliceVar(&app.opts.tags, "tags", nil, "build tags used to resolve members")
	persistent.StringVarP(&app.opts.outputPath, "output", "o", "", "write output to file instead of stdout")
	persistent.StringVar(&app.opts.configPath, "config", "", "path to a YAML config file")
	persistent.BoolVarP(&app.opts.verbose, "verbose", "v", false, "log discovery and skipped members to stderr")

	flags := cmd.Flags()
	flags.StringVar(&app.opts.library, "library", "", "prefix for directive targets, e.g. paddle")
	flags.StringArrayVar(&app.opts.submodules, "submodules", nil, "document these submodules of MODULE, one section each")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.execute(ctx, cmd.Flags(), args[0])
	}

	cmd.AddCommand(newManifestCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func newManifestCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the discovered namespace registry as YAML",
		Long: strings.TrimSpace(`
Discover the package tree selected by --root and print it as a YAML manifest.
The manifest can be edited, checked in, and fed back with --manifest.

Example:

  go-apidoc manifest --root ./fluid -o fluid.yaml
`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := app.resolveConfig(cmd.Flags())
		if err != nil {
			return err
		}
		root, err := app.loadRegistry(ctx, cfg, app.newLogger())
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := registry.WriteManifest(&buf, root); err != nil {
			return err
		}
		return writeOutput(cfg.Output, app.stdout, buf.Bytes())
	}
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for go-apidoc.

The output should be evaluated by your shell. For example:

  # bash
  go-apidoc completion bash > /usr/local/etc/bash_completion.d/go-apidoc

  # zsh
  go-apidoc completion zsh > "${fpath[1]}/_go-apidoc"

  # fish
  go-apidoc completion fish | source

  # PowerShell
  go-apidoc completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  go-apidoc gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
