package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/agentflare-ai/go-apidoc/internal/discover"
	"github.com/agentflare-ai/go-apidoc/internal/registry"
	"github.com/agentflare-ai/go-apidoc/internal/rst"
)

type options struct {
	root       string
	manifest   string
	library    string
	outputPath string
	configPath string
	tags       []string
	verbose    bool
	submodules []string
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
}

func run(argv []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(expandSubmodules(normalizeLegacyArgs(argv)))
	return cmd.Execute()
}

// execute renders the reference page for module. Whatever was emitted
// before a failure is still written out.
func (app *cliApp) execute(ctx context.Context, flags *pflag.FlagSet, module string) error {
	cfg, err := app.resolveConfig(flags)
	if err != nil {
		return err
	}
	logger := app.newLogger()
	root, err := app.loadRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	var submodules []string
	if flags.Changed("submodules") {
		// A bare --submodules arrives as a single empty value.
		submodules = slices.DeleteFunc(slices.Clone(app.opts.submodules), func(name string) bool {
			return name == ""
		})
	}
	logger.Debug("emitting reference", "module", displayModule(module), "submodules", submodules)
	var buf bytes.Buffer
	emitErr := emit(&buf, root, module, submodules,
		rst.WithLibrary(cfg.Library),
		rst.WithLogger(logger))
	if buf.Len() > 0 {
		if err := writeOutput(cfg.Output, app.stdout, buf.Bytes()); err != nil {
			return err
		}
	}
	return emitErr
}

// emit documents module. A nil submodules slice documents the module's own
// export list; otherwise each named submodule gets its own section.
func emit(w io.Writer, root *registry.Namespace, module string, submodules []string, opts ...rst.Option) error {
	e, err := rst.New(w, root, module, opts...)
	if err != nil {
		return err
	}
	if submodules == nil {
		return e.EmitCurrentModule()
	}
	for _, name := range submodules {
		if err := e.EmitSubmodule(name); err != nil {
			return err
		}
	}
	return nil
}

func (app *cliApp) loadRegistry(ctx context.Context, cfg Config, logger *slog.Logger) (*registry.Namespace, error) {
	if cfg.Manifest != "" {
		f, err := os.Open(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		logger.Debug("reading manifest", "path", cfg.Manifest)
		return registry.ReadManifest(f)
	}
	logger.Debug("discovering packages", "root", cfg.Root, "tags", cfg.Tags)
	return discover.Load(ctx, cfg.Root,
		discover.WithLogger(logger),
		discover.WithTags(cfg.Tags...))
}

func (app *cliApp) newLogger() *slog.Logger {
	level := slog.LevelWarn
	if app.opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{Level: level}))
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var legacyLongFlagSet = map[string]struct{}{
	"root":       {},
	"manifest":   {},
	"library":    {},
	"output":     {},
	"config":     {},
	"tags":       {},
	"verbose":    {},
	"submodules": {},
}

// normalizeLegacyArgs accepts single-dash long flags such as -submodules.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || arg == "-" {
			converted = append(converted, arg)
			continue
		}
		if len(arg) == 2 {
			converted = append(converted, arg)
			continue
		}
		if idx := strings.Index(arg, "="); idx > 0 {
			name := arg[1:idx]
			if _, ok := legacyLongFlagSet[name]; ok {
				converted = append(converted, "--"+name+arg[idx:])
				modified = true
				continue
			}
		}
		name := arg[1:]
		if _, ok := legacyLongFlagSet[name]; ok {
			converted = append(converted, "--"+name)
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}

// expandSubmodules lets --submodules consume every following non-flag
// argument, so "--submodules a b" lists two submodules and a bare
// "--submodules" lists none. Each value is passed through verbatim.
func expandSubmodules(args []string) []string {
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if arg != "--submodules" {
			converted = append(converted, arg)
			continue
		}
		j := i + 1
		for ; j < len(args) && !isFlagArg(args[j]); j++ {
			converted = append(converted, "--submodules="+args[j])
		}
		if j == i+1 {
			converted = append(converted, "--submodules=")
		}
		i = j - 1
	}
	return converted
}

func isFlagArg(arg string) bool {
	return strings.HasPrefix(arg, "-") && arg != "-"
}

func displayModule(module string) string {
	if module == "" {
		return "(root)"
	}
	return module
}
