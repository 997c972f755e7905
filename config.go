package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the merged result of command-line flags and the optional
// --config file. Flags set explicitly on the command line win.
type Config struct {
	Root     string   `yaml:"root" validate:"required_without=Manifest"`
	Manifest string   `yaml:"manifest"`
	Library  string   `yaml:"library" validate:"omitempty,dotted"`
	Output   string   `yaml:"output"`
	Tags     []string `yaml:"tags" validate:"dive,required,excludesall=0x2C"`
}

type configFile struct {
	APIDoc Config `yaml:"apidoc"`
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("dotted", func(fl validator.FieldLevel) bool {
		return isDottedName(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register dotted validation: %w", err)
	}
	return v, nil
}

// isDottedName reports whether s is a sequence of non-empty, space-free
// segments separated by dots, e.g. "paddle" or "paddle.v2".
func isDottedName(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if seg == "" || strings.ContainsAny(seg, " \t\n:`") {
			return false
		}
	}
	return true
}

func (app *cliApp) resolveConfig(flags *pflag.FlagSet) (Config, error) {
	cfg := Config{
		Root:     app.opts.root,
		Manifest: app.opts.manifest,
		Library:  app.opts.library,
		Output:   app.opts.outputPath,
		Tags:     app.opts.tags,
	}
	if app.opts.configPath != "" {
		if err := mergeConfigFile(&cfg, app.opts.configPath, flags); err != nil {
			return Config{}, err
		}
	}
	v, err := newValidator()
	if err != nil {
		return Config{}, err
	}
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func mergeConfigFile(cfg *Config, path string, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	fromFile := file.APIDoc
	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}
	if !changed("root") && fromFile.Root != "" {
		cfg.Root = resolvePattern(path, fromFile.Root)
	}
	if !changed("manifest") && fromFile.Manifest != "" {
		cfg.Manifest = resolvePath(path, fromFile.Manifest)
	}
	if !changed("library") && fromFile.Library != "" {
		cfg.Library = fromFile.Library
	}
	if !changed("output") && fromFile.Output != "" {
		cfg.Output = resolvePath(path, fromFile.Output)
	}
	if !changed("tags") && len(fromFile.Tags) > 0 {
		cfg.Tags = fromFile.Tags
	}
	return nil
}

// resolvePath interprets file paths in a config file relative to the file.
func resolvePath(configPath, p string) string {
	if p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// resolvePattern is resolvePath for package patterns: only directory
// patterns are rebased, import paths are left alone.
func resolvePattern(configPath, p string) string {
	if !strings.HasPrefix(p, ".") {
		return p
	}
	joined := filepath.ToSlash(filepath.Join(filepath.Dir(configPath), p))
	if !strings.HasPrefix(joined, ".") && !filepath.IsAbs(joined) {
		joined = "./" + joined
	}
	return joined
}
