// Package discover builds a [registry.Namespace] tree from a Go package
// tree.
//
// Members are taken from the type-checked package scope, so they reflect
// the current build context. The export list is read from the syntax of
// every non-test file regardless of build constraints; a name declared
// only in excluded files is therefore exported but unresolvable.
package discover

import (
	"context"
	"go/types"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/go-apidoc/internal/registry"
)

type config struct {
	logger     *slog.Logger
	dir        string
	buildFlags []string
	tags       []string
}

// Option configures [Load].
type Option func(*config)

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithDir sets the directory patterns are resolved against.
func WithDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}

// WithBuildFlags passes extra flags to the underlying build tool.
func WithBuildFlags(flags ...string) Option {
	return func(c *config) { c.buildFlags = append(c.buildFlags, flags...) }
}

// WithTags sets the build tags used to resolve members.
func WithTags(tags ...string) Option {
	return func(c *config) { c.tags = append(c.tags, tags...) }
}

// Load discovers the package matched by pattern and every public package
// below it.
func Load(ctx context.Context, pattern string, opts ...Option) (*registry.Namespace, error) {
	c := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&c)
	}
	pkgs, err := loadPackageTree(ctx, pattern, c)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, errors.Errorf("no Go packages matched %q", pattern)
	}
	root := pkgs[0]
	rootNS, err := buildNamespace(root, root.Name, c.logger)
	if err != nil {
		return nil, err
	}
	if rootNS.Name == "" {
		rootNS.Name = filepath.Base(packageDir(root))
	}
	prefix := root.PkgPath + "/"
	for _, pkg := range pkgs[1:] {
		if !strings.HasPrefix(pkg.PkgPath, prefix) {
			return nil, errors.Errorf("package %s is not nested under root package %s", pkg.PkgPath, root.PkgPath)
		}
		segs := strings.Split(strings.TrimPrefix(pkg.PkgPath, prefix), "/")
		if slices.Contains(segs, "internal") {
			c.logger.Debug("skipping internal package", "path", pkg.PkgPath)
			continue
		}
		parent := rootNS
		for _, seg := range segs[:len(segs)-1] {
			parent = ensureNamespace(parent, seg)
		}
		ns, err := buildNamespace(pkg, segs[len(segs)-1], c.logger)
		if err != nil {
			return nil, err
		}
		parent.AddNamespace(ns)
	}
	return rootNS, nil
}

// ensureNamespace returns the namespace member name of parent, creating a
// namespace without an export list for directories that hold no package.
func ensureNamespace(parent *registry.Namespace, name string) *registry.Namespace {
	if m, ok := parent.Lookup(name); ok && m.Kind == registry.KindNamespace {
		return m.Namespace
	}
	return parent.AddNamespace(registry.New(name))
}

func buildNamespace(pkg *packages.Package, name string, logger *slog.Logger) (*registry.Namespace, error) {
	ns := registry.New(name)
	if pkg.Types != nil {
		scope := pkg.Types.Scope()
		for _, n := range scope.Names() {
			obj := scope.Lookup(n)
			if !obj.Exported() {
				continue
			}
			ns.Add(registry.Member{Name: n, Kind: classify(obj)})
		}
	}
	exports, err := exportedNames(pkg)
	if err != nil {
		return nil, err
	}
	if pkg.Name != "main" && len(exports) > 0 {
		ns.SetExports(exports)
	}
	logger.Debug("discovered package",
		"path", pkg.PkgPath,
		"namespace", name,
		"members", len(ns.Members()),
		"exports", len(exports))
	return ns, nil
}

func classify(obj types.Object) registry.Kind {
	switch obj.(type) {
	case *types.TypeName:
		return registry.KindClass
	case *types.Func:
		return registry.KindFunction
	default:
		return registry.KindOther
	}
}

func loadPackageTree(ctx context.Context, pattern string, c config) ([]*packages.Package, error) {
	buildFlags := slices.Clone(c.buildFlags)
	if len(c.tags) > 0 {
		buildFlags = append(buildFlags, "-tags="+strings.Join(c.tags, ","))
	}
	cfg := &packages.Config{
		Context:    ctx,
		Dir:        c.dir,
		BuildFlags: buildFlags,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedTypes | packages.NeedModule,
	}
	patterns, err := packagePatterns(pattern, c.dir)
	if err != nil {
		return nil, err
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	if err := checkForPackageErrors(pkgs); err != nil {
		return nil, err
	}
	unique := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		key := pkg.PkgPath
		if key == "" {
			key = packageDir(pkg)
		}
		unique[key] = pkg
	}
	result := make([]*packages.Package, 0, len(unique))
	for _, pkg := range unique {
		result = append(result, pkg)
	}
	slices.SortFunc(result, func(a, b *packages.Package) int {
		return strings.Compare(a.PkgPath, b.PkgPath)
	})
	return result, nil
}

// packagePatterns lists every package directory below a local directory
// pattern explicitly. A "./..." wildcard silently drops packages whose files
// are all excluded by build constraints; named directly they come back as
// errored packages that [checkForPackageErrors] tolerates. Import paths and
// wildcard patterns fall back to [buildPatterns].
func packagePatterns(pattern, dir string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = "."
	}
	if strings.Contains(pattern, "...") || !(strings.HasPrefix(pattern, ".") || filepath.IsAbs(pattern)) {
		return buildPatterns(pattern), nil
	}
	rootDir := pattern
	if !filepath.IsAbs(rootDir) {
		rootDir = filepath.Join(dir, pattern)
	}
	if info, err := os.Stat(rootDir); err != nil || !info.IsDir() {
		return buildPatterns(pattern), nil
	}
	patterns := []string{pattern}
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == rootDir {
			return nil
		}
		if skipDir(path, d.Name()) {
			return filepath.SkipDir
		}
		if !hasGoFiles(path) {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		patterns = append(patterns, localPattern(pattern, rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", rootDir)
	}
	return patterns, nil
}

// skipDir mirrors the directories the go command leaves out of "./...".
func skipDir(path, name string) bool {
	switch {
	case name == "testdata", name == "vendor":
		return true
	case strings.HasPrefix(name, "_"), strings.HasPrefix(name, "."):
		return true
	}
	_, err := os.Stat(filepath.Join(path, "go.mod"))
	return err == nil
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true
		}
	}
	return false
}

func localPattern(root, rel string) string {
	if filepath.IsAbs(root) {
		return filepath.Join(root, rel)
	}
	p := filepath.ToSlash(filepath.Join(root, rel))
	if !strings.HasPrefix(p, ".") {
		p = "./" + p
	}
	return p
}

func buildPatterns(root string) []string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = filepath.ToSlash(root)
	patterns := []string{root}
	if !strings.Contains(root, "...") {
		recursive := root
		if recursive == "." {
			recursive = "./..."
		} else if strings.HasSuffix(recursive, "/") {
			recursive = recursive + "..."
		} else {
			recursive = recursive + "/..."
		}
		patterns = append(patterns, recursive)
	}
	return patterns
}

// checkForPackageErrors tolerates packages whose files are all excluded by
// build constraints; their declarations are still exported.
func checkForPackageErrors(pkgs []*packages.Package) error {
	for _, pkg := range pkgs {
		if len(pkg.Errors) == 0 {
			continue
		}
		if len(pkg.GoFiles) == 0 && len(pkg.IgnoredFiles) > 0 {
			continue
		}
		return errors.Wrapf(pkg.Errors[0], "package %s has reported an error", pkg.PkgPath)
	}
	return nil
}

func packageDir(pkg *packages.Package) string {
	for _, files := range [][]string{pkg.GoFiles, pkg.CompiledGoFiles, pkg.IgnoredFiles} {
		if len(files) > 0 {
			return filepath.Dir(files[0])
		}
	}
	return ""
}
