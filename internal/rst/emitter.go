// Package rst writes reStructuredText API reference pages for a
// [registry.Namespace]: a title, one section per requested submodule and
// an anchored autoclass/autofunction block per documented member.
package rst

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/agentflare-ai/go-apidoc/internal/registry"
)

const generatedBanner = "..  THIS FILE IS GENERATED BY `gen_doc.{py|sh}`\n" +
	"    !DO NOT EDIT THIS FILE MANUALLY!\n\n"

const (
	titleRule      = '='
	sectionRule    = '='
	subsectionRule = '-'
)

// Option configures an [Emitter].
type Option func(*Emitter)

// WithLibrary sets the prefix of every directive target, e.g. "paddle"
// renders "paddle.fluid.layers.FC".
func WithLibrary(library string) Option {
	return func(e *Emitter) { e.library = library }
}

// WithLogger sets the logger used to report skipped members.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) { e.logger = logger }
}

// Emitter writes one reference page. It is not safe for concurrent use.
type Emitter struct {
	w       *stickyWriter
	target  *registry.Namespace
	path    string
	library string
	logger  *slog.Logger
}

// New resolves module on root and writes the page banner and title. An
// empty module documents root itself. Nothing is written when module
// cannot be resolved.
func New(w io.Writer, root *registry.Namespace, module string, opts ...Option) (*Emitter, error) {
	e := &Emitter{
		w:      &stickyWriter{w: w},
		target: root,
		path:   root.Name,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if module != "" {
		target, err := root.Child(module)
		if err != nil {
			return nil, err
		}
		e.target = target
		e.path = root.Name + "." + module
	}
	e.w.writeString(generatedBanner)
	e.writeHeader(e.path, titleRule, true)
	return e, e.w.err
}

// Path returns the dotted path of the documented namespace.
func (e *Emitter) Path() string {
	return e.path
}

// EmitSubmodule writes a section for the submodule name followed by every
// exported member of it. The section header is written before the
// submodule's export list is checked.
func (e *Emitter) EmitSubmodule(name string) error {
	m, ok := e.target.Lookup(name)
	if !ok {
		return &registry.LookupError{Parent: e.path, Name: name, Reason: registry.ReasonMissing}
	}
	e.writeHeader(name, sectionRule, false)
	if e.w.err != nil {
		return e.w.err
	}
	path := e.path + "." + name
	if m.Kind != registry.KindNamespace || m.Namespace == nil {
		return &registry.LookupError{Parent: path, Name: "exports", Reason: registry.ReasonNoExports}
	}
	return e.emitExports(m.Namespace, path)
}

// EmitCurrentModule writes every exported member of the documented
// namespace.
func (e *Emitter) EmitCurrentModule() error {
	return e.emitExports(e.target, e.path)
}

func (e *Emitter) emitExports(ns *registry.Namespace, path string) error {
	if !ns.HasExports() {
		return &registry.LookupError{Parent: path, Name: "exports", Reason: registry.ReasonNoExports}
	}
	names, err := ns.SortedExports()
	if err != nil {
		return err
	}
	for name := range names {
		if err := e.EmitItem(ns, path, name); err != nil {
			return err
		}
	}
	return nil
}

// EmitItem documents name from ns, whose dotted path is path. Names that
// do not resolve, and members that are neither classes nor functions, are
// skipped.
func (e *Emitter) EmitItem(ns *registry.Namespace, path, name string) error {
	m, ok := ns.Lookup(name)
	if !ok {
		e.logger.Debug("skipping unresolvable export", "namespace", path, "name", name)
		return nil
	}
	switch m.Kind {
	case registry.KindClass:
		return e.EmitClass(path, name)
	case registry.KindFunction:
		return e.EmitFunction(path, name)
	default:
		e.logger.Debug("skipping export", "namespace", path, "name", name, "kind", m.Kind)
		return nil
	}
}

// EmitClass writes the anchored autoclass block for path.name.
func (e *Emitter) EmitClass(path, name string) error {
	e.writeRef(path, name)
	e.writeHeader(name, subsectionRule, false)
	fmt.Fprintf(e.w, "..  autoclass:: %s\n    :members:\n    :noindex:\n\n", e.qualified(path, name))
	e.writeLocalizedRef(path, name)
	return e.w.err
}

// EmitFunction writes the anchored autofunction block for path.name.
func (e *Emitter) EmitFunction(path, name string) error {
	e.writeRef(path, name)
	e.writeHeader(name, subsectionRule, false)
	fmt.Fprintf(e.w, "..  autofunction:: %s\n    :noindex:\n\n", e.qualified(path, name))
	e.writeLocalizedRef(path, name)
	return e.w.err
}

func (e *Emitter) qualified(path, name string) string {
	if e.library == "" {
		return path + "." + name
	}
	return e.library + "." + path + "." + name
}

// writeHeader writes title underlined with rule, overlined as well for
// page titles.
func (e *Emitter) writeHeader(title string, rule rune, overline bool) {
	line := strings.Repeat(string(rule), utf8.RuneCountInString(title))
	if overline {
		e.w.writeString(line + "\n")
	}
	e.w.writeString(title + "\n" + line + "\n\n")
}

func (e *Emitter) writeRef(path, name string) {
	fmt.Fprintf(e.w, ".. _%s:\n\n", AnchorID(path, name))
}

func (e *Emitter) writeLocalizedRef(path, name string) {
	fmt.Fprintf(e.w, "Read Chinese Version: :ref:`cn_%s`\n\n", AnchorID(path, name))
}

// AnchorID returns the cross-reference label of name inside the namespace
// at the dotted path.
func AnchorID(path, name string) string {
	return "api_" + strings.ReplaceAll(path, ".", "_") + "_" + name
}

// stickyWriter remembers the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.err = err
	return n, err
}

func (s *stickyWriter) writeString(str string) {
	_, _ = io.WriteString(s, str)
}
