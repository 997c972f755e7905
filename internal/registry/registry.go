// Package registry holds the static description of a library's public
// surface: nested namespaces, their export lists and the kind of every
// member that resolves in the current build.
package registry

import (
	"iter"
	"slices"
	"strings"
)

// Member is a name resolved within a [Namespace].
type Member struct {
	Name string
	Kind Kind
	// Namespace is set only for members of kind [Namespace].
	Namespace *Namespace
}

// Namespace is a container of named members, e.g. a Go package.
type Namespace struct {
	Name string

	exports    []string
	hasExports bool
	members    map[string]Member
}

// New returns an empty namespace without an export list.
func New(name string) *Namespace {
	return &Namespace{Name: name, members: make(map[string]Member)}
}

// SetExports replaces the export list. A nil slice still counts as a
// declared (empty) export list; use ClearExports to drop it.
func (n *Namespace) SetExports(names []string) {
	n.exports = slices.Clone(names)
	if n.exports == nil {
		n.exports = []string{}
	}
	n.hasExports = true
}

// ClearExports removes the export list.
func (n *Namespace) ClearExports() {
	n.exports = nil
	n.hasExports = false
}

// Exports returns the declared export list and whether one exists.
func (n *Namespace) Exports() ([]string, bool) {
	return slices.Clone(n.exports), n.hasExports
}

// HasExports reports whether the namespace declares an export list.
func (n *Namespace) HasExports() bool {
	return n.hasExports
}

// Add registers a member, replacing any previous member with the same name.
func (n *Namespace) Add(m Member) {
	if n.members == nil {
		n.members = make(map[string]Member)
	}
	if m.Kind == KindNamespace && m.Namespace == nil {
		m.Namespace = New(m.Name)
	}
	n.members[m.Name] = m
}

// AddNamespace registers child as a namespace member and returns it.
func (n *Namespace) AddNamespace(child *Namespace) *Namespace {
	n.Add(Member{Name: child.Name, Kind: KindNamespace, Namespace: child})
	return child
}

// Lookup resolves name. Members listed in the export list but never
// registered do not resolve.
func (n *Namespace) Lookup(name string) (Member, bool) {
	m, ok := n.members[name]
	return m, ok
}

// Members returns all resolvable members ordered by name.
func (n *Namespace) Members() []Member {
	out := make([]Member, 0, len(n.members))
	for _, m := range n.members {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Member) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Child resolves name as a nested namespace.
func (n *Namespace) Child(name string) (*Namespace, error) {
	m, ok := n.Lookup(name)
	if !ok {
		return nil, &LookupError{Parent: n.Name, Name: name, Reason: ReasonMissing}
	}
	if m.Kind != KindNamespace || m.Namespace == nil {
		return nil, &LookupError{Parent: n.Name, Name: name, Reason: ReasonNotNamespace}
	}
	return m.Namespace, nil
}

// SortedExports yields the export list ordered case-insensitively. Names
// comparing equal keep their declared order.
func (n *Namespace) SortedExports() (iter.Seq[string], error) {
	if !n.hasExports {
		return nil, &LookupError{Parent: n.Name, Name: "exports", Reason: ReasonNoExports}
	}
	names := slices.Clone(n.exports)
	slices.SortStableFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return slices.Values(names), nil
}
