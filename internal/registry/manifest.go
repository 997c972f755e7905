package registry

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// manifestNode is the YAML form of a namespace or member. Exports is a
// pointer so an absent list and an empty list survive a round trip.
type manifestNode struct {
	Name    string         `yaml:"name"`
	Kind    Kind           `yaml:"kind,omitempty"`
	Exports *[]string      `yaml:"exports,omitempty,flow"`
	Members []manifestNode `yaml:"members,omitempty"`
}

// ReadManifest decodes a YAML manifest into its root namespace.
func ReadManifest(r io.Reader) (*Namespace, error) {
	var root manifestNode
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, errors.Wrap(err, "failed to decode manifest")
	}
	return root.namespace("")
}

func (m manifestNode) namespace(parent string) (*Namespace, error) {
	if m.Name == "" {
		return nil, errors.Errorf("namespace under %q has no name", parent)
	}
	ns := New(m.Name)
	if m.Exports != nil {
		ns.SetExports(*m.Exports)
	}
	for _, child := range m.Members {
		if child.Name == "" {
			return nil, errors.Errorf("member of %q has no name", m.Name)
		}
		if child.Kind != KindNamespace {
			if child.Exports != nil || len(child.Members) > 0 {
				return nil, errors.Errorf("%s.%s: only namespaces may declare exports or members", m.Name, child.Name)
			}
			ns.Add(Member{Name: child.Name, Kind: child.Kind})
			continue
		}
		sub, err := child.namespace(m.Name)
		if err != nil {
			return nil, err
		}
		ns.AddNamespace(sub)
	}
	return ns, nil
}

// WriteManifest encodes ns and everything below it as YAML.
func WriteManifest(w io.Writer, ns *Namespace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toManifest(ns, 0)); err != nil {
		return errors.Wrap(err, "failed to encode manifest")
	}
	return errors.Wrap(enc.Close(), "failed to flush manifest")
}

func toManifest(ns *Namespace, kind Kind) manifestNode {
	node := manifestNode{Name: ns.Name, Kind: kind}
	if exports, ok := ns.Exports(); ok {
		node.Exports = &exports
	}
	for _, m := range ns.Members() {
		if m.Kind == KindNamespace {
			node.Members = append(node.Members, toManifest(m.Namespace, KindNamespace))
			continue
		}
		node.Members = append(node.Members, manifestNode{Name: m.Name, Kind: m.Kind})
	}
	return node
}
