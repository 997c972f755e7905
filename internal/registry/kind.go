package registry

import "github.com/pkg/errors"

// Kind classifies a resolved member.
type Kind int

const (
	KindOther Kind = iota
	KindClass
	KindFunction
	KindNamespace
)

var kindNames = map[Kind]string{
	KindOther:     "other",
	KindClass:     "class",
	KindFunction:  "function",
	KindNamespace: "namespace",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown member kind %q", text)
}
