package registry

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason describes why a lookup failed.
type Reason int

const (
	ReasonMissing Reason = iota
	ReasonNotNamespace
	ReasonNoExports
)

// LookupError reports a namespace, submodule or export list that does not
// exist on its expected parent.
type LookupError struct {
	Parent string
	Name   string
	Reason Reason
}

func (e *LookupError) Error() string {
	switch e.Reason {
	case ReasonNotNamespace:
		return fmt.Sprintf("%s.%s is not a namespace", e.Parent, e.Name)
	case ReasonNoExports:
		return fmt.Sprintf("%s has no export list", e.Parent)
	default:
		return fmt.Sprintf("cannot find %s.%s", e.Parent, e.Name)
	}
}

// IsLookup reports whether err wraps a *LookupError.
func IsLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
