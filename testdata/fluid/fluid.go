// Package fluid is a small library used to exercise go-apidoc discovery.
package fluid

// Version is exported but is neither a class nor a function.
const Version = "1.0.0"

// Program holds a sequence of operators.
type Program struct {
	ops []string
}

// DefaultMainProgram returns the process-wide main program.
func DefaultMainProgram() *Program {
	return defaultProgram
}

// Clone is a method and is never listed on its own.
func (p *Program) Clone() *Program {
	return &Program{ops: append([]string(nil), p.ops...)}
}

var defaultProgram = &Program{}
