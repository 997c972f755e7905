// Package impl is private to fluid.
package impl

// Secret must never be documented.
func Secret() {}
