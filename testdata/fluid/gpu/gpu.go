//go:build fluidgpu

// Package gpu holds kernels that are only built with the fluidgpu tag.
package gpu

// Kernel launches the default device kernel.
func Kernel() {}
