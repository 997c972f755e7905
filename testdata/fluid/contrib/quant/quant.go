// Package quant converts programs to low precision.
package quant

// Quantize rewrites weights to int8.
func Quantize(weights []float32) []int8 {
	out := make([]int8, len(weights))
	for i, w := range weights {
		out[i] = int8(w)
	}
	return out
}
