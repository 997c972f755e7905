// Package layers provides network building blocks.
package layers

// DefaultScope is a variable and is not documented.
var DefaultScope = "global"

// Initializer sets initial parameter values.
type Initializer interface {
	Init(shape []int) []float32
}

// LayerHelper carries shared layer state.
type LayerHelper struct {
	Name string
}

// FC builds a fully connected layer.
func FC(input []float32, size int) []float32 {
	return make([]float32, size)
}

// Conv2D builds a 2-D convolution layer.
func Conv2D(input []float32, filters int) []float32 {
	return make([]float32, filters)
}

// Data declares an input variable.
func Data(name string, shape []int) []float32 {
	return nil
}

func newHelper(name string) *LayerHelper {
	return &LayerHelper{Name: name}
}
