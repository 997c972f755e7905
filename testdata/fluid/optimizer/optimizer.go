// Package optimizer holds update rules.
package optimizer

// SGD is plain stochastic gradient descent.
type SGD struct {
	LearningRate float64
}

// Adam is the Adam optimizer.
type Adam struct {
	Beta1, Beta2 float64
}

// AdamOptimizer is kept for compatibility.
type AdamOptimizer = Adam
