// Package gonumext holds small dense-matrix construction helpers
// shared across the retrieval packages.
package gonumext

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Full returns an m by n matrix filled with value.
func Full(m, n int, value float64) mat.Matrix {
	data := make([]float64, m*n)
	for index := range data {
		data[index] = value
	}
	return mat.NewDense(m, n, data)
}

// Ones returns an m by n matrix filled with ones.
func Ones(m, n int) mat.Matrix {
	return Full(m, n, 1)
}

// Eye returns the n by n identity matrix.
func Eye(n int) mat.Matrix {
	data := make([]float64, n)
	for entry := range data {
		data[entry] = 1
	}
	return mat.NewDiagDense(n, data)
}

// Diag returns a square diagonal matrix with the given diagonal
// values, the usual way covariances enter a retrieval.
func Diag(values []float64) mat.Matrix {
	data := make([]float64, len(values))
	copy(data, values)
	return mat.NewDiagDense(len(data), data)
}

// NaNOrInf reports whether any entry of matrix is NaN or infinite.
func NaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}
