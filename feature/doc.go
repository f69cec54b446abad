// Package feature holds the immutable record matrix consumed by the
// dissimilarity engine.
//
// A Matrix is N records by M columns of float64 values in row-major order.
// Every column carries a Kind. Quantitative columns are expected to be
// normalized already; categorical columns are one-hot indicator columns.
//
//	m, err := feature.New(rows, []bool{false, false, true, true})
//
// The boolean mask marks categorical columns, mirroring the convention used
// by common Gower implementations. NaN marks a missing cell and is only
// accepted when the matrix is built with AllowMissing.
package feature
