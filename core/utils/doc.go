// Package utils contains small value conversion helpers shared by the dataset
// loader and the reconciler.
package utils
