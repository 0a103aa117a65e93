package embedding

import "math"

// Persister is implemented by embedders whose query-time behaviour depends on
// state learned during Prepare. The indexer saves it next to the index and the
// query path restores it before embedding anything.
type Persister interface {
	SaveState(path string) error
	LoadState(path string) error
}

// NormalizeL2 scales v to unit length in place. Zero vectors are left alone.
func NormalizeL2(v []float64) {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// IsZero reports whether every component of v is zero.
func IsZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
