package testutil

import "fmt"

// FixedKeys returns n deterministic keys of the form "<prefix>-0001".
//
// Pair with keygen.NewFixedGenerator so that stored keys, and every transcript
// that mentions them, are byte-identical across runs.
func FixedKeys(prefix string, n int) []string {
	if prefix == "" {
		prefix = "key"
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%04d", prefix, i+1)
	}
	return keys
}
