// Package hash provides content fingerprints for memoizing derived artifacts.
//
// # Fingerprints
//
// Feature matrices are identified by an xxhash64 digest over their shape,
// column tags and raw IEEE-754 bits:
//
//	fp := hash.Fingerprint(rows, cols, tags, data)
//
// Two matrices with equal fingerprints are treated as the same snapshot by
// the artifact cache. Use Combine to derive keys that also depend on a
// parameter such as the linkage method:
//
//	key := hash.Combine(fp, uint64(method))
package hash
