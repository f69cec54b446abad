// Package fcluster cuts merge trees into flat clusters.
//
// A cut at height h performs every merge whose subtree max-height is at most
// h. MaxClust picks the lowest cut that leaves no more than k clusters, so
// merges of equal height are never split: when such a tie straddles k the
// result has fewer than k clusters.
//
// Labels run from 1 to K and are ordered by the smallest observation index of
// each cluster.
package fcluster
