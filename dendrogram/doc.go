// Package dendrogram projects merge trees onto plotting coordinates.
//
// Project produces geometry only: the leaf order, the x position of every
// displayed leaf (5 + 10p for display position p) and, per displayed merge,
// the four corner points of its link. Optional truncation collapses deep
// subtrees into single leaves that carry their observation count. Links are
// assigned colour groups relative to a threshold height.
//
// Rendering is left to the caller; a Layout marshals to JSON for external
// plotting tools.
package dendrogram
