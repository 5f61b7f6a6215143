// Package textutil provides text processing utilities for channel and logo name
// matching plus filename sanitization.
//
// The primary use cases are:
//   - Normalizing channel names and logo file stems into comparable keys
//   - Token overlap (Jaccard) and edit distance (Levenshtein) between keys
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Normalization folds accents, lowercases, spells out "&" and "+", collapses
// punctuation to single spaces, and strips trailing broadcast qualifiers such as
// "HD" or "US".
package textutil
